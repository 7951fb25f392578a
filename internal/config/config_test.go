// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func resetViper() {
	viper.Reset()
}

func validSettings() Settings {
	return Settings{
		DeviceIndex:       -1,
		SampleRate:        8000,
		Channels:          1,
		Format:            "S16_LE",
		BufferSize:        205,
		BlockSize:         205,
		Threshold:         0.1,
		NormalizeResponse: true,
	}
}

func TestInit_WithDefaults(t *testing.T) {
	resetViper()

	// Use a temp directory to avoid polluting real config
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))

	// Create the config file so Init doesn't try to create one
	configDir := filepath.Join(tmpDir, ".config", AppName)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(DefaultConfig), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	tests := []struct {
		key      string
		expected interface{}
	}{
		{"device_index", -1},
		{"sample_rate", 8000},
		{"channels", 1},
		{"format", "S16_LE"},
		{"buffer_size", 205},
		{"block_size", 205},
		{"threshold", 0.1},
		{"normalize_response", true},
		{"debug", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := viper.Get(tt.key)
			switch want := tt.expected.(type) {
			case int:
				if viper.GetInt(tt.key) != want {
					t.Errorf("viper.GetInt(%q) = %v, want %v", tt.key, got, want)
				}
			case float64:
				if viper.GetFloat64(tt.key) != want {
					t.Errorf("viper.GetFloat64(%q) = %v, want %v", tt.key, got, want)
				}
			case bool:
				if viper.GetBool(tt.key) != want {
					t.Errorf("viper.GetBool(%q) = %v, want %v", tt.key, got, want)
				}
			case string:
				if viper.GetString(tt.key) != want {
					t.Errorf("viper.GetString(%q) = %v, want %v", tt.key, got, want)
				}
			}
		})
	}
}

func TestInit_CreatesDefaultConfig(t *testing.T) {
	resetViper()

	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))

	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	configFile := filepath.Join(tmpDir, ".config", AppName, "config.yaml")
	if _, err := os.Stat(configFile); err != nil {
		t.Errorf("default config was not created: %v", err)
	}
}

func TestGet_ValidSettings(t *testing.T) {
	resetViper()

	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))

	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	s, err := Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if s.SampleRate != 8000 {
		t.Errorf("SampleRate = %d, want 8000", s.SampleRate)
	}
	if s.BlockSize != 205 {
		t.Errorf("BlockSize = %d, want 205", s.BlockSize)
	}
	if !s.NormalizeResponse {
		t.Error("NormalizeResponse = false, want true")
	}
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"valid defaults", func(*Settings) {}, false},
		{"valid stereo 16k", func(s *Settings) { s.Channels = 2; s.SampleRate = 16000; s.BlockSize = 410 }, false},
		{"valid float format", func(s *Settings) { s.Format = "F32_LE" }, false},
		{"sample rate too low", func(s *Settings) { s.SampleRate = 4000 }, true},
		{"sample rate too high", func(s *Settings) { s.SampleRate = 200000 }, true},
		{"zero channels", func(s *Settings) { s.Channels = 0 }, true},
		{"too many channels", func(s *Settings) { s.Channels = 9 }, true},
		{"buffer size too small", func(s *Settings) { s.BufferSize = 32 }, true},
		{"buffer size too large", func(s *Settings) { s.BufferSize = 16384 }, true},
		{"block size too small", func(s *Settings) { s.BlockSize = 16 }, true},
		{"block size too large", func(s *Settings) { s.BlockSize = 8192 }, true},
		{"zero threshold", func(s *Settings) { s.Threshold = 0 }, true},
		{"negative threshold", func(s *Settings) { s.Threshold = -0.5 }, true},
		{"unknown format", func(s *Settings) { s.Format = "S24_LE" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}
