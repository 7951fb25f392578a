// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	AppName       = "dtmfdecoder"
	ConfigType    = "yaml"
	DefaultConfig = `# DTMF Decoder Configuration

# Audio input settings
device_index: -1        # -1 for default capture device
sample_rate: 8000       # Audio sample rate in Hz (8000 is the telephony standard)
channels: 1             # Number of interleaved channels
format: "S16_LE"        # Raw PCM format for file/stdin input (S16_LE or F32_LE)
buffer_size: 205        # Capture frames per callback

# Tone detection
block_size: 205         # Samples per channel per detection window
                        # 205 samples at 8 kHz puts every DTMF frequency near an exact bin
threshold: 0.1          # Minimum response magnitude for a tone to count as present
normalize_response: true # Scale responses to be block-size independent

# Output
debug: false            # Enable debug output
`
)

// Settings holds all application configuration
type Settings struct {
	// Audio input settings
	DeviceIndex int    `mapstructure:"device_index"`
	SampleRate  int    `mapstructure:"sample_rate"`
	Channels    int    `mapstructure:"channels"`
	Format      string `mapstructure:"format"`
	BufferSize  int    `mapstructure:"buffer_size"`

	// Tone detection
	BlockSize         int     `mapstructure:"block_size"`
	Threshold         float64 `mapstructure:"threshold"`
	NormalizeResponse bool    `mapstructure:"normalize_response"`

	// Output
	Debug bool `mapstructure:"debug"`
}

// Init initializes Viper with defaults and config file.
// Config file search order: current directory, then ~/.config/dtmfdecoder/
func Init() error {
	// Set defaults
	viper.SetDefault("device_index", -1)
	viper.SetDefault("sample_rate", 8000)
	viper.SetDefault("channels", 1)
	viper.SetDefault("format", "S16_LE")
	viper.SetDefault("buffer_size", 205)
	viper.SetDefault("block_size", 205)
	viper.SetDefault("threshold", 0.1)
	viper.SetDefault("normalize_response", true)
	viper.SetDefault("debug", false)

	viper.SetConfigType(ConfigType)

	// Priority order: current directory first, then XDG config
	viper.AddConfigPath(".")

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	viper.AddConfigPath(filepath.Join(configDir, AppName))

	// Try .config.yaml first (hidden file), then config.yaml
	viper.SetConfigName(".config")
	if err = viper.ReadInConfig(); err != nil {
		viper.SetConfigName("config")
		err = viper.ReadInConfig()
	}

	// Read config file - if not found, create default in XDG config dir
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			xdgConfigPath := filepath.Join(configDir, AppName)
			if err = ensureConfigExists(xdgConfigPath); err != nil {
				return err
			}
			if err = viper.ReadInConfig(); err != nil {
				return fmt.Errorf("read config: %w", err)
			}
		} else {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return nil
}

func ensureConfigExists(configPath string) error {
	configFile := filepath.Join(configPath, "config.yaml")

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err = os.MkdirAll(configPath, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
		if err = os.WriteFile(configFile, []byte(DefaultConfig), 0644); err != nil {
			return fmt.Errorf("write default config: %w", err)
		}
	}
	return nil
}

// Get returns the current settings
func Get() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &s, nil
}

// Validate checks that all settings are within acceptable ranges
func (s *Settings) Validate() error {
	var errs []error

	if s.SampleRate < 8000 || s.SampleRate > 192000 {
		errs = append(errs, fmt.Errorf("sample_rate must be between 8000 and 192000 Hz, got %d", s.SampleRate))
	}
	if s.Channels < 1 || s.Channels > 8 {
		errs = append(errs, fmt.Errorf("channels must be between 1 and 8, got %d", s.Channels))
	}
	if s.BufferSize < 64 || s.BufferSize > 8192 {
		errs = append(errs, fmt.Errorf("buffer_size must be between 64 and 8192, got %d", s.BufferSize))
	}

	if s.BlockSize < 32 || s.BlockSize > 4096 {
		errs = append(errs, fmt.Errorf("block_size must be between 32 and 4096, got %d", s.BlockSize))
	}
	if s.Threshold <= 0 {
		errs = append(errs, fmt.Errorf("threshold must be positive, got %v", s.Threshold))
	}

	validFormats := map[string]bool{
		"S16_LE": true,
		"F32_LE": true,
	}
	if !validFormats[s.Format] {
		errs = append(errs, fmt.Errorf("format must be one of S16_LE, F32_LE, got %q", s.Format))
	}

	// Nyquist check: the highest DTMF column tone (1633 Hz) must be below
	// half the sample rate
	if s.SampleRate < 2*1633 {
		errs = append(errs, fmt.Errorf("sample_rate (%d Hz) too low to resolve the 1633 Hz column tone", s.SampleRate))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
