// cmd/root.go
package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/ColonelBlimp/dtmfdecoder/internal/audio"
	"github.com/ColonelBlimp/dtmfdecoder/internal/config"
	"github.com/ColonelBlimp/dtmfdecoder/internal/dsp"
	"github.com/ColonelBlimp/dtmfdecoder/internal/dtmf"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "dtmfdecoder",
	Short: "DTMF (touch tone) detector for PCM audio",
	Long: `Detects DTMF keypad tones in raw PCM audio and reports, per channel,
when each key starts and stops sounding. Reads a raw PCM file (or stdin)
with --input, otherwise captures live audio from the default device.`,
	RunE: runDecode,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags (override config file)
	rootCmd.PersistentFlags().IntP("device", "d", -1, "audio device index (-1 for default)")
	rootCmd.PersistentFlags().IntP("rate", "r", 8000, "sample rate in Hz")
	rootCmd.PersistentFlags().IntP("channels", "c", 1, "number of interleaved channels")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "enable debug output")
	rootCmd.Flags().StringP("input", "i", "", "raw PCM input file (- for stdin), empty for live capture")

	// Bind flags to viper
	viper.BindPFlag("device_index", rootCmd.PersistentFlags().Lookup("device"))
	viper.BindPFlag("sample_rate", rootCmd.PersistentFlags().Lookup("rate"))
	viper.BindPFlag("channels", rootCmd.PersistentFlags().Lookup("channels"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
}

func runDecode(cmd *cobra.Command, args []string) error {
	settings, err := config.Get()
	if err != nil {
		return err
	}

	input, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}

	var source dsp.SampleSource
	if input != "" {
		var r *os.File
		if input == "-" {
			r = os.Stdin
		} else {
			r, err = os.Open(input)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer r.Close()
		}
		source, err = audio.NewPCMSource(r, audio.Format(settings.Format), settings.Channels, settings.SampleRate)
		if err != nil {
			return err
		}
	} else {
		capture := audio.New(audio.Config{
			DeviceIndex: settings.DeviceIndex,
			SampleRate:  uint32(settings.SampleRate),
			Channels:    uint32(settings.Channels),
			BufferSize:  uint32(settings.BufferSize),
		})
		if err := capture.Init(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		if err := capture.Start(ctx); err != nil {
			_ = capture.Close()
			return err
		}
		// Closing the capture on interrupt closes its sample channel, which
		// the analyzer observes as end-of-stream and flushes active tones.
		go func() {
			<-ctx.Done()
			_ = capture.Close()
		}()

		source = audio.NewCaptureSource(capture)
	}

	detectorConfig := dsp.DetectorConfig{
		SampleRate:        settings.SampleRate,
		BlockSize:         settings.BlockSize,
		Threshold:         settings.Threshold,
		NormalizeResponse: settings.NormalizeResponse,
	}
	analyzer, err := dsp.NewAnalyzer(source, detectorConfig)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	pairer := dtmf.NewPairer()
	for analyzer.MoreSamplesAvailable() {
		changes := analyzer.AnalyzeNextBlock()
		if settings.Debug {
			for _, c := range changes {
				fmt.Fprintln(out, c)
			}
		}
		for _, tone := range pairer.Feed(changes) {
			fmt.Fprintln(out, tone)
		}
	}

	return nil
}
