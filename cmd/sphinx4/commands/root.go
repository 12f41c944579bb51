package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/presentformyfriends/sphinx4/cmd/sphinx4/internal/config"
	"github.com/presentformyfriends/sphinx4/pkg/audio/portaudio"
	"github.com/presentformyfriends/sphinx4/pkg/cli"
	"github.com/presentformyfriends/sphinx4/pkg/store"
)

var (
	// Global flags
	cfgFile    string
	deviceName string
	outputJSON bool
	verbose    bool

	// Global state initialized by initConfig
	globalConfig config.Config
	logger       *slog.Logger
	styles       = cli.NewStyles(cli.DefaultTheme)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sphinx4",
	Short: "Microphone capture CLI",
	Long: `sphinx4 - capture audio from a microphone into a local archive.

Recordings are captured frame by frame from a PortAudio input device and
stored in a local database. From there they can be listed, exported as WAV
files (locally or to S3), or streamed live over WebSocket.

Examples:
  # See which input devices are available
  sphinx4 devices

  # Record 10 seconds from the default input
  sphinx4 record --duration 10s

  # Export a recording as WAV
  sphinx4 recordings export <id> -o out.wav

  # Serve live audio on ws://localhost:8333/feed
  sphinx4 stream --addr :8333
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.sphinx4/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&deviceName, "device", "d", "", "input device name (default: from config, else system default)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(recordingsCmd)
	rootCmd.AddCommand(streamCmd)
}

func initConfig() {
	var err error
	globalConfig, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// inputDevice resolves the capture device from the --device flag or config.
func inputDevice() *portaudio.Device {
	name := deviceName
	if name == "" {
		name = globalConfig.Device
	}
	return portaudio.NewDevice(name)
}

// openStore opens the recording archive configured in data_dir.
func openStore() (*store.Store, error) {
	s, err := store.Open(store.Options{Dir: globalConfig.DataDir, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("open recording archive at %s: %w", globalConfig.DataDir, err)
	}
	return s, nil
}

// outputFormat maps the --json flag to a cli output format.
func outputFormat() cli.OutputFormat {
	if outputJSON {
		return cli.FormatJSON
	}
	return cli.FormatYAML
}
