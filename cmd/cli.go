// SPDX-License-Identifier: MIT
// Package cmd parses command line arguments into run options.
package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"voicegrade/internal/config"
	"voicegrade/pkg/build"
)

// Options holds the parsed command and its flags. Values overriding
// the config file are applied in main after the file is loaded.
type Options struct {
	Command    string // "record", "analyze" or "list"
	ConfigPath string
	Verbose    bool

	// record
	Duration   time.Duration // 0 records until interrupt
	ExportPath string        // JSON export destination, "-" for stdout
	SavePath   string        // WAV destination for the raw clip
	DeviceID   int
	SampleRate float64
	WSAddr     string
	UDPTarget  string
	NoEcho     bool
	NoNoise    bool
	NoAGC      bool

	// Explicit-flag markers, so a flag repeating a default value
	// still overrides the config file.
	DeviceIDSet   bool
	SampleRateSet bool

	// analyze
	InputFile string
	Format    string // encoding hint, defaults to the file extension
}

// ParseArgs builds the CLI and parses os.Args.
func ParseArgs() (*Options, error) {
	info := build.Info()
	options := &Options{DeviceID: config.DefaultDeviceID, SampleRate: config.DefaultSampleRate}

	rootCmd := &cobra.Command{
		Use:           info.Name,
		Short:         "Capture or ingest a short vocal clip and grade its quality",
		Version:       info.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.PersistentFlags().StringVar(&options.ConfigPath, "config", "",
		"Path to config.yaml (optional)")
	rootCmd.PersistentFlags().BoolVarP(&options.Verbose, "verbose", "v", false,
		"Show verbose output")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Capture a clip from the input device and grade it",
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Command = "record"
			return nil
		},
	}
	recordCmd.Flags().DurationVarP(&options.Duration, "duration", "t", 0,
		"Capture duration (0 records until interrupted)")
	recordCmd.Flags().StringVarP(&options.ExportPath, "export", "e", "",
		"Write the score and analysis as JSON to this path ('-' for stdout)")
	recordCmd.Flags().StringVarP(&options.SavePath, "save", "o", "",
		"Save the captured clip as WAV to this path")
	recordCmd.Flags().IntVarP(&options.DeviceID, "device", "d", config.DefaultDeviceID,
		"Input device ID, see the 'list' command (-1 for default)")
	recordCmd.Flags().Float64VarP(&options.SampleRate, "sample-rate", "s", config.DefaultSampleRate,
		"Sample rate in Hertz (Hz)")
	recordCmd.Flags().StringVar(&options.WSAddr, "ws-addr", "",
		"Serve visualization frames over websocket on this address (e.g. :8080)")
	recordCmd.Flags().StringVar(&options.UDPTarget, "udp-target", "",
		"Publish visualization frames as UDP packets to this address")
	recordCmd.Flags().BoolVar(&options.NoEcho, "no-echo-cancellation", false,
		"Disable the device echo cancellation hint")
	recordCmd.Flags().BoolVar(&options.NoNoise, "no-noise-suppression", false,
		"Disable the device noise suppression hint")
	recordCmd.Flags().BoolVar(&options.NoAGC, "no-auto-gain", false,
		"Disable the device auto gain control hint")
	rootCmd.AddCommand(recordCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Grade an existing WAV or AIFF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Command = "analyze"
			options.InputFile = args[0]
			return nil
		},
	}
	analyzeCmd.Flags().StringVarP(&options.Format, "format", "f", "",
		"Encoding format of the input (defaults to the file extension)")
	analyzeCmd.Flags().StringVarP(&options.ExportPath, "export", "e", "",
		"Write the score and analysis as JSON to this path ('-' for stdout)")
	rootCmd.AddCommand(analyzeCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available capture devices",
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "list"
		},
	}
	rootCmd.AddCommand(listCmd)

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}
	options.DeviceIDSet = recordCmd.Flags().Changed("device")
	options.SampleRateSet = recordCmd.Flags().Changed("sample-rate")
	return options, nil
}
