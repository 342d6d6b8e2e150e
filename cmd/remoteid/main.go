package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"goremoteid/internal/app"
	"goremoteid/internal/plan"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var showVersion bool

	rootCmd := &cobra.Command{
		Use:   "remoteid",
		Short: "Remote ID (ASTM F3411) Bluetooth broadcast codec",
		Long: `Encoder and decoder for Remote ID Bluetooth broadcast messages.

Frames are the service data of UUID 0xFFFA advertisements: app code 0x0D,
a message counter and one 25-byte message or a message pack.

Example usage:
  remoteid encode --plan plan.yaml --count 10
  remoteid decode 0d00021231...
  scanner | remoteid receive --records-dir ./logs`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				app.ShowVersion(cmd.OutOrStdout())
				return nil
			}
			return cmd.Help()
		},
	}
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")

	rootCmd.AddCommand(newEncodeCmd(), newDecodeCmd(), newReceiveCmd())
	return rootCmd
}

func newEncodeCmd() *cobra.Command {
	var (
		planPath     string
		count        int
		startCounter uint8
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a transmit plan into hex frames, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plan.Load(planPath)
			if err != nil {
				return err
			}

			msgs, err := p.Messages()
			if err != nil {
				return fmt.Errorf("failed to build plan %q: %w", p.Name, err)
			}

			frames, err := app.EncodePlan(msgs, count, startCounter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range frames {
				fmt.Fprintln(out, f)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&planPath, "plan", "p", "", "Transmit plan YAML file")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of frames (0 encodes each plan message once)")
	cmd.Flags().Uint8Var(&startCounter, "start-counter", 0, "Counter of the first frame")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <hex>...",
		Short: "Decode hex frames and print them as YAML",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, arg := range args {
				doc, err := app.DescribeFrame(arg)
				if err != nil {
					return fmt.Errorf("frame %d: %w", i+1, err)
				}
				if i > 0 {
					fmt.Fprintln(out, "---")
				}
				fmt.Fprint(out, doc)
			}
			return nil
		},
	}
}

func newReceiveCmd() *cobra.Command {
	var (
		configPath string
		config     = app.DefaultConfig()
	)

	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Decode a stream of \"[source] hex\" lines",
		Long: `Reads service data frames, one per line, as produced by a BLE scanner,
decodes them and writes record lines to stdout and daily rotated files.
Metrics are served on /metrics when enabled and decoded messages are
published to Redis when an address is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveConfig(cmd, configPath, config)
			if err != nil {
				return err
			}

			logger, err := app.NewLogger(resolved.Log, resolved.Verbose)
			if err != nil {
				return err
			}

			return app.NewApplication(resolved, logger).Start()
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	flags.StringVarP(&config.Input, "input", "i", config.Input, "Input file, - for stdin")
	flags.StringVarP(&config.Records.Dir, "records-dir", "l", config.Records.Dir, "Record file directory, empty to disable")
	flags.BoolVarP(&config.Records.UTC, "utc", "u", config.Records.UTC, "Use UTC for record file rotation")
	flags.BoolVar(&config.Records.Stdout, "stdout", config.Records.Stdout, "Echo records to stdout")
	flags.IntVar(&config.Records.MaxDays, "max-days", config.Records.MaxDays, "Remove record files older than this many days (0 keeps all)")
	flags.BoolVar(&config.Monitor.Enabled, "metrics", config.Monitor.Enabled, "Serve Prometheus metrics")
	flags.IntVar(&config.Monitor.MetricsPort, "metrics-port", config.Monitor.MetricsPort, "Metrics HTTP port")
	flags.StringVar(&config.Redis.Addr, "redis-addr", config.Redis.Addr, "Redis address, empty to disable publishing")
	flags.StringVar(&config.Redis.Channel, "redis-channel", config.Redis.Channel, "Redis pub/sub channel")
	flags.DurationVar(&config.StatsInterval, "stats-interval", config.StatsInterval, "Statistics log interval")
	flags.StringVar(&config.Log.Level, "log-level", config.Log.Level, "Log level")
	flags.BoolVarP(&config.Verbose, "verbose", "v", config.Verbose, "Verbose logging")

	return cmd
}

// resolveConfig loads the config file, if any, and applies the flags the
// user set on top of it.
func resolveConfig(cmd *cobra.Command, path string, flagged app.Config) (app.Config, error) {
	config := flagged
	if path != "" {
		var err error
		config, err = app.LoadConfig(path)
		if err != nil {
			return config, err
		}

		flags := cmd.Flags()
		overrides := map[string]func(){
			"input":          func() { config.Input = flagged.Input },
			"records-dir":    func() { config.Records.Dir = flagged.Records.Dir },
			"utc":            func() { config.Records.UTC = flagged.Records.UTC },
			"stdout":         func() { config.Records.Stdout = flagged.Records.Stdout },
			"max-days":       func() { config.Records.MaxDays = flagged.Records.MaxDays },
			"metrics":        func() { config.Monitor.Enabled = flagged.Monitor.Enabled },
			"metrics-port":   func() { config.Monitor.MetricsPort = flagged.Monitor.MetricsPort },
			"redis-addr":     func() { config.Redis.Addr = flagged.Redis.Addr },
			"redis-channel":  func() { config.Redis.Channel = flagged.Redis.Channel },
			"stats-interval": func() { config.StatsInterval = flagged.StatsInterval },
			"log-level":      func() { config.Log.Level = flagged.Log.Level },
			"verbose":        func() { config.Verbose = flagged.Verbose },
		}
		for name, apply := range overrides {
			if flags.Changed(name) {
				apply()
			}
		}
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}
