package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mikaelmello/uping/config"
	"github.com/mikaelmello/uping/core"
)

// errNoReply makes the process exit with a failure when a host never answered
var errNoReply = errors.New("no reply received")

var (
	count          int
	timeout        time.Duration
	interval       time.Duration
	size           int
	ttl            int
	quiet          bool
	verifyChecksum bool
	noColor        bool
	summary        bool
	verbose        int

	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "uping [flags] <host> [host...]",
	Short: "uping sends ICMP echo requests to network hosts",
	Long: `uping sends a short burst of ICMP echo requests to each host and reports
the replies received within the timeout, in the style of the ping utility.

Opening raw ICMP sockets requires elevated privileges.

Examples:
  uping example.com                  3 requests, 500ms budget
  uping -c 10 -W 5s -i 200ms host    10 requests every 200ms within 5s
  uping --summary host1 host2        one table for every host`,
	Args:              cobra.MinimumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runPing,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: "+config.GetConfigPath()+")")

	rootCmd.Flags().IntVarP(&count, "count", "c", 0, "Number of echo requests to send")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "W", 0, "Time budget for the whole run")
	rootCmd.Flags().DurationVarP(&interval, "interval", "i", 0, "Time between two requests")
	rootCmd.Flags().IntVarP(&size, "size", "s", 0, "Total size of each request, header included")
	rootCmd.Flags().IntVarP(&ttl, "ttl", "t", 0, "IP time to live")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print nothing but the summary table")
	rootCmd.Flags().BoolVar(&verifyChecksum, "verify-checksum", false, "Drop replies with a bad ICMP checksum")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().BoolVar(&summary, "summary", false, "Print a table with the results of every host")
	rootCmd.Flags().CountVarP(&verbose, "verbose", "v", "Log what is happening, repeat for more detail")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads the config file, falling back to defaults when there is none
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error

	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	return nil
}

// buildSettings merges the config defaults with the flags explicitly set
func buildSettings(cmd *cobra.Command, cfg *config.Config) *core.Settings {
	settings := cfg.Settings()
	flags := cmd.Flags()

	if flags.Changed("count") {
		settings.Count = count
	}
	if flags.Changed("timeout") {
		settings.Timeout = timeout
	}
	if flags.Changed("interval") {
		settings.Interval = interval
	}
	if flags.Changed("size") {
		settings.Size = size
	}
	if flags.Changed("ttl") {
		settings.TTL = ttl
	}
	if flags.Changed("quiet") {
		settings.Quiet = quiet
	}
	if flags.Changed("verify-checksum") {
		settings.VerifyChecksum = verifyChecksum
	}

	colorOff := cfg.Defaults.NoColor
	if flags.Changed("no-color") {
		colorOff = noColor
	}
	settings.Color = !colorOff && isTerminal(os.Stdout)
	settings.Output = cmd.OutOrStdout()

	switch {
	case verbose >= 3:
		settings.LoggingLevel = uint32(log.TraceLevel)
	case verbose == 2:
		settings.LoggingLevel = uint32(log.DebugLevel)
	case verbose == 1:
		settings.LoggingLevel = uint32(log.InfoLevel)
	}

	return settings
}

func runPing(cmd *cobra.Command, args []string) error {
	settings := buildSettings(cmd, cfg)

	showSummary := cfg.Defaults.Summary
	if cmd.Flags().Changed("summary") {
		showSummary = summary
	}

	hosts := make([]string, 0, len(args))
	for _, arg := range args {
		hosts = append(hosts, cfg.Resolve(arg))
	}

	r := newRunner(hosts, settings)
	r.Start(cmd.Context())

	results, err := r.Wait()
	if err != nil {
		return err
	}

	if showSummary {
		printSummary(cmd.OutOrStdout(), results, settings.Color)
	}

	for _, res := range results {
		if res.Received == 0 {
			return fmt.Errorf("%s: %w", res.Host, errNoReply)
		}
	}

	return nil
}
