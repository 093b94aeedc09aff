package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	ddns "github.com/AhmedDS10/CF-DNS"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cfddns",
		Short: "Keep a Cloudflare DNS record pointed at this host's public IP",
		Long: `cfddns monitors this host's public IPv4 address and updates a
Cloudflare DNS record whenever the address changes.

Configuration comes from the environment (or a .env file):
  CF_API_TOKEN       Cloudflare API token with Edit DNS permission
  CF_ZONE_ID         Zone ID from the Cloudflare dashboard
  CF_RECORD_NAME     DNS record to keep updated, e.g. home.example.com
  CHECK_INTERVAL     seconds between checks, or a duration like 5m (default 300)
  IP_ECHO_ENDPOINTS  comma-separated IP echo URLs (optional)

Quick start:
  cfddns setup       # store your API token
  cfddns check       # run a single check
  cfddns start       # start the background service`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("record", "", "DNS record to keep updated (overrides CF_RECORD_NAME)")
	cmd.PersistentFlags().Duration("interval", 0, "Duration to wait between IP checks (overrides CHECK_INTERVAL)")
	cmd.PersistentFlags().String("cache-file", "", "Path to the cached IP file")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(checkCommand())
	cmd.AddCommand(runCommand())
	cmd.AddCommand(startCommand())
	cmd.AddCommand(stopCommand())
	cmd.AddCommand(restartCommand())
	cmd.AddCommand(statusCommand())
	cmd.AddCommand(setupCommand())

	return cmd
}

// configFromCommand loads the environment configuration and layers any
// flags the user set on top, then validates the result.
func configFromCommand(cmd *cobra.Command) (config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("record") {
		cfg.RecordName, _ = cmd.Flags().GetString("record")
	}
	if cmd.Flags().Changed("interval") {
		cfg.Interval, _ = cmd.Flags().GetDuration("interval")
	}
	if cmd.Flags().Changed("cache-file") {
		cfg.CacheFile, _ = cmd.Flags().GetString("cache-file")
	}
	cfg.Verbose, _ = cmd.Flags().GetBool("verbose")

	if err := cfg.resolveToken(); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

// forwardedFlags rebuilds the flag overrides the user set on cmd so they
// can be passed along to the re-exec'd "run" child, which builds its own
// config and would otherwise see only the environment and defaults.
func forwardedFlags(cmd *cobra.Command) []string {
	var args []string
	if cmd.Flags().Changed("record") {
		v, _ := cmd.Flags().GetString("record")
		args = append(args, "--record", v)
	}
	if cmd.Flags().Changed("interval") {
		v, _ := cmd.Flags().GetDuration("interval")
		args = append(args, "--interval", v.String())
	}
	if cmd.Flags().Changed("cache-file") {
		v, _ := cmd.Flags().GetString("cache-file")
		args = append(args, "--cache-file", v)
	}
	if cmd.Flags().Changed("verbose") {
		args = append(args, "--verbose")
	}
	return args
}

func newLogger(cfg config, teeToFile bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	if teeToFile {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			logger.Warnf("unable to open log file %s: %s", cfg.LogFile, err)
		} else {
			logger.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}
	return logger
}

func buildClient(cfg config, logger ddns.Logger, overrideIP string) (ddns.DDNSClient, error) {
	resolver, err := ddns.WebResolver(cfg.Endpoints...)
	if err != nil {
		return nil, fmt.Errorf("error building resolver: %w", err)
	}
	if overrideIP != "" {
		if resolver, err = ddns.FromString(overrideIP); err != nil {
			return nil, err
		}
	}
	return ddns.New(cfg.RecordName,
		ddns.UsingCloudflare(cfg.APIToken, cfg.ZoneID),
		ddns.UsingResolver(resolver),
		ddns.WithCacheFile(cfg.CacheFile),
		ddns.WithLogger(logger),
	)
}

func checkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run a one-time IP check and update (no daemon)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromCommand(cmd)
			if err != nil {
				return err
			}
			ip, _ := cmd.Flags().GetString("ip")
			logger := newLogger(cfg, false)
			client, err := buildClient(cfg, logger, ip)
			if err != nil {
				return err
			}
			return client.RunDDNS(cmd.Context())
		},
	}
	cmd.Flags().String("ip", "", "Skip resolution and use this address")
	return cmd
}

func runCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "run",
		Short:  "Run the monitor loop in the foreground",
		Hidden: true, // invoked by "start"; useful directly under systemd or in a container
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromCommand(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg, true)
			client, err := buildClient(cfg, logger, "")
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Infof("monitoring %s every %s", cfg.RecordName, cfg.Interval)
			ddns.RunDaemon(client, ctx, cfg.Interval, logger)
			<-ctx.Done()
			logger.Info("shutting down")
			return nil
		},
	}
}

func startCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the service in the background",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromCommand(cmd)
			if err != nil {
				return err
			}
			return startDaemon(cfg, forwardedFlags(cmd), cmd.OutOrStdout())
		},
	}
}

func stopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return stopDaemon(cfg, cmd.OutOrStdout())
		},
	}
}

func restartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Restart the service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromCommand(cmd)
			if err != nil {
				return err
			}
			if err := stopDaemon(cfg, cmd.OutOrStdout()); err != nil && !errors.Is(err, errNotRunning) {
				return err
			}
			// Give the old process a moment to release its resources.
			time.Sleep(2 * time.Second)
			return startDaemon(cfg, forwardedFlags(cmd), cmd.OutOrStdout())
		},
	}
}

func statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check if the service is running",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return statusDaemon(cfg, cmd.OutOrStdout())
		},
	}
}
