package cmd

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/emi-kkobayashi/gstd-1.x/config"
	"github.com/emi-kkobayashi/gstd-1.x/internal/daemon"
)

type DaemonOptions struct {
	Address        string
	Network        string
	MetricsAddress string
	LogLevel       string
	LogFormat      string
}

// NewDaemonCommand runs the reference pipeline daemon in the foreground.
func NewDaemonCommand() *cobra.Command {
	opts := &DaemonOptions{}

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the reference pipeline daemon",
		Long: `Run the in-memory reference daemon in the foreground. It implements the full
control protocol (pipelines, events, bus, element properties, debug settings)
without a media engine, which makes it suitable for development and testing.`,
		Example: `  gstc daemon
  gstc daemon --address 0.0.0.0:5000 --metrics-address 127.0.0.1:9464
  gstc daemon --network unix --address /run/gstd.sock`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Address, "address", config.GetAddress(), "listen address (host:port or socket path)")
	flags.StringVar(&opts.Network, "network", config.GetNetwork(), "listen transport (tcp or unix)")
	flags.StringVar(&opts.MetricsAddress, "metrics-address", config.GetMetricsAddress(), "Prometheus listen address (disabled when empty)")
	flags.StringVar(&opts.LogLevel, "loglevel", "info", "daemon log level (debug, info, warn, error)")
	flags.StringVar(&opts.LogFormat, "log-format", "text", "daemon log format (text or json)")
	return cmd
}

func runDaemon(opts *DaemonOptions) error {
	log := logrus.New()
	level, err := logrus.ParseLevel(strings.ToLower(opts.LogLevel))
	if err != nil {
		return err
	}
	log.SetLevel(level)
	if opts.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	srv := daemon.New(daemon.Config{
		Network:        opts.Network,
		Address:        opts.Address,
		MetricsAddress: opts.MetricsAddress,
		Logger:         log,
	})
	if err := srv.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
