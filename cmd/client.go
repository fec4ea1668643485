package cmd

import (
	"context"
	"fmt"

	"github.com/emi-kkobayashi/gstd-1.x/config"
	"github.com/emi-kkobayashi/gstd-1.x/internal/client"
	"github.com/emi-kkobayashi/gstd-1.x/internal/profile"
)

// newClient builds a control client from, in increasing precedence, the
// config defaults, the active profile and the persistent CLI flags.
func newClient() (*client.Client, error) {
	address := config.GetAddress()
	network := config.GetNetwork()
	loglevel := config.GetLogLevel()

	pm := profile.NewManager()
	if err := pm.Load(); err != nil {
		return nil, err
	}
	if _, p, err := pm.Current(); err == nil {
		address = p.Address
		if p.Network != "" {
			network = p.Network
		}
		if p.LogLevel != "" {
			loglevel = p.LogLevel
		}
	}

	if flagAddress != "" {
		address = flagAddress
	}
	if flagNetwork != "" {
		network = flagNetwork
	}
	if flagLogLevel != "" {
		loglevel = flagLogLevel
	}

	opts := []client.Option{
		client.WithTimeout(config.GetTimeout()),
		client.WithLogLevel(loglevel),
	}
	switch network {
	case "tcp":
		opts = append(opts, client.WithAddress(address))
	case "unix":
		opts = append(opts, client.WithUnixSocket(address))
	default:
		return nil, fmt.Errorf("unsupported network %q (want tcp or unix)", network)
	}

	c, err := client.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gstc client: %w", err)
	}
	return c, nil
}

func commandContext() context.Context {
	return context.Background()
}
