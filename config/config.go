// Package config resolves the gstc CLI configuration from defaults,
// environment variables and an optional YAML config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

var v *viper.Viper

func init() {
	v = viper.New()

	// Set default values
	v.SetDefault("daemon.address", "127.0.0.1:5000")
	v.SetDefault("daemon.network", "tcp")
	v.SetDefault("daemon.timeout", 5*time.Second)
	v.SetDefault("client.loglevel", "ERROR")
	v.SetDefault("metrics.address", "")

	// Default gstc home directory
	v.SetDefault("gstc.home", filepath.Join(xdg.Home, ".gstc"))
	v.SetDefault("profile.path", "")

	// Environment variables
	v.AutomaticEnv()
	v.BindEnv("daemon.address", "GSTC_ADDRESS")
	v.BindEnv("daemon.network", "GSTC_NETWORK")
	v.BindEnv("daemon.timeout", "GSTC_TIMEOUT")
	v.BindEnv("client.loglevel", "GSTC_LOGLEVEL")
	v.BindEnv("metrics.address", "GSTC_METRICS_ADDRESS")
	v.BindEnv("gstc.home", "GSTC_HOME")
	v.BindEnv("profile.path", "GSTC_PROFILE_PATH")

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	configPaths := []string{
		".",
		"$HOME/.gstc",
		"/etc/gstc",
	}
	for _, path := range configPaths {
		v.AddConfigPath(os.ExpandEnv(path))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Sprintf("Fatal error reading config file: %s", err))
		}
		// Config file not found; defaults apply
	}
}

// GetAddress returns the daemon control endpoint.
func GetAddress() string {
	return v.GetString("daemon.address")
}

// GetNetwork returns the daemon transport, "tcp" or "unix".
func GetNetwork() string {
	return v.GetString("daemon.network")
}

// GetTimeout returns the per-call dial plus round-trip limit.
func GetTimeout() time.Duration {
	return v.GetDuration("daemon.timeout")
}

// GetLogLevel returns the client diagnostic verbosity.
func GetLogLevel() string {
	return v.GetString("client.loglevel")
}

// GetMetricsAddress returns the optional Prometheus listen address used by
// `gstc daemon`.
func GetMetricsAddress() string {
	return v.GetString("metrics.address")
}

// GetGstcHome returns the gstc home directory.
func GetGstcHome() string {
	return v.GetString("gstc.home")
}

// GetProfilePath returns the profile file path.
func GetProfilePath() string {
	if p := v.GetString("profile.path"); p != "" {
		return p
	}
	return filepath.Join(GetGstcHome(), "profiles.toml")
}
