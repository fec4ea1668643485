package client

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Log levels accepted at client construction, ordered low to high. Higher
// levels emit more diagnostic detail; they never change command semantics or
// results.
const (
	LogQuiet = "QUIET"
	LogError = "ERROR"
	LogWarn  = "WARN"
	LogInfo  = "INFO"
	LogDebug = "DEBUG"
)

// options holds the resolved client configuration.
type options struct {
	network     string
	address     string
	dialTimeout time.Duration
	logLevel    string
	logOut      io.Writer
}

func defaultOptions() options {
	return options{
		network:     "tcp",
		address:     "127.0.0.1:5000",
		dialTimeout: 5 * time.Second,
		logLevel:    LogError,
	}
}

// Option configures a Client at construction time.
type Option func(*options)

// WithAddress sets the daemon TCP endpoint (host:port).
func WithAddress(address string) Option {
	return func(o *options) {
		o.network = "tcp"
		o.address = address
	}
}

// WithUnixSocket targets a Unix domain socket instead of TCP.
func WithUnixSocket(path string) Option {
	return func(o *options) {
		o.network = "unix"
		o.address = path
	}
}

// WithTimeout bounds the dial plus round trip of each call. A context
// deadline shorter than this still wins.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.dialTimeout = d }
}

// WithLogLevel sets the diagnostic verbosity: QUIET, ERROR, WARN, INFO or
// DEBUG.
func WithLogLevel(level string) Option {
	return func(o *options) { o.logLevel = level }
}

// WithLogOutput redirects diagnostics, mainly for tests.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOut = w }
}

// newLogger builds the per-client logrus logger for the configured level.
// QUIET discards everything.
func newLogger(o options) (*logrus.Logger, error) {
	log := logrus.New()
	if o.logOut != nil {
		log.SetOutput(o.logOut)
	}

	switch strings.ToUpper(o.logLevel) {
	case LogQuiet:
		log.SetOutput(io.Discard)
		log.SetLevel(logrus.PanicLevel)
	case LogError:
		log.SetLevel(logrus.ErrorLevel)
	case LogWarn:
		log.SetLevel(logrus.WarnLevel)
	case LogInfo:
		log.SetLevel(logrus.InfoLevel)
	case LogDebug:
		log.SetLevel(logrus.DebugLevel)
	default:
		return nil, fmt.Errorf("unknown log level %q", o.logLevel)
	}
	return log, nil
}
