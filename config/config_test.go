package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, "127.0.0.1:5000", GetAddress())
	assert.Equal(t, "tcp", GetNetwork())
	assert.Equal(t, "ERROR", GetLogLevel())
	assert.NotZero(t, GetTimeout())
	assert.Empty(t, GetMetricsAddress())
	assert.NotEmpty(t, GetGstcHome())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GSTC_ADDRESS", "10.0.0.7:5001")
	t.Setenv("GSTC_LOGLEVEL", "DEBUG")
	assert.Equal(t, "10.0.0.7:5001", GetAddress())
	assert.Equal(t, "DEBUG", GetLogLevel())
}

func TestProfilePath(t *testing.T) {
	assert.Equal(t, filepath.Join(GetGstcHome(), "profiles.toml"), GetProfilePath())

	t.Setenv("GSTC_PROFILE_PATH", "/tmp/profiles.toml")
	assert.Equal(t, "/tmp/profiles.toml", GetProfilePath())
}
