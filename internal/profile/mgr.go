// Package profile manages named daemon endpoints so one CLI install can
// drive several daemons. Profiles live in a TOML file under the gstc home.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/emi-kkobayashi/gstd-1.x/config"
)

// Common error messages
const (
	ErrNoCurrentProfile    = "no current profile set, run 'gstc profile use' first"
	ErrProfileNotFound     = "profile '%s' not found"
	ErrCannotDeleteCurrent = "cannot delete the currently active profile, switch to another profile first"
)

// Profile is one daemon endpoint.
type Profile struct {
	Address  string `toml:"address"`
	Network  string `toml:"network,omitempty"`
	LogLevel string `toml:"loglevel,omitempty"`
}

// Config is the complete on-disk profile configuration.
type Config struct {
	Current  string             `toml:"current,omitempty"`
	Profiles map[string]Profile `toml:"profiles"`
}

// Manager loads, edits and persists the profile file.
type Manager struct {
	config Config
	path   string
}

// NewManager builds a manager bound to the configured profile path.
func NewManager() *Manager {
	return &Manager{
		config: Config{Profiles: make(map[string]Profile)},
		path:   config.GetProfilePath(),
	}
}

// Load reads the profile file. A missing file is not an error; it behaves
// as an empty configuration.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to read profile file %s", m.path)
	}
	if err := toml.Unmarshal(data, &m.config); err != nil {
		return errors.Wrapf(err, "failed to parse profile file %s", m.path)
	}
	if m.config.Profiles == nil {
		m.config.Profiles = make(map[string]Profile)
	}
	return nil
}

// Save writes the configuration back, creating the directory when needed.
func (m *Manager) Save() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create profile directory")
	}
	data, err := toml.Marshal(m.config)
	if err != nil {
		return errors.Wrap(err, "failed to encode profiles")
	}
	if err := os.WriteFile(m.path, data, 0o600); err != nil {
		return errors.Wrapf(err, "failed to write profile file %s", m.path)
	}
	return nil
}

// Add registers or replaces a profile. The first profile added becomes
// current automatically.
func (m *Manager) Add(name string, p Profile) error {
	if name == "" {
		return errors.New("profile name is empty")
	}
	if p.Address == "" {
		return errors.New("profile address is empty")
	}
	if p.Network == "" {
		p.Network = "tcp"
	}
	m.config.Profiles[name] = p
	if m.config.Current == "" {
		m.config.Current = name
	}
	return nil
}

// Use selects the current profile.
func (m *Manager) Use(name string) error {
	if _, ok := m.config.Profiles[name]; !ok {
		return fmt.Errorf(ErrProfileNotFound, name)
	}
	m.config.Current = name
	return nil
}

// Delete removes a profile. The active profile cannot be deleted.
func (m *Manager) Delete(name string) error {
	if _, ok := m.config.Profiles[name]; !ok {
		return fmt.Errorf(ErrProfileNotFound, name)
	}
	if m.config.Current == name {
		return errors.New(ErrCannotDeleteCurrent)
	}
	delete(m.config.Profiles, name)
	return nil
}

// Current returns the active profile.
func (m *Manager) Current() (string, Profile, error) {
	if m.config.Current == "" {
		return "", Profile{}, errors.New(ErrNoCurrentProfile)
	}
	p, ok := m.config.Profiles[m.config.Current]
	if !ok {
		return "", Profile{}, fmt.Errorf(ErrProfileNotFound, m.config.Current)
	}
	return m.config.Current, p, nil
}

// List returns the profile names in stable order.
func (m *Manager) List() []string {
	names := make([]string, 0, len(m.config.Profiles))
	for name := range m.config.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a profile by name.
func (m *Manager) Get(name string) (Profile, bool) {
	p, ok := m.config.Profiles[name]
	return p, ok
}

// CurrentName returns the active profile name, possibly empty.
func (m *Manager) CurrentName() string {
	return m.config.Current
}
