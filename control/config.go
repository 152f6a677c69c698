// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Ring configuration, YAML loading and a reloadable config store.

package control

import (
	"bytes"
	"io"
	"os"
	"slices"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/momentics/ringbuf/api"
	"github.com/momentics/ringbuf/pool"
	"github.com/momentics/ringbuf/ring"
)

// MaxCapacity bounds Config.Capacity so a config file cannot request an
// allocation the runtime refuses.
const MaxCapacity = 1 << 30

// Config describes a single ring.
type Config struct {
	Capacity int           `yaml:"capacity"` // backing size, power of two
	Backing  pool.Backing  `yaml:"backing"`
	Metrics  MetricsConfig `yaml:"metrics"`
	Debug    bool          `yaml:"debug"`
}

// MetricsConfig controls Prometheus export.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
	Name      string `yaml:"name"` // value of the "ring" label
}

// DefaultConfig returns a 1 KiB heap ring with metrics and probes enabled.
func DefaultConfig() *Config {
	return &Config{
		Capacity: 1024,
		Backing:  pool.BackingHeap,
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "ringbuf",
			Name:      "default",
		},
		Debug: true,
	}
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
// Unknown keys are rejected.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode ring config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the YAML file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read ring config %s", path)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return cfg, nil
}

// Validate checks the config so ring construction cannot panic on it.
func (c *Config) Validate() error {
	if err := ring.Validate(c.Capacity); err != nil {
		return errors.Wrap(err, "capacity")
	}
	if c.Capacity > MaxCapacity {
		return api.NewError(api.ErrCodeResourceExhausted, "capacity exceeds limit").
			WithContext("capacity", c.Capacity).
			WithContext("max", MaxCapacity)
	}
	switch c.Backing {
	case "", pool.BackingHeap, pool.BackingMmap:
	default:
		return api.NewError(api.ErrCodeInvalidArgument, "unknown backing").
			WithContext("backing", string(c.Backing))
	}
	if c.Metrics.Enabled && c.Metrics.Name == "" {
		return api.NewError(api.ErrCodeInvalidArgument, "metrics name must be set when metrics are enabled")
	}
	return nil
}

// ConfigStore holds the current Config and notifies listeners on change.
type ConfigStore struct {
	mu        sync.RWMutex
	config    Config
	listeners []func(Config)
}

// NewConfigStore initializes a store with cfg, or DefaultConfig if nil.
func NewConfigStore(cfg *Config) *ConfigStore {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &ConfigStore{config: *cfg}
}

// Snapshot returns a copy of the current config.
func (cs *ConfigStore) Snapshot() Config {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.config
}

// Update validates cfg, stores it and calls every listener in registration
// order. Listeners run on the caller's goroutine after the lock is released.
func (cs *ConfigStore) Update(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cs.mu.Lock()
	cs.config = cfg
	listeners := slices.Clone(cs.listeners)
	cs.mu.Unlock()

	for _, fn := range listeners {
		fn(cfg)
	}
	return nil
}

// OnReload registers a listener hook called on config changes.
func (cs *ConfigStore) OnReload(fn func(Config)) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}
