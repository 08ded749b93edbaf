package simfw

import (
	"fmt"
	"io/ioutil"
	"time"

	"gopkg.in/yaml.v3"
)

// Policy decides when the update flag clears.
type Policy string

// Policies
const (
	// PolicyEdge reports an update once, reading the flag clears it.
	PolicyEdge Policy = "edge"
	// PolicyLevel reports an update until Acknowledge is called.
	PolicyLevel Policy = "level"
)

// Defaults
const (
	DefaultSlots          = 3
	DefaultUpdateInterval = time.Second
)

// Config describes the simulated firmware, loadable from YAML:
//
//	slots: 3
//	policy: edge
//	state:
//	  control_type: 2
//	  k_heading_drift: 0.5
//	log: |
//	  boot
//	update_interval: 1s
//	updates:
//	  - {des_fw: 90, goal_changed: 1}
type Config struct {
	Slots  int                `yaml:"slots"`
	Policy Policy             `yaml:"policy"`
	State  map[string]float64 `yaml:"state"`
	Log    string             `yaml:"log"`

	// MaxLogSize bounds a single log transfer, 0 keeps the bridge default.
	MaxLogSize int `yaml:"max_log_size"`

	// Updates are BT updates replayed in a cycle, one per UpdateInterval.
	Updates        []map[string]float64 `yaml:"updates"`
	UpdateInterval time.Duration        `yaml:"update_interval"`
}

// DefaultConfig creates a Config with defaults.
func DefaultConfig() *Config {
	return &Config{
		Slots:          DefaultSlots,
		Policy:         PolicyEdge,
		UpdateInterval: DefaultUpdateInterval,
	}
}

// LoadConfig reads a YAML file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML on top of the defaults.
func ParseConfig(data []byte) (*Config, error) {
	conf := DefaultConfig()
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("parse firmware config: %v", err)
	}
	return conf, nil
}

// Validate checks the config.
func (c *Config) Validate() error {
	if c.Slots <= 0 {
		return fmt.Errorf("slots must be positive, got %d", c.Slots)
	}
	if c.MaxLogSize < 0 {
		return fmt.Errorf("max_log_size must not be negative, got %d", c.MaxLogSize)
	}
	if len(c.Updates) > 0 && c.UpdateInterval <= 0 {
		return fmt.Errorf("update_interval must be positive, got %v", c.UpdateInterval)
	}
	switch c.Policy {
	case PolicyEdge, PolicyLevel:
	default:
		return fmt.Errorf("unknown update policy %q", c.Policy)
	}
	if _, err := configValues(c.State); err != nil {
		return fmt.Errorf("state: %w", err)
	}
	for n, values := range c.Updates {
		if _, err := configValues(values); err != nil {
			return fmt.Errorf("updates[%d]: %w", n, err)
		}
	}
	return nil
}
