package pool

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the file-based configuration surface, mirroring the build-time
// knobs of the pool: the arena geometry, the initial partition, and the
// optional capabilities.
//
//	arena_size: 2048
//	classes: [1024, 512, 256, 128, 64, 32]
//	initial_lengths: [0, 4, 0, 0, 0, 0]
//	coalesce: true
//	address_index: false
//	viz:
//	  enabled: true
//	  listen: "localhost:7077"
//
// Zero fields fall back to the defaults, so a config file only needs the
// knobs it changes.
type Config struct {
	ArenaSize      int       `yaml:"arena_size,omitempty"`
	Classes        []int     `yaml:"classes,omitempty"`
	InitialLengths []int     `yaml:"initial_lengths,omitempty"`
	Coalesce       bool      `yaml:"coalesce,omitempty"`
	AddressIndex   bool      `yaml:"address_index,omitempty"`
	Viz            VizConfig `yaml:"viz,omitempty"`
}

// VizConfig configures the visualization collaborator. The pool itself only
// carries it; serving is up to the viz package.
type VizConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Listen  string `yaml:"listen,omitempty"`
}

// ParseConfig decodes a YAML config document.
func ParseConfig(b []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("fixedarena: parsing config: %w", err)
	}

	return c, nil
}

// LoadConfig reads and decodes a YAML config file.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("fixedarena: reading config: %w", err)
	}

	return ParseConfig(b)
}

// Options lowers the config to the option list [New] accepts.
func (c Config) Options() []Option {
	var opts []Option

	if c.ArenaSize != 0 {
		opts = append(opts, WithArenaSize(c.ArenaSize))
	}

	if c.Classes != nil {
		opts = append(opts, WithClasses(c.Classes...))
	}

	if c.InitialLengths != nil {
		opts = append(opts, WithInitialLengths(c.InitialLengths...))
	}

	opts = append(opts,
		WithCoalescing(c.Coalesce),
		WithAddressIndex(c.AddressIndex),
	)

	return opts
}

// NewFromConfig creates and initializes a pool from a decoded config.
func NewFromConfig(c Config) (*Pool, error) {
	return New(c.Options()...)
}
