// Package config holds the tunables of a tracing session and loads them from
// YAML.
//
// Example file:
//
//	adjacency:
//	  radius: 1.5
//	strategy: livewire
//	strategies: [livewire, riverbed, hybrid, line]
//	hybrid:
//	  exponent: 1.5
//	queue:
//	  tiebreak: fifo
//	  max_buckets: 16777216
//	throttle: 30ms
//	workers: 4
//	log:
//	  level: info
//	  format: console
//
// Fields missing from the file keep their Default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/katalvlaran/livetrace/bucketqueue"
	"github.com/katalvlaran/livetrace/pathcost"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the full session configuration.
type Config struct {
	Adjacency  AdjacencyConfig `yaml:"adjacency"`
	Strategy   string          `yaml:"strategy"`
	Strategies []string        `yaml:"strategies"`
	Hybrid     HybridConfig    `yaml:"hybrid"`
	Queue      QueueConfig     `yaml:"queue"`
	Throttle   time.Duration   `yaml:"throttle"`
	Workers    int             `yaml:"workers"`
	Log        LogConfig       `yaml:"log"`
}

// AdjacencyConfig selects the neighborhood.
type AdjacencyConfig struct {
	// Radius of the neighborhood; 0 picks the full-diagonal neighborhood of the
	// lattice's dimensionality (√2 in 2D, √3 in 3D).
	Radius float64 `yaml:"radius"`
}

// HybridConfig tunes the hybrid strategy.
type HybridConfig struct {
	Exponent float64 `yaml:"exponent"`
}

// QueueConfig tunes the bucket queue.
type QueueConfig struct {
	TieBreak   string `yaml:"tiebreak"`
	MaxBuckets int    `yaml:"max_buckets"`
}

// LogConfig selects level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Default returns the built-in configuration.
func Default() Config {
	names := make([]string, 0, len(pathcost.Kinds))
	for _, k := range pathcost.Kinds {
		names = append(names, k.String())
	}
	return Config{
		Strategy:   pathcost.Livewire.String(),
		Strategies: names,
		Hybrid:     HybridConfig{Exponent: 1.5},
		Queue:      QueueConfig{TieBreak: bucketqueue.FIFO.String(), MaxBuckets: bucketqueue.DefaultMaxBuckets},
		Throttle:   30 * time.Millisecond,
		Log:        LogConfig{Level: "info", Format: "console"},
	}
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Marshal encodes the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks every field.
func (c Config) Validate() error {
	if c.Adjacency.Radius < 0 {
		return fmt.Errorf("%w: adjacency.radius %g < 0", ErrInvalid, c.Adjacency.Radius)
	}
	if _, err := pathcost.ParseKind(c.Strategy); err != nil {
		return fmt.Errorf("%w: strategy: %w", ErrInvalid, err)
	}
	kinds, err := c.Kinds()
	if err != nil {
		return fmt.Errorf("%w: strategies: %w", ErrInvalid, err)
	}
	selected, _ := c.Kind()
	found := false
	for _, k := range kinds {
		found = found || k == selected
	}
	if !found {
		return fmt.Errorf("%w: strategy %q is not among strategies %v", ErrInvalid, c.Strategy, c.Strategies)
	}
	if _, err := pathcost.NewMaxSum(c.Hybrid.Exponent, 1); err != nil {
		return fmt.Errorf("%w: hybrid.exponent: %w", ErrInvalid, err)
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if c.Queue.MaxBuckets < 1 {
		return fmt.Errorf("%w: queue.max_buckets must be positive", ErrInvalid)
	}
	if c.Throttle < 0 {
		return fmt.Errorf("%w: throttle %s < 0", ErrInvalid, c.Throttle)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d < 0", ErrInvalid, c.Workers)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// Kind returns the selected strategy.
func (c Config) Kind() (pathcost.Kind, error) {
	return pathcost.ParseKind(c.Strategy)
}

// Kinds returns the previewed strategies, deduplicated, in file order.
func (c Config) Kinds() ([]pathcost.Kind, error) {
	if len(c.Strategies) == 0 {
		return nil, errors.New("no strategy listed")
	}
	var out []pathcost.Kind
	seen := make(map[pathcost.Kind]bool)
	for _, s := range c.Strategies {
		k, err := pathcost.ParseKind(s)
		if err != nil {
			return nil, err
		}
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out, nil
}

// Policy returns the queue tie-break.
func (c Config) Policy() (bucketqueue.Policy, error) {
	switch strings.ToLower(c.Queue.TieBreak) {
	case "fifo", "":
		return bucketqueue.FIFO, nil
	case "lifo":
		return bucketqueue.LIFO, nil
	}
	return 0, fmt.Errorf("%w: queue.tiebreak %q", ErrInvalid, c.Queue.TieBreak)
}
