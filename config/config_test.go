package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/katalvlaran/livetrace/bucketqueue"
	"github.com/katalvlaran/livetrace/config"
	"github.com/katalvlaran/livetrace/pathcost"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Valid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	k, err := cfg.Kind()
	require.NoError(t, err)
	assert.Equal(t, pathcost.Livewire, k)

	kinds, err := cfg.Kinds()
	require.NoError(t, err)
	assert.Equal(t, pathcost.Kinds, kinds)
	assert.Equal(t, 30*time.Millisecond, cfg.Throttle)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := config.Parse([]byte(`
adjacency:
  radius: 2
strategy: riverbed
strategies: [riverbed, livewire, riverbed]
hybrid:
  exponent: 0.5
queue:
  tiebreak: LIFO
throttle: 15ms
workers: 2
log:
  level: debug
  format: json
`))
	require.NoError(t, err)

	assert.Equal(t, 2.0, cfg.Adjacency.Radius)
	assert.Equal(t, 0.5, cfg.Hybrid.Exponent)
	assert.Equal(t, 15*time.Millisecond, cfg.Throttle)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, bucketqueue.DefaultMaxBuckets, cfg.Queue.MaxBuckets, "unset fields keep defaults")

	kinds, err := cfg.Kinds()
	require.NoError(t, err)
	assert.Equal(t, []pathcost.Kind{pathcost.Riverbed, pathcost.Livewire}, kinds)

	p, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, bucketqueue.LIFO, p)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"radius":     "adjacency: {radius: -1}",
		"strategy":   "strategy: spline",
		"not listed": "strategy: hybrid\nstrategies: [livewire]",
		"exponent":   "hybrid: {exponent: 0}",
		"tiebreak":   "queue: {tiebreak: random}",
		"buckets":    "queue: {max_buckets: 0}",
		"throttle":   "throttle: -5ms",
		"workers":    "workers: -1",
		"level":      "log: {level: loud}",
		"format":     "log: {format: xml}",
		"empty list": "strategies: []",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(doc))
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}

	_, err := config.Parse([]byte("adjacency: [1, 2"))
	assert.Error(t, err)
}

func TestLoad_RoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.Strategy = "hybrid"
	cfg.Hybrid.Exponent = 2.25
	cfg.Throttle = time.Second

	data, err := cfg.Marshal()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	got, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
