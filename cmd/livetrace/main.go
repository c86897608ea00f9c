// Command livetrace replays a tracing script over a text weight map.
//
// The grid file holds one row per line of whitespace-separated integer edge
// weights. The script holds one command per line:
//
//	anchor x y     place the first anchor, discarding any boundary
//	move x y       preview every strategy from the anchor to (x, y)
//	select kind    choose the committed strategy (livewire, riverbed, hybrid, line)
//	exponent e     change the hybrid exponent
//	commit         append the selected preview to the boundary
//	undo           drop the last segment
//	close          trace back to the first anchor and seal the contour
//	print          print the boundary
//	sleep d        wait d (a Go duration), to get past the move throttle
//
// Blank lines and lines starting with # are ignored.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/livetrace/config"
	"github.com/katalvlaran/livetrace/livewire"
	"github.com/katalvlaran/livetrace/logging"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "livetrace:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("livetrace", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "YAML configuration file")
		gridPath   = fs.String("grid", "", "weight grid file (required)")
		scriptPath = fs.String("script", "", "command script, stdin when empty")
		logLevel   = fs.String("log-level", "", "override log.level")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *gridPath == "" {
		fs.Usage()
		return fmt.Errorf("-grid is required")
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	log, err := logging.New(cfg.Log, stderr)
	if err != nil {
		return err
	}

	f, err := os.Open(*gridPath)
	if err != nil {
		return err
	}
	weights, err := readGrid(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", *gridPath, err)
	}
	log.Info().Ints("shape", weights.Shape()).Str("grid", *gridPath).Msg("weights loaded")

	s, err := livewire.NewSession(nil, weights,
		livewire.WithConfig(cfg),
		livewire.WithLogger(log),
	)
	if err != nil {
		return err
	}

	script := stdin
	if *scriptPath != "" {
		sf, err := os.Open(*scriptPath)
		if err != nil {
			return err
		}
		defer sf.Close()
		script = sf
	}

	r := &replayer{session: s, weights: weights, out: stdout, log: logging.Component(log, "script")}
	return r.replay(context.Background(), script)
}
