package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/katalvlaran/livetrace/lattice"
	"github.com/katalvlaran/livetrace/livewire"
	"github.com/katalvlaran/livetrace/pathcost"
	"github.com/rs/zerolog"
)

// errSyntax marks script lines that cannot be executed at all. Everything else
// is reported and the replay goes on, as an interactive user would.
var errSyntax = errors.New("syntax error")

// readGrid parses rows of integers. Blank lines separate the planes of a
// volume; a single plane gives a 2D lattice.
func readGrid(in io.Reader) (*lattice.Lattice, error) {
	var (
		planes [][][]int
		rows   [][]int
	)
	sc := bufio.NewScanner(in)
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			if len(rows) > 0 {
				planes = append(planes, rows)
				rows = nil
			}
			continue
		}
		row := make([]int, len(fields))
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		planes = append(planes, rows)
	}

	switch len(planes) {
	case 0:
		return nil, lattice.ErrEmptyLattice
	case 1:
		return lattice.FromGrid2D(planes[0])
	}
	return lattice.FromVolume(planes)
}

type replayer struct {
	session *livewire.Session
	weights *lattice.Lattice
	out     io.Writer
	log     zerolog.Logger
}

func (r *replayer) replay(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		err := r.exec(ctx, fields[0], fields[1:])
		switch {
		case err == nil:
		case errors.Is(err, errSyntax):
			return fmt.Errorf("line %d: %w", line, err)
		default:
			r.log.Warn().Err(err).Int("line", line).Str("command", fields[0]).Msg("command failed")
			fmt.Fprintf(r.out, "%s: %v\n", fields[0], err)
		}
	}
	return sc.Err()
}

func (r *replayer) exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "anchor":
		idx, err := r.cell(args)
		if err != nil {
			return err
		}
		return r.session.Start(idx)

	case "move":
		idx, err := r.cell(args)
		if err != nil {
			return err
		}
		p, err := r.session.Move(ctx, idx)
		if err != nil {
			return err
		}
		r.printPreview(p)

	case "select":
		if len(args) != 1 {
			return fmt.Errorf("%w: select takes one strategy", errSyntax)
		}
		k, err := pathcost.ParseKind(args[0])
		if err != nil {
			return fmt.Errorf("%w: %w", errSyntax, err)
		}
		return r.session.Select(k)

	case "exponent":
		if len(args) != 1 {
			return fmt.Errorf("%w: exponent takes one number", errSyntax)
		}
		e, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("%w: %w", errSyntax, err)
		}
		return r.session.SetExponent(e)

	case "commit":
		seg, err := r.session.Commit()
		if err != nil {
			return err
		}
		r.printSegment("commit", seg)

	case "close":
		seg, err := r.session.Close(ctx)
		if err != nil {
			return err
		}
		r.printSegment("close", seg)

	case "undo":
		return r.session.Undo()

	case "print":
		b := r.session.Boundary()
		fmt.Fprintf(r.out, "boundary %d cells:%s\n", len(b), r.coords(b))

	case "sleep":
		if len(args) != 1 {
			return fmt.Errorf("%w: sleep takes one duration", errSyntax)
		}
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return fmt.Errorf("%w: %w", errSyntax, err)
		}
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return ctx.Err()
		}

	default:
		return fmt.Errorf("%w: unknown command %q", errSyntax, cmd)
	}
	return nil
}

// cell converts coordinate arguments to a flat index.
func (r *replayer) cell(args []string) (int, error) {
	if len(args) != r.weights.Dims() {
		return 0, fmt.Errorf("%w: want %d coordinates, got %d", errSyntax, r.weights.Dims(), len(args))
	}
	c := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", errSyntax, err)
		}
		c[i] = v
	}
	return r.weights.Index(c...)
}

func (r *replayer) printPreview(p livewire.Preview) {
	stale := ""
	if p.Stale {
		stale = " (stale)"
	}
	fmt.Fprintf(r.out, "move %v%s\n", r.weights.Coordinate(p.Cursor), stale)
	for _, k := range pathcost.Kinds {
		if seg, ok := p.Segments[k]; ok {
			fmt.Fprintf(r.out, "  %-8s cost %d, %d cells\n", k, seg.Cost, len(seg.Cells))
		} else if err, ok := p.Errors[k]; ok {
			fmt.Fprintf(r.out, "  %-8s %v\n", k, err)
		}
	}
}

func (r *replayer) printSegment(verb string, seg livewire.Segment) {
	fmt.Fprintf(r.out, "%s %s cost %d:%s\n", verb, seg.Kind, seg.Cost, r.coords(seg.Cells))
}

func (r *replayer) coords(cells []int) string {
	var b strings.Builder
	for _, idx := range cells {
		fmt.Fprintf(&b, " %v", r.weights.Coordinate(idx))
	}
	return b.String()
}
