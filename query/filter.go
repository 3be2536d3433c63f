package query

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minChunk is the smallest number of rows handed to one worker.
const minChunk = 1024

// FilterOptions controls ApplyFilter.
type FilterOptions struct {
	// Workers is the number of goroutines evaluating rows. Zero selects
	// GOMAXPROCS; one evaluates on the calling goroutine.
	Workers int
}

// ApplyFilter evaluates prog against every row and returns the indices of
// the rows that pass, in input order.
func ApplyFilter(ctx context.Context, prog *Program, rows []Row, opts FilterOptions) ([]int, error) {
	if prog == nil {
		all := make([]int, len(rows))
		for i := range rows {
			all[i] = i
		}
		return all, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if maxWorkers := (len(rows) + minChunk - 1) / minChunk; workers > maxWorkers {
		workers = maxWorkers
	}
	if workers < 2 {
		return filterRange(ctx, prog.NewMachine(), rows, 0, len(rows), nil)
	}

	pass := make([]bool, len(rows))
	chunk := (len(rows) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(rows); start += chunk {
		start, end := start, min(start+chunk, len(rows))
		g.Go(func() error {
			_, err := filterRange(gctx, prog.NewMachine(), rows, start, end, pass)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	kept := make([]int, 0, len(rows))
	for i, ok := range pass {
		if ok {
			kept = append(kept, i)
		}
	}
	return kept, nil
}

// filterRange evaluates rows[start:end]. With a non-nil pass slice the
// results are recorded there; otherwise the passing indices are returned.
func filterRange(ctx context.Context, m *Machine, rows []Row, start, end int, pass []bool) ([]int, error) {
	var kept []int
	for i := start; i < end; i++ {
		if (i-start)%minChunk == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		match, err := m.Match(rows[i])
		if err != nil {
			return nil, err
		}
		if pass != nil {
			pass[i] = match
		} else if match {
			kept = append(kept, i)
		}
	}
	return kept, nil
}
