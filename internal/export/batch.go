package export

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ExportAll exports every snapshot, running up to the configured concurrency
// at once. A failing snapshot does not stop the others; the joined error lists
// every failure. Results follow the order of paths.
func (e *Exporter) ExportAll(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	results := make([]Result, len(paths))
	limit := e.cfg.Export.Concurrency
	if limit < 1 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Snapshot: path, Err: err}
				return nil
			}
			results[i], _ = e.Export(ctx, path, opts)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Snapshot, res.Err))
		}
	}
	return results, errors.Join(errs...)
}
