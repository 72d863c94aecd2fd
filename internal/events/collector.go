package events

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Collector produces zero or more human-readable event strings from one
// external source.
type Collector interface {
	Name() string
	Collect(ctx context.Context) ([]string, error)
}

// CollectAll runs the collectors concurrently under a bounded limit and
// returns their combined output in collector order, regardless of completion
// order. The first failure cancels the remaining collectors and is returned
// tagged with the collector's name.
func CollectAll(ctx context.Context, limit int, collectors ...Collector) ([]string, error) {
	results := make([][]string, len(collectors))

	group, groupCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		group.SetLimit(limit)
	}
	for i, collector := range collectors {
		i, collector := i, collector
		group.Go(func() error {
			out, err := collector.Collect(groupCtx)
			if err != nil {
				return fmt.Errorf("%s: %w", collector.Name(), err)
			}
			results[i] = out
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var combined []string
	for _, out := range results {
		combined = append(combined, out...)
	}
	return combined, nil
}
