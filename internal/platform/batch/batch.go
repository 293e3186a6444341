// Package batch runs rate-limited fan-out work: items are split into
// fixed-size groups, each group runs concurrently, and groups are separated
// by a fixed delay.
package batch

import (
	"context"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	// Size is the number of items in flight at once. Values < 1 mean 1.
	Size int
	// Delay is the pause between consecutive groups. No pause follows the last group.
	Delay time.Duration
}

// Run applies fn to every item and returns the results in input order. The
// first error returned by fn cancels the group it belongs to and stops any
// further groups from starting.
func Run[T, R any](ctx context.Context, items []T, opts Options, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	if len(items) == 0 {
		return out, nil
	}
	size := opts.Size
	if size < 1 {
		size = 1
	}

	offset := 0
	for n, group := range lo.Chunk(items, size) {
		if n > 0 && opts.Delay > 0 {
			t := time.NewTimer(opts.Delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return out, ctx.Err()
			case <-t.C:
			}
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}

		g, gctx := errgroup.WithContext(ctx)
		for i, item := range group {
			idx, item := offset+i, item
			g.Go(func() error {
				r, err := fn(gctx, item)
				if err != nil {
					return err
				}
				out[idx] = r
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return out, err
		}
		offset += len(group)
	}
	return out, nil
}
