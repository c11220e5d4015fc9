package reader

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/lifeofword/internal/types"
)

// DefaultConcurrency bounds how many segments are fetched at once.
const DefaultConcurrency = 4

// ProgressEvent reports one assembled segment.
type ProgressEvent struct {
	Index  int                  `json:"index"`
	Total  int                  `json:"total"`
	Result *types.SegmentResult `json:"result"`
}

// ProgressCallback is called as segments complete, in completion order.
type ProgressCallback func(event ProgressEvent)

// ReadOptions configures ReadAll.
type ReadOptions struct {
	Concurrency int
	OnProgress  ProgressCallback
}

// ReadAll assembles every segment of the plan concurrently and returns the
// results in segment order.
func (a *Assembler) ReadAll(ctx context.Context, p *types.ReadingPlan, opts ReadOptions) ([]*types.SegmentResult, error) {
	if p == nil {
		return nil, fmt.Errorf("reading plan is nil")
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([]*types.SegmentResult, len(p.Segments))
	var progressMu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range p.Segments {
		g.Go(func() error {
			result, err := a.Assemble(gCtx, p, i)
			if err != nil {
				return fmt.Errorf("segment %d: %w", i, err)
			}
			results[i] = result
			if opts.OnProgress != nil {
				progressMu.Lock()
				opts.OnProgress(ProgressEvent{Index: i, Total: len(p.Segments), Result: result})
				progressMu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
