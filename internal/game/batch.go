package game

import (
	"context"
	"sync"

	"github.com/san-kum/mazelab/internal/maze"
	"github.com/san-kum/mazelab/internal/replay"
	"github.com/san-kum/mazelab/internal/script"
)

// BatchEntry names one maze for a batch evaluation.
type BatchEntry struct {
	Name string
	Grid *maze.Grid
}

// BatchResult is the outcome of one script on one maze.
type BatchResult struct {
	Name string
	Result
}

// Batch evaluates one script against several mazes, each in its own
// headless controller so the runs share nothing and can fan out.
type Batch struct {
	entries []BatchEntry
	limits  script.Limits
}

func NewBatch(entries []BatchEntry, limits script.Limits) *Batch {
	return &Batch{entries: entries, limits: limits}
}

// Run executes source on every maze concurrently. A program error on one
// maze does not fail the batch; it is reported in that maze's result. The
// first infrastructure error aborts.
func (b *Batch) Run(ctx context.Context, source string) ([]BatchResult, error) {
	if _, err := script.Parse(source); err != nil {
		return nil, err
	}

	results := make([]BatchResult, len(b.entries))

	var wg sync.WaitGroup
	for i, entry := range b.entries {
		wg.Add(1)
		go func(idx int, entry BatchEntry) {
			defer wg.Done()

			speed := replay.NewSpeed(0, 0, 0)
			c := New(entry.Grid, replay.NopRenderer{}, speed, b.limits, NewMemorySink())
			results[idx] = BatchResult{
				Name:   entry.Name,
				Result: c.Run(ctx, source),
			}
		}(i, entry)
	}
	wg.Wait()

	return results, nil
}
