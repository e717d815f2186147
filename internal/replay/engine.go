package replay

import (
	"context"
	"sync"
	"time"

	"github.com/san-kum/mazelab/internal/agent"
	"github.com/san-kum/mazelab/internal/maze"
	"github.com/san-kum/mazelab/internal/trace"
)

// Renderer redraws the scene after every visual state change.
type Renderer interface {
	Frame(g *maze.Grid, pose agent.Pose)
}

// NopRenderer discards frames; used for headless runs.
type NopRenderer struct{}

func (NopRenderer) Frame(*maze.Grid, agent.Pose) {}

// Engine drains a recorded trace against the visual pose with timed pacing.
// The visual pose is separate from the logical agent: the replay never
// consults the agent, it re-steps each recorded action through the same
// pose arithmetic and so lands exactly where the logical agent did.
type Engine struct {
	grid   *maze.Grid
	tokens *TokenSource
	speed  *Speed
	render Renderer

	mu   sync.Mutex
	pose agent.Pose
}

func NewEngine(g *maze.Grid, tokens *TokenSource, speed *Speed, render Renderer) *Engine {
	return &Engine{grid: g, tokens: tokens, speed: speed, render: render}
}

// ResetPose sets the visual pose and redraws once.
func (e *Engine) ResetPose(p agent.Pose) {
	e.mu.Lock()
	e.pose = p
	e.render.Frame(e.grid, p)
	e.mu.Unlock()
}

// Pose returns a snapshot of the visual pose.
func (e *Engine) Pose() agent.Pose {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pose
}

// Replay applies tr to the visual pose one action at a time, rendering a
// frame per step and sleeping the configured delay in between. Before every
// step it compares its token against the live one; a mismatch means a newer
// run has started, and the replay stops silently without further side
// effects. Cancellation is not an error. The token check, the pose update
// and the frame draw share the engine mutex, so a stale replay can neither
// overwrite a newer run's reset nor draw a frame after it. Renderers must
// not call back into the engine.
func (e *Engine) Replay(ctx context.Context, tr *trace.Trace, token int64) error {
	for _, act := range tr.Actions() {
		e.mu.Lock()
		if e.tokens.Current() != token {
			e.mu.Unlock()
			return nil
		}
		e.pose = e.pose.Apply(e.grid, act)
		e.render.Frame(e.grid, e.pose)
		e.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(e.speed.Delay()):
		}
	}
	return nil
}
