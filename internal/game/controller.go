package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/san-kum/mazelab/internal/agent"
	"github.com/san-kum/mazelab/internal/maze"
	"github.com/san-kum/mazelab/internal/replay"
	"github.com/san-kum/mazelab/internal/script"
	"github.com/san-kum/mazelab/internal/trace"
)

// Phase is the externally observable run state. A replay cancelled by a
// newer run is absorbed, never reported as its own phase.
type Phase string

const (
	PhaseIdle      Phase = "IDLE"
	PhaseResetting Phase = "RESETTING"
	PhaseExecuting Phase = "EXECUTING"
	PhaseReplaying Phase = "REPLAYING"
	PhaseCompleted Phase = "COMPLETED"
)

// Result summarizes one run. ProgramErr is user-facing, not fatal: the
// actions recorded before the error were still replayed and the goal check
// still ran.
type Result struct {
	Token       int64
	Actions     int
	GoalReached bool
	ProgramErr  error
	Elapsed     time.Duration
	Trace       *trace.Trace
}

// Controller owns all mutable run state and orchestrates one run end to
// end: reset, execute, replay, goal check.
type Controller struct {
	grid   *maze.Grid
	tokens *replay.TokenSource
	engine *replay.Engine
	limits script.Limits
	sink   Sink

	mu    sync.Mutex
	ag    *agent.Agent
	tr    *trace.Trace
	phase Phase
}

func New(grid *maze.Grid, render replay.Renderer, speed *replay.Speed, limits script.Limits, sink Sink) *Controller {
	tokens := &replay.TokenSource{}
	tr := trace.New()
	c := &Controller{
		grid:   grid,
		tokens: tokens,
		engine: replay.NewEngine(grid, tokens, speed, render),
		limits: limits,
		sink:   sink,
		ag:     agent.New(grid, tr),
		tr:     tr,
		phase:  PhaseIdle,
	}
	c.engine.ResetPose(c.ag.Pose())
	return c
}

func (c *Controller) Grid() *maze.Grid { return c.grid }

// Snapshot is a consistent view of the controller for rendering.
type Snapshot struct {
	Phase   Phase
	Agent   agent.Pose
	Visual  agent.Pose
	Actions int
	Goal    bool
	Log     []string
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	snap := Snapshot{
		Phase:   c.phase,
		Agent:   c.ag.Pose(),
		Actions: c.tr.Len(),
		Goal:    c.ag.AtGoal(),
	}
	c.mu.Unlock()
	snap.Visual = c.engine.Pose()
	snap.Log = c.sink.Lines()
	return snap
}

// Run executes source as one full run. Safe to call while a previous run is
// still executing or replaying: the previous run keeps its own agent and
// trace, the token bump makes its replay cancel itself at the next step
// boundary, and its completion report is discarded.
func (c *Controller) Run(ctx context.Context, source string) Result {
	start := time.Now()
	token, tr, ag := c.beginRun()

	c.setPhaseIfCurrent(token, PhaseExecuting)
	var progErr error
	prog, err := script.Parse(source)
	if err != nil {
		progErr = err
	} else {
		progErr = prog.Exec(ctx, &lockedAPI{mu: &c.mu, ag: ag}, c.limits)
	}
	if progErr != nil && c.tokens.Current() == token {
		c.sink.Print("program error: " + progErr.Error())
	}

	c.setPhaseIfCurrent(token, PhaseReplaying)
	_ = c.engine.Replay(ctx, tr, token)

	res := Result{
		Token:      token,
		Actions:    tr.Len(),
		ProgramErr: progErr,
		Elapsed:    time.Since(start),
		Trace:      tr,
	}
	if c.tokens.Current() != token {
		// A newer run took over while we were replaying; our outcome is
		// stale and must not touch the new run's state or output.
		return res
	}

	c.mu.Lock()
	res.GoalReached = ag.AtGoal()
	c.mu.Unlock()
	if res.GoalReached {
		c.sink.Print(fmt.Sprintf("goal reached in %d actions", res.Actions))
	} else {
		c.sink.Print("goal not reached")
	}
	c.setPhaseIfCurrent(token, PhaseCompleted)
	return res
}

// ResetOnly bumps the token and clears all run state without executing or
// replaying anything. Like beginRun it swaps in a fresh agent and trace so
// an in-flight executor cannot write into the post-reset state.
func (c *Controller) ResetOnly() {
	c.mu.Lock()
	c.phase = PhaseResetting
	c.tokens.Next()
	c.tr = trace.New()
	c.ag = agent.New(c.grid, c.tr)
	pose := c.ag.Pose()
	c.mu.Unlock()

	c.sink.Clear()
	c.engine.ResetPose(pose)

	c.mu.Lock()
	c.phase = PhaseIdle
	c.mu.Unlock()
}

// beginRun allocates the run token and swaps in a fresh agent and trace.
// Every run owns its own pair: a superseded executor that is still calling
// primitives keeps mutating its own dead agent and recording into its own
// dead trace, and can never reach the new run's state.
func (c *Controller) beginRun() (int64, *trace.Trace, *agent.Agent) {
	c.mu.Lock()
	c.phase = PhaseResetting
	token := c.tokens.Next()
	tr := trace.New()
	ag := agent.New(c.grid, tr)
	c.tr = tr
	c.ag = ag
	pose := ag.Pose()
	c.mu.Unlock()

	c.sink.Clear()
	c.engine.ResetPose(pose)
	return token, tr, ag
}

func (c *Controller) setPhaseIfCurrent(token int64, p Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tokens.Current() == token {
		c.phase = p
	}
}

// lockedAPI guards the movement primitives with the controller mutex so the
// TUI can snapshot agent state while a program is executing.
type lockedAPI struct {
	mu *sync.Mutex
	ag *agent.Agent
}

func (l *lockedAPI) Move() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ag.Move()
}

func (l *lockedAPI) TurnLeft() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ag.TurnLeft()
}

func (l *lockedAPI) TurnRight() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ag.TurnRight()
}

func (l *lockedAPI) PathAhead() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ag.PathAhead()
}

func (l *lockedAPI) PathLeft() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ag.PathLeft()
}

func (l *lockedAPI) PathRight() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ag.PathRight()
}

func (l *lockedAPI) PathBehind() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ag.PathBehind()
}

func (l *lockedAPI) AtGoal() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ag.AtGoal()
}
