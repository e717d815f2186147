package agent

import (
	"github.com/san-kum/mazelab/internal/maze"
	"github.com/san-kum/mazelab/internal/trace"
)

// Recorder receives one action per movement primitive call.
type Recorder interface {
	Record(trace.Action)
}

// Agent is the logical agent state driven by the user program. It records
// every attempted action, including moves blocked by a wall, so the trace
// stays a faithful transcript of what the program did.
type Agent struct {
	grid *maze.Grid
	rec  Recorder
	pose Pose
}

func New(g *maze.Grid, rec Recorder) *Agent {
	a := &Agent{grid: g, rec: rec}
	a.Reset()
	return a
}

// Reset places the agent back on the start cell with the default heading.
func (a *Agent) Reset() {
	a.pose = StartPose(a.grid)
}

func (a *Agent) Pose() Pose { return a.pose }

// Move advances one cell if the way is clear. Walking into a wall is a
// silent no-op, not an error; either way exactly one Move action is
// recorded.
func (a *Agent) Move() {
	a.pose = a.pose.StepForward(a.grid)
	a.rec.Record(trace.Move)
}

func (a *Agent) TurnLeft() {
	a.pose.Dir = a.pose.Dir.Left()
	a.rec.Record(trace.TurnLeft)
}

func (a *Agent) TurnRight() {
	a.pose.Dir = a.pose.Dir.Right()
	a.rec.Record(trace.TurnRight)
}

// PathAhead reports whether the cell ahead is passable. Queries mutate
// nothing and record nothing.
func (a *Agent) PathAhead() bool { return a.open(a.pose.Dir) }

func (a *Agent) PathLeft() bool   { return a.open(a.pose.Dir.Left()) }
func (a *Agent) PathRight() bool  { return a.open(a.pose.Dir.Right()) }
func (a *Agent) PathBehind() bool { return a.open(a.pose.Dir.Left().Left()) }

func (a *Agent) open(d Direction) bool {
	next := Pose{Pos: a.pose.Pos, Dir: d}.Ahead()
	return !a.grid.IsWall(next.Row, next.Col)
}

// AtGoal reports whether the agent stands on the goal cell.
func (a *Agent) AtGoal() bool {
	r, c := a.grid.Goal()
	return a.pose.Pos == Position{Row: r, Col: c}
}
