package agent

import (
	"github.com/san-kum/mazelab/internal/maze"
	"github.com/san-kum/mazelab/internal/trace"
)

// Direction is a cyclic heading: turning right advances by +1 mod 4,
// turning left by +3 mod 4.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// DefaultDirection is the heading every run starts with.
const DefaultDirection = Right

func (d Direction) Left() Direction  { return (d + 3) % 4 }
func (d Direction) Right() Direction { return (d + 1) % 4 }

// Delta returns the row/col unit step for the heading.
func (d Direction) Delta() (dr, dc int) {
	switch d {
	case Up:
		return -1, 0
	case Right:
		return 0, 1
	case Down:
		return 1, 0
	default:
		return 0, -1
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	default:
		return "left"
	}
}

// Position is a row/col cell coordinate.
type Position struct {
	Row, Col int
}

// Pose is a position plus heading. Both the logical agent and the replay
// engine step poses through the same arithmetic below; the replay trusts the
// recorded trace precisely because the two state machines cannot diverge.
type Pose struct {
	Pos Position
	Dir Direction
}

// Ahead returns the cell one step forward in the current heading.
func (p Pose) Ahead() Position {
	dr, dc := p.Dir.Delta()
	return Position{Row: p.Pos.Row + dr, Col: p.Pos.Col + dc}
}

// StepForward returns the pose after one forward step, staying put when a
// wall blocks the way. An attempted move into a wall is stationary, not an
// error.
func (p Pose) StepForward(g *maze.Grid) Pose {
	next := p.Ahead()
	if !g.IsWall(next.Row, next.Col) {
		p.Pos = next
	}
	return p
}

// Apply advances the pose by one recorded action. A Move recomputes the
// same forward-step arithmetic the logical agent used while recording, so a
// replayed trace lands exactly where the agent did, blocked moves included.
func (p Pose) Apply(g *maze.Grid, a trace.Action) Pose {
	switch a {
	case trace.Move:
		return p.StepForward(g)
	case trace.TurnLeft:
		p.Dir = p.Dir.Left()
	case trace.TurnRight:
		p.Dir = p.Dir.Right()
	}
	return p
}

// StartPose is the reset pose for a grid: start cell, default heading.
func StartPose(g *maze.Grid) Pose {
	r, c := g.Start()
	return Pose{Pos: Position{Row: r, Col: c}, Dir: DefaultDirection}
}
