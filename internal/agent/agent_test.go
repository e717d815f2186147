package agent

import (
	"testing"

	"github.com/san-kum/mazelab/internal/maze"
	"github.com/san-kum/mazelab/internal/trace"
)

func mustGrid(t *testing.T, s string) *maze.Grid {
	t.Helper()
	g, err := maze.Parse(s)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return g
}

// Start at (1,1) facing right, goal directly below at (2,1).
const shaft = `###
#S#
#G#
###`

const open = `#####
#S..#
#.#.#
#..G#
#####`

func TestTurnRoundTrip(t *testing.T) {
	for d := Direction(0); d < 4; d++ {
		if got := d.Left().Right(); got != d {
			t.Errorf("%v.Left().Right() = %v, want %v", d, got, d)
		}
		if got := d.Right().Left(); got != d {
			t.Errorf("%v.Right().Left() = %v, want %v", d, got, d)
		}
	}
}

func TestDirectionCycle(t *testing.T) {
	tests := []struct {
		d     Direction
		right Direction
		left  Direction
	}{
		{Up, Right, Left},
		{Right, Down, Up},
		{Down, Left, Right},
		{Left, Up, Down},
	}
	for _, tt := range tests {
		if got := tt.d.Right(); got != tt.right {
			t.Errorf("%v.Right() = %v, want %v", tt.d, got, tt.right)
		}
		if got := tt.d.Left(); got != tt.left {
			t.Errorf("%v.Left() = %v, want %v", tt.d, got, tt.left)
		}
	}
}

func TestMoveBlockedRecordsAction(t *testing.T) {
	g := mustGrid(t, shaft)
	tr := trace.New()
	a := New(g, tr)

	// Facing right into the wall at (1,2).
	before := a.Pose()
	a.Move()

	if a.Pose() != before {
		t.Errorf("blocked move changed pose: %v -> %v", before, a.Pose())
	}
	if tr.Len() != 1 {
		t.Errorf("expected exactly 1 recorded action, got %d", tr.Len())
	}
}

func TestTurnRightMoveReachesGoal(t *testing.T) {
	g := mustGrid(t, shaft)
	tr := trace.New()
	a := New(g, tr)

	a.TurnRight()
	a.Move()

	if !a.AtGoal() {
		t.Fatalf("expected goal at %v", a.Pose())
	}
	want := []trace.Action{trace.TurnRight, trace.Move}
	if tr.Len() != 2 {
		t.Fatalf("expected 2 actions, got %d", tr.Len())
	}
	for i, act := range tr.Actions() {
		if act != want[i] {
			t.Errorf("action %d = %v, want %v", i, act, want[i])
		}
	}
}

func TestPathQueries(t *testing.T) {
	g := mustGrid(t, open)
	a := New(g, trace.New())

	// At (1,1) facing right: ahead (1,2) open, right (2,1) open,
	// left (0,1) wall, behind (1,0) wall.
	if !a.PathAhead() {
		t.Error("expected path ahead")
	}
	if !a.PathRight() {
		t.Error("expected path right")
	}
	if a.PathLeft() {
		t.Error("expected wall to the left")
	}
	if a.PathBehind() {
		t.Error("expected wall behind")
	}

	before := a.Pose()
	if a.Pose() != before {
		t.Error("queries must not mutate state")
	}
}

func TestReset(t *testing.T) {
	g := mustGrid(t, open)
	a := New(g, trace.New())

	a.Move()
	a.TurnRight()
	a.Reset()

	if a.Pose() != StartPose(g) {
		t.Errorf("reset pose = %v, want %v", a.Pose(), StartPose(g))
	}
}

// Replaying a recorded trace through Pose.Apply from the start pose must
// land exactly on the recording agent's final pose, blocked moves included.
func TestApplyMatchesAgent(t *testing.T) {
	g := mustGrid(t, open)
	tr := trace.New()
	a := New(g, tr)

	// A walk with turns, successful moves and a deliberate wall bump.
	a.Move()      // (1,2)
	a.Move()      // (1,3)
	a.Move()      // blocked by the wall at (1,4)
	a.TurnRight() // face down
	a.Move()      // (2,3)
	a.Move()      // (3,3), the goal
	a.TurnLeft()

	pose := StartPose(g)
	for _, act := range tr.Actions() {
		pose = pose.Apply(g, act)
	}

	if pose != a.Pose() {
		t.Errorf("replayed pose %v, agent pose %v", pose, a.Pose())
	}
	if !a.AtGoal() {
		t.Errorf("expected agent on goal, at %v", a.Pose())
	}
}
