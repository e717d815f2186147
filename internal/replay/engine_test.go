package replay

import (
	"context"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/san-kum/mazelab/internal/agent"
	"github.com/san-kum/mazelab/internal/maze"
	"github.com/san-kum/mazelab/internal/trace"
)

const corridor = `#####
#S.G#
#####`

func mustGrid(t *testing.T, s string) *maze.Grid {
	t.Helper()
	g, err := maze.Parse(s)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return g
}

// frameCount records how many frames were drawn and the last pose seen.
type frameCount struct {
	mu   sync.Mutex
	n    int
	last agent.Pose
}

func (f *frameCount) Frame(_ *maze.Grid, pose agent.Pose) {
	f.mu.Lock()
	f.n++
	f.last = pose
	f.mu.Unlock()
}

func (f *frameCount) frames() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n
}

func (f *frameCount) lastPose() agent.Pose {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// instant removes pacing so the tests never sleep.
func instant() *Speed { return NewSpeed(0, 0, 0) }

func TestReplayAppliesTrace(t *testing.T) {
	g := NewWithT(t)
	grid := mustGrid(t, corridor)
	tokens := &TokenSource{}
	render := &frameCount{}
	e := NewEngine(grid, tokens, instant(), render)
	e.ResetPose(agent.StartPose(grid))

	tr := trace.FromActions([]trace.Action{trace.Move, trace.Move})
	token := tokens.Next()
	err := e.Replay(context.Background(), tr, token)

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(e.Pose().Pos).To(Equal(agent.Position{Row: 1, Col: 3}))
	// One frame from the reset plus one per action.
	g.Expect(render.frames()).To(Equal(3))
}

func TestReplayBlockedMoveStaysPut(t *testing.T) {
	g := NewWithT(t)
	grid := mustGrid(t, `###
#S#
#G#
###`)
	tokens := &TokenSource{}
	e := NewEngine(grid, tokens, instant(), NopRenderer{})
	start := agent.StartPose(grid)
	e.ResetPose(start)

	// Facing right into the wall: the move replays as a stationary step.
	tr := trace.FromActions([]trace.Action{trace.Move})
	err := e.Replay(context.Background(), tr, tokens.Next())

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(e.Pose()).To(Equal(start))
}

func TestReplayStaleTokenDrawsNothing(t *testing.T) {
	g := NewWithT(t)
	grid := mustGrid(t, corridor)
	tokens := &TokenSource{}
	render := &frameCount{}
	e := NewEngine(grid, tokens, instant(), render)

	token := tokens.Next()
	tokens.Next() // a newer run took over before the replay started

	tr := trace.FromActions([]trace.Action{trace.Move, trace.Move})
	err := e.Replay(context.Background(), tr, token)

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(render.frames()).To(BeZero())
}

func TestReplayStopsAtTokenBump(t *testing.T) {
	g := NewWithT(t)
	grid := mustGrid(t, corridor)
	tokens := &TokenSource{}
	e := NewEngine(grid, tokens, instant(), NopRenderer{})
	start := agent.StartPose(grid)
	e.ResetPose(start)

	// bumper invalidates the token after the first step has been drawn.
	token := tokens.Next()
	bumper := &tokenBumper{tokens: tokens, after: 1}
	e.render = bumper

	tr := trace.FromActions([]trace.Action{trace.Move, trace.Move})
	err := e.Replay(context.Background(), tr, token)

	g.Expect(err).NotTo(HaveOccurred())
	// Only the first move landed; the second step saw the new token.
	g.Expect(e.Pose().Pos).To(Equal(agent.Position{Row: 1, Col: 2}))
}

type tokenBumper struct {
	tokens *TokenSource
	after  int
	seen   int
}

func (b *tokenBumper) Frame(*maze.Grid, agent.Pose) {
	b.seen++
	if b.seen == b.after {
		b.tokens.Next()
	}
}

// A reset issued after a replay's token went stale must be the last frame
// drawn; the stale replay cannot slip a frame in behind it.
func TestStaleReplayNeverDrawsAfterReset(t *testing.T) {
	g := NewWithT(t)
	grid := mustGrid(t, corridor)
	tokens := &TokenSource{}
	render := &frameCount{}
	e := NewEngine(grid, tokens, NewSpeed(3, 300, 300), render)
	start := agent.StartPose(grid)
	e.ResetPose(start)

	actions := make([]trace.Action, 50)
	for i := range actions {
		actions[i] = trace.Move
	}
	token := tokens.Next()
	done := make(chan error, 1)
	go func() {
		done <- e.Replay(context.Background(), trace.FromActions(actions), token)
	}()

	// Wait until the replay has drawn at least one step past the reset.
	g.Eventually(render.frames, time.Second, time.Millisecond).Should(BeNumerically(">", 1))

	tokens.Next()
	e.ResetPose(start)
	g.Expect(<-done).NotTo(HaveOccurred())

	g.Expect(render.lastPose()).To(Equal(start))
	g.Expect(e.Pose()).To(Equal(start))
}

func TestReplayContextCancel(t *testing.T) {
	g := NewWithT(t)
	grid := mustGrid(t, corridor)
	tokens := &TokenSource{}
	e := NewEngine(grid, tokens, NewSpeed(3, 300, 3), NopRenderer{})
	e.ResetPose(agent.StartPose(grid))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := trace.FromActions([]trace.Action{trace.Move, trace.Move})
	err := e.Replay(ctx, tr, tokens.Next())

	g.Expect(err).To(MatchError(context.Canceled))
}

func TestSpeedDelay(t *testing.T) {
	g := NewWithT(t)

	s := NewSpeed(3, 300, 50)
	g.Expect(s.Get()).To(Equal(50))
	g.Expect(s.Delay()).To(Equal(253 * time.Millisecond))

	s.Set(300)
	g.Expect(s.Delay()).To(Equal(3 * time.Millisecond))

	s.Set(3)
	g.Expect(s.Delay()).To(Equal(300 * time.Millisecond))

	s.Set(9999)
	g.Expect(s.Get()).To(Equal(300))
	s.Adjust(-9999)
	g.Expect(s.Get()).To(Equal(3))
	s.Adjust(10)
	g.Expect(s.Get()).To(Equal(13))
}

func TestTokenMonotonic(t *testing.T) {
	g := NewWithT(t)
	tokens := &TokenSource{}

	g.Expect(tokens.Current()).To(BeZero())
	first := tokens.Next()
	second := tokens.Next()
	g.Expect(second).To(BeNumerically(">", first))
	g.Expect(tokens.Current()).To(Equal(second))
}
