package viz

import (
	"fmt"
	"io"

	"github.com/san-kum/mazelab/internal/agent"
	"github.com/san-kum/mazelab/internal/maze"
)

// TermRenderer redraws the maze in place on an ANSI terminal, one full
// frame per visual state change.
type TermRenderer struct {
	out io.Writer
}

func NewTermRenderer(out io.Writer) *TermRenderer {
	return &TermRenderer{out: out}
}

func (r *TermRenderer) Frame(g *maze.Grid, p agent.Pose) {
	fmt.Fprint(r.out, "\033[H\033[2J")
	fmt.Fprint(r.out, plainGrid(g, p))
}
