package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/mazelab/internal/agent"
	"github.com/san-kum/mazelab/internal/maze"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	logStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	wallStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	floorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	startStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	goalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	agentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
)

func arrow(d agent.Direction) string {
	switch d {
	case agent.Up:
		return "▲"
	case agent.Right:
		return "▶"
	case agent.Down:
		return "▼"
	default:
		return "◀"
	}
}

// styledGrid renders the maze with lipgloss colors and the agent drawn at
// its pose. Each cell is two characters wide to keep the aspect ratio
// roughly square in a terminal.
func styledGrid(g *maze.Grid, p agent.Pose) string {
	var b strings.Builder
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if p.Pos.Row == r && p.Pos.Col == c {
				b.WriteString(agentStyle.Render(arrow(p.Dir) + " "))
				continue
			}
			switch g.Cell(r, c) {
			case maze.Wall:
				b.WriteString(wallStyle.Render("██"))
			case maze.StartMark:
				b.WriteString(startStyle.Render("S "))
			case maze.GoalMark:
				b.WriteString(goalStyle.Render("G "))
			default:
				b.WriteString(floorStyle.Render("· "))
			}
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// plainGrid renders the maze as plain ASCII for non-TUI terminals.
func plainGrid(g *maze.Grid, p agent.Pose) string {
	var b strings.Builder
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if p.Pos.Row == r && p.Pos.Col == c {
				b.WriteString(arrow(p.Dir) + " ")
				continue
			}
			switch g.Cell(r, c) {
			case maze.Wall:
				b.WriteString("# ")
			case maze.StartMark:
				b.WriteString("S ")
			case maze.GoalMark:
				b.WriteString("G ")
			default:
				b.WriteString(". ")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
