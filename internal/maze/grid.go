package maze

import (
	"fmt"
	"os"
	"strings"
)

// Cell markers used in maze text.
const (
	Wall      = '#'
	Corridor  = '.'
	StartMark = 'S'
	GoalMark  = 'G'
)

// Grid is an immutable wall/cell lookup over a parsed maze.
type Grid struct {
	cells    []string
	rows     int
	cols     int
	startRow int
	startCol int
	goalRow  int
	goalCol  int
}

// Parse builds a Grid from maze text. Rows are lines of '#', '.', 'S', 'G';
// blank lines are skipped. The maze must be non-empty, rectangular, and
// contain exactly one start and one goal cell.
func Parse(s string) (*Grid, error) {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("maze is empty")
	}

	width := len(lines[0])
	for i, row := range lines {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has width %d, want %d", i, len(row), width)
		}
	}

	g := &Grid{
		cells:    lines,
		rows:     len(lines),
		cols:     width,
		startRow: -1,
		goalRow:  -1,
	}

	for r, row := range lines {
		for c := 0; c < len(row); c++ {
			switch row[c] {
			case StartMark:
				if g.startRow != -1 {
					return nil, fmt.Errorf("maze must contain exactly one 'S'")
				}
				g.startRow, g.startCol = r, c
			case GoalMark:
				if g.goalRow != -1 {
					return nil, fmt.Errorf("maze must contain exactly one 'G'")
				}
				g.goalRow, g.goalCol = r, c
			case Wall, Corridor:
			default:
				return nil, fmt.Errorf("row %d: unknown cell %q", r, string(row[c]))
			}
		}
	}

	if g.startRow == -1 || g.goalRow == -1 {
		return nil, fmt.Errorf("maze must contain one 'S' (start) and one 'G' (goal)")
	}

	return g, nil
}

// LoadFile reads and parses a maze from a text file.
func LoadFile(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func mustParse(s string) *Grid {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// Start returns the row/col of the start cell.
func (g *Grid) Start() (int, int) { return g.startRow, g.startCol }

// Goal returns the row/col of the goal cell.
func (g *Grid) Goal() (int, int) { return g.goalRow, g.goalCol }

// Cell returns the marker at (r, c), or Wall outside the grid.
func (g *Grid) Cell(r, c int) byte {
	if r < 0 || r >= g.rows || c < 0 || c >= g.cols {
		return Wall
	}
	return g.cells[r][c]
}

// IsWall reports whether (r, c) is a wall or out of bounds. Start, goal and
// corridor cells are all passable.
func (g *Grid) IsWall(r, c int) bool {
	return g.Cell(r, c) == Wall
}

// String returns the maze in its text form, one row per line.
func (g *Grid) String() string {
	return strings.Join(g.cells, "\n")
}
