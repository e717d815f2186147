package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/mazelab/internal/game"
	"github.com/san-kum/mazelab/internal/replay"
)

const logTail = 8

type TickMsg time.Time

// Model is the interactive maze lab: the maze canvas on the left, run
// status and the output log on the right. Runs execute on their own
// goroutine; the view just snapshots the controller on every tick, so a
// re-run mid-replay exercises the real token cancellation path.
type Model struct {
	ctrl     *game.Controller
	speed    *replay.Speed
	mazeName string
	source   string
	timeout  time.Duration
	showHelp bool
}

func NewModel(ctrl *game.Controller, speed *replay.Speed, mazeName, source string, timeout time.Duration) Model {
	return Model{
		ctrl:     ctrl,
		speed:    speed,
		mazeName: mazeName,
		source:   source,
		timeout:  timeout,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.startRun()
		case "x":
			go m.ctrl.ResetOnly()
		case "+", "=":
			m.speed.Adjust(10)
		case "-", "_":
			m.speed.Adjust(-10)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// startRun launches a run in the background. Pressing r during a replay
// starts a fresh run immediately; the superseded replay cancels itself at
// its next step check.
func (m Model) startRun() {
	src := m.source
	timeout := m.timeout
	ctrl := m.ctrl
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ctrl.Run(ctx, src)
	}()
}

func (m Model) View() string {
	snap := m.ctrl.Snapshot()
	canvas := canvasStyle.Render(styledGrid(m.ctrl.Grid(), snap.Visual))

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.mazeName)) + "\n")
	s.WriteString(labelStyle.Render("Phase") + valueStyle.Render(string(snap.Phase)) + "\n")
	s.WriteString(labelStyle.Render("Actions") + valueStyle.Render(fmt.Sprintf("%d", snap.Actions)) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%d", m.speed.Get())) + "\n")
	if snap.Goal {
		s.WriteString(labelStyle.Render("Goal") + okStyle.Render("reached") + "\n")
	} else {
		s.WriteString(labelStyle.Render("Goal") + valueStyle.Render("not reached") + "\n")
	}

	s.WriteString("\nOUTPUT\n")
	log := snap.Log
	if len(log) > logTail {
		log = log[len(log)-logTail:]
	}
	if len(log) == 0 {
		s.WriteString(logStyle.Render("  (no output)") + "\n")
	}
	for _, line := range log {
		if strings.HasPrefix(line, "program error:") {
			s.WriteString(errStyle.Render("  "+line) + "\n")
		} else {
			s.WriteString(logStyle.Render("  "+line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("\nR:Run X:Reset +/-:Speed ?:Help Q:Quit"))
	stats := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvas, stats)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  R        - Run the program          ║
║  X        - Reset the maze           ║
║  + / -    - Faster / slower replay   ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n" + mainView
	}
	return mainView
}
