package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/mazelab/internal/agent"
	"github.com/san-kum/mazelab/internal/config"
	"github.com/san-kum/mazelab/internal/game"
	"github.com/san-kum/mazelab/internal/maze"
	"github.com/san-kum/mazelab/internal/replay"
	"github.com/san-kum/mazelab/internal/script"
	"github.com/san-kum/mazelab/internal/storage"
	"github.com/san-kum/mazelab/internal/viz"
)

var (
	configFile string
	dataDir    string
	mazeName   string
	mazeFile   string
	sampleName string
	speedVal   int
	maxActions int
	timeoutSec float64
	animate    bool
	noSave     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mazelab",
		Short: "maze programming lab",
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&mazeName, "maze", config.DefaultMaze, "built-in maze name")
	rootCmd.PersistentFlags().StringVar(&mazeFile, "maze-file", "", "maze file path (overrides --maze)")

	runCmd := &cobra.Command{
		Use:   "run [script]",
		Short: "run a program against the maze",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScript,
	}
	runCmd.Flags().StringVar(&sampleName, "sample", "", "run a built-in sample program")
	runCmd.Flags().IntVar(&speedVal, "speed", config.DefaultSpeed, "animation speed")
	runCmd.Flags().IntVar(&maxActions, "max-actions", config.DefaultMaxActions, "action budget")
	runCmd.Flags().Float64Var(&timeoutSec, "timeout", config.DefaultTimeoutSecs, "execution timeout (seconds)")
	runCmd.Flags().BoolVar(&animate, "animate", false, "animate the replay in the terminal")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not save a run record")

	playCmd := &cobra.Command{
		Use:   "play [script]",
		Short: "interactive maze lab",
		Args:  cobra.MaximumNArgs(1),
		RunE:  playScript,
	}
	playCmd.Flags().StringVar(&sampleName, "sample", "", "load a built-in sample program")
	playCmd.Flags().IntVar(&speedVal, "speed", config.DefaultSpeed, "animation speed")
	playCmd.Flags().Float64Var(&timeoutSec, "timeout", config.DefaultTimeoutSecs, "execution timeout (seconds)")

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "re-animate a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}
	replayCmd.Flags().IntVar(&speedVal, "speed", config.DefaultSpeed, "animation speed")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot distance to goal over a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [script]",
		Short: "run a program against every built-in maze",
		Args:  cobra.MaximumNArgs(1),
		RunE:  batchScript,
	}
	batchCmd.Flags().StringVar(&sampleName, "sample", "", "run a built-in sample program")
	batchCmd.Flags().IntVar(&maxActions, "max-actions", config.DefaultMaxActions, "action budget")
	batchCmd.Flags().Float64Var(&timeoutSec, "timeout", config.DefaultTimeoutSecs, "execution timeout (seconds)")

	checkCmd := &cobra.Command{
		Use:   "check [script]",
		Short: "validate a program without running it",
		Args:  cobra.ExactArgs(1),
		RunE:  checkScript,
	}

	mazesCmd := &cobra.Command{
		Use:   "mazes",
		Short: "list built-in mazes",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE")
			for _, name := range maze.BuiltinNames() {
				g := maze.Builtin(name)
				fmt.Fprintf(w, "%s\t%dx%d\n", name, g.Rows(), g.Cols())
			}
			return w.Flush()
		},
	}

	samplesCmd := &cobra.Command{
		Use:   "samples",
		Short: "print built-in sample programs",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range script.SampleNames() {
				fmt.Printf("--- %s ---\n%s\n", name, script.Samples[name])
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, playCmd, replayCmd, listCmd, exportCmd, plotCmd, batchCmd, checkCmd, mazesCmd, samplesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig merges defaults, an optional config file, and CLI flags; flags
// win over the file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if cmd.Flags().Changed("maze") || cfg.Maze == "" {
		cfg.Maze = mazeName
	}
	if f := cmd.Flags().Lookup("max-actions"); f != nil && f.Changed {
		cfg.Budget.MaxActions = maxActions
	}
	if f := cmd.Flags().Lookup("timeout"); f != nil && f.Changed {
		cfg.Budget.TimeoutSecs = timeoutSec
	}
	return cfg, nil
}

func resolveGrid(cfg *config.Config) (*maze.Grid, string, error) {
	if mazeFile != "" {
		g, err := maze.LoadFile(mazeFile)
		if err != nil {
			return nil, "", err
		}
		name := strings.TrimSuffix(filepath.Base(mazeFile), filepath.Ext(mazeFile))
		return g, name, nil
	}
	g := maze.Builtin(cfg.Maze)
	if g == nil {
		return nil, "", fmt.Errorf("unknown maze: %s (available: %v)", cfg.Maze, maze.BuiltinNames())
	}
	return g, cfg.Maze, nil
}

func resolveSource(args []string) (string, error) {
	if sampleName != "" {
		src, ok := script.Samples[sampleName]
		if !ok {
			return "", fmt.Errorf("unknown sample: %s (available: %v)", sampleName, script.SampleNames())
		}
		return src, nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("give a script file or --sample")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func newSpeed(cfg *config.Config) *replay.Speed {
	return replay.NewSpeed(cfg.Speed.Min, cfg.Speed.Max, speedVal)
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	src, err := resolveSource(args)
	if err != nil {
		return err
	}
	grid, name, err := resolveGrid(cfg)
	if err != nil {
		return err
	}

	sink := game.NewMemorySink()
	var render replay.Renderer = replay.NopRenderer{}
	// Pacing only matters when something is drawn.
	speed := replay.NewSpeed(0, 0, 0)
	if animate {
		render = viz.NewTermRenderer(os.Stdout)
		speed = newSpeed(cfg)
	}

	ctrl := game.New(grid, render, speed, cfg.Limits(), sink)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	res := ctrl.Run(ctx, src)

	if animate {
		fmt.Println()
	}
	for _, line := range sink.Lines() {
		fmt.Println(line)
	}
	fmt.Printf("actions: %d\n", res.Actions)
	fmt.Printf("elapsed: %v\n", res.Elapsed.Round(time.Millisecond))

	if noSave {
		return nil
	}
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Maze:        name,
		MazeText:    grid.String(),
		Actions:     res.Actions,
		GoalReached: res.GoalReached,
		Elapsed:     res.Elapsed.Seconds(),
		Source:      src,
	}, res.Trace)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func playScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	src, err := resolveSource(args)
	if err != nil {
		return err
	}
	grid, name, err := resolveGrid(cfg)
	if err != nil {
		return err
	}

	speed := newSpeed(cfg)
	sink := game.NewMemorySink()
	// The TUI redraws from controller snapshots on its own tick, so the
	// replay engine itself renders nothing.
	ctrl := game.New(grid, replay.NopRenderer{}, speed, cfg.Limits(), sink)

	m := viz.NewModel(ctrl, speed, name, src, cfg.Timeout())
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func replayRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	grid, err := maze.Parse(meta.MazeText)
	if err != nil {
		return fmt.Errorf("run %s has a bad maze: %w", meta.ID, err)
	}

	tokens := &replay.TokenSource{}
	engine := replay.NewEngine(grid, tokens, newSpeed(cfg), viz.NewTermRenderer(os.Stdout))
	engine.ResetPose(agent.StartPose(grid))

	if err := engine.Replay(context.Background(), tr, tokens.Next()); err != nil {
		return err
	}
	fmt.Printf("\nreplayed %d actions from %s\n", tr.Len(), meta.ID)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMAZE\tTIME\tACTIONS\tGOAL")

	for _, run := range runs {
		goal := "no"
		if run.GoalReached {
			goal = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			run.ID,
			run.Maze,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Actions,
			goal,
		)
	}

	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func plotRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	grid, err := maze.Parse(meta.MazeText)
	if err != nil {
		return fmt.Errorf("run %s has a bad maze: %w", meta.ID, err)
	}

	gr, gc := grid.Goal()
	dist := func(p agent.Pose) float64 {
		dr, dc := p.Pos.Row-gr, p.Pos.Col-gc
		if dr < 0 {
			dr = -dr
		}
		if dc < 0 {
			dc = -dc
		}
		return float64(dr + dc)
	}

	pose := agent.StartPose(grid)
	data := make([]float64, 0, tr.Len()+1)
	data = append(data, dist(pose))
	for _, act := range tr.Actions() {
		pose = pose.Apply(grid, act)
		data = append(data, dist(pose))
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("maze: %s\n", meta.Maze)
	fmt.Printf("actions: %d\n\n", tr.Len())

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.Caption("distance to goal (cells) per action"),
	)
	fmt.Println(graph)
	return nil
}

func batchScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	src, err := resolveSource(args)
	if err != nil {
		return err
	}

	entries := make([]game.BatchEntry, 0, len(maze.BuiltinNames()))
	for _, name := range maze.BuiltinNames() {
		entries = append(entries, game.BatchEntry{Name: name, Grid: maze.Builtin(name)})
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	results, err := game.NewBatch(entries, cfg.Limits()).Run(ctx, src)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MAZE\tACTIONS\tGOAL\tERROR")
	for _, r := range results {
		goal := "no"
		if r.GoalReached {
			goal = "yes"
		}
		errMsg := "-"
		if r.ProgramErr != nil {
			errMsg = r.ProgramErr.Error()
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", r.Name, r.Actions, goal, errMsg)
	}
	return w.Flush()
}

func checkScript(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	if _, err := script.Parse(string(data)); err != nil {
		return fmt.Errorf("syntax error: %w", err)
	}
	fmt.Println("ok")
	return nil
}
