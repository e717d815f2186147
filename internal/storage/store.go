package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/san-kum/mazelab/internal/trace"
)

// Store persists run records under a base directory, one subdirectory per
// run with metadata.json and trace.json.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes a saved run. MazeText carries the full maze so a
// record can be replayed without the original maze file.
type RunMetadata struct {
	ID          string    `json:"id"`
	Maze        string    `json:"maze"`
	MazeText    string    `json:"maze_text"`
	Timestamp   time.Time `json:"timestamp"`
	Actions     int       `json:"actions"`
	GoalReached bool      `json:"goal_reached"`
	Elapsed     float64   `json:"elapsed_seconds"`
	Source      string    `json:"source"`
}

type traceFile struct {
	Actions []trace.Action `json:"actions"`
}

// Save writes one run record and returns its ID.
func (s *Store) Save(meta RunMetadata, tr *trace.Trace) (string, error) {
	runID := fmt.Sprintf("%s_%d", sanitize(meta.Maze), time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "trace.json"), traceFile{Actions: tr.Actions()}); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns metadata for every readable run record.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrace reads a saved action trace.
func (s *Store) LoadTrace(runID string) (*trace.Trace, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "trace.json"))
	if err != nil {
		return nil, err
	}

	var tf traceFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, err
	}

	return trace.FromActions(tf.Actions), nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func sanitize(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	if name == "" {
		name = "run"
	}
	return name
}
