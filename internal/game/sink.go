package game

import "sync"

// Sink is the append-only output log for status and program errors. The
// core writes lines; it never reads them back.
type Sink interface {
	Print(line string)
	Lines() []string
	Clear()
}

const sinkHistoryCap = 300

// MemorySink keeps the most recent output lines in memory.
type MemorySink struct {
	mu    sync.Mutex
	lines []string
}

func NewMemorySink() *MemorySink {
	return &MemorySink{lines: make([]string, 0, 32)}
}

func (s *MemorySink) Print(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
	if len(s.lines) > sinkHistoryCap {
		s.lines = s.lines[len(s.lines)-sinkHistoryCap:]
	}
}

func (s *MemorySink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *MemorySink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = s.lines[:0]
}
