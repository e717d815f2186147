package replay

import "sync/atomic"

// TokenSource issues monotonically increasing run tokens. Starting a run
// bumps the current token; a replay captures its token at start and treats
// any mismatch as a cancellation signal. This is the only piece of shared
// mutable state between runs.
type TokenSource struct {
	current atomic.Int64
}

// Next allocates a token strictly greater than all previously issued ones
// and makes it current. Only the run controller calls this.
func (s *TokenSource) Next() int64 {
	return s.current.Add(1)
}

// Current returns the live token.
func (s *TokenSource) Current() int64 {
	return s.current.Load()
}
