package testutil

import (
	"fmt"
	"sync"
)

// Sequence is a resettable monotonic counter for deterministic tests.
//
// The harness stamps each check outcome with Next() so traces compare
// byte-for-byte against golden files. The first call to Next() returns 1.
//
// Thread-safety: all methods are safe for concurrent use.
type Sequence struct {
	mu  sync.Mutex
	seq int64
}

// NewSequence creates a sequence starting at 0.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next increments and returns the next value.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// Current returns the last value handed out without incrementing.
func (s *Sequence) Current() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Reset rewinds the sequence so the next call to Next() returns 1 again.
func (s *Sequence) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = 0
}

// SequentialIDs generates predictable run IDs: "<prefix>-0001", "<prefix>-0002", ...
//
// Implements history.IDGenerator so stored runs have stable IDs in tests.
// If prefix is empty, "run" is used.
type SequentialIDs struct {
	prefix string
	seq    Sequence
}

// NewSequentialIDs creates a generator with the given prefix.
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "run"
	}
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequentialIDs) Generate() string {
	return fmt.Sprintf("%s-%04d", g.prefix, g.seq.Next())
}
