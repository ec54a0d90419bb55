// Package history records analysis results (readiness profiles,
// topological orders, propagation impacts) in SQLite so runs over the same
// graph can be listed and compared.
//
// Runs are numbered by a store-assigned sequence, and entries are read back
// in rank order, so reads are deterministic.
package history

import (
	"errors"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("run not found")

// Kind is the analysis a run recorded.
type Kind string

const (
	KindReadiness   Kind = "readiness"
	KindOrder       Kind = "order"
	KindPropagation Kind = "propagation"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindReadiness, KindOrder, KindPropagation:
		return true
	}
	return false
}

// Run is one recorded analysis.
type Run struct {
	ID          string            `json:"id"`
	Seq         int64             `json:"seq"`
	Kind        Kind              `json:"kind"`
	GraphName   string            `json:"graph_name,omitempty"`
	Fingerprint string            `json:"fingerprint"`
	Params      map[string]string `json:"params,omitempty"`
	Entries     []Entry           `json:"entries"`
}

// Entry is one node's value in a run. Rank is the entry's position in the
// run's output (topological position, or impact rank).
type Entry struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	Rank  int     `json:"rank"`
}

// IDGenerator produces run IDs.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ListOptions filters ListRuns. Zero values match everything.
type ListOptions struct {
	Kind        Kind
	Fingerprint string
	Limit       int
}
