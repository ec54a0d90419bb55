package history

import (
	"sort"
)

// Change classifies a Delta.
type Change string

const (
	ChangeAdded   Change = "added"
	ChangeRemoved Change = "removed"
	ChangeChanged Change = "changed"
)

// Delta is the difference for one key between two runs. Before fields are
// zero for added keys and After fields are zero for removed keys.
type Delta struct {
	Key        string  `json:"key"`
	Change     Change  `json:"change"`
	Before     float64 `json:"before"`
	After      float64 `json:"after"`
	Delta      float64 `json:"delta"`
	BeforeRank int     `json:"before_rank"`
	AfterRank  int     `json:"after_rank"`
}

// Diff compares two runs key by key. Keys whose value and rank are both
// unchanged are omitted. The result is sorted by key.
func Diff(prev, cur Run) []Delta {
	before := make(map[string]Entry, len(prev.Entries))
	for _, e := range prev.Entries {
		before[e.Key] = e
	}
	after := make(map[string]Entry, len(cur.Entries))
	for _, e := range cur.Entries {
		after[e.Key] = e
	}

	deltas := []Delta{}
	for key, b := range before {
		a, ok := after[key]
		if !ok {
			deltas = append(deltas, Delta{
				Key:        key,
				Change:     ChangeRemoved,
				Before:     b.Value,
				Delta:      -b.Value,
				BeforeRank: b.Rank,
			})
			continue
		}
		if a.Value == b.Value && a.Rank == b.Rank {
			continue
		}
		deltas = append(deltas, Delta{
			Key:        key,
			Change:     ChangeChanged,
			Before:     b.Value,
			After:      a.Value,
			Delta:      a.Value - b.Value,
			BeforeRank: b.Rank,
			AfterRank:  a.Rank,
		})
	}
	for key, a := range after {
		if _, ok := before[key]; ok {
			continue
		}
		deltas = append(deltas, Delta{
			Key:       key,
			Change:    ChangeAdded,
			After:     a.Value,
			Delta:     a.Value,
			AfterRank: a.Rank,
		})
	}

	sort.Slice(deltas, func(i, j int) bool { return deltas[i].Key < deltas[j].Key })
	return deltas
}
