package history

import (
	"strconv"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/report"
)

// FromReadiness converts a readiness report into a run. Rank is the row's
// topological position, starting at 1.
func FromReadiness(rep *report.ReadinessReport, fingerprint string) Run {
	run := Run{
		Kind:        KindReadiness,
		GraphName:   rep.Graph,
		Fingerprint: fingerprint,
		Entries:     make([]Entry, 0, len(rep.Rows)),
	}
	for i, row := range rep.Rows {
		run.Entries = append(run.Entries, Entry{Key: row.Key, Value: row.Score, Rank: i + 1})
	}
	return run
}

// FromOrder converts an order report into a run. Value is the node's depth.
func FromOrder(rep *report.OrderReport, fingerprint string) Run {
	run := Run{
		Kind:        KindOrder,
		GraphName:   rep.Graph,
		Fingerprint: fingerprint,
		Entries:     make([]Entry, 0, len(rep.Rows)),
	}
	for _, row := range rep.Rows {
		run.Entries = append(run.Entries, Entry{Key: row.Key, Value: float64(row.Depth), Rank: row.Position})
	}
	return run
}

// FromPropagation converts a propagation report into a run. The impulse
// and walk parameters are kept in Params.
func FromPropagation(rep *report.PropagationReport, fingerprint string) Run {
	run := Run{
		Kind:        KindPropagation,
		GraphName:   rep.Graph,
		Fingerprint: fingerprint,
		Params: map[string]string{
			"origin":      rep.Impulse.Origin,
			"amplitude":   formatParam(rep.Impulse.Amplitude),
			"urgency":     formatParam(rep.Impulse.Urgency),
			"confidence":  formatParam(rep.Impulse.Confidence),
			"attenuation": formatParam(rep.Attenuation),
			"max_depth":   strconv.Itoa(rep.MaxDepth),
		},
		Entries: make([]Entry, 0, len(rep.Rows)),
	}
	for i, row := range rep.Rows {
		run.Entries = append(run.Entries, Entry{Key: row.Key, Value: row.Impact, Rank: i + 1})
	}
	return run
}

func formatParam(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
