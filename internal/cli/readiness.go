package cli

import (
	"github.com/spf13/cobra"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/graph"
	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/history"
	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/report"
)

// NodeScore is the JSON payload for a single-node readiness query.
type NodeScore struct {
	Node  string  `json:"node"`
	Score float64 `json:"score"`
}

// NewReadinessCommand creates the readiness command.
func NewReadinessCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readiness <definition> [node]",
		Short: "Score readiness of every node, or of one node",
		Long: `Score how ready each node is, combining its own readiness with the
readiness of everything it depends on.

With a node argument only that node is scored. Without one, the full
profile is printed in dependency order with a summary, and recorded to
the history database when --db is set.

Examples:
  depgraph readiness graphs/settlement.yaml
  depgraph readiness graphs/settlement.yaml risk
  depgraph readiness graphs/settlement.yaml --format json --db history.db`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				return runNodeReadiness(rootOpts, args[0], args[1], cmd)
			}
			return runReadiness(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runReadiness(opts *RootOptions, path string, cmd *cobra.Command) error {
	s, err := openSession(opts, path, cmd)
	if err != nil {
		return err
	}

	rep, err := report.Readiness(s.guard)
	if err != nil {
		return s.fail("readiness failed", err)
	}
	rep.Graph = s.doc.Name

	if err := s.render(rep, func(r *report.Renderer) error { return r.Readiness(rep) }); err != nil {
		return err
	}
	if err := s.record(cmd.Context(), history.FromReadiness(rep, s.fingerprint)); err != nil {
		return err
	}
	return s.finish()
}

func runNodeReadiness(opts *RootOptions, path, node string, cmd *cobra.Command) error {
	s, err := openSession(opts, path, cmd)
	if err != nil {
		return err
	}

	key := graph.NormalizeKey(node)
	score, err := s.guard.Readiness(key)
	if err != nil {
		return s.fail("readiness failed", err)
	}

	result := NodeScore{Node: key, Score: report.Round6(score)}
	if err := s.render(result, func(r *report.Renderer) error { return r.Score(key, score) }); err != nil {
		return err
	}
	return s.finish()
}
