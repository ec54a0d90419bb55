package cli

import (
	"github.com/spf13/cobra"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/history"
	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/report"
)

// NewOrderCommand creates the order command.
func NewOrderCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order <definition>",
		Short: "Print nodes in dependency order",
		Long: `Print every node so that each dependency comes before its dependents,
with the node's depth (longest path from a node with no dependencies).

Fails with E303 if the graph contains a cycle.

Example:
  depgraph order graphs/settlement.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runOrder(opts *RootOptions, path string, cmd *cobra.Command) error {
	s, err := openSession(opts, path, cmd)
	if err != nil {
		return err
	}

	rep, err := report.Order(s.guard)
	if err != nil {
		return s.fail("order failed", err)
	}
	rep.Graph = s.doc.Name

	if err := s.render(rep, func(r *report.Renderer) error { return r.Order(rep) }); err != nil {
		return err
	}
	if err := s.record(cmd.Context(), history.FromOrder(rep, s.fingerprint)); err != nil {
		return err
	}
	return s.finish()
}
