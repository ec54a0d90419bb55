package cli

import (
	"github.com/spf13/cobra"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/graph"
	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/history"
	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/report"
)

// Propagation defaults.
const (
	DefaultAttenuation = 0.9
	DefaultMaxDepth    = 4
)

// PropagateOptions holds flags for the propagate command.
type PropagateOptions struct {
	*RootOptions
	Origin      string
	Amplitude   float64
	Urgency     float64
	Confidence  float64
	Attenuation float64
	MaxDepth    int
}

// NewPropagateCommand creates the propagate command.
func NewPropagateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PropagateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "propagate <definition>",
		Short: "Trace how an impulse at one node spreads to its dependents",
		Long: `Inject an impulse at --origin and spread it along outgoing edges.

The impulse starts with intensity amplitude * urgency * confidence and is
multiplied by each edge's influence and by --attenuation per hop. Nodes
reached over several paths sum their contributions. Nodes at --max-depth
are not expanded further.

Examples:
  depgraph propagate graphs/settlement.yaml --origin identity --amplitude 0.9 --urgency 0.8 --confidence 0.75
  depgraph propagate graphs/settlement.yaml --origin risk --attenuation 0.5 --max-depth 2 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPropagate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Origin, "origin", "", "node the impulse starts at (required)")
	cmd.Flags().Float64Var(&opts.Amplitude, "amplitude", 1, "impulse amplitude in [0,1]")
	cmd.Flags().Float64Var(&opts.Urgency, "urgency", 1, "impulse urgency in [0,1]")
	cmd.Flags().Float64Var(&opts.Confidence, "confidence", 1, "impulse confidence in [0,1]")
	cmd.Flags().Float64Var(&opts.Attenuation, "attenuation", DefaultAttenuation, "per-hop decay in (0,1]")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", DefaultMaxDepth, "maximum hops from the origin (>= 1)")
	_ = cmd.MarkFlagRequired("origin")

	return cmd
}

func runPropagate(opts *PropagateOptions, path string, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, path, cmd)
	if err != nil {
		return err
	}

	impulse := graph.NewImpulse(opts.Origin, opts.Amplitude, opts.Urgency, opts.Confidence)
	s.logger.Debug("propagating",
		"origin", impulse.Origin,
		"intensity", impulse.Intensity(),
		"attenuation", opts.Attenuation,
		"max_depth", opts.MaxDepth,
	)

	rep, err := report.Propagation(s.guard, impulse, opts.Attenuation, opts.MaxDepth)
	if err != nil {
		return s.fail("propagation failed", err)
	}
	rep.Graph = s.doc.Name

	if err := s.render(rep, func(r *report.Renderer) error { return r.Propagation(rep) }); err != nil {
		return err
	}
	if err := s.record(cmd.Context(), history.FromPropagation(rep, s.fingerprint)); err != nil {
		return err
	}
	return s.finish()
}
