package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/history"
)

// HistoryOptions holds flags for the history list command.
type HistoryOptions struct {
	*RootOptions
	Kind        string
	Fingerprint string
	Limit       int
}

// RunDiff is the JSON payload for history diff.
type RunDiff struct {
	Before string          `json:"before"`
	After  string          `json:"after"`
	Deltas []history.Delta `json:"deltas"`
}

// NewHistoryCommand creates the history command and its subcommands.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded analysis runs",
		Long: `Inspect analysis runs recorded with --db.

Every readiness, order and propagation command run with --db appends a
run to the history database. Runs are numbered in recording order.

Examples:
  depgraph history list --db history.db
  depgraph history show <run-id> --db history.db
  depgraph history diff <older-id> <newer-id> --db history.db`,
	}

	cmd.AddCommand(newHistoryListCommand(rootOpts))
	cmd.AddCommand(newHistoryShowCommand(rootOpts))
	cmd.AddCommand(newHistoryDiffCommand(rootOpts))

	return cmd
}

func newHistoryListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List recorded runs, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only runs of this kind (readiness|order|propagation)")
	cmd.Flags().StringVar(&opts.Fingerprint, "fingerprint", "", "only runs of the graph with this fingerprint")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of runs (0 = all)")

	return cmd
}

func newHistoryShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <run-id>",
		Short:         "Show one recorded run",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(rootOpts, args[0], cmd)
		},
	}
}

func newHistoryDiffCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "diff <run-a> <run-b>",
		Short:         "Compare two recorded runs key by key",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryDiff(rootOpts, args[0], args[1], cmd)
		},
	}
}

// openHistory opens the --db store, which history commands require.
func openHistory(opts *RootOptions, formatter *OutputFormatter) (*history.Store, error) {
	if opts.Database == "" {
		_ = formatter.Error(ErrCodeHistory, "--db is required", nil)
		return nil, NewExitError(ExitCommandError, "--db is required for history commands")
	}
	st, err := history.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeHistory, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to open history database", err)
	}
	return st, nil
}

// historyError reports a read failure. A missing run is a failure, anything
// else a command error.
func historyError(formatter *OutputFormatter, err error) error {
	_ = formatter.Error(errorCode(err), err.Error(), nil)
	if errors.Is(err, history.ErrRunNotFound) {
		return WrapExitError(ExitFailure, "run not found", err)
	}
	return WrapExitError(ExitCommandError, "failed to read history", err)
}

func runHistoryList(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	kind := history.Kind(opts.Kind)
	if kind != "" && !kind.Valid() {
		_ = formatter.Error(ErrCodeGeneric, fmt.Sprintf("unknown run kind %q", opts.Kind), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown run kind %q", opts.Kind))
	}

	st, err := openHistory(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context(), history.ListOptions{
		Kind:        kind,
		Fingerprint: opts.Fingerprint,
		Limit:       opts.Limit,
	})
	if err != nil {
		return historyError(formatter, err)
	}

	if opts.Format == "json" {
		return formatter.Success(runs)
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(w, "%4d  %s  %-11s  %-12s  %s\n",
			run.Seq, run.ID, run.Kind, shortFingerprint(run.Fingerprint), run.GraphName)
	}
	return nil
}

func runHistoryShow(opts *RootOptions, id string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	st, err := openHistory(opts, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.ReadRun(cmd.Context(), id)
	if err != nil {
		return historyError(formatter, err)
	}

	if opts.Format == "json" {
		return formatter.Success(run)
	}
	writeRun(cmd.OutOrStdout(), run)
	return nil
}

func runHistoryDiff(opts *RootOptions, beforeID, afterID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	st, err := openHistory(opts, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	before, err := st.ReadRun(cmd.Context(), beforeID)
	if err != nil {
		return historyError(formatter, err)
	}
	after, err := st.ReadRun(cmd.Context(), afterID)
	if err != nil {
		return historyError(formatter, err)
	}
	if before.Kind != after.Kind {
		formatter.VerboseLog("Comparing runs of different kinds: %s and %s", before.Kind, after.Kind)
	}

	diff := RunDiff{Before: before.ID, After: after.ID, Deltas: history.Diff(before, after)}
	if opts.Format == "json" {
		return formatter.Success(diff)
	}

	w := cmd.OutOrStdout()
	if len(diff.Deltas) == 0 {
		fmt.Fprintln(w, "No differences.")
		return nil
	}
	for _, d := range diff.Deltas {
		switch d.Change {
		case history.ChangeAdded:
			fmt.Fprintf(w, "+ %s %.6f\n", d.Key, d.After)
		case history.ChangeRemoved:
			fmt.Fprintf(w, "- %s %.6f\n", d.Key, d.Before)
		default:
			fmt.Fprintf(w, "~ %s %.6f -> %.6f (%+.6f)\n", d.Key, d.Before, d.After, d.Delta)
		}
	}
	return nil
}

func writeRun(w io.Writer, run history.Run) {
	fmt.Fprintf(w, "run %s (seq %d)\n", run.ID, run.Seq)
	fmt.Fprintf(w, "kind:        %s\n", run.Kind)
	if run.GraphName != "" {
		fmt.Fprintf(w, "graph:       %s\n", run.GraphName)
	}
	fmt.Fprintf(w, "fingerprint: %s\n", run.Fingerprint)

	if len(run.Params) > 0 {
		keys := make([]string, 0, len(run.Params))
		for k := range run.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s=%s\n", k, run.Params[k])
		}
	}

	fmt.Fprintln(w)
	for _, e := range run.Entries {
		fmt.Fprintf(w, "%3d. %s %.6f\n", e.Rank, e.Key, e.Value)
	}
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
