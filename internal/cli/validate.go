package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/definition"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool                         `json:"valid"`
	Graph       string                       `json:"graph,omitempty"`
	Format      definition.Format            `json:"format"`
	Nodes       int                          `json:"nodes"`
	Edges       int                          `json:"edges"`
	Fingerprint string                       `json:"fingerprint"`
	Errors      []definition.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <definition>",
		Short: "Validate a graph definition without analysing it",
		Long: `Validate a YAML, CUE or HCL graph definition.

Reports every problem found: blank or duplicate node names, edges to
undeclared nodes, self loops, duplicate edges and an empty graph. Scores
outside [0,1] are reported as warnings; they are clamped when the graph
is built and do not fail validation.

A directory is loaded as a CUE package.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	doc, err := definition.Load(path)
	if err != nil {
		return outputValidateError(formatter, errorCode(err), err.Error())
	}
	formatter.VerboseLog("Loaded %s definition %s: %d node(s), %d edge(s)", doc.Format, path, len(doc.Nodes), len(doc.Edges))

	errs := definition.Validate(doc)
	result := ValidationResult{
		Valid:       !definition.HasBlocking(errs),
		Graph:       doc.Name,
		Format:      doc.Format,
		Nodes:       len(doc.Nodes),
		Edges:       len(doc.Edges),
		Fingerprint: definition.Fingerprint(doc),
		Errors:      errs,
	}

	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

// outputValidateSuccess outputs successful validation results, including
// any warnings.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	for _, w := range result.Errors {
		fmt.Fprintf(formatter.Writer, "warning %s\n", w.Error())
	}
	fmt.Fprintf(formatter.Writer, "✓ Definition valid (%d nodes, %d edges)\n", result.Nodes, result.Edges)
	return nil
}

// outputValidateError outputs a definition that could not be loaded.
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Load errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	first := result.Errors[0]
	for _, e := range result.Errors {
		if e.Code != definition.ErrValueOutOfRange {
			first = e
			break
		}
	}

	if formatter.Format == "json" {
		if err := formatter.Failure(first.Code, first.Message, result); err != nil {
			return err
		}
		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, e := range result.Errors {
		fmt.Fprintf(formatter.Writer, "%s\n", e.Field)
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", e.Code, e.Message)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
}
