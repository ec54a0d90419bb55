package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/definition"
	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/history"
	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/monitor"
	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/report"
)

// session is one analysis command's view of a loaded graph.
type session struct {
	opts        *RootOptions
	cmd         *cobra.Command
	formatter   *OutputFormatter
	logger      *slog.Logger
	doc         *definition.Document
	guard       *monitor.Guard
	fingerprint string
}

// openSession loads and builds the definition at path. Load and build
// failures are reported through the formatter and returned as ExitErrors.
func openSession(opts *RootOptions, path string, cmd *cobra.Command) (*session, error) {
	s := &session{
		opts:      opts,
		cmd:       cmd,
		formatter: newFormatter(opts, cmd),
		logger:    newLogger(opts, cmd.ErrOrStderr()),
	}

	s.logger.Debug("loading definition", "path", path)
	doc, engine, err := definition.LoadAndBuild(path)
	if err != nil {
		_ = s.formatter.Error(errorCode(err), err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to load graph", err)
	}

	s.doc = doc
	s.guard = monitor.NewGuard(engine, monitor.WithLogger(s.logger))
	s.fingerprint = definition.Fingerprint(doc)
	s.logger.Debug("graph built",
		"graph", doc.Name,
		"nodes", s.guard.Len(),
		"edges", s.guard.EdgeCount(),
		"fingerprint", s.fingerprint,
	)
	return s, nil
}

// fail reports an analysis error and converts it to an ExitError.
func (s *session) fail(message string, err error) error {
	_ = s.formatter.Error(errorCode(err), err.Error(), nil)
	return WrapExitError(exitCodeFor(err), message, err)
}

// render writes data as a JSON envelope, or through text in text mode.
func (s *session) render(data any, text func(*report.Renderer) error) error {
	if s.opts.Format == "json" {
		return s.formatter.Success(data)
	}
	return text(report.NewRenderer(s.cmd.OutOrStdout()))
}

// record stores run in the history database when --db is set.
func (s *session) record(ctx context.Context, run history.Run) error {
	if s.opts.Database == "" {
		return nil
	}

	st, err := history.Open(s.opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open history database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			s.logger.Error("error closing history database", "error", closeErr)
		}
	}()

	stored, err := st.WriteRun(ctx, run)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to record run", err)
	}
	s.logger.Info("run recorded", "id", stored.ID, "seq", stored.Seq, "kind", stored.Kind)
	s.formatter.VerboseLog("Recorded %s run %s (seq %d)", stored.Kind, stored.ID, stored.Seq)
	return nil
}

// finish exports metrics when --metrics-file is set.
func (s *session) finish() error {
	if s.opts.MetricsFile == "" {
		return nil
	}
	if err := s.guard.Metrics().WriteTextfile(s.opts.MetricsFile); err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to write metrics to %s", s.opts.MetricsFile), err)
	}
	s.logger.Debug("metrics written", "path", s.opts.MetricsFile)
	return nil
}
