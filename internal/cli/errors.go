package cli

import (
	"errors"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/definition"
	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/graph"
	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/history"
)

// CLI error codes. Definition load errors keep their own E00x codes and
// validation errors their E2xx codes.
const (
	ErrCodeGeneric         = "E001"
	ErrCodeUnknownNode     = "E301"
	ErrCodeSelfLoop        = "E302"
	ErrCodeCycle           = "E303"
	ErrCodeInvalidArgument = "E304"
	ErrCodeHistory         = "E401"
	ErrCodeRunNotFound     = "E402"
	ErrCodeTestFailed      = "E_TEST_FAILED"
)

// errorCode maps an error to the code reported in CLI output.
func errorCode(err error) string {
	switch graph.CodeOf(err) {
	case graph.ErrCodeUnknownNode:
		return ErrCodeUnknownNode
	case graph.ErrCodeSelfLoop:
		return ErrCodeSelfLoop
	case graph.ErrCodeCycleDetected:
		return ErrCodeCycle
	case graph.ErrCodeInvalidArgument:
		return ErrCodeInvalidArgument
	}

	var loadErr *definition.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	if errors.Is(err, history.ErrRunNotFound) {
		return ErrCodeRunNotFound
	}
	return ErrCodeGeneric
}

// exitCodeFor picks the exit code for a failed analysis. Bad arguments are
// command errors; everything the graph itself rejects is a failure.
func exitCodeFor(err error) int {
	if graph.IsInvalidArgumentError(err) {
		return ExitCommandError
	}
	var loadErr *definition.LoadError
	if errors.As(err, &loadErr) {
		return ExitCommandError
	}
	return ExitFailure
}
