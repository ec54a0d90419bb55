package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for errors.Is. Every *Error unwraps to exactly one of these.
var (
	ErrUnknownNode     = errors.New("unknown node")
	ErrSelfLoop        = errors.New("self loop")
	ErrCycleDetected   = errors.New("cycle detected")
	ErrInvalidArgument = errors.New("invalid argument")
)

// ErrorCode categorizes graph errors.
type ErrorCode string

const (
	// ErrCodeUnknownNode indicates an operation referenced an unregistered key.
	ErrCodeUnknownNode ErrorCode = "UNKNOWN_NODE"

	// ErrCodeSelfLoop indicates Connect was called with equal endpoints.
	ErrCodeSelfLoop ErrorCode = "SELF_LOOP"

	// ErrCodeCycleDetected indicates the reachable subgraph is not acyclic.
	ErrCodeCycleDetected ErrorCode = "CYCLE_DETECTED"

	// ErrCodeInvalidArgument indicates a Propagate argument is out of range.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// Error is returned by every failing Engine operation.
//
// Errors are always fatal to the call that produced them: no partial result
// accompanies an error and nothing is retried.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Key is the node key involved, when there is one.
	Key string

	// Path lists the keys forming a cycle (CYCLE_DETECTED from Readiness) or
	// the keys left unordered (CYCLE_DETECTED from TopologicalOrder).
	Path []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(e.Path, " → "))
	}
	if e.Key != "" {
		return fmt.Sprintf("%s: %s (node=%s)", e.Code, e.Message, e.Key)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the sentinel matching the error code.
func (e *Error) Unwrap() error {
	switch e.Code {
	case ErrCodeUnknownNode:
		return ErrUnknownNode
	case ErrCodeSelfLoop:
		return ErrSelfLoop
	case ErrCodeCycleDetected:
		return ErrCycleDetected
	case ErrCodeInvalidArgument:
		return ErrInvalidArgument
	default:
		return nil
	}
}

// CodeOf returns the code of a graph error anywhere in err's chain,
// or "" if err is not a graph error.
func CodeOf(err error) ErrorCode {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

// IsUnknownNodeError reports whether err is an UNKNOWN_NODE error.
func IsUnknownNodeError(err error) bool {
	return CodeOf(err) == ErrCodeUnknownNode
}

// IsSelfLoopError reports whether err is a SELF_LOOP error.
func IsSelfLoopError(err error) bool {
	return CodeOf(err) == ErrCodeSelfLoop
}

// IsCycleError reports whether err is a CYCLE_DETECTED error.
func IsCycleError(err error) bool {
	return CodeOf(err) == ErrCodeCycleDetected
}

// IsInvalidArgumentError reports whether err is an INVALID_ARGUMENT error.
func IsInvalidArgumentError(err error) bool {
	return CodeOf(err) == ErrCodeInvalidArgument
}

func unknownNodeError(key string) *Error {
	return &Error{
		Code:    ErrCodeUnknownNode,
		Message: "node is not registered",
		Key:     key,
	}
}

func selfLoopError(key string) *Error {
	return &Error{
		Code:    ErrCodeSelfLoop,
		Message: "edge endpoints must differ",
		Key:     key,
	}
}

func cycleError(message string, path []string) *Error {
	return &Error{
		Code:    ErrCodeCycleDetected,
		Message: message,
		Path:    path,
	}
}

func invalidArgumentf(format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInvalidArgument,
		Message: fmt.Sprintf(format, args...),
	}
}
