package definition

import (
	"fmt"
)

// Load error codes (E001-E099).
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeNotFound     = "E002" // Path not found
	ErrCodeUnsupported  = "E003" // Unsupported file extension
	ErrCodeParseFailed  = "E004" // Syntax error in the source file
	ErrCodeDecodeFailed = "E005" // Source parsed but does not match the document schema
	ErrCodeNoFiles      = "E006" // Directory holds no definition files
)

// LoadError represents an error that occurred while loading a definition.
type LoadError struct {
	Code    string
	Message string
	File    string
	Line    int // 0 when unknown
	Column  int
	Err     error
}

func (e *LoadError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.File, e.Line, e.Column, e.Code, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadErrorf(code, file string, err error, format string, args ...any) *LoadError {
	return &LoadError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		File:    file,
		Err:     err,
	}
}
