package md2docx

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for conversion operations.
var (
	ErrEmptySource        = errors.New("source path cannot be empty")
	ErrSourceNotFound     = errors.New("source file not found")
	ErrReadSource         = errors.New("failed to read source file")
	ErrConverterNotFound  = errors.New("pandoc not found")
	ErrConversionFailed   = errors.New("pandoc conversion failed")
	ErrTimeout            = errors.New("conversion timed out")
	ErrUnexpected         = errors.New("unexpected conversion error")
	ErrTemplateExists     = errors.New("template already exists")
	ErrTemplateWrite      = errors.New("failed to write template")
	ErrEmptyTemplatePath  = errors.New("template path cannot be empty")
	ErrEmptyTemplateBytes = errors.New("pandoc returned an empty template")
	ErrEmptyBinary        = errors.New("pandoc binary cannot be empty")
	ErrInvalidTimeout     = errors.New("timeout cannot be negative")
)

// ConversionError reports a pandoc run that exited with a non-zero status.
// Stderr holds the decoded diagnostic output.
type ConversionError struct {
	ExitCode int
	Stderr   string
	Lossy    bool // Stderr needed a fallback decode
	Err      error
}

func (e *ConversionError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = "no diagnostic output"
	}
	if e.ExitCode > 0 {
		return fmt.Sprintf("%v (exit status %d): %s", ErrConversionFailed, e.ExitCode, msg)
	}
	return fmt.Sprintf("%v: %s", ErrConversionFailed, msg)
}

// Unwrap lets errors.Is match both ErrConversionFailed and the process error.
func (e *ConversionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConversionFailed}
	}
	return []error{ErrConversionFailed, e.Err}
}
