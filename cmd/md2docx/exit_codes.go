package main

import (
	"errors"
	"os"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/metadata"
)

// Exit codes for the md2docx CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Successful conversion
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, or validation
	ExitIO        = 3 // File not found, permission denied
	ExitConverter = 4 // pandoc missing, failed, or timed out
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Converter errors (exit 4)
	if errors.Is(err, md2docx.ErrConverterNotFound) ||
		errors.Is(err, md2docx.ErrConversionFailed) ||
		errors.Is(err, md2docx.ErrTimeout) ||
		errors.Is(err, md2docx.ErrEmptyTemplateBytes) {
		return ExitConverter
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrOutputFileForDir) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, metadata.ErrInvalidDateFormat) ||
		errors.Is(err, md2docx.ErrEmptyBinary) ||
		errors.Is(err, md2docx.ErrInvalidTimeout) ||
		errors.Is(err, md2docx.ErrEmptySource) ||
		errors.Is(err, md2docx.ErrEmptyTemplatePath) ||
		errors.Is(err, md2docx.ErrTemplateExists) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, md2docx.ErrSourceNotFound) ||
		errors.Is(err, md2docx.ErrReadSource) ||
		errors.Is(err, md2docx.ErrTemplateWrite) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoMarkdownFiles) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	return ExitGeneral
}
