package md2docx

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/alnah/go-md2docx/internal/fileutil"
	"github.com/alnah/go-md2docx/internal/hints"
)

// TemplateGuide explains how to turn pandoc's default reference document
// into a house style. Printed after a template is generated.
const TemplateGuide = `Edit the template in Word to define your styles:
  1. Open the file and select Styles (Home > Styles pane).
  2. Modify Normal to set the body font, size and line spacing.
  3. Modify Heading 1 through Heading 6 for section titles.
  4. Modify Table and Source Code for tables and code blocks.
  5. Save without adding content; only the styles are used.
Styled conversions pick it up automatically from the template path.`

// GenerateTemplate writes pandoc's default reference.docx to path using
// "<binary> --print-default-data-file reference.docx".
// An existing file is kept unless overwrite is true.
func GenerateTemplate(ctx context.Context, runner CommandRunner, binary, path string, overwrite bool) error {
	return generateTemplate(ctx, runner, binary, path, overwrite, 0)
}

// generateTemplate bounds the pandoc run by timeout when it is positive.
func generateTemplate(ctx context.Context, runner CommandRunner, binary, path string, overwrite bool, timeout time.Duration) error {
	if path == "" {
		return ErrEmptyTemplatePath
	}
	if binary == "" {
		binary = DefaultBinary
	}
	if runner == nil {
		runner = &ExecRunner{}
	}
	if !overwrite && fileutil.FileExists(path) {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrTemplateExists, path)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	stdout, stderr, err := runner.Run(ctx, nil, binary, "--print-default-data-file", TemplateFileName)
	if err != nil {
		return classifyRunError(ctx, binary, timeout, err, stderr)
	}
	if len(bytes.TrimSpace(stdout)) == 0 {
		return ErrEmptyTemplateBytes
	}

	if err := fileutil.EnsureParentDir(path); err != nil {
		return fmt.Errorf("%w: %v%s", ErrTemplateWrite, err, hints.ForOutputDirectory())
	}
	if err := fileutil.WriteFileAtomic(path, stdout); err != nil {
		return fmt.Errorf("%w: %v", ErrTemplateWrite, err)
	}
	return nil
}
