package md2docx

import (
	"context"
	"strings"

	"github.com/alnah/go-md2docx/internal/textenc"
)

// PandocVersion runs "<binary> --version" and returns its first line,
// e.g. "pandoc 3.1.11".
func (c *Converter) PandocVersion(ctx context.Context) (string, error) {
	stdout, stderr, err := c.runner.Run(ctx, nil, c.cfg.binary, "--version")
	if err != nil {
		return "", classifyRunError(ctx, c.cfg.binary, 0, err, stderr)
	}
	text, _ := textenc.DecodeTrimmed(stdout)
	first, _, _ := strings.Cut(text, "\n")
	return strings.TrimSpace(first), nil
}

// GenerateTemplate writes pandoc's default reference document to the
// Converter's template path with the Converter's runner and binary.
// The WithTimeout limit applies to the pandoc run.
func (c *Converter) GenerateTemplate(ctx context.Context, overwrite bool) error {
	return generateTemplate(ctx, c.runner, c.cfg.binary, c.cfg.templatePath, overwrite, c.cfg.timeout)
}
