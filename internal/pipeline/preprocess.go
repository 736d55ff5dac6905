package pipeline

import (
	"context"
	"strings"
)

// EmDash is the dash that breaks pandoc's table delimiter detection when
// authors (or input methods) type it in place of '-'.
const EmDash = "—"

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// DashPreprocessor replaces every em dash with an ASCII hyphen.
//
// The replacement is global: prose dashes outside tables are rewritten too.
type DashPreprocessor struct{}

// PreprocessMarkdown returns content with em dashes replaced.
func (p *DashPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	return NormalizeDashes(content)
}

// NormalizeDashes replaces every em dash in content with '-'.
func NormalizeDashes(content string) string {
	return strings.ReplaceAll(content, EmDash, "-")
}
