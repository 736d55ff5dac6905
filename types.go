package md2docx

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-md2docx/internal/fileutil"
)

// Defaults shared by the library and the CLI.
const (
	DefaultBinary    = "pandoc"
	DocxExt          = ".docx"
	TemplateFileName = "reference.docx"
	ConfigDirName    = "go-md2docx"
)

// Request describes one conversion.
type Request struct {
	Source   string            // Markdown file; must exist
	Output   string            // Destination; empty = Source with .docx extension
	Styled   bool              // Apply the style template when it exists
	Metadata map[string]string // Passed to pandoc as -M key=value, sorted by key

	// Content is the Markdown text when the caller already read Source.
	// Nil means Source is read at conversion time.
	Content []byte
}

// Result describes a successful conversion.
type Result struct {
	OutputPath   string
	TemplatePath string // Template applied; empty for basic conversion
	Styled       bool
	Fallback     bool   // Styled was requested but the template was missing
	Warnings     string // pandoc stderr on a zero exit
	LossyStderr  bool   // Warnings needed a fallback decode
	Duration     time.Duration
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	binary       string
	templatePath string
	timeout      time.Duration
	out          io.Writer
	verbose      bool
}

// WithRunner sets the CommandRunner used to spawn pandoc.
func WithRunner(r CommandRunner) Option {
	return func(c *Converter) {
		c.runner = r
	}
}

// WithBinary sets the pandoc executable name or path.
func WithBinary(name string) Option {
	return func(c *Converter) {
		c.cfg.binary = name
	}
}

// WithTemplatePath sets the style template location.
// An empty path keeps DefaultTemplatePath().
func WithTemplatePath(path string) Option {
	return func(c *Converter) {
		if path != "" {
			c.cfg.templatePath = path
		}
	}
}

// WithTimeout bounds each pandoc run. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithOutput sets where human-readable notices are written.
// Defaults to os.Stderr; pass io.Discard to silence the template notice.
func WithOutput(w io.Writer) Option {
	return func(c *Converter) {
		if w != nil {
			c.cfg.out = w
		}
	}
}

// WithVerbose enables per-step progress lines on the notice writer.
func WithVerbose(v bool) Option {
	return func(c *Converter) {
		c.cfg.verbose = v
	}
}

// DefaultTemplatePath returns <UserConfigDir>/go-md2docx/reference.docx,
// or reference.docx in the working directory when no config dir exists.
func DefaultTemplatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return TemplateFileName
	}
	return filepath.Join(dir, ConfigDirName, TemplateFileName)
}

// DefaultOutputPath derives the .docx path for a Markdown source:
// "report.md" -> "report.docx".
func DefaultOutputPath(source string) string {
	return fileutil.ReplaceExt(source, DocxExt)
}
