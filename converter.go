package md2docx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-md2docx/internal/fileutil"
	"github.com/alnah/go-md2docx/internal/hints"
	"github.com/alnah/go-md2docx/internal/pipeline"
	"github.com/alnah/go-md2docx/internal/textenc"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.DashPreprocessor)(nil)
	_ CommandRunner                 = (*ExecRunner)(nil)
)

// Converter runs pandoc to turn Markdown files into Word documents.
// Create with NewConverter(). A Converter holds no per-call state and is
// safe for concurrent use.
type Converter struct {
	cfg          converterConfig
	runner       CommandRunner
	preprocessor pipeline.MarkdownPreprocessor
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTemplatePath, WithTimeout, WithRunner).
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			binary:       DefaultBinary,
			templatePath: DefaultTemplatePath(),
			out:          os.Stderr,
		},
		runner:       &ExecRunner{},
		preprocessor: &pipeline.DashPreprocessor{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if strings.TrimSpace(c.cfg.binary) == "" {
		return nil, ErrEmptyBinary
	}
	if c.cfg.timeout < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeout, c.cfg.timeout)
	}
	if c.runner == nil {
		c.runner = &ExecRunner{}
	}
	// Notices from concurrent conversions share one writer.
	c.cfg.out = &lockedWriter{w: c.cfg.out}

	return c, nil
}

// TemplatePath returns the style template location used by StyledConvert.
func (c *Converter) TemplatePath() string {
	return c.cfg.templatePath
}

// Binary returns the pandoc executable the Converter invokes.
func (c *Converter) Binary() string {
	return c.cfg.binary
}

// BasicConvert converts source to output without a style template.
// An empty output is derived with DefaultOutputPath.
func (c *Converter) BasicConvert(ctx context.Context, source, output string) (*Result, error) {
	return c.Convert(ctx, Request{Source: source, Output: output})
}

// StyledConvert converts source to output with the style template.
// When the template is missing, guidance is printed and the call
// delegates to BasicConvert with the same arguments.
func (c *Converter) StyledConvert(ctx context.Context, source, output string) (*Result, error) {
	return c.Convert(ctx, Request{Source: source, Output: output, Styled: true})
}

// Convert runs one conversion described by req.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, req Request) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: internal error: %v", ErrUnexpected, r)
		}
	}()

	if err := validateSource(req.Source); err != nil {
		return nil, err
	}

	if req.Styled && !fileutil.FileExists(c.cfg.templatePath) {
		c.noticef("Style template not found: %s%s\n", c.cfg.templatePath, hints.ForTemplateMissing(c.cfg.templatePath))
		c.noticef("Falling back to basic conversion for %s\n", req.Source)

		basic := req
		basic.Styled = false
		res, err := c.Convert(ctx, basic)
		if res != nil {
			res.Fallback = true
		}
		return res, err
	}

	template := ""
	if req.Styled {
		template = c.cfg.templatePath
	}
	return c.run(ctx, req, template)
}

// run normalizes the source text and pipes it through pandoc.
func (c *Converter) run(ctx context.Context, req Request, template string) (*Result, error) {
	start := time.Now()

	output := req.Output
	if output == "" {
		output = DefaultOutputPath(req.Source)
	}

	content := req.Content
	if content == nil {
		var err error
		content, err = os.ReadFile(req.Source) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadSource, err)
		}
	}

	body := c.preprocessor.PreprocessMarkdown(ctx, string(content))
	if err := ctx.Err(); err != nil {
		return nil, contextError(err, c.cfg.timeout)
	}

	if err := fileutil.EnsureParentDir(output); err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrUnexpected, err, hints.ForOutputDirectory())
	}

	if c.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	args := buildArgs(output, template, req.Metadata)
	if template != "" {
		c.progressf("Converting %s with template %s\n", req.Source, template)
	} else {
		c.progressf("Converting %s\n", req.Source)
	}

	_, stderr, err := c.runner.Run(ctx, strings.NewReader(body), c.cfg.binary, args...)
	if err != nil {
		return nil, classifyRunError(ctx, c.cfg.binary, c.cfg.timeout, err, stderr)
	}

	res := &Result{
		OutputPath:   output,
		TemplatePath: template,
		Styled:       template != "",
		Duration:     time.Since(start),
	}
	res.Warnings, res.LossyStderr = textenc.DecodeTrimmed(stderr)
	if res.Warnings != "" {
		c.progressf("pandoc: %s\n", res.Warnings)
	}
	c.progressf("Wrote %s (%v)\n", output, res.Duration.Round(time.Millisecond))
	return res, nil
}

// exitCoder is implemented by *exec.ExitError and by test runners.
type exitCoder interface {
	ExitCode() int
}

// classifyRunError maps a runner error to the package error taxonomy.
func classifyRunError(ctx context.Context, binary string, timeout time.Duration, err error, stderr []byte) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q%s", ErrConverterNotFound, binary, hints.ForConverterNotFound(binary))
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return contextError(ctxErr, timeout)
	}

	var ec exitCoder
	if errors.As(err, &ec) {
		text, lossy := textenc.DecodeTrimmed(stderr)
		return &ConversionError{
			ExitCode: ec.ExitCode(),
			Stderr:   text,
			Lossy:    lossy,
			Err:      err,
		}
	}
	return fmt.Errorf("%w: running %s: %v", ErrUnexpected, binary, err)
}

// contextError maps a done context to ErrTimeout or the cancellation cause.
func contextError(err error, timeout time.Duration) error {
	if !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if timeout > 0 {
		return fmt.Errorf("%w after %v%s", ErrTimeout, timeout, hints.ForTimeout())
	}
	return fmt.Errorf("%w%s", ErrTimeout, hints.ForTimeout())
}

// buildArgs assembles the pandoc argument list. Metadata keys are sorted
// so both strategies produce identical, reproducible argument lists.
func buildArgs(output, template string, metadata map[string]string) []string {
	args := []string{
		"-f", "markdown",
		"-o", output,
		"--standalone",
		"--resource-path=.",
	}
	if template != "" {
		args = append(args, "--reference-doc", template)
	}

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-M", k+"="+metadata[k])
	}
	return args
}

// validateSource checks that source names an existing regular file.
func validateSource(source string) error {
	if source == "" {
		return ErrEmptySource
	}
	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSourceNotFound, source)
		}
		return fmt.Errorf("%w: %v", ErrReadSource, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrSourceNotFound, source)
	}
	return nil
}

// NormalizeDashes replaces every em dash in text with an ASCII hyphen,
// the same substitution applied before each conversion.
func NormalizeDashes(text string) string {
	return pipeline.NormalizeDashes(text)
}

func (c *Converter) noticef(format string, args ...any) {
	fmt.Fprintf(c.cfg.out, format, args...)
}

func (c *Converter) progressf(format string, args ...any) {
	if c.cfg.verbose {
		fmt.Fprintf(c.cfg.out, format, args...)
	}
}

// lockedWriter serializes writes from concurrent conversions.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
