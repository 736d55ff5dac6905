package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/hints"
	"github.com/alnah/go-md2docx/internal/metadata"
	"github.com/alnah/go-md2docx/internal/pipeline"
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, req md2docx.Request) (*md2docx.Result, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*md2docx.Converter)(nil)

// conversionParams groups parameters shared across batch/file conversion.
type conversionParams struct {
	styled    bool
	fields    metadata.Fields // date already resolved for the whole batch
	now       time.Time
	inspector *pipeline.Inspector
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath     string
	OutputPath    string
	Err           error
	Duration      time.Duration
	Styled        bool
	Fallback      bool
	Warnings      string
	Tables        int
	Images        int
	MissingImages []string
}

// batchError reports failed conversions after they have been printed.
// Unwrap exposes the first failure so exit codes follow its category.
type batchError struct {
	Failed int
	Total  int
	First  error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d conversion(s) failed", e.Failed, e.Total)
}

func (e *batchError) Unwrap() error {
	return e.First
}

// convertBatch processes files concurrently with a fixed number of workers.
// Results keep the order of files.
func convertBatch(ctx context.Context, conv CLIConverter, files []FileToConvert, workers int, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(max(workers, 1), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath:  files[idx].InputPath,
						OutputPath: files[idx].OutputPath,
						Err:        ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", md2docx.ErrReadSource, err))
	}

	// Inspect what pandoc will read, after dash normalization. The same
	// bytes are handed to Convert so both see one snapshot of the file.
	info := params.inspector.Inspect([]byte(md2docx.NormalizeDashes(string(content))))
	result.Tables = info.Tables
	result.Images = len(info.Images)
	result.MissingImages = pipeline.MissingImages(info, ".")

	meta, err := metadata.Resolve(params.fields, metadata.Source{
		Path:         f.InputPath,
		FirstHeading: info.Title,
	}, params.now)
	if err != nil {
		return fail(err)
	}

	res, err := conv.Convert(ctx, md2docx.Request{
		Source:   f.InputPath,
		Output:   f.OutputPath,
		Styled:   params.styled,
		Metadata: meta,
		Content:  content,
	})
	if err != nil {
		return fail(err)
	}

	result.OutputPath = res.OutputPath
	result.Styled = res.Styled
	result.Fallback = res.Fallback
	result.Warnings = res.Warnings
	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
	FirstErr  error
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			if summary.FirstErr == nil {
				summary.FirstErr = r.Err
			}
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs conversion results using the provided writers.
// Returns the summary so callers can build the exit status.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) ResultSummary {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if len(r.MissingImages) > 0 {
			fmt.Fprintf(env.Stderr, "warning: %s: %d image(s) not found%s\n",
				r.InputPath, len(r.MissingImages), hints.ForMissingImages(r.MissingImages))
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v, %s, %d table(s), %d image(s))\n",
				r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond), modeLabel(r), r.Tables, r.Images)
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary
}

// modeLabel describes which strategy produced r.
func modeLabel(r ConversionResult) string {
	var parts []string
	switch {
	case r.Styled:
		parts = append(parts, "styled")
	case r.Fallback:
		parts = append(parts, "basic, template missing")
	default:
		parts = append(parts, "basic")
	}
	if r.Warnings != "" {
		parts = append(parts, "pandoc warnings")
	}
	return strings.Join(parts, ", ")
}
