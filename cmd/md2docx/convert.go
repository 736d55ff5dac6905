package main

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/metadata"
	"github.com/alnah/go-md2docx/internal/pipeline"
)

// runConvertCmd runs the convert command and returns an exit code.
func runConvertCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags("convert", args)
	if errors.Is(err, flag.ErrHelp) {
		printConvertUsage(env.Stdout)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		fmt.Fprintln(env.Stderr, "Run 'md2docx help convert' for usage.")
		return ExitUsage
	}

	if err := runConvert(ctx, positional, flags, env); err != nil {
		// Per-file failures were already printed.
		var be *batchError
		if !errors.As(err, &be) {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
		}
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, envCfg, err := loadSettings(flags.common, flags.pandoc, &flags.document, env)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg.Input.DefaultDir)
	if err != nil {
		return err
	}

	output := flags.output
	if output == "" {
		output = cfg.Output.DefaultDir
	}

	files, err := discoverFiles(inputPath, output)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoMarkdownFiles, inputPath)
	}

	params, err := newConversionParams(cfg, flags.basic, env)
	if err != nil {
		return err
	}

	conv, err := newConverter(cfg, flags.common, env)
	if err != nil {
		return err
	}

	workers := resolveWorkers(flags.workers, envCfg.Workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Converting %d file(s) with %d worker(s)\n", len(files), workers)
	}

	results := convertBatch(ctx, conv, files, workers, params)

	summary := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if summary.Failed > 0 {
		return &batchError{Failed: summary.Failed, Total: len(results), First: summary.FirstErr}
	}

	return nil
}

// newConversionParams resolves batch-wide settings. An "auto" date is
// resolved once so every file of a batch carries the same date.
func newConversionParams(cfg *config.Config, basic bool, env *Environment) (*conversionParams, error) {
	now := env.Now()

	fields := metadata.Fields{
		Title:  cfg.Document.Title,
		Author: cfg.Document.Author,
		Date:   cfg.Document.Date,
		Lang:   cfg.Document.Lang,
	}
	if fields.Date != "" {
		date, err := metadata.ResolveDate(fields.Date, now)
		if err != nil {
			return nil, fmt.Errorf("resolving document date: %w", err)
		}
		fields.Date = date
		fields.DateResolved = true
	}

	return &conversionParams{
		styled:    !basic && !cfg.Template.Disabled,
		fields:    fields,
		now:       now,
		inspector: pipeline.NewInspector(),
	}, nil
}
