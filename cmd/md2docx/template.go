package main

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/fileutil"
)

// runTemplateCmd handles "template init [path]" and "template path".
// Any failure yields a non-zero exit code.
func runTemplateCmd(ctx context.Context, args []string, env *Environment) int {
	if len(args) == 0 {
		printTemplateUsage(env.Stderr)
		return ExitUsage
	}

	sub := args[0]
	flags, positional, err := parseTemplateFlags(args[1:])
	if errors.Is(err, flag.ErrHelp) {
		printTemplateUsage(env.Stdout)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	switch sub {
	case "init":
		err = runTemplateInit(ctx, positional, flags, env)
	case "path":
		err = runTemplatePath(positional, flags, env)
	case "-h", "--help":
		printTemplateUsage(env.Stdout)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "unknown template command: %s\n\n", sub)
		printTemplateUsage(env.Stderr)
		return ExitUsage
	}

	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runTemplateInit writes pandoc's default reference.docx.
// The target is the positional path, or the resolved template path.
func runTemplateInit(ctx context.Context, positional []string, flags *templateFlags, env *Environment) error {
	if len(positional) > 1 {
		return fmt.Errorf("%w: expected at most one path, got %d", ErrUsage, len(positional))
	}

	cfg, err := resolveTemplateTarget(flags, env)
	if err != nil {
		return err
	}
	if len(positional) == 1 {
		cfg.Template.Path = positional[0]
	}
	path := cfg.Template.Path

	conv, err := newConverter(cfg, flags.common, env)
	if err != nil {
		return err
	}

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Running %s --print-default-data-file %s\n", conv.Binary(), md2docx.TemplateFileName)
	}
	if err := conv.GenerateTemplate(ctx, flags.force); err != nil {
		return err
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n\n", path)
		fmt.Fprintln(env.Stdout, md2docx.TemplateGuide)
	}
	return nil
}

// runTemplatePath prints the template location styled conversions use.
func runTemplatePath(positional []string, flags *templateFlags, env *Environment) error {
	if len(positional) > 0 {
		return fmt.Errorf("%w: 'template path' takes no arguments", ErrUsage)
	}

	cfg, err := resolveTemplateTarget(flags, env)
	if err != nil {
		return err
	}

	path := cfg.Template.Path
	fmt.Fprintln(env.Stdout, path)
	if flags.common.verbose {
		status := "missing (run 'md2docx template init')"
		if fileutil.FileExists(path) {
			status = "present"
		}
		fmt.Fprintf(env.Stderr, "Template: %s\n", status)
	}
	return nil
}

// resolveTemplateTarget loads settings and fills in the default template path.
func resolveTemplateTarget(flags *templateFlags, env *Environment) (*config.Config, error) {
	cfg, _, err := loadSettings(flags.common, flags.pandoc, nil, env)
	if err != nil {
		return nil, err
	}
	if cfg.Template.Path == "" {
		cfg.Template.Path = md2docx.DefaultTemplatePath()
	}
	return cfg, nil
}
