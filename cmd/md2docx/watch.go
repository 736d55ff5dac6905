package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2docx/internal/fileutil"
)

// ErrWatch wraps failures to set up the file watcher.
var ErrWatch = errors.New("cannot watch input")

// runWatchCmd runs the watch command and returns an exit code.
func runWatchCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags("watch", args)
	if errors.Is(err, flag.ErrHelp) {
		printWatchUsage(env.Stdout)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		fmt.Fprintln(env.Stderr, "Run 'md2docx help watch' for usage.")
		return ExitUsage
	}

	if err := runWatch(ctx, positional, flags, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// watchSession converts changed files for one watch run.
type watchSession struct {
	conv     CLIConverter
	params   *conversionParams
	root     string // input file or directory
	rootDir  bool
	output   string
	template string
	quiet    bool
	verbose  bool
	env      *Environment
}

// runWatch converts the input once, then reconverts files as they change
// until ctx is canceled. Conversions run one at a time.
func runWatch(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if flags.debounce <= 0 {
		return fmt.Errorf("%w: --debounce must be positive", ErrUsage)
	}

	cfg, _, err := loadSettings(flags.common, flags.pandoc, &flags.document, env)
	if err != nil {
		return err
	}

	root, err := resolveInputPath(positionalArgs, cfg.Input.DefaultDir)
	if err != nil {
		return err
	}
	output := flags.output
	if output == "" {
		output = cfg.Output.DefaultDir
	}

	files, err := discoverFiles(root, output)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	params, err := newConversionParams(cfg, flags.basic, env)
	if err != nil {
		return err
	}
	conv, err := newConverter(cfg, flags.common, env)
	if err != nil {
		return err
	}

	s := &watchSession{
		conv:     conv,
		params:   params,
		root:     filepath.Clean(root),
		rootDir:  fileutil.DirExists(root),
		output:   output,
		template: conv.TemplatePath(),
		quiet:    flags.common.quiet,
		verbose:  flags.common.verbose,
		env:      env,
	}

	s.convert(ctx, files)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWatch, err)
	}
	defer watcher.Close()

	if err := s.addWatches(watcher); err != nil {
		return err
	}

	if !s.quiet {
		fmt.Fprintf(env.Stderr, "Watching %s (Ctrl+C to stop)\n", root)
	}

	accept := func(ev fsnotify.Event) bool {
		if ev.Has(fsnotify.Create) && s.rootDir && fileutil.DirExists(ev.Name) && !isHidden(ev.Name) {
			if err := watcher.Add(ev.Name); err != nil {
				fmt.Fprintf(env.Stderr, "warning: cannot watch %s: %v\n", ev.Name, err)
			}
			return false
		}
		return s.relevant(ev)
	}
	warn := func(err error) {
		fmt.Fprintf(env.Stderr, "warning: watcher: %v\n", err)
	}

	watchLoop(ctx, watcher.Events, watcher.Errors, flags.debounce, accept, func(paths []string) {
		s.convert(ctx, s.targets(paths))
	}, warn)

	if !s.quiet {
		fmt.Fprintln(env.Stderr, "Stopped watching")
	}
	return nil
}

// watchLoop collects accepted events and calls flush with the changed
// paths once no event arrived for the debounce delay.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, debounce time.Duration,
	accept func(fsnotify.Event) bool, flush func([]string), warn func(error),
) {
	pending := make(map[string]struct{})
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if accept(ev) {
				pending[filepath.Clean(ev.Name)] = struct{}{}
				timer.Reset(debounce)
			}
		case err, ok := <-errs:
			if !ok {
				return
			}
			warn(err)
		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)
			flush(paths)
		}
	}
}

// addWatches registers the input tree and the template directory.
// fsnotify is not recursive, so every directory is added.
func (s *watchSession) addWatches(w *fsnotify.Watcher) error {
	if !s.rootDir {
		// Editors often replace files on save; watch the parent directory.
		if err := w.Add(filepath.Dir(s.root)); err != nil {
			return fmt.Errorf("%w: %v", ErrWatch, err)
		}
	} else {
		err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != s.root && isHidden(path) {
				return filepath.SkipDir
			}
			return w.Add(path)
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrWatch, err)
		}
	}

	if dir := filepath.Dir(s.template); fileutil.DirExists(dir) && !slices.Contains(w.WatchList(), dir) {
		if err := w.Add(dir); err != nil && s.verbose {
			fmt.Fprintf(s.env.Stderr, "warning: cannot watch template directory %s: %v\n", dir, err)
		}
	}
	return nil
}

// relevant reports whether ev changes a watched source or the template.
func (s *watchSession) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	name := filepath.Clean(ev.Name)
	if name == filepath.Clean(s.template) {
		return true
	}
	if !isMarkdownPath(name) {
		return false
	}
	if !s.rootDir {
		return name == s.root
	}
	rel, err := filepath.Rel(s.root, name)
	return err == nil && !strings.HasPrefix(rel, "..")
}

// targets maps changed paths to conversions. A template change
// reconverts every source.
func (s *watchSession) targets(paths []string) []FileToConvert {
	if slices.Contains(paths, filepath.Clean(s.template)) {
		files, err := discoverFiles(s.root, s.output)
		if err != nil {
			fmt.Fprintf(s.env.Stderr, "warning: %v\n", err)
			return nil
		}
		return files
	}

	base := ""
	if s.rootDir {
		base = s.root
	}

	var files []FileToConvert
	for _, p := range paths {
		if !fileutil.FileExists(p) {
			continue
		}
		files = append(files, FileToConvert{InputPath: p, OutputPath: resolveOutputPath(p, s.output, base)})
	}
	return files
}

// convert runs files sequentially and prints the results.
func (s *watchSession) convert(ctx context.Context, files []FileToConvert) {
	if len(files) == 0 {
		return
	}
	if s.verbose {
		fmt.Fprintf(s.env.Stderr, "[%s] converting %d file(s)\n", s.env.Now().Format(time.TimeOnly), len(files))
	}
	results := convertBatch(ctx, s.conv, files, 1, s.params)
	printResultsWithWriter(results, s.quiet, s.verbose, s.env)
}

// isHidden reports whether the last element of path starts with a dot.
func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
