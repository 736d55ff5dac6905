package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command-line usage.
var ErrUsage = errors.New("invalid usage")

// defaultDebounce coalesces the burst of events editors emit on save.
const defaultDebounce = 300 * time.Millisecond

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pandocFlags holds flags that locate and bound the converter.
type pandocFlags struct {
	binary   string
	template string
	timeout  string
}

// documentFlags holds document metadata flags.
type documentFlags struct {
	title  string
	author string
	date   string
	lang   string
}

// convertFlags holds all flags for the convert and watch commands.
type convertFlags struct {
	common   commonFlags
	pandoc   pandocFlags
	document documentFlags
	output   string
	workers  int
	basic    bool
	debounce time.Duration // watch only
}

// templateFlags holds flags for the template command.
type templateFlags struct {
	common commonFlags
	pandoc pandocFlags
	force  bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show progress and timing")
}

// addPandocFlags adds converter flags to a FlagSet.
func addPandocFlags(fs *flag.FlagSet, f *pandocFlags) {
	fs.StringVar(&f.binary, "pandoc", "", "pandoc executable name or path")
	fs.StringVar(&f.template, "template", "", "style template (reference.docx) path")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-file timeout (e.g., 30s, 2m)")
}

// addDocumentFlags adds document metadata flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.title, "title", "", "document title (\"auto\" = first H1 or file name)")
	fs.StringVar(&f.author, "author", "", "document author")
	fs.StringVar(&f.date, "date", "", "document date: \"auto\", \"auto:FORMAT\", or literal")
	fs.StringVar(&f.lang, "lang", "", "document language (e.g., en-US)")
}

// newConvertFlagSet registers convert flags into f.
func newConvertFlagSet(name string, f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.basic, "basic", false, "skip the style template")

	addCommonFlags(fs, &f.common)
	addPandocFlags(fs, &f.pandoc)
	addDocumentFlags(fs, &f.document)

	if name == "watch" {
		fs.DurationVar(&f.debounce, "debounce", defaultDebounce, "delay before reconverting after a change")
	}
	return fs
}

// parseConvertFlags parses convert (or watch) flags and returns positional args.
// flag.ErrHelp is returned unwrapped for -h/--help.
func parseConvertFlags(name string, args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(name, f)
	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseTemplateFlags parses template subcommand flags.
func parseTemplateFlags(args []string) (*templateFlags, []string, error) {
	f := &templateFlags{}
	fs := flag.NewFlagSet("template", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	fs.BoolVarP(&f.force, "force", "f", false, "overwrite an existing template")
	addCommonFlags(fs, &f.common)
	addPandocFlags(fs, &f.pandoc)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}
