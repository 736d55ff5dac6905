package main

import (
	"errors"
	"fmt"
	"io"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/hints"
)

// loadSettings resolves the configuration for one command run:
// flags > env vars > config file > defaults. df may be nil.
func loadSettings(common commonFlags, pf pandocFlags, df *documentFlags, env *Environment) (*config.Config, *envConfig, error) {
	envCfg := loadEnvConfig()
	if !common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			var nf *config.NotFoundError
			if errors.As(err, &nf) {
				return nil, nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(nf.Tried))
			}
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	mergePandocFlags(pf, cfg)
	if df != nil {
		mergeDocumentFlags(*df, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, envCfg, nil
}

// mergePandocFlags merges converter flags into config. CLI values win.
func mergePandocFlags(f pandocFlags, cfg *config.Config) {
	if f.binary != "" {
		cfg.Pandoc.Binary = f.binary
	}
	if f.template != "" {
		cfg.Template.Path = f.template
	}
	if f.timeout != "" {
		cfg.Pandoc.Timeout = f.timeout
	}
}

// mergeDocumentFlags merges metadata flags into config. CLI values win.
func mergeDocumentFlags(f documentFlags, cfg *config.Config) {
	if f.title != "" {
		cfg.Document.Title = f.title
	}
	if f.author != "" {
		cfg.Document.Author = f.author
	}
	if f.date != "" {
		cfg.Document.Date = f.date
	}
	if f.lang != "" {
		cfg.Document.Lang = f.lang
	}
}

// newConverter builds the library Converter from resolved settings.
// Notices go to stderr so stdout stays reserved for results.
func newConverter(cfg *config.Config, common commonFlags, env *Environment) (*md2docx.Converter, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	var notices io.Writer = env.Stderr
	if common.quiet {
		notices = io.Discard
	}

	return md2docx.NewConverter(
		md2docx.WithRunner(env.Runner),
		md2docx.WithBinary(cfg.Pandoc.Binary),
		md2docx.WithTemplatePath(cfg.Template.Path),
		md2docx.WithTimeout(timeout),
		md2docx.WithOutput(notices),
		md2docx.WithVerbose(common.verbose),
	)
}
