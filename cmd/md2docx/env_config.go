package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-md2docx/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring config files.
type envConfig struct {
	ConfigPath string // MD2DOCX_CONFIG: config file name or path
	Pandoc     string // MD2DOCX_PANDOC: pandoc executable
	Template   string // MD2DOCX_TEMPLATE: reference.docx path
	Timeout    string // MD2DOCX_TIMEOUT: per-file timeout, validated with the config
	InputDir   string // MD2DOCX_INPUT_DIR: default input directory
	OutputDir  string // MD2DOCX_OUTPUT_DIR: default output directory
	Author     string // MD2DOCX_AUTHOR: document author
	Date       string // MD2DOCX_DATE: document date
	Lang       string // MD2DOCX_LANG: document language
	Workers    int    // MD2DOCX_WORKERS: parallel workers
}

// knownEnvVars lists valid MD2DOCX_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2DOCX_CONFIG":     true,
	"MD2DOCX_PANDOC":     true,
	"MD2DOCX_TEMPLATE":   true,
	"MD2DOCX_TIMEOUT":    true,
	"MD2DOCX_INPUT_DIR":  true,
	"MD2DOCX_OUTPUT_DIR": true,
	"MD2DOCX_AUTHOR":     true,
	"MD2DOCX_DATE":       true,
	"MD2DOCX_LANG":       true,
	"MD2DOCX_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MD2DOCX_CONFIG"),
		Pandoc:     os.Getenv("MD2DOCX_PANDOC"),
		Template:   os.Getenv("MD2DOCX_TEMPLATE"),
		Timeout:    os.Getenv("MD2DOCX_TIMEOUT"),
		InputDir:   os.Getenv("MD2DOCX_INPUT_DIR"),
		OutputDir:  os.Getenv("MD2DOCX_OUTPUT_DIR"),
		Author:     os.Getenv("MD2DOCX_AUTHOR"),
		Date:       os.Getenv("MD2DOCX_DATE"),
		Lang:       os.Getenv("MD2DOCX_LANG"),
	}

	// Invalid worker counts are ignored; the flag or auto sizing applies.
	if workers := os.Getenv("MD2DOCX_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MD2DOCX_* variables.
// Helps catch typos like MD2DOCX_TEMPLTE.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MD2DOCX_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies set environment values over the config file.
// CLI flags are applied afterwards by the merge helpers, giving:
// flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Pandoc.Binary, env.Pandoc)
	set(&cfg.Pandoc.Timeout, env.Timeout)
	set(&cfg.Template.Path, env.Template)
	set(&cfg.Input.DefaultDir, env.InputDir)
	set(&cfg.Output.DefaultDir, env.OutputDir)
	set(&cfg.Document.Author, env.Author)
	set(&cfg.Document.Date, env.Date)
	set(&cfg.Document.Lang, env.Lang)
}
