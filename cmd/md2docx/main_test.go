package main

// Notes:
// - isCommand / looksLikeMarkdown: we test command name matching and
//   extension detection.
// - hasVerboseFlag: we test raw argument scanning.
// - runMain: we test dispatch and exit codes for every command, using the
//   fake pandoc from helpers_test.go. Real pandoc runs are not exercised.
// - main(): not tested directly (calls os.Exit).
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestIsCommand - Command name matching
// ---------------------------------------------------------------------------

func TestIsCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg  string
		want bool
	}{
		{"convert", true},
		{"watch", true},
		{"template", true},
		{"doctor", true},
		{"version", true},
		{"help", true},
		{"Convert", false},
		{"doc.md", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			t.Parallel()
			if got := isCommand(tt.arg); got != tt.want {
				t.Errorf("isCommand(%q) = %v, want %v", tt.arg, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLooksLikeMarkdown - Legacy invocation detection
// ---------------------------------------------------------------------------

func TestLooksLikeMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg  string
		want bool
	}{
		{"doc.md", true},
		{"notes/README.MD", true},
		{"draft.markdown", true},
		{"plain.txt", true},
		{"report.docx", false},
		{"convert", false},
		{"docs", false},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			t.Parallel()
			if got := looksLikeMarkdown(tt.arg); got != tt.want {
				t.Errorf("looksLikeMarkdown(%q) = %v, want %v", tt.arg, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHasVerboseFlag - Raw argument scanning
// ---------------------------------------------------------------------------

func TestHasVerboseFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"short", []string{"md2docx", "convert", "-v", "doc.md"}, true},
		{"long", []string{"md2docx", "convert", "--verbose"}, true},
		{"absent", []string{"md2docx", "convert", "doc.md"}, false},
		{"combined short flags are not scanned", []string{"md2docx", "-qv"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := hasVerboseFlag(tt.args); got != tt.want {
				t.Errorf("hasVerboseFlag(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain - Command dispatch and exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		args         []string
		wantCode     int
		wantInStdout string
		wantInStderr string
	}{
		{
			name:         "no arguments prints usage",
			args:         []string{"md2docx"},
			wantCode:     ExitUsage,
			wantInStderr: "Usage: md2docx",
		},
		{
			name:         "version",
			args:         []string{"md2docx", "version"},
			wantCode:     ExitSuccess,
			wantInStdout: "md2docx " + Version,
		},
		{
			name:         "--version",
			args:         []string{"md2docx", "--version"},
			wantCode:     ExitSuccess,
			wantInStdout: "md2docx " + Version,
		},
		{
			name:         "help",
			args:         []string{"md2docx", "help"},
			wantCode:     ExitSuccess,
			wantInStdout: "Commands:",
		},
		{
			name:         "help convert",
			args:         []string{"md2docx", "help", "convert"},
			wantCode:     ExitSuccess,
			wantInStdout: "Usage: md2docx convert",
		},
		{
			name:         "--help",
			args:         []string{"md2docx", "--help"},
			wantCode:     ExitSuccess,
			wantInStdout: "Usage: md2docx",
		},
		{
			name:         "unknown command",
			args:         []string{"md2docx", "frobnicate"},
			wantCode:     ExitUsage,
			wantInStderr: "unknown command: frobnicate",
		},
		{
			name:         "convert --help",
			args:         []string{"md2docx", "convert", "--help"},
			wantCode:     ExitSuccess,
			wantInStdout: "Usage: md2docx convert",
		},
		{
			name:         "convert unknown flag",
			args:         []string{"md2docx", "convert", "--page-size", "a4"},
			wantCode:     ExitUsage,
			wantInStderr: "md2docx help convert",
		},
		{
			name:         "convert missing file",
			args:         []string{"md2docx", "convert", "does-not-exist.md"},
			wantCode:     ExitIO,
			wantInStderr: "source file not found",
		},
		{
			name:         "template without subcommand",
			args:         []string{"md2docx", "template"},
			wantCode:     ExitUsage,
			wantInStderr: "Usage: md2docx template",
		},
		{
			name:         "watch --help",
			args:         []string{"md2docx", "watch", "-h"},
			wantCode:     ExitSuccess,
			wantInStdout: "--debounce",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)

			code := runMain(tt.args, env.Environment)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nstderr: %s", code, tt.wantCode, env.stderr.String())
			}
			if tt.wantInStdout != "" && !strings.Contains(env.stdout.String(), tt.wantInStdout) {
				t.Errorf("stdout = %q, want to contain %q", env.stdout.String(), tt.wantInStdout)
			}
			if tt.wantInStderr != "" && !strings.Contains(env.stderr.String(), tt.wantInStderr) {
				t.Errorf("stderr = %q, want to contain %q", env.stderr.String(), tt.wantInStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Convert - End-to-end convert through the fake pandoc
// ---------------------------------------------------------------------------

func TestRunMain_Convert(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "report.md", "# Report\n\n| a | b |\n|—|—|\n| 1 | 2 |\n")
	missingTemplate := filepath.Join(dir, "styles", "reference.docx")
	env := newTestEnv(t)

	code := runMain([]string{"md2docx", "convert", "--template", missingTemplate, src}, env.Environment)

	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d\nstderr: %s", code, ExitSuccess, env.stderr.String())
	}
	want := filepath.Join(dir, "report.docx")
	if !strings.Contains(env.stdout.String(), "Created "+want) {
		t.Errorf("stdout = %q, want Created %s", env.stdout.String(), want)
	}
	if !strings.Contains(env.stderr.String(), "Style template not found") {
		t.Errorf("stderr = %q, want fallback notice", env.stderr.String())
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("output not written: %v", err)
	}

	calls := env.pandoc.conversions()
	if len(calls) != 1 {
		t.Fatalf("pandoc conversions = %d, want 1", len(calls))
	}
	if strings.Contains(calls[0].Stdin, "—") {
		t.Errorf("stdin still contains em dashes: %q", calls[0].Stdin)
	}
	for _, a := range calls[0].Args {
		if a == "--reference-doc" {
			t.Errorf("fallback run passed --reference-doc: %v", calls[0].Args)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_LegacyForm - Deprecated "md2docx file.md"
// ---------------------------------------------------------------------------

func TestRunMain_LegacyForm(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "notes.md", "# Notes\n")
	env := newTestEnv(t)

	code := runMain([]string{"md2docx", src, "--basic", "-q"}, env.Environment)

	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d\nstderr: %s", code, ExitSuccess, env.stderr.String())
	}
	if !strings.Contains(env.stderr.String(), "DEPRECATED") {
		t.Errorf("stderr = %q, want DEPRECATED notice", env.stderr.String())
	}
	if len(env.pandoc.conversions()) != 1 {
		t.Errorf("pandoc conversions = %d, want 1", len(env.pandoc.conversions()))
	}
}
