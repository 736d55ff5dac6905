package main

// Notes:
// - This file contains test helpers shared by the CLI tests: a scripted
//   pandoc runner, a fake CLIConverter and an Environment backed by buffers.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	md2docx "github.com/alnah/go-md2docx"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Scripted pandoc
// ---------------------------------------------------------------------------

// fakeTemplateBytes stands in for pandoc's default reference.docx.
var fakeTemplateBytes = []byte("PK\x03\x04 reference.docx")

// fixedNow is the clock used by test environments.
var fixedNow = time.Date(2025, time.June, 5, 10, 30, 0, 0, time.UTC)

// runCall records one runner invocation.
type runCall struct {
	Name  string
	Args  []string
	Stdin string
}

// fakePandoc imitates pandoc: it answers --version and
// --print-default-data-file, and writes the -o file for conversions.
type fakePandoc struct {
	mu      sync.Mutex
	Calls   []runCall
	Version string
	Stderr  []byte // returned on conversion
	Err     error  // returned on every call when set
	Block   bool   // wait for ctx.Done() and return its error
}

func (p *fakePandoc) Run(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, []byte, error) {
	var in []byte
	if stdin != nil {
		in, _ = io.ReadAll(stdin)
	}

	p.mu.Lock()
	p.Calls = append(p.Calls, runCall{Name: name, Args: slices.Clone(args), Stdin: string(in)})
	p.mu.Unlock()

	if p.Block {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if p.Err != nil {
		return nil, p.Stderr, p.Err
	}

	switch {
	case slices.Contains(args, "--version"):
		version := p.Version
		if version == "" {
			version = "pandoc 3.1.11"
		}
		return []byte(version + "\nFeatures: +server +lua\n"), nil, nil
	case slices.Contains(args, "--print-default-data-file"):
		return fakeTemplateBytes, nil, nil
	}

	if i := slices.Index(args, "-o"); i >= 0 && i+1 < len(args) {
		if err := os.WriteFile(args[i+1], []byte("docx:"+string(in)), 0o600); err != nil {
			return nil, nil, err
		}
	}
	return nil, p.Stderr, nil
}

// conversions returns the calls that converted a document.
func (p *fakePandoc) conversions() []runCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []runCall
	for _, c := range p.Calls {
		if slices.Contains(c.Args, "-o") {
			out = append(out, c)
		}
	}
	return out
}

// exitError imitates *exec.ExitError.
type exitError struct{ code int }

func (e *exitError) Error() string { return "exit status " + strconv.Itoa(e.code) }
func (e *exitError) ExitCode() int { return e.code }

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment
// ---------------------------------------------------------------------------

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	pandoc *fakePandoc
}

// newTestEnv returns an Environment with buffered output and a fake pandoc.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	p := &fakePandoc{}
	return &testEnv{
		Environment: &Environment{
			Now:    func() time.Time { return fixedNow },
			Stdout: stdout,
			Stderr: stderr,
			Runner: p,
		},
		stdout: stdout,
		stderr: stderr,
		pandoc: p,
	}
}

// writeFile creates a file (and its parents) under dir.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake converter
// ---------------------------------------------------------------------------

// fakeConverter implements CLIConverter without pandoc.
type fakeConverter struct {
	mu       sync.Mutex
	requests []md2docx.Request
	failOn   map[string]error // keyed by request source
	fallback bool
	inflight int
	peak     int
	delay    time.Duration
}

func (f *fakeConverter) Convert(ctx context.Context, req md2docx.Request) (*md2docx.Result, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.inflight++
	f.peak = max(f.peak, f.inflight)
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inflight--
		f.mu.Unlock()
	}()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err, ok := f.failOn[req.Source]; ok {
		return nil, err
	}
	return &md2docx.Result{
		OutputPath: req.Output,
		Styled:     req.Styled && !f.fallback,
		Fallback:   req.Styled && f.fallback,
	}, nil
}

var errFake = errors.New("fake failure")
