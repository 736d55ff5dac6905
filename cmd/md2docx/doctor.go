package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"time"

	flag "github.com/spf13/pflag"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/fileutil"
)

// doctorProbeTimeout bounds the pandoc --version probe.
const doctorProbeTimeout = 10 * time.Second

// minPandocMajor is the first pandoc release with --reference-doc.
const minPandocMajor = 2

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"` // "ready", "warnings", "errors"
	Pandoc   pandocInfo   `json:"pandoc"`
	Template templateInfo `json:"template"`
	Env      envInfo      `json:"environment"`
	System   systemInfo   `json:"system"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// pandocInfo holds pandoc detection results.
type pandocInfo struct {
	Found   bool   `json:"found"`
	Binary  string `json:"binary"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// templateInfo holds style template detection results.
type templateInfo struct {
	Path    string `json:"path"`
	Present bool   `json:"present"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	GOMAXPROCS int    `json:"gomaxprocs"`
	Workers    int    `json:"workers"`
	CI         bool   `json:"ci"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	pandoc pandocFlags
	json   bool
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags or config.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	f := &doctorFlags{}
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	addCommonFlags(fs, &f.common)
	addPandocFlags(fs, &f.pandoc)

	if err := parse(fs, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	cfg, envCfg, err := loadSettings(f.common, f.pandoc, nil, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	conv, err := md2docx.NewConverter(
		md2docx.WithRunner(env.Runner),
		md2docx.WithBinary(cfg.Pandoc.Binary),
		md2docx.WithTemplatePath(cfg.Template.Path),
	)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	result := runDoctor(ctx, conv, envCfg.Workers)

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, conv *md2docx.Converter, envWorkers int) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			GOMAXPROCS: runtime.GOMAXPROCS(0),
			Workers:    resolveWorkers(0, envWorkers),
		},
	}

	checkPandoc(ctx, conv, result)
	checkTemplate(conv.TemplatePath(), result)
	checkEnvironment(result)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkPandoc probes pandoc with --version through the converter's runner.
func checkPandoc(ctx context.Context, conv *md2docx.Converter, result *doctorResult) {
	result.Pandoc.Binary = conv.Binary()

	ctx, cancel := context.WithTimeout(ctx, doctorProbeTimeout)
	defer cancel()

	version, err := conv.PandocVersion(ctx)
	if err != nil {
		if errors.Is(err, md2docx.ErrConverterNotFound) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("pandoc not found (%s). Install it from https://pandoc.org/installing.html or set MD2DOCX_PANDOC", conv.Binary()))
		} else {
			result.Errors = append(result.Errors, fmt.Sprintf("pandoc --version failed: %v", err))
		}
		return
	}

	result.Pandoc.Found = true
	result.Pandoc.Version = version
	if path, err := exec.LookPath(conv.Binary()); err == nil {
		result.Pandoc.Path = path
	}

	if major, ok := pandocMajor(version); ok && major < minPandocMajor {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s predates --reference-doc; styled conversion needs pandoc %d.0 or newer", version, minPandocMajor))
	} else if !ok {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not parse pandoc version from %q", version))
	}
}

var pandocVersionRe = regexp.MustCompile(`(\d+)\.\d+`)

// pandocMajor extracts the major version from "pandoc 3.1.11".
func pandocMajor(version string) (int, bool) {
	m := pandocVersionRe.FindStringSubmatch(version)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

// checkTemplate reports whether styled conversion will find its template.
func checkTemplate(path string, result *doctorResult) {
	result.Template.Path = path
	result.Template.Present = fileutil.FileExists(path)
	if !result.Template.Present {
		result.Warnings = append(result.Warnings,
			"Style template missing; styled conversions fall back to basic. Run 'md2docx template init'")
	}
}

// checkEnvironment detects CI environments.
func checkEnvironment(result *doctorResult) {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, fmt.Sprintf("md2docx-doctor-%d", os.Getpid()))
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2docx doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Pandoc")
	if r.Pandoc.Found {
		if r.Pandoc.Path != "" {
			fmt.Fprintf(w, "  [OK] Found at %s\n", r.Pandoc.Path)
		} else {
			fmt.Fprintf(w, "  [OK] Found: %s\n", r.Pandoc.Binary)
		}
		fmt.Fprintf(w, "  [OK] Version: %s\n", r.Pandoc.Version)
	} else {
		fmt.Fprintf(w, "  [ERROR] Not found: %s\n", r.Pandoc.Binary)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Style template")
	if r.Template.Present {
		fmt.Fprintf(w, "  [OK] %s\n", r.Template.Path)
	} else {
		fmt.Fprintf(w, "  [WARN] Missing: %s\n", r.Template.Path)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	fmt.Fprintf(w, "  [OK] Workers: %d (GOMAXPROCS %d)\n", r.Env.Workers, r.Env.GOMAXPROCS)
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
