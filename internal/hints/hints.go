// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"runtime"
	"strings"
)

// GOOS is the target platform used to tailor installation hints.
// Tests override it to exercise every branch.
var GOOS = runtime.GOOS

// ForConverterNotFound returns installation guidance for a missing pandoc binary.
func ForConverterNotFound(binary string) string {
	var install string
	switch GOOS {
	case "darwin":
		install = "brew install pandoc"
	case "windows":
		install = "winget install JohnMacFarlane.Pandoc"
	default:
		install = "apt install pandoc (or your distribution's package)"
	}

	hints := []string{
		"install pandoc: " + install,
		"see https://pandoc.org/installing.html",
	}
	if binary != "" && binary != "pandoc" {
		hints = append(hints, "check that "+binary+" exists and is executable")
	} else {
		hints = append(hints, "make sure pandoc is on your PATH or use --pandoc")
	}
	return formatHints(hints)
}

// ForTemplateMissing returns the guidance printed when styled conversion
// falls back to basic conversion.
func ForTemplateMissing(path string) string {
	return formatHints([]string{
		"run 'md2docx template init' to create " + path,
		"then edit its styles in Word (Normal, Heading 1-6, Table) and save",
	})
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), "go-md2docx/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForMissingImages returns a hint listing images pandoc will not find.
func ForMissingImages(images []string) string {
	if len(images) == 0 {
		return ""
	}
	return format("images are resolved from the working directory; missing: " + strings.Join(images, ", "))
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
