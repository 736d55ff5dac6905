package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestNormalizeDashes - Em dash substitution
// ---------------------------------------------------------------------------

func TestNormalizeDashes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"no dashes", "# Title\n\nText", "# Title\n\nText"},
		{"table delimiter", "| A | B |\n|———|———|", "| A | B |\n|---|---|"},
		{"prose dash is replaced too", "wait — what", "wait - what"},
		{"en dash untouched", "1–2", "1–2"},
		{"ascii hyphen untouched", "a-b", "a-b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeDashes(tt.input); got != tt.want {
				t.Errorf("NormalizeDashes(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDashes_CountsPreserved(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"——",
		"a—b—c-d",
		"| x | y |\n| ——— | :——: |\n| 1 | 2 |\nprose — more — text",
	}

	for _, input := range inputs {
		got := NormalizeDashes(input)

		if strings.Contains(got, EmDash) {
			t.Errorf("NormalizeDashes(%q) still contains an em dash", input)
		}

		removed := strings.Count(input, EmDash)
		added := strings.Count(got, "-") - strings.Count(input, "-")
		if added != removed {
			t.Errorf("NormalizeDashes(%q): %d hyphens added, %d dashes removed", input, added, removed)
		}
	}
}

func TestDashPreprocessor(t *testing.T) {
	t.Parallel()

	var p MarkdownPreprocessor = &DashPreprocessor{}

	t.Run("replaces dashes", func(t *testing.T) {
		t.Parallel()

		if got := p.PreprocessMarkdown(context.Background(), "a—b"); got != "a-b" {
			t.Errorf("PreprocessMarkdown() = %q, want %q", got, "a-b")
		}
	})

	t.Run("canceled context returns input unchanged", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if got := p.PreprocessMarkdown(ctx, "a—b"); got != "a—b" {
			t.Errorf("PreprocessMarkdown() = %q, want unchanged", got)
		}
	})
}

// ---------------------------------------------------------------------------
// TestInspector_Inspect - goldmark-based document summary
// ---------------------------------------------------------------------------

func TestInspector_Inspect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		source     string
		wantTitle  string
		wantTables int
		wantImages []string
	}{
		{
			name:      "empty document",
			source:    "",
			wantTitle: "",
		},
		{
			name:      "first H1 wins",
			source:    "## Intro\n\n# Annual *Report*\n\n# Second",
			wantTitle: "Annual Report",
		},
		{
			name:      "code span in title",
			source:    "# The `md2docx` tool",
			wantTitle: "The md2docx tool",
		},
		{
			name:      "setext heading",
			source:    "Quarterly Review\n================\n",
			wantTitle: "Quarterly Review",
		},
		{
			name:       "pipe table",
			source:     "| A | B |\n| --- | --- |\n| 1 | 2 |\n",
			wantTables: 1,
		},
		{
			name:       "images deduplicated",
			source:     "![a](img/a.png) ![b](https://x.test/b.png)\n\n![again](img/a.png)",
			wantImages: []string{"img/a.png", "https://x.test/b.png"},
		},
	}

	inspector := NewInspector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := inspector.Inspect([]byte(tt.source))

			if info.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", info.Title, tt.wantTitle)
			}
			if info.Tables != tt.wantTables {
				t.Errorf("Tables = %d, want %d", info.Tables, tt.wantTables)
			}
			if !reflect.DeepEqual(info.Images, tt.wantImages) {
				t.Errorf("Images = %v, want %v", info.Images, tt.wantImages)
			}
		})
	}
}

func TestInspector_EmDashTableOnlyRecognizedAfterNormalization(t *testing.T) {
	t.Parallel()

	source := "| Name | Value |\n| ——— | ——— |\n| a | 1 |\n"
	inspector := NewInspector()

	if got := inspector.Inspect([]byte(source)).Tables; got != 0 {
		t.Errorf("raw Tables = %d, want 0", got)
	}
	if got := inspector.Inspect([]byte(NormalizeDashes(source))).Tables; got != 1 {
		t.Errorf("normalized Tables = %d, want 1", got)
	}
}

// ---------------------------------------------------------------------------
// TestMissingImages - Local image resolution
// ---------------------------------------------------------------------------

func TestMissingImages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "img"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "img", "ok.png"), []byte("png"), 0o600); err != nil {
		t.Fatal(err)
	}

	info := Info{Images: []string{
		"img/ok.png",
		"img/missing.png",
		"https://example.com/remote.png",
		"data:image/png;base64,AAAA",
		filepath.Join(dir, "img", "ok.png"),
	}}

	got := MissingImages(info, dir)
	want := []string{"img/missing.png"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MissingImages() = %v, want %v", got, want)
	}
}
