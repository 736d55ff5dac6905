package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Info summarizes a Markdown document.
type Info struct {
	Title  string   // text of the first level-1 heading
	Tables int      // GFM pipe tables recognized
	Images []string // image destinations in document order, without duplicates
}

// Inspector parses Markdown with goldmark to extract Info.
// An Inspector is safe for concurrent use.
type Inspector struct {
	md goldmark.Markdown
}

// NewInspector creates an Inspector with GFM extensions enabled, matching
// pandoc's pipe_tables reading closely enough for reporting.
func NewInspector() *Inspector {
	return &Inspector{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Inspect parses source and returns its Info.
func (i *Inspector) Inspect(source []byte) Info {
	var info Info
	seen := make(map[string]bool)

	doc := i.md.Parser().Parse(text.NewReader(source))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 && info.Title == "" {
				info.Title = plainText(node, source)
			}
		case *east.Table:
			info.Tables++
		case *ast.Image:
			dest := string(node.Destination)
			if dest != "" && !seen[dest] {
				seen[dest] = true
				info.Images = append(info.Images, dest)
			}
		}
		return ast.WalkContinue, nil
	})

	return info
}

// MissingImages returns the local image destinations in info that do not
// exist relative to baseDir. Remote and data URIs are ignored.
func MissingImages(info Info, baseDir string) []string {
	var missing []string
	for _, dest := range info.Images {
		if isRemote(dest) {
			continue
		}

		path := filepath.FromSlash(dest)
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, dest)
		}
	}
	return missing
}

// isRemote reports whether dest has a URL scheme pandoc fetches itself.
func isRemote(dest string) bool {
	lower := strings.ToLower(dest)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "data:")
}

// plainText concatenates the literal text under n.
func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
