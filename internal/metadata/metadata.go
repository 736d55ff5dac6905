// Package metadata resolves document metadata handed to pandoc with -M.
package metadata

import (
	"path/filepath"
	"strings"
	"time"
)

// AutoTitle asks for the title to be derived from the document.
const AutoTitle = "auto"

// Fields holds configured metadata values before resolution.
type Fields struct {
	Title  string // literal, "auto", or empty
	Author string
	Date   string // literal, "auto", "auto:FORMAT", or empty
	Lang   string // BCP 47 tag, e.g. "zh-CN"

	// DateResolved marks Date as already rendered; Resolve uses it verbatim.
	DateResolved bool
}

// IsZero reports whether no field is set.
func (f Fields) IsZero() bool {
	return f == Fields{}
}

// Source describes the document being converted.
type Source struct {
	Path         string // used for the filename fallback
	FirstHeading string // first level-1 heading, if any
}

// Resolve returns the pandoc metadata map for f and src.
// Empty values are omitted. Date resolution uses now unless
// f.DateResolved is set.
func Resolve(f Fields, src Source, now time.Time) (map[string]string, error) {
	meta := make(map[string]string)

	if title := resolveTitle(f.Title, src); title != "" {
		meta["title"] = title
	}
	if f.Author != "" {
		meta["author"] = f.Author
	}
	if f.Date != "" {
		date := f.Date
		if !f.DateResolved {
			var err error
			if date, err = ResolveDate(f.Date, now); err != nil {
				return nil, err
			}
		}
		meta["date"] = date
	}
	if f.Lang != "" {
		meta["lang"] = f.Lang
	}

	if len(meta) == 0 {
		return nil, nil
	}
	return meta, nil
}

// resolveTitle applies the "auto" rule: first H1, then file name.
func resolveTitle(title string, src Source) string {
	if !strings.EqualFold(title, AutoTitle) {
		return title
	}
	if src.FirstHeading != "" {
		return src.FirstHeading
	}
	if src.Path == "" {
		return ""
	}
	base := filepath.Base(src.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
