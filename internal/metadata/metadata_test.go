package metadata

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

var fixedTime = time.Date(2025, time.June, 5, 10, 30, 0, 0, time.UTC)

// ---------------------------------------------------------------------------
// TestFormatDate - Token rendering
// ---------------------------------------------------------------------------

func TestFormatDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr error
	}{
		{name: "iso", format: "YYYY-MM-DD", want: "2025-06-05"},
		{name: "short year", format: "YY", want: "25"},
		{name: "month names", format: "MMMM MMM", want: "June Jun"},
		{name: "unpadded", format: "M/D", want: "6/5"},
		{name: "european", format: "DD/MM/YYYY", want: "05/06/2025"},
		{name: "bracket literal", format: "[Day] D", want: "Day 5"},
		{name: "bracket keeps tokens literal", format: "[YYYY]: YYYY", want: "YYYY: 2025"},
		{name: "chinese literal", format: "YYYY年M月D日", want: "2025年6月5日"},
		{name: "empty", format: "", wantErr: ErrInvalidDateFormat},
		{name: "unclosed bracket", format: "[oops YYYY", wantErr: ErrInvalidDateFormat},
		{name: "too long", format: "YYYY-MM-DD YYYY-MM-DD YYYY-MM-DD YYYY-MM-DD YYYY-MM-DD", wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FormatDate(tt.format, fixedTime)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("FormatDate(%q) error = %v, want %v", tt.format, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FormatDate(%q) unexpected error: %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("FormatDate(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolveDate - auto handling
// ---------------------------------------------------------------------------

func TestResolveDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{name: "literal passthrough", value: "Q2 2025", want: "Q2 2025"},
		{name: "empty passthrough", value: "", want: ""},
		{name: "auto", value: "auto", want: "2025-06-05"},
		{name: "AUTO case-insensitive", value: "AUTO", want: "2025-06-05"},
		{name: "auto with format", value: "auto:DD.MM.YYYY", want: "05.06.2025"},
		{name: "auto with preset", value: "auto:Long", want: "June 5, 2025"},
		{name: "auto with us preset", value: "auto:us", want: "06/05/2025"},
		{name: "word starting with auto letters", value: "Autumn 2026", want: "Autumn 2026"},
		{name: "auto without colon", value: "auto-2026", wantErr: true},
		{name: "auto with empty format", value: "auto:", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveDate(tt.value, fixedTime)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDateFormat) {
					t.Fatalf("ResolveDate(%q) error = %v, want ErrInvalidDateFormat", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveDate(%q) unexpected error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("ResolveDate(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolve - Metadata map
// ---------------------------------------------------------------------------

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields Fields
		src    Source
		want   map[string]string
	}{
		{
			name: "zero fields yield nil map",
			want: nil,
		},
		{
			name:   "literal values",
			fields: Fields{Title: "Report", Author: "Li Wei", Date: "2025-01-01", Lang: "zh-CN"},
			want:   map[string]string{"title": "Report", "author": "Li Wei", "date": "2025-01-01", "lang": "zh-CN"},
		},
		{
			name:   "auto title from heading",
			fields: Fields{Title: "auto"},
			src:    Source{Path: "docs/report.md", FirstHeading: "Industry Research"},
			want:   map[string]string{"title": "Industry Research"},
		},
		{
			name:   "auto title falls back to file name",
			fields: Fields{Title: "Auto"},
			src:    Source{Path: "docs/report.md"},
			want:   map[string]string{"title": "report"},
		},
		{
			name:   "auto title without source is omitted",
			fields: Fields{Title: "auto"},
			want:   nil,
		},
		{
			name:   "auto date",
			fields: Fields{Date: "auto"},
			want:   map[string]string{"date": "2025-06-05"},
		},
		{
			name:   "resolved date kept verbatim",
			fields: Fields{Date: "auto 2025", DateResolved: true},
			want:   map[string]string{"date": "auto 2025"},
		},
		{
			name:   "resolved literal not reparsed",
			fields: Fields{Date: "AUTO:[x", DateResolved: true},
			want:   map[string]string{"date": "AUTO:[x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Resolve(tt.fields, tt.src, fixedTime)
			if err != nil {
				t.Fatalf("Resolve() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolve_InvalidDate(t *testing.T) {
	t.Parallel()

	_, err := Resolve(Fields{Date: "auto:[bad"}, Source{}, fixedTime)
	if !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("Resolve() error = %v, want ErrInvalidDateFormat", err)
	}
}

func TestFields_IsZero(t *testing.T) {
	t.Parallel()

	if !(Fields{}).IsZero() {
		t.Error("zero Fields.IsZero() = false")
	}
	if (Fields{Lang: "en"}).IsZero() {
		t.Error("Fields{Lang}.IsZero() = true")
	}
}
