package metadata

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// DefaultDateFormat is used when "auto" is specified without a format.
const DefaultDateFormat = "YYYY-MM-DD"

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// dateToken matches a bracketed literal or a date token. Alternation is
// leftmost-first, so longer tokens are listed before their prefixes.
var dateToken = regexp.MustCompile(`\[[^\]]*\]|YYYY|MMMM|MMM|YY|MM|M|DD|D`)

// tokenLayouts maps tokens to Go reference-time layouts.
var tokenLayouts = map[string]string{
	"YYYY": "2006",
	"YY":   "06",
	"MMMM": "January",
	"MMM":  "Jan",
	"MM":   "01",
	"M":    "1",
	"DD":   "02",
	"D":    "2",
}

// FormatDate renders t with a user-friendly format.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D. Text in brackets is literal:
// "[Week of] MMMM D" -> "Week of June 5". Other characters pass through.
func FormatDate(format string, t time.Time) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	stripped := dateToken.ReplaceAllString(format, "")
	if i := strings.IndexByte(stripped, '['); i >= 0 {
		return "", fmt.Errorf("%w: unclosed bracket in %q", ErrInvalidDateFormat, format)
	}

	return dateToken.ReplaceAllStringFunc(format, func(tok string) string {
		if strings.HasPrefix(tok, "[") {
			return tok[1 : len(tok)-1]
		}
		return t.Format(tokenLayouts[tok])
	}), nil
}

// ResolveDate handles "auto" and "auto:FORMAT" values.
//   - "auto" -> t in YYYY-MM-DD
//   - "auto:FORMAT" -> t in FORMAT, or in a preset (iso, european, us, long)
//   - any other "auto..." value (e.g. "auto-2026") -> ErrInvalidDateFormat
//   - anything else is returned unchanged
func ResolveDate(value string, t time.Time) (string, error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, "auto") {
		return value, nil
	}
	if lower == "auto" {
		return FormatDate(DefaultDateFormat, t)
	}
	if !strings.HasPrefix(lower, "auto:") {
		return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
	}

	format := value[len("auto:"):]
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}
	return FormatDate(format, t)
}
