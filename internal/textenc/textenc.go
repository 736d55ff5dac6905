// Package textenc decodes diagnostic output from external tools whose
// encoding is not known in advance.
//
// pandoc writes UTF-8, but on Windows systems with a Chinese code page its
// messages (and those of the shell around it) may arrive as GBK. Decode
// tries UTF-8 first and falls back to GBK, then to a lossy UTF-8 repair,
// reporting whether a fallback was used.
package textenc

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// Fallback is the encoding tried when the input is not valid UTF-8.
// It is a variable so callers embedding the package can choose another
// legacy code page.
var Fallback encoding.Encoding = simplifiedchinese.GBK

// Decode converts b to a string. lossy reports whether the bytes were not
// valid UTF-8 and a fallback decoding was applied.
func Decode(b []byte) (text string, lossy bool) {
	if utf8.Valid(b) {
		return string(b), false
	}

	if Fallback != nil {
		out, err := Fallback.NewDecoder().Bytes(b)
		if err == nil && utf8.Valid(out) {
			return string(out), true
		}
	}

	return strings.ToValidUTF8(string(b), string(utf8.RuneError)), true
}

// DecodeTrimmed is Decode followed by whitespace trimming.
func DecodeTrimmed(b []byte) (string, bool) {
	text, lossy := Decode(b)
	return strings.TrimSpace(text), lossy
}
