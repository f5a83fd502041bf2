// Package features derives the typed vacancy record from raw page fields.
// Everything here is a pure function of its input: no network, no clock,
// no shared mutable state.
package features

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var textReplacer = strings.NewReplacer(
	"ё", "е",
	"\u00a0", " ",
	"\u202f", " ",
	"\u2007", " ",
	"\u2011", "-",
)

// Normalize prepares text for matching: NFKC, lower case, ё folded to е and
// non-breaking spaces turned into plain spaces.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	return textReplacer.Replace(strings.ToLower(norm.NFKC.String(s)))
}

// joinPresent concatenates the present fields with newlines. ok is false
// when every field is absent.
func joinPresent(parts ...*string) (string, bool) {
	var b strings.Builder
	ok := false
	for _, p := range parts {
		if p == nil {
			continue
		}
		ok = true
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(*p)
	}
	return b.String(), ok
}
