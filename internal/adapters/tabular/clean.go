package tabular

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// NFC composes s into Unicode normalization form C
// names exported by different systems mix precomposed and decomposed accents
func NFC(s string) string {
	if s == "" || norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// Sanitize drops bytes that should never reach a sink:
// NUL and other ASCII controls except tab and newlines, DEL, C1 controls, invalid UTF-8
// whitespace is kept; the fast path returns s unchanged when nothing needs cleaning
func Sanitize(s string) string {
	n := len(s)
	i := 0
	for i < n {
		b := s[i]
		if b < 0x80 {
			if bad(rune(b)) {
				break
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if (r == utf8.RuneError && size == 1) || bad(r) {
			break
		}
		i += size
	}
	if i == n {
		return s
	}

	var bldr strings.Builder
	bldr.Grow(n)
	bldr.WriteString(s[:i])
	for i < n {
		r, size := utf8.DecodeRuneInString(s[i:])
		if (r == utf8.RuneError && size == 1) || bad(r) {
			i += size
			continue
		}
		bldr.WriteString(s[i : i+size])
		i += size
	}
	return bldr.String()
}

func bad(r rune) bool {
	switch {
	case r == '\n' || r == '\r' || r == '\t':
		return false
	case r < 0x20, r == 0x7F:
		return true
	case r >= 0x80 && r <= 0x9F:
		return true
	}
	return false
}

// cleaner returns the per-cell text hook for the given options, nil when none apply
func cleaner(opt Options) func(string) string {
	switch {
	case opt.Sanitize && opt.NFC:
		return func(s string) string { return NFC(Sanitize(s)) }
	case opt.Sanitize:
		return Sanitize
	case opt.NFC:
		return NFC
	}
	return nil
}
