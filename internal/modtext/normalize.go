// Package modtext canonicalizes mod description strings so that the same mod
// described by two different sources compares equal.
package modtext

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Placeholder replaces every numeric literal in a normalized text.
const Placeholder = "#"

// Text is a normalized mod description. Two mods are the same mod iff their
// normalized texts are equal.
type Text string

// String implements fmt.Stringer
func (t Text) String() string {
	return string(t)
}

var (
	// innermost [..] pair, optionally carrying an "internal|displayed" split
	bracketRE    = regexp.MustCompile(`\[([^\[\]]*)\]`)
	numberRE     = regexp.MustCompile(`\d+(?:\.\d+)?`)
	integerRE    = regexp.MustCompile(`\d+`)
	rangeRE      = regexp.MustCompile(`\(\s*#\s*(?:-|–|—|to)\s*#\s*\)`)
	multiSpaceRE = regexp.MustCompile(`\s+`)
)

// Normalize returns the canonical key for a raw mod description.
//
// Steps run in order: bracket markup resolves to its displayed half, the text
// is lower-cased, leading sign glyphs are stripped, numeric literals become
// placeholders and whitespace is collapsed. The function is pure and
// idempotent. An input that normalizes to nothing is a data error.
func Normalize(raw string) (Text, error) {
	s := resolveBrackets(raw)
	s = cases.Lower(language.Und).String(s)
	s = stripSign(s)
	s = numberRE.ReplaceAllString(s, Placeholder)
	s = collapseRanges(s)
	s = strings.TrimSpace(multiSpaceRE.ReplaceAllString(s, " "))

	if s == "" {
		return "", crafterr.DataErrorf("mod text %q normalizes to an empty string", raw).
			WithMeta("raw_text", raw)
	}
	return Text(s), nil
}

// MustNormalize is Normalize for fixtures and tables; it panics on error.
func MustNormalize(raw string) Text {
	t, err := Normalize(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// Values returns the integers embedded in the displayed half of raw, in order
// of appearance. Signs are not carried; callers treat them as magnitudes.
func Values(raw string) []int {
	matches := integerRE.FindAllString(resolveBrackets(raw), -1)
	if len(matches) == 0 {
		return nil
	}

	out := make([]int, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.Atoi(m)
		if err != nil {
			// only overflow can fail here
			continue
		}
		out = append(out, v)
	}
	return out
}

// resolveBrackets replaces "[a|b]" with "b" and "[a]" with "a", innermost
// first, until no bracket pair is left.
func resolveBrackets(s string) string {
	for {
		next := bracketRE.ReplaceAllStringFunc(s, func(m string) string {
			inner := m[1 : len(m)-1]
			if i := strings.Index(inner, "|"); i >= 0 {
				return inner[i+1:]
			}
			return inner
		})
		if next == s {
			return s
		}
		s = next
	}
}

// collapseRanges folds "(# - #)" into "#" until no range is left, so nested
// ranges collapse in one call.
func collapseRanges(s string) string {
	for {
		next := rangeRE.ReplaceAllString(s, Placeholder)
		if next == s {
			return s
		}
		s = next
	}
}

// stripSign drops the leading sign glyph. A run of signs is dropped whole so
// that normalizing twice equals normalizing once.
func stripSign(s string) string {
	return strings.TrimSpace(strings.TrimLeftFunc(s, func(r rune) bool {
		return r == '+' || r == '-' || unicode.IsSpace(r)
	}))
}
