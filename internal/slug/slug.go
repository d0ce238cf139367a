package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is used when a title has no characters that survive normalization.
const Fallback = "post"

var (
	nonWord    = regexp.MustCompile(`[^a-z0-9_\s-]`)
	separators = regexp.MustCompile(`[-\s]+`)
)

// Make turns a title into a URL-safe slug: accents folded, non-ASCII dropped,
// lowercased, runs of spaces and hyphens collapsed into one hyphen.
func Make(title string) string {
	// transform chains keep internal state, so one is built per call
	foldAccents := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(foldAccents, title)
	if err != nil {
		folded = title
	}

	ascii := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, folded)

	s := strings.ToLower(ascii)
	s = nonWord.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-_")
}

// MakeOrFallback is Make with Fallback for titles that normalize to nothing.
func MakeOrFallback(title string) string {
	if s := Make(title); s != "" {
		return s
	}
	return Fallback
}

// Candidate returns the n-th candidate for base: base itself, then base-1, base-2, ...
func Candidate(base string, n int) string {
	if n <= 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
