package finder

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	dErrors "github.com/adverot/emailfinder/pkg/domain-errors"
)

// Separator patterns per name position. First names only break on a plain
// hyphen; last names additionally break on double-hyphens and spaces so that
// "Van--Der Berg" and "van der berg" normalize identically. The double-hyphen
// alternative is listed first so it collapses to a single separator.
var (
	FirstNameSeps = regexp.MustCompile(`-`)
	LastNameSeps  = regexp.MustCompile(`--|[- ]`)
)

const canonicalSep = "-"

var apostrophes = strings.NewReplacer("'", "", "’", "")

func stripDiacritics(s string) string {
	// The chain is built per call: transform.Chain values carry internal
	// buffers and are not safe for concurrent use.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeName turns a raw name into canonical, diacritic-free,
// separator-unified parts: lowercase, NFD-decompose and drop combining marks,
// remove apostrophes, unify everything seps matches into one canonical
// separator, then split. Returns ErrInvalidName (wrapped with CodeValidation)
// when nothing remains.
func NormalizeName(raw string, seps *regexp.Regexp) (NameParts, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = stripDiacritics(s)
	s = apostrophes.Replace(s)
	s = seps.ReplaceAllString(s, canonicalSep)

	var parts NameParts
	for _, tok := range strings.Split(s, canonicalSep) {
		if tok != "" {
			parts = append(parts, tok)
		}
	}
	if len(parts) == 0 {
		return nil, dErrors.Wrap(ErrInvalidName, dErrors.CodeValidation, "name normalizes to nothing usable")
	}
	return parts, nil
}
