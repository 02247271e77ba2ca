package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLen = 80

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)
	ligatures   = strings.NewReplacer("œ", "oe", "Œ", "OE", "æ", "ae", "Æ", "AE", "ß", "ss")
)

// GenerateSlug turns a post title into a URL slug.
// "Les Tendances de l'Été 2025 !" → "les-tendances-de-l-ete-2025"
func GenerateSlug(input string) string {
	// Step 1: fold accents (é → e, ç → c)
	ascii := RemoveDiacritics(ligatures.Replace(input))

	// Step 2: lowercase
	lower := strings.ToLower(ascii)

	// Step 3: every run of non-alphanumerics becomes one hyphen
	hyphenated := slugInvalid.ReplaceAllString(lower, "-")

	// Step 4: trim and cap length on a hyphen boundary
	slug := strings.Trim(hyphenated, "-")
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
		if i := strings.LastIndex(slug, "-"); i > 0 {
			slug = slug[:i]
		}
	}

	return slug
}

// RemoveDiacritics decomposes to NFD and drops combining marks.
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, input)
	if err != nil {
		return input
	}
	return out
}

// SlugCandidate returns base for attempt 1 and base-N afterwards.
func SlugCandidate(base string, attempt int) string {
	if attempt <= 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, attempt)
}
