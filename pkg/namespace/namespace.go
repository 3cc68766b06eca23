// Package namespace derives stable uppercase-snake catalog namespaces from
// component identifiers. Derivation is a pure function of its inputs so that
// re-running extraction on an unchanged component always lands in the same
// namespace instead of fragmenting the catalog.
package namespace

import (
	"strings"
	"unicode"
)

// DefaultSuffixes are the role suffixes stripped from component identifiers
// before namespace derivation.
var DefaultSuffixes = []string{"Component", "Dialog", "Page", "View"}

// Derive converts a Pascal/camel-case component identifier into its
// uppercase-snake namespace using the default role suffixes, e.g.
// "UserProfileComponent" -> "USER_PROFILE".
func Derive(identifier string) string {
	return DeriveWith(identifier, DefaultSuffixes)
}

// DeriveWith is Derive with a caller-supplied suffix list. A suffix is only
// stripped when something remains afterwards, so an identifier that IS a
// role word ("Dialog") still produces a namespace.
func DeriveWith(identifier string, suffixes []string) string {
	id := strings.TrimSpace(identifier)
	for _, suffix := range suffixes {
		if len(id) > len(suffix) && strings.HasSuffix(id, suffix) {
			id = id[:len(id)-len(suffix)]
			break
		}
	}
	words := splitWords(id)
	return strings.ToUpper(strings.Join(words, "_"))
}

// splitWords splits an identifier at case transitions and digit boundaries.
// Runs of uppercase stay together apart from the last letter starting the
// next word, so "HTTPStatus" yields ["HTTP", "Status"].
func splitWords(s string) []string {
	var words []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
			continue
		case unicode.IsUpper(r):
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (nextLower && cur.Len() > 0) {
				flush()
			}
		case unicode.IsDigit(r):
			if i > 0 && unicode.IsLetter(runes[i-1]) {
				flush()
			}
		default:
			if i > 0 && unicode.IsDigit(runes[i-1]) {
				flush()
			}
		}
		cur.WriteRune(r)
	}
	flush()
	return words
}
