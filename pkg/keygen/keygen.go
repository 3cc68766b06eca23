// Package keygen derives short uppercase-snake translation keys from
// candidate text. A generator is scoped to one namespace and seeded with the
// namespace's existing catalog entries, so identical text reuses its key
// across runs while distinct text colliding on a derived name is
// disambiguated with a numeric suffix.
package keygen

import (
	"fmt"
	"regexp"
	"strings"

	i18ntypes "github.com/jingkaihe/lingo/pkg/types/i18n"
)

const (
	// maxWords bounds how many significant words feed the key name.
	maxWords = 4
	// maxKeyLen bounds the derived portion of the key before role suffixes
	// and disambiguators.
	maxKeyLen = 40
)

// roleHints fold the enclosing element into content keys so a button label
// and a heading with the same text do not collide by accident.
var roleHints = map[string]string{
	"button": "BTN",
	"a":      "LINK",
	"label":  "LABEL",
}

var interpolationRE = regexp.MustCompile(`\{\{[^}]*\}\}`)
var nonWordRE = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Generator assigns keys within one namespace. It tracks both pre-existing
// catalog entries and keys assigned earlier in the current run.
type Generator struct {
	namespace string
	// existing maps key -> base-locale text for every key already taken
	// in this namespace, across the whole catalog rather than just the
	// current run.
	existing map[string]string
}

// New returns a generator for the namespace seeded with its existing
// key -> base text entries. The seed map is copied; callers keep ownership.
func New(ns string, existing map[string]string) *Generator {
	seed := make(map[string]string, len(existing))
	for k, v := range existing {
		seed[k] = v
	}
	return &Generator{namespace: ns, existing: seed}
}

// Generate derives the key for a candidate. reused is true when the
// namespace already maps a key to this exact text, in which case that key is
// returned and the catalog stays untouched.
func (g *Generator) Generate(c i18ntypes.Candidate) (key string, reused bool, err error) {
	base := deriveName(c.Text)
	if base == "" {
		return "", false, &i18ntypes.KeyGenerationError{Namespace: g.namespace, Text: c.Text}
	}
	if suffix := roleSuffix(c); suffix != "" {
		base += "_" + suffix
	}

	candidate := base
	for n := 2; ; n++ {
		prev, taken := g.existing[candidate]
		if !taken {
			g.existing[candidate] = c.Text
			return candidate, false, nil
		}
		if prev == c.Text {
			return candidate, true, nil
		}
		candidate = fmt.Sprintf("%s_%d", base, n)
	}
}

// Known returns whether the key is already taken in this namespace.
func (g *Generator) Known(key string) bool {
	_, ok := g.existing[key]
	return ok
}

// deriveName builds the uppercase-snake stem from candidate text: strip
// interpolations, keep the first few significant words, bound the length at
// a word boundary.
func deriveName(text string) string {
	plain := interpolationRE.ReplaceAllString(text, " ")
	plain = nonWordRE.ReplaceAllString(plain, " ")
	words := strings.Fields(plain)
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	name := strings.ToUpper(strings.Join(words, "_"))
	if len(name) > maxKeyLen {
		cut := strings.LastIndexByte(name[:maxKeyLen], '_')
		if cut <= 0 {
			cut = maxKeyLen
		}
		name = name[:cut]
	}
	return name
}

// roleSuffix qualifies the key by the candidate's role: the attribute name
// for attribute candidates, the element hint for content in hinted elements.
func roleSuffix(c i18ntypes.Candidate) string {
	if c.Kind == i18ntypes.CandidateAttribute {
		s := nonWordRE.ReplaceAllString(c.Attribute, "_")
		return strings.ToUpper(strings.Trim(s, "_"))
	}
	return roleHints[c.Element]
}
