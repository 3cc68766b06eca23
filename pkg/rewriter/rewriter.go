// Package rewriter splices translation reference expressions into template
// text. Replacements are applied from the highest start offset down so that
// earlier spans stay valid while later ones are rewritten, and everything
// outside the spans is preserved byte for byte.
package rewriter

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	i18ntypes "github.com/jingkaihe/lingo/pkg/types/i18n"
)

// Replacement is one span of template text and the expression replacing it.
type Replacement struct {
	Start int
	End   int
	Text  string
}

// Reference builds the reference expression for a candidate's kind:
// content text becomes an interpolated translate pipe, an attribute token
// becomes a bound attribute evaluating the same pipe.
func Reference(c i18ntypes.Candidate, key i18ntypes.TranslationKey) string {
	switch c.Kind {
	case i18ntypes.CandidateAttribute:
		return fmt.Sprintf("[%s]=\"'%s' | translate\"", c.Attribute, key.Qualified())
	default:
		return fmt.Sprintf("{{ '%s' | translate }}", key.Qualified())
	}
}

// Apply rewrites the template with the given replacements. With zero
// replacements the input is returned unchanged, which is what makes a second
// pass over an already-converted file the identity.
func Apply(template string, repls []Replacement) (string, error) {
	if len(repls) == 0 {
		return template, nil
	}

	sorted := make([]Replacement, len(repls))
	copy(sorted, repls)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start > sorted[j].Start })

	for i, r := range sorted {
		if r.Start < 0 || r.End > len(template) || r.Start > r.End {
			return "", errors.Errorf("replacement span [%d,%d) out of bounds (template is %d bytes)", r.Start, r.End, len(template))
		}
		if i > 0 && r.End > sorted[i-1].Start {
			return "", errors.Errorf("replacement spans [%d,%d) and [%d,%d) overlap", r.Start, r.End, sorted[i-1].Start, sorted[i-1].End)
		}
	}

	out := template
	for _, r := range sorted {
		out = out[:r.Start] + r.Text + out[r.End:]
	}
	return out, nil
}
