// Package scanner locates translatable text-bearing regions in template
// source. It deliberately does not parse the full template grammar: a single
// forward pass tracks just enough tag structure to find content text nodes
// and allow-listed literal attributes, and to skip regions that are already
// translation references.
package scanner

import (
	"regexp"
	"strings"

	i18ntypes "github.com/jingkaihe/lingo/pkg/types/i18n"
)

// DefaultAttributes is the built-in allow-list of translatable attributes.
var DefaultAttributes = []string{"placeholder", "title", "alt", "aria-label"}

// referencePipe marks text that is already a translation reference and must
// never be re-extracted. This is the idempotence guard at the scanning layer.
const referencePipe = "| translate"

// interpolationRE matches one {{ ... }} interpolation segment.
var interpolationRE = regexp.MustCompile(`\{\{[^}]*\}\}`)

// voidElements never take closing tags, so they are not pushed on the
// element stack while tracking the enclosing element of text nodes.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// rawTextElements contain scripts or styles, never user-facing copy.
var rawTextElements = map[string]bool{"script": true, "style": true}

// Scanner finds extraction candidates in template text.
type Scanner struct {
	attrs map[string]bool
}

// New returns a scanner that treats the given attribute names as
// translatable. A nil or empty list falls back to DefaultAttributes.
func New(attributes []string) *Scanner {
	if len(attributes) == 0 {
		attributes = DefaultAttributes
	}
	attrs := make(map[string]bool, len(attributes))
	for _, a := range attributes {
		attrs[strings.ToLower(strings.TrimSpace(a))] = true
	}
	return &Scanner{attrs: attrs}
}

// Scan walks the template once and returns candidates ordered by their start
// offset. Scanning is read-only and deterministic: scanning the same text
// twice yields the identical sequence, and text that has already been
// converted to a translation reference yields nothing.
func (s *Scanner) Scan(component, template string) ([]i18ntypes.Candidate, error) {
	var out []i18ntypes.Candidate
	var stack []string // open element names, innermost last

	enclosing := func() string {
		if len(stack) == 0 {
			return ""
		}
		return stack[len(stack)-1]
	}

	i := 0
	for i < len(template) {
		lt := strings.IndexByte(template[i:], '<')
		if lt < 0 {
			// trailing text node
			if c, ok := contentCandidate(template, i, len(template), enclosing()); ok {
				out = append(out, c)
			}
			break
		}
		lt += i
		if c, ok := contentCandidate(template, i, lt, enclosing()); ok {
			out = append(out, c)
		}

		next, err := s.scanTag(component, template, lt, &stack, &out)
		if err != nil {
			return nil, err
		}
		i = next
	}
	return out, nil
}

// scanTag consumes one markup construct starting at the '<' at offset start
// and returns the offset just past it. Attribute candidates are appended to
// out; the element stack is maintained for content role hints.
func (s *Scanner) scanTag(component, template string, start int, stack *[]string, out *[]i18ntypes.Candidate) (int, error) {
	rest := template[start:]

	switch {
	case strings.HasPrefix(rest, "<!--"):
		end := strings.Index(rest, "-->")
		if end < 0 {
			return 0, &i18ntypes.ScanError{Component: component, Offset: start, Reason: "unterminated comment"}
		}
		return start + end + len("-->"), nil

	case strings.HasPrefix(rest, "<!"):
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			return 0, &i18ntypes.ScanError{Component: component, Offset: start, Reason: "unterminated declaration"}
		}
		return start + end + 1, nil

	case strings.HasPrefix(rest, "</"):
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			return 0, &i18ntypes.ScanError{Component: component, Offset: start, Reason: "unterminated closing tag"}
		}
		name := strings.ToLower(strings.TrimSpace(rest[2:end]))
		popElement(stack, name)
		return start + end + 1, nil
	}

	// opening tag: element name, then attributes until '>' or '/>'
	i := start + 1
	nameStart := i
	for i < len(template) && isNameByte(template[i]) {
		i++
	}
	name := strings.ToLower(template[nameStart:i])

	selfClosing := false
	for {
		for i < len(template) && isSpace(template[i]) {
			i++
		}
		if i >= len(template) {
			return 0, &i18ntypes.ScanError{Component: component, Offset: start, Reason: "unclosed tag at end of template"}
		}
		if template[i] == '>' {
			i++
			break
		}
		if strings.HasPrefix(template[i:], "/>") {
			selfClosing = true
			i += 2
			break
		}

		attrStart := i
		for i < len(template) && !isSpace(template[i]) && template[i] != '=' && template[i] != '>' && !strings.HasPrefix(template[i:], "/>") {
			i++
		}
		attrName := template[attrStart:i]
		if i >= len(template) || template[i] != '=' {
			continue // bare attribute, e.g. disabled
		}
		i++ // consume '='
		if i >= len(template) || (template[i] != '"' && template[i] != '\'') {
			// unquoted value: consume until whitespace or tag end
			for i < len(template) && !isSpace(template[i]) && template[i] != '>' {
				i++
			}
			continue
		}
		quote := template[i]
		valStart := i + 1
		valEnd := strings.IndexByte(template[valStart:], quote)
		if valEnd < 0 {
			return 0, &i18ntypes.ScanError{Component: component, Offset: attrStart, Reason: "unterminated attribute value"}
		}
		valEnd += valStart
		i = valEnd + 1

		if c, ok := s.attributeCandidate(template, name, attrName, attrStart, valStart, valEnd); ok {
			*out = append(*out, c)
		}
	}

	if !selfClosing && !voidElements[name] {
		if rawTextElements[name] {
			// jump straight to the matching closing tag; raw text is
			// never user-facing copy
			closing := "</" + name
			end := strings.Index(strings.ToLower(template[i:]), closing)
			if end < 0 {
				return 0, &i18ntypes.ScanError{Component: component, Offset: start, Reason: "unterminated " + name + " element"}
			}
			gt := strings.IndexByte(template[i+end:], '>')
			if gt < 0 {
				return 0, &i18ntypes.ScanError{Component: component, Offset: start, Reason: "unterminated " + name + " element"}
			}
			return i + end + gt + 1, nil
		}
		*stack = append(*stack, name)
	}
	return i, nil
}

// attributeCandidate decides whether one parsed attribute is extractable and
// builds its candidate. The span covers the whole name="value" token so the
// rewriter can swap it for a bound form.
func (s *Scanner) attributeCandidate(template, element, attrName string, attrStart, valStart, valEnd int) (i18ntypes.Candidate, bool) {
	lower := strings.ToLower(attrName)
	if !s.attrs[lower] {
		return i18ntypes.Candidate{}, false
	}
	// bound or structural attributes hold expressions, not literals
	if strings.HasPrefix(attrName, "[") || strings.HasPrefix(attrName, "(") ||
		strings.HasPrefix(attrName, "*") || strings.HasPrefix(attrName, ":") ||
		strings.HasPrefix(attrName, "@") || strings.HasPrefix(attrName, "#") {
		return i18ntypes.Candidate{}, false
	}
	value := template[valStart:valEnd]
	if strings.Contains(value, "{{") {
		// interpolated values are dynamic, not literals
		return i18ntypes.Candidate{}, false
	}
	if !translatableText(value) {
		return i18ntypes.Candidate{}, false
	}
	return i18ntypes.Candidate{
		Kind:      i18ntypes.CandidateAttribute,
		Attribute: lower,
		Element:   element,
		Text:      value,
		Start:     attrStart,
		End:       valEnd + 1,
	}, true
}

// contentCandidate builds a candidate for the text node between from and to.
// The span covers only the trimmed text so surrounding whitespace and
// indentation survive rewriting untouched.
func contentCandidate(template string, from, to int, element string) (i18ntypes.Candidate, bool) {
	text := template[from:to]
	trimmed := strings.TrimSpace(text)
	if !translatableText(trimmed) {
		return i18ntypes.Candidate{}, false
	}
	start := from + strings.Index(text, trimmed)
	return i18ntypes.Candidate{
		Kind:    i18ntypes.CandidateContent,
		Element: element,
		Text:    trimmed,
		Start:   start,
		End:     start + len(trimmed),
	}, true
}

// translatableText reports whether trimmed text is worth extracting: it must
// contain at least one character that is neither whitespace nor part of an
// interpolation, and must not already be a translation reference.
func translatableText(trimmed string) bool {
	if trimmed == "" {
		return false
	}
	if strings.Contains(trimmed, referencePipe) {
		return false
	}
	stripped := strings.TrimSpace(interpolationRE.ReplaceAllString(trimmed, ""))
	return stripped != ""
}

// popElement pops the innermost matching open element. Mismatched closing
// tags unwind to the match if one exists, mirroring how browsers recover.
func popElement(stack *[]string, name string) {
	for i := len(*stack) - 1; i >= 0; i-- {
		if (*stack)[i] == name {
			*stack = (*stack)[:i]
			return
		}
	}
}

func isNameByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '-' || b == '_'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
