// Package i18n defines the shared domain types for the extraction pipeline:
// source units, scan candidates, translation keys and the accumulated
// extraction result that feeds the catalog merge and the change report.
package i18n

import "fmt"

// CandidateKind distinguishes the two text-bearing regions the scanner
// recognizes in a template.
type CandidateKind string

const (
	// CandidateContent is free text between tags.
	CandidateContent CandidateKind = "content"
	// CandidateAttribute is the literal value of an allow-listed attribute.
	CandidateAttribute CandidateKind = "attribute"
)

// SourceUnit is one component's template plus its companion logic file.
// Units are owned by a single extraction run and never persisted.
type SourceUnit struct {
	// Component is the component identifier, e.g. "UserProfileComponent".
	Component string
	// TemplatePath and LogicPath are used for reporting and writes only;
	// the pipeline operates on the in-memory text blobs below.
	TemplatePath string
	LogicPath    string
	Template     string
	Logic        string
}

// Candidate is a located, not-yet-extracted text-bearing region.
// Start/End delimit the exact byte span the rewriter replaces; for content
// candidates the span excludes surrounding whitespace so indentation
// survives rewriting byte-identical.
type Candidate struct {
	Kind      CandidateKind
	Attribute string // attribute name, set when Kind == CandidateAttribute
	Element   string // enclosing (or owning) element name, lowercased
	Text      string // raw candidate text, trimmed for content candidates
	Start     int
	End       int
}

// TranslationKey addresses one catalog entry as NAMESPACE.KEY.
type TranslationKey struct {
	Namespace string
	Key       string
}

// Qualified returns the dotted form used in reference expressions.
func (k TranslationKey) Qualified() string {
	return k.Namespace + "." + k.Key
}

func (k TranslationKey) String() string { return k.Qualified() }

// Entry is one extracted string: its key, the base-locale text and any
// backend-supplied translations gathered during the run. Entries whose key
// already existed in the catalog with identical text are marked Reused;
// they produce no catalog change and no report row.
type Entry struct {
	Key          TranslationKey
	BaseText     string
	Translations map[string]string // non-base locale -> translated text
	Component    string
	Reused       bool
}

// SkippedUnit records a source unit the run isolated after a scan failure.
type SkippedUnit struct {
	Component string
	Err       error
}

// ExtractionResult accumulates the entries of one run across all source
// units. It is the single input to the catalog merge and the reporter;
// nothing is written to disk until the whole result has been assembled.
type ExtractionResult struct {
	RunID   string
	Entries []*Entry
	Skipped []SkippedUnit
}

// Add appends an entry to the result.
func (r *ExtractionResult) Add(e *Entry) {
	r.Entries = append(r.Entries, e)
}

// Skip records a unit-level failure without failing the batch.
func (r *ExtractionResult) Skip(component string, err error) {
	r.Skipped = append(r.Skipped, SkippedUnit{Component: component, Err: err})
}

// NewKeys returns the number of entries that will add catalog rows.
func (r *ExtractionResult) NewKeys() int {
	n := 0
	for _, e := range r.Entries {
		if !e.Reused {
			n++
		}
	}
	return n
}

func (u SkippedUnit) String() string {
	return fmt.Sprintf("%s: %v", u.Component, u.Err)
}
