package i18n

import "fmt"

// ScanError reports a malformed template region. The offending source unit
// is skipped and reported; the rest of the batch continues.
type ScanError struct {
	Component string
	Offset    int
	Reason    string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s at offset %d: %s", e.Component, e.Offset, e.Reason)
}

// KeyGenerationError reports candidate text that normalized to nothing.
// The affected candidate is dropped; the rest of the unit continues.
type KeyGenerationError struct {
	Namespace string
	Text      string
}

func (e *KeyGenerationError) Error() string {
	return fmt.Sprintf("cannot derive key in %s from %q: empty after normalization", e.Namespace, e.Text)
}

// CatalogStructureError reports an existing catalog file that violates the
// nesting invariant (a flat dotted key, or a non-object where a namespace is
// expected). It is fatal to the whole run and is surfaced before any write.
type CatalogStructureError struct {
	Locale string
	Path   string
	Key    string
	Reason string
}

func (e *CatalogStructureError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("catalog %s (%s): key %q: %s", e.Locale, e.Path, e.Key, e.Reason)
	}
	return fmt.Sprintf("catalog %s (%s): %s", e.Locale, e.Path, e.Reason)
}

// BackendTimeoutError reports a translation backend call that failed or ran
// out of time. It is non-fatal: the merge falls back to a pending
// placeholder for the affected locale.
type BackendTimeoutError struct {
	Locale string
	Err    error
}

func (e *BackendTimeoutError) Error() string {
	return fmt.Sprintf("translation backend for %s: %v", e.Locale, e.Err)
}

func (e *BackendTimeoutError) Unwrap() error { return e.Err }
