// Package catalog loads, merges and persists per-locale translation
// catalogs. A catalog is a two-level tree (namespace -> key -> text) and the
// merge is strictly additive: existing values are never modified, all known
// locales end up with identical key sets, and untranslated entries carry a
// deterministic pending placeholder instead of being absent.
package catalog

import (
	"sort"
	"strings"

	i18ntypes "github.com/jingkaihe/lingo/pkg/types/i18n"
)

// PendingPrefix tags placeholder values awaiting a real translation. The
// base text rides along so human translators see what the entry means.
const PendingPrefix = "__pending__: "

// Catalog is one locale's namespace -> key -> text tree.
type Catalog map[string]map[string]string

// Pending builds the deterministic placeholder for untranslated text.
func Pending(baseText string) string {
	return PendingPrefix + baseText
}

// IsPending reports whether a value is a placeholder awaiting translation.
func IsPending(value string) bool {
	return strings.HasPrefix(value, PendingPrefix)
}

// Get returns the value for namespace/key and whether it exists.
func (c Catalog) Get(ns, key string) (string, bool) {
	keys, ok := c[ns]
	if !ok {
		return "", false
	}
	v, ok := keys[key]
	return v, ok
}

// Has reports whether namespace/key exists.
func (c Catalog) Has(ns, key string) bool {
	_, ok := c.Get(ns, key)
	return ok
}

// Namespace returns the key -> text map for one namespace; the second result
// is false when the namespace is absent.
func (c Catalog) Namespace(ns string) (map[string]string, bool) {
	keys, ok := c[ns]
	return keys, ok
}

// Namespaces returns the namespace names in sorted order.
func (c Catalog) Namespaces() []string {
	out := make([]string, 0, len(c))
	for ns := range c {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Len returns the total number of keys across all namespaces.
func (c Catalog) Len() int {
	n := 0
	for _, keys := range c {
		n += len(keys)
	}
	return n
}

// Clone returns a deep copy. Merge operates on copies so a failed run never
// leaves a half-mutated catalog behind.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for ns, keys := range c {
		m := make(map[string]string, len(keys))
		for k, v := range keys {
			m[k] = v
		}
		out[ns] = m
	}
	return out
}

// set inserts without overwriting; it reports whether the value was added.
func (c Catalog) set(ns, key, value string) bool {
	keys, ok := c[ns]
	if !ok {
		keys = make(map[string]string)
		c[ns] = keys
	}
	if _, exists := keys[key]; exists {
		return false
	}
	keys[key] = value
	return true
}

// Validate enforces the structural invariant on a loaded catalog: no dotted
// key at either depth, namespaces must be objects of strings. locale and
// path annotate the returned CatalogStructureError.
func (c Catalog) Validate(locale, path string) error {
	for ns, keys := range c {
		if strings.Contains(ns, ".") {
			return &i18ntypes.CatalogStructureError{
				Locale: locale, Path: path, Key: ns,
				Reason: "flat dotted key where a nested namespace object is expected",
			}
		}
		for k := range keys {
			if strings.Contains(k, ".") {
				return &i18ntypes.CatalogStructureError{
					Locale: locale, Path: path, Key: ns + "." + k,
					Reason: "flat dotted key inside namespace",
				}
			}
		}
	}
	return nil
}

// Merge folds one run's extraction result into the per-locale catalogs and
// returns new catalogs; the inputs are not mutated. Rules, in order:
// new keys land in the base locale with their literal source text, every
// other known locale gets either the backend-supplied translation or a
// pending placeholder, and no existing value is ever changed.
func Merge(catalogs map[string]Catalog, result *i18ntypes.ExtractionResult, baseLocale string, locales []string) map[string]Catalog {
	merged := make(map[string]Catalog, len(locales))
	for _, loc := range locales {
		if c, ok := catalogs[loc]; ok {
			merged[loc] = c.Clone()
		} else {
			merged[loc] = make(Catalog)
		}
	}
	if _, ok := merged[baseLocale]; !ok {
		merged[baseLocale] = make(Catalog)
	}

	for _, e := range result.Entries {
		merged[baseLocale].set(e.Key.Namespace, e.Key.Key, e.BaseText)
		for _, loc := range locales {
			if loc == baseLocale {
				continue
			}
			value, ok := e.Translations[loc]
			if !ok || value == "" {
				value = Pending(e.BaseText)
			}
			merged[loc].set(e.Key.Namespace, e.Key.Key, value)
		}
	}

	// keep key sets identical across locales even for entries that predate
	// this run: anything present in the base locale must exist everywhere
	base := merged[baseLocale]
	for _, loc := range locales {
		if loc == baseLocale {
			continue
		}
		for ns, keys := range base {
			for k, baseText := range keys {
				merged[loc].set(ns, k, Pending(baseText))
			}
		}
	}

	return merged
}

// Diff reports the keys present in want but missing from c, as qualified
// names in sorted order. Used by the check command to detect locale drift.
func (c Catalog) Diff(want Catalog) []string {
	var missing []string
	for ns, keys := range want {
		for k := range keys {
			if !c.Has(ns, k) {
				missing = append(missing, ns+"."+k)
			}
		}
	}
	sort.Strings(missing)
	return missing
}
