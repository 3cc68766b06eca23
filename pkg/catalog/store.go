package catalog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	i18ntypes "github.com/jingkaihe/lingo/pkg/types/i18n"
)

// Store reads and writes per-locale catalog files under one directory.
// JSON is the canonical format; a locale whose file already exists as
// .yaml/.yml keeps that format.
type Store struct {
	dir        string
	baseLocale string
	locales    []string
}

// NewStore returns a store for the catalog directory. The base locale is
// always part of the known set whether or not it is listed.
func NewStore(dir, baseLocale string, locales []string) *Store {
	known := make([]string, 0, len(locales)+1)
	seen := map[string]bool{}
	for _, loc := range append([]string{baseLocale}, locales...) {
		if loc == "" || seen[loc] {
			continue
		}
		seen[loc] = true
		known = append(known, loc)
	}
	return &Store{dir: dir, baseLocale: baseLocale, locales: known}
}

// Locales returns the known locales, base locale first.
func (s *Store) Locales() []string { return s.locales }

// BaseLocale returns the locale whose values are the untranslated source text.
func (s *Store) BaseLocale() string { return s.baseLocale }

// Path returns the catalog file path for a locale, preferring an existing
// YAML file over the canonical JSON one.
func (s *Store) Path(locale string) string {
	for _, ext := range []string{".yaml", ".yml"} {
		p := filepath.Join(s.dir, locale+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(s.dir, locale+".json")
}

// Load reads every known locale's catalog. Missing files load as empty
// catalogs; structural violations surface as CatalogStructureError before
// anything else in the run can write.
func (s *Store) Load() (map[string]Catalog, error) {
	out := make(map[string]Catalog, len(s.locales))
	for _, loc := range s.locales {
		c, err := s.loadLocale(loc)
		if err != nil {
			return nil, err
		}
		out[loc] = c
	}
	return out, nil
}

func (s *Store) loadLocale(locale string) (Catalog, error) {
	path := s.Path(locale)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return make(Catalog), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read catalog for %s", locale)
	}
	return Decode(data, locale, path)
}

// Decode parses catalog bytes and enforces the nesting invariant. The file
// must be a mapping of namespace objects holding string values only.
func Decode(data []byte, locale, path string) (Catalog, error) {
	var raw map[string]any
	var err error
	if isYAMLPath(path) {
		err = yaml.Unmarshal(data, &raw)
	} else {
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, &i18ntypes.CatalogStructureError{Locale: locale, Path: path, Reason: err.Error()}
	}

	c := make(Catalog, len(raw))
	for ns, v := range raw {
		keys, err := asStringMap(v)
		if err != nil {
			return nil, &i18ntypes.CatalogStructureError{Locale: locale, Path: path, Key: ns, Reason: err.Error()}
		}
		c[ns] = keys
	}
	if err := c.Validate(locale, path); err != nil {
		return nil, err
	}
	return c, nil
}

func asStringMap(v any) (map[string]string, error) {
	out := map[string]string{}
	switch m := v.(type) {
	case map[string]any:
		for k, val := range m {
			s, ok := val.(string)
			if !ok {
				return nil, errors.Errorf("value of %q is not a string", k)
			}
			out[k] = s
		}
	default:
		return nil, errors.New("namespace is not a nested object")
	}
	return out, nil
}

// Save persists every locale's catalog. All payloads are encoded up front so
// an encoding failure aborts before the first byte hits disk, then each
// locale is written with a temp-file-and-rename so partial catalogs are
// never observable. Unchanged locales are left untouched, which keeps a
// no-op run byte-identical on disk.
func (s *Store) Save(catalogs map[string]Catalog) error {
	type pending struct {
		path string
		data []byte
	}
	var writes []pending

	for _, loc := range s.locales {
		c, ok := catalogs[loc]
		if !ok {
			continue
		}
		path := s.Path(loc)
		data, err := Encode(c, path)
		if err != nil {
			return errors.Wrapf(err, "failed to encode catalog for %s", loc)
		}
		if prev, err := os.ReadFile(path); err == nil && bytes.Equal(prev, data) {
			continue
		}
		writes = append(writes, pending{path: path, data: data})
	}

	if len(writes) == 0 {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create catalog directory")
	}
	for _, w := range writes {
		if err := writeAtomic(w.path, w.data); err != nil {
			return err
		}
	}
	return nil
}

// Encode renders a catalog deterministically: both codecs emit namespaces
// and keys in sorted order, so identical catalogs are identical bytes.
func Encode(c Catalog, path string) ([]byte, error) {
	if isYAMLPath(path) {
		return yaml.Marshal(c)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "failed to replace %s", path)
	}
	return nil
}

func isYAMLPath(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}
