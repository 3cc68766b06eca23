package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	i18ntypes "github.com/jingkaihe/lingo/pkg/types/i18n"
)

func TestStoreLocales(t *testing.T) {
	store := NewStore(t.TempDir(), "en", []string{"es", "en", "de", "", "es"})
	assert.Equal(t, []string{"en", "es", "de"}, store.Locales())
	assert.Equal(t, "en", store.BaseLocale())
}

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, "en", []string{"es"})

	catalogs := map[string]Catalog{
		"en": {"USER_PROFILE": {"SUBMIT_BTN": "Submit"}},
		"es": {"USER_PROFILE": {"SUBMIT_BTN": Pending("Submit")}},
	}
	require.NoError(t, store.Save(catalogs))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, catalogs["en"], loaded["en"])
	assert.Equal(t, catalogs["es"], loaded["es"])
}

func TestStoreLoadMissingFilesAsEmpty(t *testing.T) {
	store := NewStore(t.TempDir(), "en", []string{"es"})
	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, loaded["en"].Len())
	assert.Equal(t, 0, loaded["es"].Len())
}

func TestStoreLoadRejectsFlatKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"USER_PROFILE.SUBMIT_BTN": {"X": "y"}}`), 0o644))

	store := NewStore(dir, "en", nil)
	_, err := store.Load()
	var structErr *i18ntypes.CatalogStructureError
	require.ErrorAs(t, err, &structErr)
	assert.Equal(t, "en", structErr.Locale)
	assert.Equal(t, path, structErr.Path)
}

func TestStoreLoadRejectsNonObjectNamespace(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{"USER_PROFILE": "Submit"}`), 0o644))

	store := NewStore(dir, "en", nil)
	_, err := store.Load()
	var structErr *i18ntypes.CatalogStructureError
	require.ErrorAs(t, err, &structErr)
	assert.Equal(t, "USER_PROFILE", structErr.Key)
}

func TestStoreLoadRejectsNonStringValue(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{"USER_PROFILE": {"COUNT": 3}}`), 0o644))

	store := NewStore(dir, "en", nil)
	_, err := store.Load()
	var structErr *i18ntypes.CatalogStructureError
	require.ErrorAs(t, err, &structErr)
}

func TestStoreLoadRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{"USER_PROFILE":`), 0o644))

	store := NewStore(dir, "en", nil)
	_, err := store.Load()
	var structErr *i18ntypes.CatalogStructureError
	require.ErrorAs(t, err, &structErr)
}

func TestStoreKeepsYAMLFormat(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "en.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("USER_PROFILE:\n  SUBMIT_BTN: Submit\n"), 0o644))

	store := NewStore(dir, "en", nil)
	assert.Equal(t, yamlPath, store.Path("en"))

	loaded, err := store.Load()
	require.NoError(t, err)
	v, ok := loaded["en"].Get("USER_PROFILE", "SUBMIT_BTN")
	require.True(t, ok)
	assert.Equal(t, "Submit", v)

	// a save must keep writing the locale's existing format rather than
	// switching to the canonical JSON
	loaded["en"]["USER_PROFILE"]["CANCEL_BTN"] = "Cancel"
	require.NoError(t, store.Save(loaded))
	_, err = os.Stat(filepath.Join(dir, "en.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestStoreSaveIsByteStableOnNoOp(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, "en", nil)
	catalogs := map[string]Catalog{"en": {"USER_PROFILE": {"SUBMIT_BTN": "Submit"}}}
	require.NoError(t, store.Save(catalogs))

	path := store.Path("en")
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, store.Save(catalogs))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	again, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), again.ModTime(), "unchanged catalog must not be rewritten")
}

func TestStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, "en", []string{"es"})
	catalogs := map[string]Catalog{
		"en": {"USER_PROFILE": {"SUBMIT_BTN": "Submit"}},
		"es": {"USER_PROFILE": {"SUBMIT_BTN": Pending("Submit")}},
	}
	require.NoError(t, store.Save(catalogs))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}
