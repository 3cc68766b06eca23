package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/txtar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/lingo/pkg/catalog"
	i18ntypes "github.com/jingkaihe/lingo/pkg/types/i18n"
)

var userProfileFixture = txtar.Parse([]byte(`
Source unit used by the pipeline scenarios.
-- user-profile.component.html --
<div class="profile">
  <h1>Your profile</h1>
  <input placeholder="Enter name">
  <button>Submit</button>
</div>
-- user-profile.component.ts --
import { Component } from '@angular/core';

@Component({ selector: 'app-user-profile' })
export class UserProfileComponent {
  constructor(private api: ApiService) {}
}
`))

func fixtureFile(t *testing.T, name string) string {
	t.Helper()
	for _, f := range userProfileFixture.Files {
		if f.Name == name {
			return string(f.Data)
		}
	}
	t.Fatalf("fixture file %s not found", name)
	return ""
}

func userProfileUnit(t *testing.T) i18ntypes.SourceUnit {
	return i18ntypes.SourceUnit{
		Component:    "UserProfileComponent",
		TemplatePath: "user-profile.component.html",
		LogicPath:    "user-profile.component.ts",
		Template:     fixtureFile(t, "user-profile.component.html"),
		Logic:        fixtureFile(t, "user-profile.component.ts"),
	}
}

func TestRunFullPipeline(t *testing.T) {
	runner := NewRunner(Options{BaseLocale: "en", Locales: []string{"en", "es"}})

	out, err := runner.Run(context.Background(), []i18ntypes.SourceUnit{userProfileUnit(t)}, map[string]catalog.Catalog{})
	require.NoError(t, err)
	require.Len(t, out.Units, 1)
	assert.NotEmpty(t, out.Result.RunID)

	unit := out.Units[0]
	require.True(t, unit.TemplateChanged)
	assert.Contains(t, unit.Template, "{{ 'USER_PROFILE.YOUR_PROFILE' | translate }}")
	assert.Contains(t, unit.Template, `[placeholder]="'USER_PROFILE.ENTER_NAME_PLACEHOLDER' | translate"`)
	assert.Contains(t, unit.Template, "{{ 'USER_PROFILE.SUBMIT_BTN' | translate }}")
	assert.NotContains(t, unit.Template, ">Submit<")

	// surrounding markup survives byte for byte
	assert.Contains(t, unit.Template, `<div class="profile">`)

	require.True(t, unit.LogicChanged)
	assert.Contains(t, unit.Logic, "@ngx-translate/core")
	assert.Contains(t, unit.Logic, "private translate: TranslateService")

	assert.Equal(t, 3, out.Result.NewKeys())

	base := out.Merged["en"]
	v, ok := base.Get("USER_PROFILE", "SUBMIT_BTN")
	require.True(t, ok)
	assert.Equal(t, "Submit", v)

	// no backend configured, so the other locale gets placeholders
	v, ok = out.Merged["es"].Get("USER_PROFILE", "SUBMIT_BTN")
	require.True(t, ok)
	assert.Equal(t, catalog.Pending("Submit"), v)
}

func TestRunIsIdempotent(t *testing.T) {
	runner := NewRunner(Options{BaseLocale: "en", Locales: []string{"en", "es"}})

	first, err := runner.Run(context.Background(), []i18ntypes.SourceUnit{userProfileUnit(t)}, map[string]catalog.Catalog{})
	require.NoError(t, err)
	require.True(t, first.Units[0].TemplateChanged)

	// feed the rewritten sources and merged catalogs straight back in
	converted := i18ntypes.SourceUnit{
		Component: "UserProfileComponent",
		Template:  first.Units[0].Template,
		Logic:     first.Units[0].Logic,
	}
	second, err := runner.Run(context.Background(), []i18ntypes.SourceUnit{converted}, first.Merged)
	require.NoError(t, err)

	assert.False(t, second.Units[0].TemplateChanged)
	assert.False(t, second.Units[0].LogicChanged)
	assert.Equal(t, first.Units[0].Template, second.Units[0].Template)
	assert.Equal(t, 0, second.Result.NewKeys())
	assert.Equal(t, first.Merged, second.Merged)
}

func TestRunDistinctKeysForAttributeAndContent(t *testing.T) {
	unit := i18ntypes.SourceUnit{
		Component: "UserProfileComponent",
		Template:  `<input placeholder="Enter name"><span>Enter name</span>`,
	}
	runner := NewRunner(Options{BaseLocale: "en", Locales: []string{"en"}})

	out, err := runner.Run(context.Background(), []i18ntypes.SourceUnit{unit}, map[string]catalog.Catalog{})
	require.NoError(t, err)

	base := out.Merged["en"]
	assert.True(t, base.Has("USER_PROFILE", "ENTER_NAME_PLACEHOLDER"))
	assert.True(t, base.Has("USER_PROFILE", "ENTER_NAME"))
	assert.Equal(t, 2, out.Result.NewKeys())
}

func TestRunReusesKeyForIdenticalText(t *testing.T) {
	unit := i18ntypes.SourceUnit{
		Component: "UserProfileComponent",
		Template:  `<button>Submit</button><div><button>Submit</button></div>`,
	}
	runner := NewRunner(Options{BaseLocale: "en", Locales: []string{"en"}})

	out, err := runner.Run(context.Background(), []i18ntypes.SourceUnit{unit}, map[string]catalog.Catalog{})
	require.NoError(t, err)

	// one entry, both occurrences rewritten to the same key
	assert.Equal(t, 1, out.Result.NewKeys())
	assert.Equal(t, 2, strings.Count(out.Units[0].Template, "'USER_PROFILE.SUBMIT_BTN' | translate"))
}

func TestRunReusesCatalogKeysAcrossRuns(t *testing.T) {
	catalogs := map[string]catalog.Catalog{
		"en": {"USER_PROFILE": {"SUBMIT_BTN": "Submit"}},
	}
	unit := i18ntypes.SourceUnit{
		Component: "UserProfileComponent",
		Template:  `<button>Submit</button>`,
	}
	runner := NewRunner(Options{BaseLocale: "en", Locales: []string{"en"}})

	out, err := runner.Run(context.Background(), []i18ntypes.SourceUnit{unit}, catalogs)
	require.NoError(t, err)

	// the template is still rewritten, but the catalog gains nothing
	assert.True(t, out.Units[0].TemplateChanged)
	assert.Contains(t, out.Units[0].Template, "'USER_PROFILE.SUBMIT_BTN' | translate")
	assert.Equal(t, 0, out.Result.NewKeys())
	assert.Equal(t, 1, out.Merged["en"].Len())
}

func TestRunChangedTextGetsNewKey(t *testing.T) {
	catalogs := map[string]catalog.Catalog{
		"en": {"USER_PROFILE": {"SUBMIT_BTN": "Submit"}},
	}
	unit := i18ntypes.SourceUnit{
		Component: "UserProfileComponent",
		Template:  `<button>Submit now</button>`,
	}
	runner := NewRunner(Options{BaseLocale: "en", Locales: []string{"en"}})

	out, err := runner.Run(context.Background(), []i18ntypes.SourceUnit{unit}, catalogs)
	require.NoError(t, err)

	base := out.Merged["en"]
	// the old entry is untouched and the new text gets its own key
	v, _ := base.Get("USER_PROFILE", "SUBMIT_BTN")
	assert.Equal(t, "Submit", v)
	v, ok := base.Get("USER_PROFILE", "SUBMIT_NOW_BTN")
	require.True(t, ok)
	assert.Equal(t, "Submit now", v)
}

func TestRunIsolatesFailingUnits(t *testing.T) {
	units := []i18ntypes.SourceUnit{
		{Component: "BrokenComponent", Template: `<div><!-- oops`},
		{Component: "CheckoutComponent", Template: `<button>Pay now</button>`},
	}
	runner := NewRunner(Options{BaseLocale: "en", Locales: []string{"en"}})

	out, err := runner.Run(context.Background(), units, map[string]catalog.Catalog{})
	require.NoError(t, err)

	require.Len(t, out.Result.Skipped, 1)
	assert.Equal(t, "BrokenComponent", out.Result.Skipped[0].Component)
	var scanErr *i18ntypes.ScanError
	assert.ErrorAs(t, out.Result.Skipped[0].Err, &scanErr)

	// the healthy unit still went through
	require.Len(t, out.Units, 1)
	assert.True(t, out.Merged["en"].Has("CHECKOUT", "PAY_NOW_BTN"))
}

func TestRunSharedNamespaceDisambiguation(t *testing.T) {
	// two components deriving the same namespace must not hand out the
	// same key for different text
	units := []i18ntypes.SourceUnit{
		{Component: "UserProfileComponent", Template: `<button>Save</button>`},
		{Component: "UserProfileDialog", Template: `<button>Save!</button>`},
	}
	runner := NewRunner(Options{BaseLocale: "en", Locales: []string{"en"}})

	out, err := runner.Run(context.Background(), units, map[string]catalog.Catalog{})
	require.NoError(t, err)

	base := out.Merged["en"]
	v, _ := base.Get("USER_PROFILE", "SAVE_BTN")
	assert.Equal(t, "Save", v)
	v, ok := base.Get("USER_PROFILE", "SAVE_BTN_2")
	require.True(t, ok)
	assert.Equal(t, "Save!", v)
}

type fakeBackend struct {
	fn func(text, to string) (string, error)
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Translate(ctx context.Context, text, from, to string) (string, error) {
	return f.fn(text, to)
}

func TestRunWithBackend(t *testing.T) {
	backend := &fakeBackend{fn: func(text, to string) (string, error) {
		return "[" + to + "] " + text, nil
	}}
	unit := i18ntypes.SourceUnit{
		Component: "UserProfileComponent",
		Template:  `<button>Submit</button>`,
	}
	runner := NewRunner(Options{
		BaseLocale: "en",
		Locales:    []string{"en", "es", "de"},
		Backend:    backend,
	})

	out, err := runner.Run(context.Background(), []i18ntypes.SourceUnit{unit}, map[string]catalog.Catalog{})
	require.NoError(t, err)

	v, _ := out.Merged["es"].Get("USER_PROFILE", "SUBMIT_BTN")
	assert.Equal(t, "[es] Submit", v)
	v, _ = out.Merged["de"].Get("USER_PROFILE", "SUBMIT_BTN")
	assert.Equal(t, "[de] Submit", v)
	// the base locale always keeps the literal source text
	v, _ = out.Merged["en"].Get("USER_PROFILE", "SUBMIT_BTN")
	assert.Equal(t, "Submit", v)
}

func TestRunBackendFailureFallsBackToPlaceholder(t *testing.T) {
	backend := &fakeBackend{fn: func(text, to string) (string, error) {
		return "", assert.AnError
	}}
	unit := i18ntypes.SourceUnit{
		Component: "UserProfileComponent",
		Template:  `<button>Submit</button>`,
	}
	runner := NewRunner(Options{
		BaseLocale: "en",
		Locales:    []string{"en", "es"},
		Backend:    backend,
	})

	out, err := runner.Run(context.Background(), []i18ntypes.SourceUnit{unit}, map[string]catalog.Catalog{})
	require.NoError(t, err)

	// the failure never fails the run; the locale just stays pending
	assert.Empty(t, out.Result.Skipped)
	v, _ := out.Merged["es"].Get("USER_PROFILE", "SUBMIT_BTN")
	assert.Equal(t, catalog.Pending("Submit"), v)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(Options{BaseLocale: "en", Locales: []string{"en"}})
	_, err := runner.Run(ctx, []i18ntypes.SourceUnit{userProfileUnit(t)}, map[string]catalog.Catalog{})
	assert.ErrorIs(t, err, context.Canceled)
}
