package binder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindAddsImportAndConstructorParam(t *testing.T) {
	logic := `import { Component } from '@angular/core';

@Component({ selector: 'app-user-profile' })
export class UserProfileComponent {
  constructor(private api: ApiService) {}
}
`
	out, changed := Bind(logic)
	require.True(t, changed)
	assert.Contains(t, out, "import { TranslateService } from '@ngx-translate/core';")
	assert.Contains(t, out, "constructor(private translate: TranslateService, private api: ApiService)")
}

func TestBindEmptyConstructor(t *testing.T) {
	logic := `import { Component } from '@angular/core';

export class UserProfileComponent {
  constructor() {}
}
`
	out, changed := Bind(logic)
	require.True(t, changed)
	// no trailing comma when the parameter list was empty
	assert.Contains(t, out, "constructor(private translate: TranslateService)")
	assert.NotContains(t, out, "TranslateService, )")
}

func TestBindAddsConstructorWhenMissing(t *testing.T) {
	logic := `export class UserProfileComponent {
  name = '';
}
`
	out, changed := Bind(logic)
	require.True(t, changed)
	assert.Contains(t, out, "constructor(private translate: TranslateService) {}")
}

func TestBindImportPlacement(t *testing.T) {
	logic := `import { Component } from '@angular/core';
import { ApiService } from './api.service';

export class UserProfileComponent {
  constructor() {}
}
`
	out, changed := Bind(logic)
	require.True(t, changed)
	// new import goes after the last existing import
	idx := func(s string) int { return strings.Index(out, s) }
	assert.Less(t, idx("./api.service"), idx("@ngx-translate/core"))
	assert.Less(t, idx("@ngx-translate/core"), idx("export class"))
}

func TestBindIsIdempotent(t *testing.T) {
	logic := `export class UserProfileComponent {
  constructor(private api: ApiService) {}
}
`
	once, changed := Bind(logic)
	require.True(t, changed)

	twice, changed := Bind(once)
	assert.False(t, changed)
	assert.Equal(t, once, twice)
}

func TestBindRecognizesExistingBindings(t *testing.T) {
	tests := []struct {
		name  string
		logic string
	}{
		{
			name: "constructor parameter",
			logic: `import { TranslateService } from '@ngx-translate/core';
export class UserProfileComponent {
  constructor(private translate: TranslateService) {}
}
`,
		},
		{
			name: "inject call",
			logic: `import { inject } from '@angular/core';
import { TranslateService } from '@ngx-translate/core';
export class UserProfileComponent {
  private translate = inject(TranslateService);
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, changed := Bind(tt.logic)
			assert.False(t, changed)
			assert.Equal(t, tt.logic, out)
		})
	}
}

func TestBindNoClassBody(t *testing.T) {
	logic := `export const routes = [];
`
	out, changed := Bind(logic)
	// the import is still added; there is simply no class to inject into
	require.True(t, changed)
	assert.Contains(t, out, "@ngx-translate/core")
	assert.NotContains(t, out, "constructor(")
}
