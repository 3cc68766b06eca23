package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	i18ntypes "github.com/jingkaihe/lingo/pkg/types/i18n"
)

func TestScanContent(t *testing.T) {
	s := New(nil)
	template := `<button>Submit</button>`

	candidates, err := s.Scan("UserProfileComponent", template)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, i18ntypes.CandidateContent, c.Kind)
	assert.Equal(t, "button", c.Element)
	assert.Equal(t, "Submit", c.Text)
	assert.Equal(t, "Submit", template[c.Start:c.End])
}

func TestScanContentSpanExcludesWhitespace(t *testing.T) {
	s := New(nil)
	template := "<button>\n  Submit\n</button>"

	candidates, err := s.Scan("UserProfileComponent", template)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	// indentation around the text must survive rewriting, so the span
	// covers only the trimmed text
	assert.Equal(t, "Submit", template[candidates[0].Start:candidates[0].End])
}

func TestScanAttribute(t *testing.T) {
	s := New(nil)
	template := `<input placeholder="Enter name">`

	candidates, err := s.Scan("UserProfileComponent", template)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, i18ntypes.CandidateAttribute, c.Kind)
	assert.Equal(t, "placeholder", c.Attribute)
	assert.Equal(t, "input", c.Element)
	assert.Equal(t, "Enter name", c.Text)
	// the span covers the whole name="value" token so the rewriter can
	// replace it with a bound attribute
	assert.Equal(t, `placeholder="Enter name"`, template[c.Start:c.End])
}

func TestScanSkipsConvertedRegions(t *testing.T) {
	s := New(nil)
	tests := []struct {
		name     string
		template string
	}{
		{
			name:     "translate pipe in content",
			template: `<button>{{ 'USER_PROFILE.SUBMIT_BTN' | translate }}</button>`,
		},
		{
			name:     "bound attribute",
			template: `<input [placeholder]="'USER_PROFILE.ENTER_NAME_PLACEHOLDER' | translate">`,
		},
		{
			name:     "pure interpolation content",
			template: `<span>{{count}}</span>`,
		},
		{
			name:     "interpolated attribute value",
			template: `<input placeholder="{{hint}}">`,
		},
		{
			name:     "whitespace only",
			template: "<div>\n\t \n</div>",
		},
		{
			name:     "script body",
			template: `<script>var greeting = "Hello";</script>`,
		},
		{
			name:     "comment",
			template: `<!-- Submit -->`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates, err := s.Scan("UserProfileComponent", tt.template)
			require.NoError(t, err)
			assert.Empty(t, candidates)
		})
	}
}

func TestScanMixedInterpolation(t *testing.T) {
	s := New(nil)
	template := `<h1>Hello {{user.name}}</h1>`

	candidates, err := s.Scan("UserProfileComponent", template)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	// text mixing copy and interpolation is still a candidate; the
	// interpolation is carried verbatim in the candidate text
	assert.Equal(t, "Hello {{user.name}}", candidates[0].Text)
}

func TestScanOrdersByOffset(t *testing.T) {
	s := New(nil)
	template := `<div title="Profile"><button>Submit</button><span>Cancel</span></div>`

	candidates, err := s.Scan("UserProfileComponent", template)
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	assert.Equal(t, "Profile", candidates[0].Text)
	assert.Equal(t, "Submit", candidates[1].Text)
	assert.Equal(t, "Cancel", candidates[2].Text)
	for i := 1; i < len(candidates); i++ {
		assert.Less(t, candidates[i-1].Start, candidates[i].Start)
	}
}

func TestScanAttributeAllowList(t *testing.T) {
	s := New([]string{"placeholder"})
	template := `<img alt="Avatar" title="Profile picture"><input placeholder="Name">`

	candidates, err := s.Scan("UserProfileComponent", template)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "placeholder", candidates[0].Attribute)
}

func TestScanElementStack(t *testing.T) {
	s := New(nil)
	template := `<div><a href="/home">Go home</a><p>Some text</p></div>`

	candidates, err := s.Scan("UserProfileComponent", template)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "a", candidates[0].Element)
	assert.Equal(t, "p", candidates[1].Element)
}

func TestScanIsDeterministic(t *testing.T) {
	s := New(nil)
	template := `<div title="Profile"><button>Submit</button></div>`

	first, err := s.Scan("UserProfileComponent", template)
	require.NoError(t, err)
	second, err := s.Scan("UserProfileComponent", template)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScanErrors(t *testing.T) {
	s := New(nil)
	tests := []struct {
		name     string
		template string
		reason   string
	}{
		{
			name:     "unterminated comment",
			template: `<div><!-- oops`,
			reason:   "unterminated comment",
		},
		{
			name:     "unterminated attribute value",
			template: `<input placeholder="Enter name>`,
			reason:   "unterminated attribute value",
		},
		{
			name:     "unclosed tag",
			template: `<button `,
			reason:   "unclosed tag at end of template",
		},
		{
			name:     "unterminated script",
			template: `<script>var x = 1;`,
			reason:   "unterminated script element",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Scan("UserProfileComponent", tt.template)
			var scanErr *i18ntypes.ScanError
			require.ErrorAs(t, err, &scanErr)
			assert.Equal(t, "UserProfileComponent", scanErr.Component)
			assert.Equal(t, tt.reason, scanErr.Reason)
		})
	}
}
