package recipe_test

import (
	"testing"

	"platea/internal/recipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWireID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want recipe.Ref
	}{
		{"numeric is internal", "42", recipe.Ref{Kind: recipe.RefInternal, ID: "42"}},
		{"catalog id is external", "52874", recipe.Ref{Kind: recipe.RefInternal, ID: "52874"}},
		{"non-numeric is external", "meal_52874", recipe.Ref{Kind: recipe.RefExternal, ID: "meal_52874"}},
		{"alphanumeric is external", "abc123", recipe.Ref{Kind: recipe.RefExternal, ID: "abc123"}},
		{"video prefix stripped", "external_video_yt9", recipe.Ref{Kind: recipe.RefExternalVideo, ID: "yt9"}},
		{"surrounding space trimmed", "  7 ", recipe.Ref{Kind: recipe.RefInternal, ID: "7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := recipe.ParseWireID(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWireIDRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "external_video_"} {
		_, err := recipe.ParseWireID(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestWireIDRoundTrip(t *testing.T) {
	for _, ref := range []recipe.Ref{
		{Kind: recipe.RefInternal, ID: "9"},
		{Kind: recipe.RefExternal, ID: "meal_52874"},
		{Kind: recipe.RefExternalVideo, ID: "dQw4w9"},
	} {
		back, err := recipe.ParseWireID(ref.WireID())
		require.NoError(t, err)
		assert.Equal(t, ref, back)
	}
}

func TestInternalID(t *testing.T) {
	id, ok := recipe.InternalRef(17).InternalID()
	require.True(t, ok)
	assert.Equal(t, uint64(17), id)

	_, ok = recipe.Ref{Kind: recipe.RefExternal, ID: "17"}.InternalID()
	assert.False(t, ok)
}
