package typesys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithPlaceholders(t *testing.T) {
	ref, err := ParseRef("map[string][]T")
	require.NoError(t, err)

	marked := ref.WithPlaceholders([]string{"T"})
	assert.True(t, marked.ContainsPlaceholder())
	assert.Equal(t, RefPlaceholder, marked.Elem.Elem.Kind)

	// The map key is a real named type and must stay untouched.
	assert.Equal(t, RefNamed, marked.Key.Kind)
}

func TestSubstitute(t *testing.T) {
	bindings := map[string]TypeRef{"T": Named("Light")}

	testCases := []struct {
		name     string
		input    TypeRef
		expected string
	}{
		{"bare placeholder", Placeholder("T"), "Light"},
		{"pointer position", PointerTo(Placeholder("T")), "*Light"},
		{"slice position", SliceOf(Placeholder("T")), "[]Light"},
		{"map value position", MapOf(Named("string"), Placeholder("T")), "map[string]Light"},
		{"type argument position", Named("KindRegistry", Placeholder("T")), "KindRegistry[Light]"},
		{"unbound placeholder stays", Placeholder("U"), "U"},
		{"plain named untouched", Named("T"), "T"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.input.Substitute(bindings).String())
		})
	}
}

func TestSubstituteDoesNotMutate(t *testing.T) {
	ref := SliceOf(Placeholder("T"))
	_ = ref.Substitute(map[string]TypeRef{"T": Named("Light")})
	assert.Equal(t, "[]T", ref.String())
}

func TestEqual(t *testing.T) {
	a, err := ParseRef("map[string][]*KindRegistry[Light]")
	require.NoError(t, err)
	b, err := ParseRef("map[string][]*KindRegistry[Light]")
	require.NoError(t, err)
	c, err := ParseRef("map[string][]*KindRegistry[Shape]")
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, Named("T").Equal(Placeholder("T")))
}
