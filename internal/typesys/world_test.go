package typesys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRef(t *testing.T, s string, params ...string) TypeRef {
	t.Helper()
	ref, err := ParseRef(s)
	require.NoError(t, err)
	return ref.WithPlaceholders(params)
}

func method(owner, name string, results ...TypeRef) Member {
	return Member{Kind: MemberMethod, Name: name, Results: results, Owner: owner}
}

func TestWorldAdd(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.Add(&TypeDecl{Name: "Light"}))

	err := w.Add(&TypeDecl{Name: "Light"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared more than once")

	require.Error(t, w.Add(&TypeDecl{}))
}

func TestChainSubstitutesTransitively(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.Add(&TypeDecl{
		Name:       "Enumerable",
		TypeParams: []string{"E"},
		Members:    []Member{method("Enumerable", "All", SliceOf(Placeholder("E")))},
	}))
	require.NoError(t, w.Add(&TypeDecl{
		Name:       "KindRegistry",
		TypeParams: []string{"T"},
		Extends:    []TypeRef{mustRef(t, "Enumerable[T]", "T")},
		Members:    []Member{method("KindRegistry", "Empty", Placeholder("T"))},
	}))
	require.NoError(t, w.Add(&TypeDecl{
		Name:    "TrafficLights",
		Extends: []TypeRef{mustRef(t, "KindRegistry[Light]")},
	}))

	chain, err := w.Chain("TrafficLights")
	require.NoError(t, err)
	require.Len(t, chain, 3)

	assert.Equal(t, "TrafficLights", chain[0].Decl.Name)
	assert.Equal(t, "KindRegistry", chain[1].Decl.Name)
	assert.Equal(t, "Light", chain[1].Bindings["T"].String())
	assert.Equal(t, "Enumerable", chain[2].Decl.Name)
	assert.Equal(t, "Light", chain[2].Bindings["E"].String())
}

func TestChainDetectsCycle(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.Add(&TypeDecl{Name: "A", Extends: []TypeRef{Named("B")}}))
	require.NoError(t, w.Add(&TypeDecl{Name: "B", Extends: []TypeRef{Named("A")}}))

	_, err := w.Chain("A")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inheritance cycle")
}

func TestChainAllowsDiamond(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.Add(&TypeDecl{Name: "D"}))
	require.NoError(t, w.Add(&TypeDecl{Name: "B", Extends: []TypeRef{Named("D")}}))
	require.NoError(t, w.Add(&TypeDecl{Name: "C", Extends: []TypeRef{Named("D")}}))
	require.NoError(t, w.Add(&TypeDecl{Name: "A", Extends: []TypeRef{Named("B"), Named("C")}}))

	chain, err := w.Chain("A")
	require.NoError(t, err)
	// A, B, D (via B), C, D (via C)
	assert.Len(t, chain, 5)
}

func TestChainErrors(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.Add(&TypeDecl{Name: "Generic", TypeParams: []string{"T"}}))
	require.NoError(t, w.Add(&TypeDecl{Name: "Bare", Extends: []TypeRef{Named("Generic")}}))
	require.NoError(t, w.Add(&TypeDecl{Name: "Dangling", Extends: []TypeRef{Named("Missing")}}))

	_, err := w.Chain("Nope")
	require.Error(t, err)

	_, err = w.Chain("Bare")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type argument")

	_, err = w.Chain("Dangling")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown contract")
}

func TestFlattenMembersMostDerivedWins(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.Add(&TypeDecl{
		Name:       "Base",
		TypeParams: []string{"T"},
		Members: []Member{
			method("Base", "Empty", Placeholder("T")),
			method("Base", "All", SliceOf(Placeholder("T"))),
		},
	}))
	require.NoError(t, w.Add(&TypeDecl{
		Name:    "Registry",
		Extends: []TypeRef{mustRef(t, "Base[Light]")},
		Members: []Member{
			// Same signature as Base.Empty after substitution; this one wins.
			method("Registry", "Empty", Named("Light")),
		},
	}))

	members, err := FlattenMembers(w, "Registry")
	require.NoError(t, err)
	require.Len(t, members, 2)

	assert.Equal(t, "Empty", members[0].Name)
	assert.Equal(t, "Registry", members[0].Owner)
	assert.Equal(t, "All", members[1].Name)
	assert.Equal(t, "[]Light", members[1].Results[0].String())
}
