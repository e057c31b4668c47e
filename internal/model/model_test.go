package model

import (
	"testing"

	"github.com/specialistvlad/kindgen/internal/typesys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func validFamily() *FamilyDefinition {
	return &FamilyDefinition{
		Name:     "TrafficLight",
		Package:  "traffic",
		BaseType: "Light",
		Policy:   PolicySingletons,
		NameRule: CompareFold,
		Lookups: []*LookupKeySpec{
			{Property: "Name", Type: typesys.ValueType{Kind: typesys.KindString}, Try: true},
		},
		Variants: []*VariantDefinition{
			{Name: "Red", ID: 1, ConcreteType: "Red", Include: true},
			{Name: "Yellow", ID: 2, ConcreteType: "Yellow", Include: true},
		},
	}
}

func TestAddFamilyRejectsDuplicates(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.AddFamily(validFamily()))

	err := m.AddFamily(validFamily())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared more than once")
}

func TestValidateAcceptsWellFormedModel(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.AddFamily(validFamily()))
	require.NoError(t, m.Validate())
}

func TestValidateCollectsEveryFinding(t *testing.T) {
	f := validFamily()
	f.Package = ""
	f.Policy = InstantiationPolicy("bogus")
	f.Variants = append(f.Variants, &VariantDefinition{Name: "Red", ID: 3, Include: true})
	f.Variants = append(f.Variants, &VariantDefinition{Name: "Ghost", ID: 0, Include: true})

	m := NewModel()
	require.NoError(t, m.AddFamily(f))

	err := m.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "package is required")
	assert.Contains(t, msg, `unknown policy "bogus"`)
	assert.Contains(t, msg, "variant 'Red' declared more than once")
	assert.Contains(t, msg, "zero is reserved for the sentinel")
}

func TestValidateVariantRules(t *testing.T) {
	t.Run("abstract variant with constructors", func(t *testing.T) {
		f := validFamily()
		f.Variants[0].NonInstantiable = true
		f.Variants[0].Constructors = []*ConstructorSignature{{}}

		m := NewModel()
		require.NoError(t, m.AddFamily(f))
		err := m.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "abstract but declares constructors")
	})

	t.Run("two zero-argument paths", func(t *testing.T) {
		f := validFamily()
		f.Variants[0].Constructors = []*ConstructorSignature{
			{},
			{FuncName: "NewRed", Params: []*ParameterSpec{{Name: "n", Type: typesys.ValueType{Kind: typesys.KindInt}, Optional: true}}},
		}

		m := NewModel()
		require.NoError(t, m.AddFamily(f))
		err := m.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "zero-argument construction paths")
	})

	t.Run("key value for unknown lookup", func(t *testing.T) {
		f := validFamily()
		f.Variants[0].KeyValues = map[string]cty.Value{"Code": cty.StringVal("r")}

		m := NewModel()
		require.NoError(t, m.AddFamily(f))
		err := m.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown lookup 'Code'")
	})
}

func TestValidateLookupRules(t *testing.T) {
	t.Run("reserved property", func(t *testing.T) {
		f := validFamily()
		f.Lookups = append(f.Lookups, &LookupKeySpec{Property: "ID", Type: typesys.ValueType{Kind: typesys.KindInt}})

		m := NewModel()
		require.NoError(t, m.AddFamily(f))
		err := m.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "collides with the built-in identity index")
	})

	t.Run("non-comparable key type", func(t *testing.T) {
		f := validFamily()
		f.Lookups = append(f.Lookups, &LookupKeySpec{
			Property: "Tags",
			Type:     typesys.ListOf(typesys.ValueType{Kind: typesys.KindString}),
		})

		m := NewModel()
		require.NoError(t, m.AddFamily(f))
		err := m.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-comparable key type list(string)")
	})
}

func TestZeroArgPath(t *testing.T) {
	v := &VariantDefinition{Name: "Circle", ID: 1, Include: true}
	assert.True(t, v.HasZeroArgPath(), "no constructors means composite-literal construction")

	v.Constructors = []*ConstructorSignature{
		{FuncName: "NewCircle", Params: []*ParameterSpec{{Name: "radius", Type: typesys.ValueType{Kind: typesys.KindNumber}}}},
	}
	assert.False(t, v.HasZeroArgPath())
	assert.False(t, v.Indexable())

	def := cty.NumberIntVal(1)
	v.Constructors[0].Params[0].Default = &def
	assert.True(t, v.HasZeroArgPath(), "fully defaulted parameters form a zero-argument path")
	assert.True(t, v.Indexable())

	v.NonInstantiable = true
	assert.False(t, v.HasZeroArgPath())
}
