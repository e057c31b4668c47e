package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/kindgen/internal/model"
	"github.com/specialistvlad/kindgen/internal/typesys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// loadManifests writes the given files into a temp dir and runs the loader
// over it.
func loadManifests(t *testing.T, files map[string]string) (*model.Model, error) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return NewLoader().Load(context.Background(), dir)
}

const trafficManifest = `
contract "Light" {
  method "ID"   { returns = "int" }
  method "Name" { returns = "string" }
}

family "TrafficLight" {
  package   = "traffic"
  base      = "Light"
  name_rule = "fold"

  lookup "Name" {
    type = string
    try  = true
  }

  variant "Red"    { id = 1 }
  variant "Yellow" { id = 2 }
  variant "Green"  { id = 3 }
}
`

func TestLoadTranslatesFamily(t *testing.T) {
	m, err := loadManifests(t, map[string]string{"traffic.hcl": trafficManifest})
	require.NoError(t, err)
	require.Len(t, m.Families, 1)

	f := m.Families[0]
	assert.Equal(t, "TrafficLight", f.Name)
	assert.Equal(t, "traffic", f.Package)
	assert.Equal(t, "Light", f.BaseType)
	assert.Equal(t, model.PolicySingletons, f.Policy, "policy defaults to singletons")
	assert.Equal(t, model.CompareFold, f.NameRule)
	assert.Equal(t, "TrafficLightRegistry", f.RegistryTypeName())

	require.Len(t, f.Lookups, 1)
	assert.Equal(t, "Name", f.Lookups[0].Property)
	assert.Equal(t, typesys.KindString, f.Lookups[0].Type.Kind)
	assert.True(t, f.Lookups[0].Try)
	assert.False(t, f.Lookups[0].Multiple)

	require.Len(t, f.Variants, 3)
	assert.Equal(t, int64(2), f.Variants[1].ID)
	assert.Equal(t, "Yellow", f.Variants[1].ConcreteType, "concrete type defaults to the variant name")
	assert.True(t, f.Variants[1].Include)

	decl, ok := m.World.Resolve("Light")
	require.True(t, ok)
	assert.Len(t, decl.Members, 2)
}

func TestLoadTranslatesConstructors(t *testing.T) {
	m, err := loadManifests(t, map[string]string{"shapes.hcl": `
family "Shape" {
  package = "shapes"
  base    = "Shape"

  variant "Circle" {
    id = 1
    constructor {}
    constructor {
      param "radius" { type = number }
      param "label" {
        type    = string
        default = "round"
      }
    }
  }

  variant "Square" {
    id   = 2
    type = "*Square"
    constructor {
      func = "BuildSquare"
      param "side" {
        type     = number
        optional = true
      }
    }
  }
}
`})
	require.NoError(t, err)

	circle := m.Families[0].Variants[0]
	require.Len(t, circle.Constructors, 2)
	assert.Empty(t, circle.Constructors[0].FuncName, "zero-arg constructor keeps composite-literal construction")
	assert.Equal(t, "NewCircle", circle.Constructors[1].FuncName, "parameterized constructor defaults to New<type>")

	params := circle.Constructors[1].Params
	require.Len(t, params, 2)
	assert.Equal(t, "radius", params[0].Name)
	assert.Equal(t, typesys.KindNumber, params[0].Type.Kind)
	assert.Nil(t, params[0].Default)
	require.NotNil(t, params[1].Default)
	assert.Equal(t, "round", params[1].Default.AsString())

	square := m.Families[0].Variants[1]
	assert.Equal(t, "BuildSquare", square.Constructors[0].FuncName)
	assert.True(t, square.Constructors[0].ZeroArg(), "optional parameter counts as defaulted")
	assert.True(t, square.HasZeroArgPath())
}

func TestLoadConvertsKeyValues(t *testing.T) {
	files := map[string]string{"codes.hcl": `
family "Status" {
  package = "status"
  base    = "Status"

  lookup "Code" { type = int }

  variant "Active" {
    id   = 1
    keys = { Code = 7 }
  }
}
`}
	m, err := loadManifests(t, files)
	require.NoError(t, err)

	v := m.Families[0].Variants[0]
	code, ok := v.KeyValues["Code"]
	require.True(t, ok)
	assert.True(t, cty.NumberIntVal(7).RawEquals(code))
}

func TestLoadRejectsMistypedKeyValue(t *testing.T) {
	_, err := loadManifests(t, map[string]string{"codes.hcl": `
family "Status" {
  package = "status"
  base    = "Status"

  lookup "Code" { type = int }

  variant "Active" {
    id   = 1
    keys = { Code = true }
  }
}
`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `key "Code" does not fit lookup type int`)
}

func TestLoadRejectsDefaultOnUUIDParam(t *testing.T) {
	_, err := loadManifests(t, map[string]string{"bad.hcl": `
family "Thing" {
  package = "things"
  base    = "Thing"

  variant "One" {
    id = 1
    constructor {
      param "key" {
        type    = uuid
        default = "nope"
      }
    }
  }
}
`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defaults are not supported on uuid parameters")
}

func TestLoadTranslatesContracts(t *testing.T) {
	m, err := loadManifests(t, map[string]string{"contracts.hcl": `
contract "KindRegistry" {
  type_params = ["T"]
  method "All" { returns = "[]T" }
  method "ByID" {
    params  = { id = "int" }
    returns = "T"
  }
  constructor "New" { params = { seed = "int" } }
}

contract "TrafficLights" {
  extends = ["KindRegistry(Light)"]
}
`})
	require.NoError(t, err)

	decl, ok := m.World.Resolve("KindRegistry")
	require.True(t, ok)
	require.Len(t, decl.Members, 3)

	all := decl.Members[0]
	assert.Equal(t, typesys.MemberMethod, all.Kind)
	require.Len(t, all.Results, 1)
	assert.True(t, all.Results[0].ContainsPlaceholder(), "T must be marked as a placeholder")

	byID := decl.Members[1]
	require.Len(t, byID.Params, 1)
	assert.Equal(t, "id", byID.Params[0].Name)
	assert.Equal(t, "int", byID.Params[0].Type.String())

	assert.Equal(t, typesys.MemberConstructor, decl.Members[2].Kind)

	chain, err := m.World.Chain("TrafficLights")
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, "Light", chain[1].Bindings["T"].String())
}

func TestLoadMergesAcrossFiles(t *testing.T) {
	m, err := loadManifests(t, map[string]string{
		"contracts/light.hcl": `
contract "Light" {
  method "ID" { returns = "int" }
}
`,
		"families/traffic.hcl": `
family "TrafficLight" {
  package = "traffic"
  base    = "Light"
  variant "Red" { id = 1 }
}
`,
	})
	require.NoError(t, err)
	assert.Len(t, m.Families, 1)
	_, ok := m.World.Resolve("Light")
	assert.True(t, ok)
}

func TestLoadRejectsDuplicateFamilies(t *testing.T) {
	familyX := "family \"X\" {\n  package = \"x\"\n  base = \"B\"\n}"
	_, err := loadManifests(t, map[string]string{
		"a.hcl": familyX,
		"b.hcl": familyX,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `family "X" declared more than once`)
}

func TestLoadRejectsDuplicateContracts(t *testing.T) {
	_, err := loadManifests(t, map[string]string{
		"a.hcl": "contract \"Light\" {}\ncontract \"Light\" {}",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `contract "Light" declared more than once`)
}

func TestLoadReportsParseErrors(t *testing.T) {
	_, err := loadManifests(t, map[string]string{"broken.hcl": `family "X" {`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse manifest")
}

func TestLoadReportsUnknownBlocks(t *testing.T) {
	_, err := loadManifests(t, map[string]string{"odd.hcl": `
family "X" {
  package = "x"
  base    = "B"
  variant "A" {
    id  = 1
    wat = true
  }
}
`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode manifest")
}
