package integration_tests

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/kindgen/internal/app"
	"github.com/specialistvlad/kindgen/internal/testutil"
)

// inheritedManifest declares a generic registry contract chain and a family
// that reconstructs it: TrafficLights extends KindRegistry(Light), and the
// family asks for that contract back by registry name.
const inheritedManifest = `
contract "Light" {
  method "Name" { returns = "string" }
}

contract "KindRegistry" {
  type_params = ["T"]

  method "All"   { returns = "[]T" }
  method "Empty" { returns = "T" }
  method "ByID" {
    params  = { id = "int64" }
    returns = "T"
  }
  method "TryByName" {
    params  = { name = "string" }
    returns = "T, bool"
  }
}

contract "TrafficLights" {
  extends = ["KindRegistry(Light)"]
}

family "TrafficLight" {
  package       = "traffic"
  base          = "Light"
  registry_name = "TrafficLights"
  instance      = "Lights"
  inherits      = true

  lookup "Name" {
    type = string
    try  = true
  }

  variant "Red"   { id = 1 }
  variant "Green" { id = 2 }
}
`

// TestInherits_ReconstructsDeclaredContract tests that an inheriting family
// regenerates the whole declared contract with the generic placeholders
// bound: every ancestor member appears on the generated type with concrete
// signatures and a real body.
func TestInherits_ReconstructsDeclaredContract(t *testing.T) {
	t.Parallel()

	// --- Arrange & Act ---
	result := testutil.RunGeneration(t, map[string]string{"traffic.hcl": inheritedManifest})
	require.NoError(t, result.Err)
	src := result.GeneratedFile(t, "traffic/traffic_light_registry.gen.go")

	// --- Assert ---
	assert.Contains(t, src, "type TrafficLights struct{}")
	assert.Contains(t, src, "var Lights = TrafficLights{}")
	assert.Contains(t, src, "func (r TrafficLights) All() []Light {")
	assert.Contains(t, src, "func (r TrafficLights) Empty() Light {")
	assert.Contains(t, src, "func (r TrafficLights) ByID(id int64) Light {")
	assert.Contains(t, src, "func (r TrafficLights) TryByName(name string) (Light, bool) {")
}

// TestInherits_UnknownMember_GetsVisibleFallback tests that a contract
// member no generation rule matches still appears on the generated type,
// with a body that panics at the call site, and that the run surfaces a
// warning naming the member.
func TestInherits_UnknownMember_GetsVisibleFallback(t *testing.T) {
	t.Parallel()

	manifest := strings.Replace(inheritedManifest,
		`contract "TrafficLights" {`,
		"contract \"TrafficLights\" {\n  method \"Shiny\" { returns = \"string\" }", 1)
	result := testutil.RunGeneration(t, map[string]string{"traffic.hcl": manifest})
	require.NoError(t, result.Err, "an unmatched member warns, it does not fail the run")
	src := result.GeneratedFile(t, "traffic/traffic_light_registry.gen.go")

	assert.Contains(t, src, "func (r TrafficLights) Shiny() string {")
	assert.Contains(t, src, `panic("kindgen: TrafficLights.Shiny is not implemented`)
	assert.Contains(t, result.LogOutput, "Synthesis warning.")
	assert.Contains(t, result.LogOutput, "Shiny")
}

// TestInherits_StrictMode_PromotesWarningsToErrors tests that the same
// unmatched member fails the run outright when strict mode is on.
func TestInherits_StrictMode_PromotesWarningsToErrors(t *testing.T) {
	t.Parallel()

	manifest := strings.Replace(inheritedManifest,
		`contract "TrafficLights" {`,
		"contract \"TrafficLights\" {\n  method \"Shiny\" { returns = \"string\" }", 1)
	result := testutil.RunGenerationWithConfig(context.Background(), t,
		map[string]string{"traffic.hcl": manifest},
		func(cfg *app.Config) { cfg.Strict = true })

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "strict mode")
}

// TestInherits_MostDerivedDeclarationWins tests that when an ancestor and a
// derived contract both declare a member name, only the derived declaration
// is reconstructed.
func TestInherits_MostDerivedDeclarationWins(t *testing.T) {
	t.Parallel()

	manifest := strings.Replace(inheritedManifest,
		`contract "TrafficLights" {`,
		"contract \"TrafficLights\" {\n  method \"All\" { returns = \"[]Light\" }", 1)
	result := testutil.RunGeneration(t, map[string]string{"traffic.hcl": manifest})
	require.NoError(t, result.Err)
	src := result.GeneratedFile(t, "traffic/traffic_light_registry.gen.go")

	assert.Equal(t, 1, strings.Count(src, "func (r TrafficLights) All("))
}

// TestDeferredPolicy_EmbedsDeclaredBase tests that the deferred policy skips
// index and sentinel generation entirely: the generated type embeds the
// bound ancestor and only the per-variant accessors are added on top.
func TestDeferredPolicy_EmbedsDeclaredBase(t *testing.T) {
	t.Parallel()

	manifest := strings.Replace(inheritedManifest,
		`inherits      = true`,
		"inherits      = true\n  policy        = \"deferred\"", 1)
	result := testutil.RunGeneration(t, map[string]string{"traffic.hcl": manifest})
	require.NoError(t, result.Err)
	src := result.GeneratedFile(t, "traffic/traffic_light_registry.gen.go")

	assert.Contains(t, src, "type TrafficLights struct {")
	assert.Contains(t, src, "KindRegistry[Light]")
	assert.Contains(t, src, "func (r TrafficLights) Red() Light {")
	assert.Contains(t, src, "return r.ByID(1)")
	assert.NotContains(t, src, "trafficLightEmpty")
	assert.NotContains(t, src, "map[int64]")
}
