package integration_tests

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/kindgen/internal/testutil"
)

// trafficManifest declares the canonical three-variant family the semantics
// tests inspect: a string contract, a case-folded name lookup, and three
// singleton variants.
const trafficManifest = `
contract "Light" {
  method "Name"        { returns = "string" }
  method "WaitSeconds" { returns = "int" }
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

// TestRegistry_IdentityIndex_MapsEveryDeclaredID tests that the generated
// identity index binds each declared id to its variant and that misses fall
// back to the sentinel instead of a nil base value.
func TestRegistry_IdentityIndex_MapsEveryDeclaredID(t *testing.T) {
	t.Parallel()

	// --- Arrange & Act ---
	result := testutil.RunGeneration(t, map[string]string{"traffic.hcl": trafficManifest})
	require.NoError(t, result.Err)
	src := result.GeneratedFile(t, "traffic/traffic_light_registry.gen.go")

	// --- Assert ---
	assert.Contains(t, src, "var trafficLightByID = map[int64]Light{")
	assert.Contains(t, src, "1: trafficLightAll[0],")
	assert.Contains(t, src, "2: trafficLightAll[1],")
	assert.Contains(t, src, "3: trafficLightAll[2],")

	// Misses return the sentinel, so lookups for unknown ids stay total.
	assert.Contains(t, src, "func (r TrafficLightRegistry) ByID(id int64) Light {")
	assert.Contains(t, src, "return trafficLightEmpty{}")
}

// TestRegistry_NameLookup_FoldsCase tests that a string lookup under the
// fold rule lowercases both the stored keys and the caller's probe.
func TestRegistry_NameLookup_FoldsCase(t *testing.T) {
	t.Parallel()

	result := testutil.RunGeneration(t, map[string]string{"traffic.hcl": trafficManifest})
	require.NoError(t, result.Err)
	src := result.GeneratedFile(t, "traffic/traffic_light_registry.gen.go")

	assert.Contains(t, src, `"red":`, "stored keys are folded at generation time")
	assert.Contains(t, src, `"yellow":`)
	assert.Contains(t, src, "strings.ToLower(name)", "probes are folded at call time")
	assert.Contains(t, src, "func (r TrafficLightRegistry) TryByName(name string) (Light, bool) {")
}

// TestRegistry_OrdinalRule_ComparesKeysVerbatim tests that the default
// ordinal rule leaves keys and probes untouched.
func TestRegistry_OrdinalRule_ComparesKeysVerbatim(t *testing.T) {
	t.Parallel()

	manifest := strings.Replace(trafficManifest, `name_rule = "fold"`, `name_rule = "ordinal"`, 1)
	result := testutil.RunGeneration(t, map[string]string{"traffic.hcl": manifest})
	require.NoError(t, result.Err)
	src := result.GeneratedFile(t, "traffic/traffic_light_registry.gen.go")

	assert.Contains(t, src, `"Red":`, "keys keep their declared spelling")
	assert.NotContains(t, src, "strings.ToLower")
}

// TestRegistry_Enumeration_PreservesDeclarationOrder tests that the backing
// slice lists variants in manifest order, which fixes the order App returns.
func TestRegistry_Enumeration_PreservesDeclarationOrder(t *testing.T) {
	t.Parallel()

	result := testutil.RunGeneration(t, map[string]string{"traffic.hcl": trafficManifest})
	require.NoError(t, result.Err)
	src := result.GeneratedFile(t, "traffic/traffic_light_registry.gen.go")

	require.Contains(t, src, "var trafficLightAll = []Light{")
	red := strings.Index(src, "trafficLightRed,")
	yellow := strings.Index(src, "trafficLightYellow,")
	green := strings.Index(src, "trafficLightGreen,")
	require.NotEqual(t, -1, red)
	require.NotEqual(t, -1, yellow)
	require.NotEqual(t, -1, green)
	assert.Less(t, red, yellow)
	assert.Less(t, yellow, green)
}

// TestRegistry_Sentinel_ImplementsEveryContractMember tests that the
// generated sentinel type satisfies the full base contract with type-directed
// defaults, and is asserted against the contract at compile time.
func TestRegistry_Sentinel_ImplementsEveryContractMember(t *testing.T) {
	t.Parallel()

	result := testutil.RunGeneration(t, map[string]string{"traffic.hcl": trafficManifest})
	require.NoError(t, result.Err)
	src := result.GeneratedFile(t, "traffic/traffic_light_registry.gen.go")

	assert.Contains(t, src, "type trafficLightEmpty struct{}")
	assert.Contains(t, src, "var _ Light = trafficLightEmpty{}")
	assert.Contains(t, src, "func (trafficLightEmpty) Name() string {")
	assert.Contains(t, src, `return ""`)
	assert.Contains(t, src, "func (trafficLightEmpty) WaitSeconds() int {")
	assert.Contains(t, src, "return 0")
}

// TestRegistry_AccessMembers_ReturnSharedInstances tests that under the
// singletons policy each variant gets a named accessor returning the shared
// package-level instance.
func TestRegistry_AccessMembers_ReturnSharedInstances(t *testing.T) {
	t.Parallel()

	result := testutil.RunGeneration(t, map[string]string{"traffic.hcl": trafficManifest})
	require.NoError(t, result.Err)
	src := result.GeneratedFile(t, "traffic/traffic_light_registry.gen.go")

	assert.Contains(t, src, "func (r TrafficLightRegistry) Red() Light {")
	assert.Contains(t, src, "return trafficLightRed")
	assert.Contains(t, src, "func (r TrafficLightRegistry) Yellow() Light {")
	assert.Contains(t, src, "func (r TrafficLightRegistry) Green() Light {")

	// The shared registry value callers import.
	assert.Contains(t, src, "var TrafficLights = TrafficLightRegistry{}")
}

// TestRegistry_GeneratedFile_IsStamped tests the generated-file conventions:
// the DO NOT EDIT header and the declared package clause.
func TestRegistry_GeneratedFile_IsStamped(t *testing.T) {
	t.Parallel()

	result := testutil.RunGeneration(t, map[string]string{"traffic.hcl": trafficManifest})
	require.NoError(t, result.Err)
	src := result.GeneratedFile(t, "traffic/traffic_light_registry.gen.go")

	assert.True(t, strings.HasPrefix(src, "// Code generated by kindgen. DO NOT EDIT."))
	assert.Contains(t, src, "\npackage traffic\n")
}
