package testutil

import (
	"testing"

	"github.com/specialistvlad/kindgen/internal/model"
)

// RunManifestTest provides a simplified harness for testing the loading of a
// single manifest string. It wraps the main generation harness and hands back
// the merged model for inspection.
func RunManifestTest(t *testing.T, manifestHCL string) (*GenerationResult, *model.Model) {
	t.Helper()

	result := RunGeneration(t, map[string]string{
		"main.hcl": manifestHCL,
	})

	if result.App != nil {
		return result, result.App.Model()
	}
	return result, nil
}
