// Package emit renders synthesized registry definitions to Go source files
// through a codejen pipeline. One jenny produces one generated file per
// family; a postprocessor stamps the standard generated-code header so
// tooling recognizes the output.
//
// Rendering is deterministic: the same definition always produces the same
// bytes, which is what the check command relies on to detect drift.
package emit
