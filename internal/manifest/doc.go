// Package manifest loads HCL manifest files and translates them into the
// format-agnostic model. It owns every HCL-specific concern: parsing,
// block decoding, type-expression translation, and default-literal
// evaluation.
package manifest
