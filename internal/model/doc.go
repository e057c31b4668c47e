// Package model provides the format-agnostic definition model for variant
// families. Its core purpose is to give the synthesizer a strongly-typed,
// in-memory view of the user's declarations, independent of the manifest
// format they were written in.
//
// # Core Concepts
//
//   - FamilyDefinition: one closed family of variants sharing a base
//     contract, together with its lookup keys and generation policy.
//
//   - VariantDefinition: one member of a family, carrying its numeric
//     identity, concrete type reference, and declared constructors.
//
//   - Model: the merged result of every loaded manifest, plus the contract
//     world the synthesizer introspects.
//
// Why a separate model package?
//
// Loaders (HCL today) translate their own schemas into this package, so the
// synthesizer and emitter never see manifest syntax. Validation of the
// overall shape happens here; synthesis-time rules (duplicate ids, key
// conflicts) live with the synthesizer where the indices are built.
package model
