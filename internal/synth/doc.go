// Package synth is the registry synthesizer: it turns a validated family
// definition plus a contract world into a structural registry definition the
// emitter renders to Go source.
//
// The Synthesizer is a single-use builder configured through chained setters
// and consumed by Build. Synthesis is a pure function of its inputs: the same
// family, variant set, and world always produce a structurally identical
// RegistryDef, which is what makes regeneration stable across runs.
//
// The sub-builders mirror the moving parts of the problem: the index builder
// materializes the identity and secondary-key indices, the access generator
// runs the per-variant decision procedure, the sentinel builder synthesizes
// the never-absent fallback implementation of the base contract, and the
// base-contract reconstructor maps a pre-declared registry contract onto
// generated member bodies.
package synth
