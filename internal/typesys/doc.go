// Package typesys defines the structural type model the synthesizer works
// against: type references, member signatures, and declared contracts.
//
// Type references are trees rather than strings. A generic placeholder is an
// explicit node kind, so substituting a concrete type for a contract's type
// parameter is a structural rewrite instead of text replacement, and it
// applies uniformly in bare, pointer, slice, map, and type-argument
// positions.
//
// The World holds every declared contract and implements the narrow
// Introspection capability the synthesizer consumes: resolve a type by name,
// enumerate its members, and walk its inheritance chain.
package typesys
