package model

import (
	"github.com/specialistvlad/kindgen/internal/typesys"
	"github.com/zclconf/go-cty/cty"
)

// VariantDefinition describes one member of a family.
type VariantDefinition struct {
	// Name is the variant's registry name, unique within its family.
	Name string
	// ID is the variant's numeric identity, unique within its family.
	// Zero is reserved for the sentinel.
	ID int64
	// ConcreteType references the Go type implementing the variant. It may
	// carry a leading '*' when instances are addressed by pointer.
	ConcreteType string
	// NonInstantiable marks a variant that exists in the metadata but can
	// never be constructed.
	NonInstantiable bool
	// Include gates participation in generation.
	Include bool
	// Constructors lists the declared construction shapes, in declaration
	// order. Empty means composite-literal construction.
	Constructors []*ConstructorSignature
	// KeyValues holds the declared secondary-key values, keyed by lookup
	// property name.
	KeyValues map[string]cty.Value
}

// ZeroArgConstructor returns the first constructor usable without caller
// arguments: either declared with no parameters or with every parameter
// defaulted.
func (v *VariantDefinition) ZeroArgConstructor() (*ConstructorSignature, bool) {
	for _, c := range v.Constructors {
		if c.ZeroArg() {
			return c, true
		}
	}
	return nil, false
}

// HasZeroArgPath reports whether the variant can be constructed without
// caller arguments. Declaring no constructors means composite-literal
// construction, which qualifies.
func (v *VariantDefinition) HasZeroArgPath() bool {
	if v.NonInstantiable {
		return false
	}
	if len(v.Constructors) == 0 {
		return true
	}
	_, ok := v.ZeroArgConstructor()
	return ok
}

// Parameterized returns the constructors that require caller arguments, in
// declaration order.
func (v *VariantDefinition) Parameterized() []*ConstructorSignature {
	var out []*ConstructorSignature
	for _, c := range v.Constructors {
		if len(c.Params) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Indexable reports whether the variant takes part in the generated
// indices: included, instantiable, and reachable through a zero-argument
// construction path.
func (v *VariantDefinition) Indexable() bool {
	return v.Include && !v.NonInstantiable && v.HasZeroArgPath()
}

// ConstructorSignature is one declared construction shape.
type ConstructorSignature struct {
	// FuncName names the Go constructor function to call. Empty means the
	// generated code builds a composite literal of the concrete type.
	FuncName string
	// Params lists the ordered parameters.
	Params []*ParameterSpec
}

// ZeroArg reports whether the constructor can be invoked without caller
// arguments, counting defaulted parameters as filled.
func (c *ConstructorSignature) ZeroArg() bool {
	for _, p := range c.Params {
		if !p.Defaulted() {
			return false
		}
	}
	return true
}

// ParameterSpec is one ordered constructor parameter.
type ParameterSpec struct {
	Name string
	Type typesys.ValueType
	// Default carries the declared default literal, already converted to
	// the parameter's type.
	Default *cty.Value
	// Optional requests the type-directed default when no literal is
	// declared.
	Optional bool
}

// Defaulted reports whether the parameter has a usable default.
func (p *ParameterSpec) Defaulted() bool {
	return p.Default != nil || p.Optional
}
