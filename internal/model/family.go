package model

// InstantiationPolicy controls how generated registries hold their variants.
type InstantiationPolicy string

const (
	// PolicySingletons constructs every variant once and serves the shared
	// instances from the index.
	PolicySingletons InstantiationPolicy = "singletons"
	// PolicyFactories constructs a fresh variant value on every access.
	PolicyFactories InstantiationPolicy = "factories"
	// PolicyDeferred delegates storage and lookup to the declared base
	// implementation the generated registry embeds.
	PolicyDeferred InstantiationPolicy = "deferred"
)

// Valid reports whether the policy is one of the declared values.
func (p InstantiationPolicy) Valid() bool {
	switch p {
	case PolicySingletons, PolicyFactories, PolicyDeferred:
		return true
	}
	return false
}

// NameRule controls how string lookup keys compare.
type NameRule string

const (
	// CompareOrdinal matches keys byte for byte.
	CompareOrdinal NameRule = "ordinal"
	// CompareFold matches keys case-insensitively.
	CompareFold NameRule = "fold"
)

// Valid reports whether the rule is one of the declared values.
func (r NameRule) Valid() bool {
	return r == CompareOrdinal || r == CompareFold
}

// FamilyDefinition describes one closed family of variants.
type FamilyDefinition struct {
	// Name is the family name, used to derive generated identifiers.
	Name string
	// Package is the Go package the generated file belongs to, and the
	// default output directory relative to the output root.
	Package string
	// BaseType names the contract every variant implements.
	BaseType string
	// RegistryName overrides the generated registry type name. Empty means
	// Name + "Registry".
	RegistryName string
	// InstanceName overrides the package-level registry value name. Empty
	// means Name + "s".
	InstanceName string
	// Inherits requests reconstruction of the pre-declared registry
	// contract instead of the self-contained member set.
	Inherits bool
	// Policy selects the instantiation strategy.
	Policy InstantiationPolicy
	// NameRule governs string key comparison for this family's lookups.
	NameRule NameRule
	// Imports lists auxiliary import paths the generated file needs.
	Imports []string
	// OutputPath overrides the generated file location, relative to the
	// output root.
	OutputPath string
	// Source is the manifest file the family was declared in.
	Source string

	Lookups  []*LookupKeySpec
	Variants []*VariantDefinition
}

// RegistryTypeName returns the name of the generated registry type.
func (f *FamilyDefinition) RegistryTypeName() string {
	if f.RegistryName != "" {
		return f.RegistryName
	}
	return f.Name + "Registry"
}

// InstanceVarName returns the name of the generated package-level registry
// value.
func (f *FamilyDefinition) InstanceVarName() string {
	if f.InstanceName != "" {
		return f.InstanceName
	}
	return f.Name + "s"
}

// Included returns the variants that participate in generation, in
// declaration order.
func (f *FamilyDefinition) Included() []*VariantDefinition {
	var out []*VariantDefinition
	for _, v := range f.Variants {
		if v.Include {
			out = append(out, v)
		}
	}
	return out
}

// Lookup returns the lookup key spec with the given property name.
func (f *FamilyDefinition) Lookup(property string) (*LookupKeySpec, bool) {
	for _, l := range f.Lookups {
		if l.Property == property {
			return l, true
		}
	}
	return nil, false
}
