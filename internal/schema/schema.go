package schema

import "github.com/hashicorp/hcl/v2"

// --- Family Manifest Structures ---

// ParamBlock declares one ordered constructor parameter.
type ParamBlock struct {
	Name     string         `hcl:"name,label"`
	Type     hcl.Expression `hcl:"type"`
	Default  hcl.Expression `hcl:"default,optional"`
	Optional bool           `hcl:"optional,optional"`
}

// ConstructorBlock declares one construction shape for a variant. An empty
// block is the explicit zero-argument constructor.
type ConstructorBlock struct {
	Func   string        `hcl:"func,optional"`
	Params []*ParamBlock `hcl:"param,block"`
}

// VariantBlock represents a `variant` block inside a family.
type VariantBlock struct {
	Name         string              `hcl:"name,label"`
	ID           int64               `hcl:"id"`
	Type         string              `hcl:"type,optional"`
	Abstract     bool                `hcl:"abstract,optional"`
	Include      *bool               `hcl:"include,optional"`
	Keys         hcl.Expression      `hcl:"keys,optional"`
	Constructors []*ConstructorBlock `hcl:"constructor,block"`
}

// LookupBlock declares one secondary lookup index for a family.
type LookupBlock struct {
	Property string         `hcl:"property,label"`
	Type     hcl.Expression `hcl:"type"`
	Multiple bool           `hcl:"multiple,optional"`
	Try      bool           `hcl:"try,optional"`
	Comparer string         `hcl:"comparer,optional"`
	Computed bool           `hcl:"computed,optional"`
}

// FamilyBlock represents a `family` block from a manifest file.
type FamilyBlock struct {
	Name     string          `hcl:"name,label"`
	Package  string          `hcl:"package"`
	Base     string          `hcl:"base"`
	Registry string          `hcl:"registry_name,optional"`
	Instance string          `hcl:"instance,optional"`
	Inherits bool            `hcl:"inherits,optional"`
	Policy   string          `hcl:"policy,optional"`
	NameRule string          `hcl:"name_rule,optional"`
	Imports  []string        `hcl:"imports,optional"`
	Output   string          `hcl:"output,optional"`
	Lookups  []*LookupBlock  `hcl:"lookup,block"`
	Variants []*VariantBlock `hcl:"variant,block"`
}

// --- Contract Declaration Schemas ---

// MethodBlock declares one method of a contract. Params is an object
// expression whose item order is preserved when translated.
type MethodBlock struct {
	Name    string         `hcl:"name,label"`
	Params  hcl.Expression `hcl:"params,optional"`
	Returns string         `hcl:"returns,optional"`
}

// FieldBlock declares one field of a contract.
type FieldBlock struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type"`
}

// ConstructorDecl declares a constructor member on a contract, so the
// reconstructor can recognize and skip it.
type ConstructorDecl struct {
	Name   string         `hcl:"name,label"`
	Params hcl.Expression `hcl:"params,optional"`
}

// ContractBlock represents a `contract` block: a named type the synthesizer
// can resolve, enumerate members of, and walk the inheritance chain of.
type ContractBlock struct {
	Name         string             `hcl:"name,label"`
	TypeParams   []string           `hcl:"type_params,optional"`
	Extends      []string           `hcl:"extends,optional"`
	Methods      []*MethodBlock     `hcl:"method,block"`
	Fields       []*FieldBlock      `hcl:"field,block"`
	Constructors []*ConstructorDecl `hcl:"constructor,block"`
}

// FileRoot represents the top-level structure of a manifest file.
type FileRoot struct {
	Contracts []*ContractBlock `hcl:"contract,block"`
	Families  []*FamilyBlock   `hcl:"family,block"`
	Body      hcl.Body         `hcl:",remain"`
}
