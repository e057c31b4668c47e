package synth

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/kindgen/internal/model"
	"github.com/specialistvlad/kindgen/internal/typesys"
)

// BodyKind names the body shape bound to a generated member. The emitter owns
// the rendering; synthesis only decides which shape each member gets.
type BodyKind int

const (
	// BodyEnumerate returns every indexed variant in declaration order.
	BodyEnumerate BodyKind = iota

	// BodySentinel returns the family sentinel.
	BodySentinel

	// BodyByID looks up the identity index and falls back to the sentinel.
	BodyByID

	// BodyTryByID probes the identity index and reports presence.
	BodyTryByID

	// BodyByKey looks up a secondary index and falls back to the sentinel.
	BodyByKey

	// BodyTryByKey probes a secondary index and reports presence.
	BodyTryByKey

	// BodyLen returns the number of indexed variants.
	BodyLen

	// BodyIsEmpty reports whether the identity index is empty.
	BodyIsEmpty

	// BodyAt returns the indexed variant at a position in declaration
	// order, or the sentinel when out of range.
	BodyAt

	// BodyIndexAccessor resolves a named variant through the identity
	// index, inheriting its sentinel fallback.
	BodyIndexAccessor

	// BodySentinelAccessor returns the sentinel directly; used for
	// variants that cannot be constructed.
	BodySentinelAccessor

	// BodyConstruct calls a variant constructor with the member's
	// parameters.
	BodyConstruct

	// BodyNotImplemented panics with a marker message; bound to contract
	// members the dispatch table does not recognize.
	BodyNotImplemented
)

// Method is one generated member on the registry type.
type Method struct {
	Name    string
	Doc     string
	Params  []typesys.Param
	Results []typesys.TypeRef
	Body    BodyKind

	// Variant is set for accessor bodies.
	Variant *model.VariantDefinition

	// Ctor is set for BodyConstruct.
	Ctor *model.ConstructorSignature

	// Key is set for BodyByKey and BodyTryByKey.
	Key *SecondaryIndex
}

// ZeroValue is a type-directed default produced by the default value
// synthesizer. When Literal is false no literal spelling exists and the
// emitter declares a zero-valued variable instead.
type ZeroValue struct {
	Expr    string
	Literal bool
}

// SentinelMethod is one base-contract member implemented by the sentinel
// type. Zeros holds one default per result; a member with no results renders
// as a no-op.
type SentinelMethod struct {
	Name    string
	Params  []typesys.Param
	Results []typesys.TypeRef
	Zeros   []ZeroValue
}

// SentinelDef describes the generated null-object type for a family.
type SentinelDef struct {
	TypeName string
	Methods  []SentinelMethod
}

// PrimaryEntry is one id-keyed entry in the identity index. VarName names
// the package-level instance holding the variant under the singletons
// policy; it is empty otherwise.
type PrimaryEntry struct {
	ID      int64
	Variant *model.VariantDefinition
	VarName string
}

// PrimaryIndex maps variant ids to variants, in declaration order.
type PrimaryIndex struct {
	Entries []PrimaryEntry
}

// SecondaryEntry binds one declared key value to a variant. Key carries the
// converted value after any case folding.
type SecondaryEntry struct {
	Key     cty.Value
	Variant *model.VariantDefinition
}

// SecondaryIndex is one lookup key materialized over the indexed variants.
// Computed keys carry no entries; their index is populated at init time by
// asking each indexed instance for its key.
type SecondaryIndex struct {
	Spec    *model.LookupKeySpec
	Folds   bool
	Entries []SecondaryEntry
}

// Warning is a non-fatal synthesis finding surfaced to the caller. Strict
// runs escalate warnings to errors.
type Warning struct {
	Family string
	Member string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("family %q: member %q: %s", w.Family, w.Member, w.Reason)
}

// RegistryDef is the synthesized registry for one family: the complete,
// emitter-ready description of the type, its sentinel, its indices, and
// every generated member.
type RegistryDef struct {
	Family *model.FamilyDefinition

	// TypeName and VarName name the generated registry type and its
	// package-level instance. VarName is empty when no instance is
	// emitted.
	TypeName string
	VarName  string

	// BaseRef is the family's base contract type.
	BaseRef typesys.TypeRef

	// Inherited describes the pre-declared registry contract this
	// definition reconstructs, when the family inherits one.
	Inherited *InheritedBase

	// EmbedType names the type the generated struct embeds under the
	// deferred policy; empty otherwise.
	EmbedType string

	Sentinel  *SentinelDef
	Primary   *PrimaryIndex
	Secondary []*SecondaryIndex

	// Methods are the registry surface members; Accessors the per-variant
	// access members from the decision procedure.
	Methods   []Method
	Accessors []Method

	Warnings []Warning
}

// SecondaryFor returns the materialized index for a lookup property.
func (d *RegistryDef) SecondaryFor(property string) *SecondaryIndex {
	for _, idx := range d.Secondary {
		if idx.Spec.Property == property {
			return idx
		}
	}
	return nil
}

// InheritedBase records how a pre-declared registry contract was matched to
// the family's base contract.
type InheritedBase struct {
	// DeclName is the reconstructed registry contract's name.
	DeclName string

	// BaseArg is the generic ancestor instantiation that bound the base
	// contract, for example KindRegistry[Light].
	BaseArg typesys.TypeRef
}
