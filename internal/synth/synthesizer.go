package synth

import (
	"context"

	"github.com/specialistvlad/kindgen/internal/ctxlog"
	"github.com/specialistvlad/kindgen/internal/model"
	"github.com/specialistvlad/kindgen/internal/typesys"
)

// Synthesizer assembles a RegistryDef from a family definition, a variant
// set, and a contract world. Configure it through the chained setters, then
// consume it with Build. Every input is mandatory; Build fails fast naming
// the first one missing.
type Synthesizer struct {
	family      *model.FamilyDefinition
	variants    []*model.VariantDefinition
	variantsSet bool
	world       typesys.Introspection
	consumed    bool
}

// New creates an unconfigured synthesizer.
func New() *Synthesizer {
	return &Synthesizer{}
}

// WithFamily sets the family to synthesize.
func (s *Synthesizer) WithFamily(f *model.FamilyDefinition) *Synthesizer {
	s.family = f
	return s
}

// WithVariants sets the variant descriptors. An explicitly empty set is a
// valid configuration, distinct from never calling the setter.
func (s *Synthesizer) WithVariants(variants []*model.VariantDefinition) *Synthesizer {
	s.variants = variants
	s.variantsSet = true
	return s
}

// WithIntrospection sets the contract world the synthesizer resolves types
// against.
func (s *Synthesizer) WithIntrospection(in typesys.Introspection) *Synthesizer {
	s.world = in
	return s
}

// Build consumes the synthesizer and produces the registry definition.
// Calling Build twice returns ErrConsumed. Synthesis is deterministic: the
// same inputs always yield a structurally identical definition.
func (s *Synthesizer) Build(ctx context.Context) (*RegistryDef, error) {
	if s.consumed {
		return nil, ErrConsumed
	}
	s.consumed = true

	if s.family == nil {
		return nil, NewConfigError("the family definition")
	}
	if !s.variantsSet {
		return nil, NewConfigError("the variant set")
	}
	if s.world == nil {
		return nil, NewConfigError("the type introspection")
	}
	f := s.family
	if f.BaseType == "" {
		return nil, NewConfigError("the family's base contract")
	}

	log := ctxlog.FromContext(ctx)
	log.Debug("synthesizing registry", "family", f.Name, "variants", len(s.variants), "policy", string(f.Policy))

	baseDecl, ok := s.world.Resolve(f.BaseType)
	if !ok {
		return nil, NewResolveError(f.Name, f.BaseType, "no contract block declares the family's base contract")
	}
	if len(baseDecl.TypeParams) > 0 {
		return nil, NewResolveError(f.Name, f.BaseType, "base contracts must be concrete, this one declares type parameters")
	}

	def := &RegistryDef{
		Family:   f,
		TypeName: f.RegistryTypeName(),
		BaseRef:  typesys.Named(f.BaseType),
	}
	if f.Policy != model.PolicyDeferred {
		def.VarName = f.InstanceVarName()
	}

	lookups := effectiveLookups(f)
	baseMembers, err := typesys.FlattenMembers(s.world, f.BaseType)
	if err != nil {
		return nil, NewResolveError(f.Name, f.BaseType, err.Error())
	}
	for _, spec := range lookups {
		if !spec.Computed {
			continue
		}
		if err := validateComputedKey(f, spec, baseMembers); err != nil {
			return nil, err
		}
	}

	if f.Policy == model.PolicyDeferred {
		return s.buildDeferred(ctx, def)
	}

	primary, err := buildPrimary(f.Name, s.variants)
	if err != nil {
		return nil, err
	}
	if f.Policy == model.PolicySingletons {
		for i := range primary.Entries {
			primary.Entries[i].VarName = lowerFirst(f.Name) + primary.Entries[i].Variant.Name
		}
	}
	def.Primary = primary

	secondaries := make(map[string]*SecondaryIndex, len(lookups))
	for _, spec := range lookups {
		idx, warns, err := buildSecondary(f, spec, s.variants)
		if err != nil {
			return nil, err
		}
		def.Secondary = append(def.Secondary, idx)
		def.Warnings = append(def.Warnings, warns...)
		secondaries[spec.Property] = idx
	}

	if f.Inherits {
		inherited, methods, warns, err := reconstruct(f, lookups, secondaries, s.world)
		if err != nil {
			return nil, err
		}
		def.Inherited = inherited
		def.Methods = methods
		def.Warnings = append(def.Warnings, warns...)
	} else {
		def.Methods = surfaceMembers(f, lookups, secondaries)
		if _, declared := s.world.Resolve(f.RegistryTypeName()); declared {
			def.Warnings = append(def.Warnings, Warning{
				Family: f.Name,
				Member: f.RegistryTypeName(),
				Reason: "a contract with this name is declared but the family does not inherit it; set inherits = true to reconstruct it",
			})
		}
	}

	def.Accessors = buildAccessors(f, s.variants, def.BaseRef)

	sentinel, warns, err := buildSentinel(f, s.world)
	if err != nil {
		return nil, err
	}
	def.Sentinel = sentinel
	def.Warnings = append(def.Warnings, warns...)

	if err := checkCollisions(def); err != nil {
		return nil, err
	}

	log.Debug("registry synthesized",
		"family", f.Name,
		"members", len(def.Methods),
		"accessors", len(def.Accessors),
		"indexed", len(def.Primary.Entries),
		"warnings", len(def.Warnings))
	return def, nil
}

// buildDeferred handles the policy where lookup state lives on an embedded
// runtime base type. Only the accessors are generated; ids are still
// validated so authoring errors surface at build time.
func (s *Synthesizer) buildDeferred(ctx context.Context, def *RegistryDef) (*RegistryDef, error) {
	f := s.family
	if err := validateIDs(f.Name, s.variants); err != nil {
		return nil, err
	}
	inherited, err := matchInherited(f, s.world)
	if err != nil {
		return nil, err
	}
	def.Inherited = inherited
	def.EmbedType = inherited.BaseArg.String()
	def.Accessors = buildAccessors(f, s.variants, def.BaseRef)
	if err := checkCollisions(def); err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Debug("registry synthesized",
		"family", f.Name,
		"accessors", len(def.Accessors),
		"embeds", def.EmbedType)
	return def, nil
}

// effectiveLookups returns the family's lookup specs with the implicit Name
// key prepended when no explicit one is declared. Name lookup is part of the
// core registry surface; declaring it only customizes its behavior.
func effectiveLookups(f *model.FamilyDefinition) []*model.LookupKeySpec {
	if _, ok := f.Lookup("Name"); ok {
		return f.Lookups
	}
	implicit := &model.LookupKeySpec{
		Property: "Name",
		Type:     typesys.ValueType{Kind: typesys.KindString},
		Try:      true,
	}
	return append([]*model.LookupKeySpec{implicit}, f.Lookups...)
}

// validateComputedKey checks that a computed lookup key is backed by a
// zero-parameter member of the base contract returning the declared key
// type. The generated init code calls that member on every indexed instance.
func validateComputedKey(f *model.FamilyDefinition, spec *model.LookupKeySpec, baseMembers []typesys.Member) error {
	for _, m := range baseMembers {
		if m.Name != spec.Property || m.Kind != typesys.MemberMethod {
			continue
		}
		if len(m.Params) != 0 || len(m.Results) != 1 {
			return NewResolveError(f.Name, f.BaseType+"."+spec.Property,
				"computed keys require a zero-parameter, single-result member")
		}
		if got, want := m.Results[0].String(), spec.Type.GoType(); got != want {
			return NewResolveError(f.Name, f.BaseType+"."+spec.Property,
				"computed key member returns "+got+" but the lookup declares "+want)
		}
		return nil
	}
	return NewResolveError(f.Name, f.BaseType+"."+spec.Property,
		"computed keys require a base contract member with the lookup's property name")
}

// surfaceMembers builds the self-contained registry surface for families
// that do not inherit a declared contract: enumeration, sentinel, identity
// lookup, and one accessor pair per lookup key.
func surfaceMembers(f *model.FamilyDefinition, lookups []*model.LookupKeySpec, secondaries map[string]*SecondaryIndex) []Method {
	base := typesys.Named(f.BaseType)
	methods := []Method{
		{
			Name:    "All",
			Doc:     memberDoc(BodyEnumerate, "All", f, nil),
			Results: []typesys.TypeRef{typesys.SliceOf(base)},
			Body:    BodyEnumerate,
		},
		{
			Name:    "Empty",
			Doc:     memberDoc(BodySentinel, "Empty", f, nil),
			Results: []typesys.TypeRef{base},
			Body:    BodySentinel,
		},
		{
			Name:    "ByID",
			Doc:     memberDoc(BodyByID, "ByID", f, nil),
			Params:  []typesys.Param{{Name: "id", Type: typesys.Named("int64")}},
			Results: []typesys.TypeRef{base},
			Body:    BodyByID,
		},
	}
	for _, spec := range lookups {
		idx := secondaries[spec.Property]
		param := typesys.Param{Name: safeParam(lowerFirst(spec.Property)), Type: refForValue(spec.Type)}
		result := base
		if spec.Multiple {
			result = typesys.SliceOf(base)
		}
		methods = append(methods, Method{
			Name:    spec.MemberName(),
			Doc:     memberDoc(BodyByKey, spec.MemberName(), f, idx),
			Params:  []typesys.Param{param},
			Results: []typesys.TypeRef{result},
			Body:    BodyByKey,
			Key:     idx,
		})
		if spec.Try {
			methods = append(methods, Method{
				Name:    spec.TryMemberName(),
				Doc:     memberDoc(BodyTryByKey, spec.TryMemberName(), f, idx),
				Params:  []typesys.Param{param},
				Results: []typesys.TypeRef{result, typesys.Named("bool")},
				Body:    BodyTryByKey,
				Key:     idx,
			})
		}
	}
	return methods
}

var goKeywords = map[string]struct{}{
	"break": {}, "case": {}, "chan": {}, "const": {}, "continue": {},
	"default": {}, "defer": {}, "else": {}, "fallthrough": {}, "for": {},
	"func": {}, "go": {}, "goto": {}, "if": {}, "import": {},
	"interface": {}, "map": {}, "package": {}, "range": {}, "return": {},
	"select": {}, "struct": {}, "switch": {}, "type": {}, "var": {},
}

// safeParam keeps property-derived parameter names out of the keyword space.
func safeParam(name string) string {
	if _, reserved := goKeywords[name]; reserved {
		return name + "Key"
	}
	return name
}

// checkCollisions rejects definitions whose generated identifiers collide:
// registry members against accessors in the method set, and the generated
// package-scope names against each other.
func checkCollisions(def *RegistryDef) error {
	f := def.Family

	members := make(map[string]string, len(def.Methods)+len(def.Accessors))
	claim := func(scope map[string]string, name, owner, kind string) error {
		if first, taken := scope[name]; taken {
			return &ConflictError{
				Family: f.Name,
				Kind:   kind,
				Key:    name,
				First:  first,
				Second: owner,
			}
		}
		scope[name] = owner
		return nil
	}
	for _, m := range def.Methods {
		if err := claim(members, m.Name, "the registry surface", "generated member"); err != nil {
			return err
		}
	}
	for _, a := range def.Accessors {
		owner := "variant " + a.Variant.Name
		if err := claim(members, a.Name, owner, "generated member"); err != nil {
			return err
		}
	}

	scope := make(map[string]string, 4)
	if err := claim(scope, def.TypeName, "the registry type", "generated identifier"); err != nil {
		return err
	}
	if def.VarName != "" {
		if err := claim(scope, def.VarName, "the registry instance", "generated identifier"); err != nil {
			return err
		}
	}
	if def.Sentinel != nil {
		if err := claim(scope, def.Sentinel.TypeName, "the sentinel type", "generated identifier"); err != nil {
			return err
		}
	}
	if err := claim(scope, f.BaseType, "the base contract", "generated identifier"); err != nil {
		return err
	}
	if def.Primary != nil {
		for _, e := range def.Primary.Entries {
			if e.VarName == "" {
				continue
			}
			if err := claim(scope, e.VarName, "variant "+e.Variant.Name, "generated identifier"); err != nil {
				return err
			}
		}
	}
	return nil
}
