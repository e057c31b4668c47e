package manifest

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/kindgen/internal/model"
	"github.com/specialistvlad/kindgen/internal/schema"
	"github.com/specialistvlad/kindgen/internal/typesys"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// translateFamily converts the HCL-specific family schema into the agnostic
// model, applying defaults for the optional attributes.
func (l *Loader) translateFamily(ctx context.Context, file string, b *schema.FamilyBlock) (*model.FamilyDefinition, error) {
	f := &model.FamilyDefinition{
		Name:         b.Name,
		Package:      b.Package,
		BaseType:     b.Base,
		RegistryName: b.Registry,
		InstanceName: b.Instance,
		Inherits:     b.Inherits,
		Policy:       model.InstantiationPolicy(b.Policy),
		NameRule:     model.NameRule(b.NameRule),
		Imports:      b.Imports,
		OutputPath:   b.Output,
		Source:       file,
	}
	if f.Policy == "" {
		f.Policy = model.PolicySingletons
	}
	if f.NameRule == "" {
		f.NameRule = model.CompareOrdinal
	}

	for _, lb := range b.Lookups {
		spec, err := translateLookup(ctx, f.Name, lb)
		if err != nil {
			return nil, err
		}
		f.Lookups = append(f.Lookups, spec)
	}

	for _, vb := range b.Variants {
		v, err := translateVariant(ctx, f, vb)
		if err != nil {
			return nil, err
		}
		f.Variants = append(f.Variants, v)
	}

	return f, nil
}

// translateLookup converts a lookup block into its key spec.
func translateLookup(ctx context.Context, family string, b *schema.LookupBlock) (*model.LookupKeySpec, error) {
	keyType, err := valueTypeFromExpr(ctx, b.Type)
	if err != nil {
		return nil, fmt.Errorf("family %q, lookup %q: %w", family, b.Property, err)
	}
	return &model.LookupKeySpec{
		Property: b.Property,
		Type:     keyType,
		Multiple: b.Multiple,
		Try:      b.Try,
		Comparer: b.Comparer,
		Computed: b.Computed,
	}, nil
}

// translateVariant converts a variant block into the agnostic model. Key
// values are evaluated and converted against their lookup's declared type.
func translateVariant(ctx context.Context, f *model.FamilyDefinition, b *schema.VariantBlock) (*model.VariantDefinition, error) {
	v := &model.VariantDefinition{
		Name:            b.Name,
		ID:              b.ID,
		ConcreteType:    b.Type,
		NonInstantiable: b.Abstract,
		Include:         true,
	}
	if v.ConcreteType == "" {
		v.ConcreteType = b.Name
	}
	if b.Include != nil {
		v.Include = *b.Include
	}

	for _, cb := range b.Constructors {
		ctor, err := translateConstructor(ctx, f.Name, v, cb)
		if err != nil {
			return nil, err
		}
		v.Constructors = append(v.Constructors, ctor)
	}

	keys, err := translateKeyValues(f, b)
	if err != nil {
		return nil, err
	}
	v.KeyValues = keys

	return v, nil
}

// translateKeyValues evaluates the `keys` object and converts each entry to
// the declared type of its lookup. Entries naming an unknown lookup are kept
// raw; model validation reports them.
func translateKeyValues(f *model.FamilyDefinition, b *schema.VariantBlock) (map[string]cty.Value, error) {
	if b.Keys == nil {
		return nil, nil
	}
	val, diags := b.Keys.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("family %q, variant %q: invalid keys: %w", f.Name, b.Name, diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("family %q, variant %q: keys must be an object of lookup values", f.Name, b.Name)
	}

	out := make(map[string]cty.Value)
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		prop := k.AsString()

		spec, ok := f.Lookup(prop)
		if !ok {
			out[prop] = v
			continue
		}
		converted, err := convert.Convert(v, spec.Type.CtyType())
		if err != nil {
			return nil, fmt.Errorf("family %q, variant %q: key %q does not fit lookup type %s: %w", f.Name, b.Name, prop, spec.Type, err)
		}
		out[prop] = converted
	}
	return out, nil
}

// translateConstructor converts a constructor block, evaluating every
// declared default against the parameter's type. A parameterized
// constructor with no func binding defaults to New<ConcreteType>.
func translateConstructor(ctx context.Context, family string, v *model.VariantDefinition, b *schema.ConstructorBlock) (*model.ConstructorSignature, error) {
	ctor := &model.ConstructorSignature{FuncName: b.Func}

	for _, pb := range b.Params {
		param, err := translateParam(ctx, family, v.Name, pb)
		if err != nil {
			return nil, err
		}
		ctor.Params = append(ctor.Params, param)
	}

	if len(ctor.Params) > 0 && ctor.FuncName == "" {
		ctor.FuncName = defaultCtorName(v.ConcreteType)
	}
	return ctor, nil
}

func translateParam(ctx context.Context, family, variant string, pb *schema.ParamBlock) (*model.ParameterSpec, error) {
	paramType, err := valueTypeFromExpr(ctx, pb.Type)
	if err != nil {
		return nil, fmt.Errorf("family %q, variant %q, param %q: %w", family, variant, pb.Name, err)
	}

	param := &model.ParameterSpec{
		Name:     pb.Name,
		Type:     paramType,
		Optional: pb.Optional,
	}

	if pb.Default == nil {
		return param, nil
	}

	switch paramType.Kind {
	case typesys.KindTimestamp, typesys.KindUUID, typesys.KindAny:
		return nil, fmt.Errorf("family %q, variant %q, param %q: defaults are not supported on %s parameters", family, variant, pb.Name, paramType)
	}

	val, diags := pb.Default.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("family %q, variant %q, param %q: invalid default: %w", family, variant, pb.Name, diags)
	}
	if val.IsNull() {
		return param, nil
	}
	converted, err := convert.Convert(val, paramType.CtyType())
	if err != nil {
		return nil, fmt.Errorf("family %q, variant %q, param %q: default does not fit declared type %s: %w", family, variant, pb.Name, paramType, err)
	}
	param.Default = &converted
	return param, nil
}

// defaultCtorName derives the conventional constructor func name from a
// concrete type reference, dropping any pointer marker and package
// qualifier.
func defaultCtorName(concrete string) string {
	name := strings.TrimPrefix(concrete, "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return "New" + name
}

// translateContract converts a contract block into a type declaration for
// the introspection world.
func translateContract(b *schema.ContractBlock) (*typesys.TypeDecl, error) {
	decl := &typesys.TypeDecl{
		Name:       b.Name,
		TypeParams: b.TypeParams,
	}

	for _, ext := range b.Extends {
		ref, err := typesys.ParseRef(ext)
		if err != nil {
			return nil, fmt.Errorf("contract %q: invalid extends entry: %w", b.Name, err)
		}
		decl.Extends = append(decl.Extends, ref.WithPlaceholders(b.TypeParams))
	}

	for _, mb := range b.Methods {
		params, err := orderedParams(mb.Params, b.TypeParams)
		if err != nil {
			return nil, fmt.Errorf("contract %q, method %q: %w", b.Name, mb.Name, err)
		}
		results, err := typesys.ParseRefList(mb.Returns)
		if err != nil {
			return nil, fmt.Errorf("contract %q, method %q: invalid returns: %w", b.Name, mb.Name, err)
		}
		for i := range results {
			results[i] = results[i].WithPlaceholders(b.TypeParams)
		}
		decl.Members = append(decl.Members, typesys.Member{
			Kind:    typesys.MemberMethod,
			Name:    mb.Name,
			Params:  params,
			Results: results,
			Owner:   b.Name,
		})
	}

	for _, fb := range b.Fields {
		ref, err := typesys.ParseRef(fb.Type)
		if err != nil {
			return nil, fmt.Errorf("contract %q, field %q: %w", b.Name, fb.Name, err)
		}
		decl.Members = append(decl.Members, typesys.Member{
			Kind:    typesys.MemberField,
			Name:    fb.Name,
			Results: []typesys.TypeRef{ref.WithPlaceholders(b.TypeParams)},
			Owner:   b.Name,
		})
	}

	for _, cb := range b.Constructors {
		params, err := orderedParams(cb.Params, b.TypeParams)
		if err != nil {
			return nil, fmt.Errorf("contract %q, constructor %q: %w", b.Name, cb.Name, err)
		}
		decl.Members = append(decl.Members, typesys.Member{
			Kind:   typesys.MemberConstructor,
			Name:   cb.Name,
			Params: params,
			Owner:  b.Name,
		})
	}

	return decl, nil
}

// orderedParams walks an object expression's items in source order, so
// parameter order survives translation. Decoding through a Go map would
// lose it.
func orderedParams(expr hcl.Expression, typeParams []string) ([]typesys.Param, error) {
	if expr == nil {
		return nil, nil
	}
	obj, ok := expr.(*hclsyntax.ObjectConsExpr)
	if !ok {
		return nil, fmt.Errorf("params must be an object of name = type entries")
	}

	var params []typesys.Param
	for _, item := range obj.Items {
		keyVal, diags := item.KeyExpr.Value(nil)
		if diags.HasErrors() || keyVal.Type() != cty.String {
			return nil, fmt.Errorf("params keys must be plain names")
		}
		typeVal, diags := item.ValueExpr.Value(nil)
		if diags.HasErrors() || typeVal.Type() != cty.String {
			return nil, fmt.Errorf("param %q: type must be a string reference", keyVal.AsString())
		}
		ref, err := typesys.ParseRef(typeVal.AsString())
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", keyVal.AsString(), err)
		}
		params = append(params, typesys.Param{
			Name: keyVal.AsString(),
			Type: ref.WithPlaceholders(typeParams),
		})
	}
	return params, nil
}
