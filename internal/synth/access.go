package synth

import (
	"fmt"
	"strconv"

	"github.com/specialistvlad/kindgen/internal/model"
	"github.com/specialistvlad/kindgen/internal/typesys"
)

// refForValue converts a manifest value type into the Go-world type
// reference used in generated signatures.
func refForValue(vt typesys.ValueType) typesys.TypeRef {
	ref, err := typesys.ParseRef(vt.GoType())
	if err != nil {
		return typesys.Named(vt.GoType())
	}
	return ref
}

// buildAccessors runs the per-variant decision procedure and returns one or
// more access members for every included variant:
//
//   - a non-instantiable variant gets a sentinel-returning accessor and no
//     index binding;
//   - a variant with parameterized constructors gets one construction
//     accessor per constructor, suffixed positionally when there is more
//     than one, plus a zero-argument accessor when a zero-argument
//     construction path also exists;
//   - every other variant gets a single accessor resolved through the
//     identity index, inheriting its sentinel fallback.
//
// The procedure is total: no included variant leaves without at least one
// member.
func buildAccessors(f *model.FamilyDefinition, variants []*model.VariantDefinition, baseRef typesys.TypeRef) []Method {
	var out []Method
	for _, v := range variants {
		if !v.Include {
			continue
		}

		if v.NonInstantiable {
			out = append(out, Method{
				Name:    v.Name,
				Doc:     fmt.Sprintf("%s returns the shared %s sentinel; the %s variant is declared but cannot be constructed.", v.Name, f.Name, v.Name),
				Results: []typesys.TypeRef{baseRef},
				Body:    BodySentinelAccessor,
				Variant: v,
			})
			continue
		}

		parameterized := v.Parameterized()
		if len(parameterized) == 0 {
			out = append(out, Method{
				Name:    v.Name,
				Doc:     fmt.Sprintf("%s returns the registered %s variant.", v.Name, v.Name),
				Results: []typesys.TypeRef{baseRef},
				Body:    BodyIndexAccessor,
				Variant: v,
			})
			continue
		}

		for i, ctor := range parameterized {
			name := "New" + v.Name
			if len(parameterized) > 1 {
				name += strconv.Itoa(i + 1)
			}
			params := make([]typesys.Param, 0, len(ctor.Params))
			for _, p := range ctor.Params {
				params = append(params, typesys.Param{Name: p.Name, Type: refForValue(p.Type)})
			}
			out = append(out, Method{
				Name:    name,
				Doc:     fmt.Sprintf("%s constructs a fresh %s from the given arguments.", name, v.Name),
				Params:  params,
				Results: []typesys.TypeRef{baseRef},
				Body:    BodyConstruct,
				Variant: v,
				Ctor:    ctor,
			})
		}
		if v.HasZeroArgPath() {
			out = append(out, Method{
				Name:    v.Name,
				Doc:     fmt.Sprintf("%s returns the registered %s variant.", v.Name, v.Name),
				Results: []typesys.TypeRef{baseRef},
				Body:    BodyIndexAccessor,
				Variant: v,
			})
		}
	}
	return out
}
