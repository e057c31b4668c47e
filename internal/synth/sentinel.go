package synth

import (
	"unicode"
	"unicode/utf8"

	"github.com/specialistvlad/kindgen/internal/model"
	"github.com/specialistvlad/kindgen/internal/typesys"
)

// lowerFirst lowercases the leading rune of an exported identifier.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

// sentinelTypeName derives the unexported name of the generated null-object
// type for a family.
func sentinelTypeName(f *model.FamilyDefinition) string {
	return lowerFirst(f.Name) + "Empty"
}

// buildSentinel synthesizes the family's null-object type: one method per
// base-contract member, each returning type-directed defaults. The sentinel
// is what keeps every lookup total; misses return it instead of a nil
// interface.
//
// Field members cannot live on a Go interface and are skipped with a
// warning. Constructor members describe construction shapes, not callable
// surface, and are skipped silently.
func buildSentinel(f *model.FamilyDefinition, in typesys.Introspection) (*SentinelDef, []Warning, error) {
	members, err := typesys.FlattenMembers(in, f.BaseType)
	if err != nil {
		return nil, nil, NewResolveError(f.Name, f.BaseType, err.Error())
	}

	def := &SentinelDef{TypeName: sentinelTypeName(f)}
	var warnings []Warning
	for _, m := range members {
		switch m.Kind {
		case typesys.MemberConstructor:
			continue
		case typesys.MemberField:
			warnings = append(warnings, Warning{
				Family: f.Name,
				Member: m.Name,
				Reason: "field members have no interface representation and were skipped on the sentinel",
			})
			continue
		}

		for _, p := range m.Params {
			if p.Type.ContainsPlaceholder() {
				return nil, nil, NewResolveError(f.Name, f.BaseType,
					"member "+m.Name+" still carries an unbound type parameter; the base contract must be concrete")
			}
		}
		sm := SentinelMethod{Name: m.Name, Params: m.Params}
		for _, res := range m.Results {
			if res.ContainsPlaceholder() {
				return nil, nil, NewResolveError(f.Name, f.BaseType,
					"member "+m.Name+" still carries an unbound type parameter; the base contract must be concrete")
			}
			sm.Results = append(sm.Results, res)
			sm.Zeros = append(sm.Zeros, ZeroExpr(res))
		}
		def.Methods = append(def.Methods, sm)
	}
	return def, warnings, nil
}
