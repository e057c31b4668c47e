package synth

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/kindgen/internal/model"
	"github.com/specialistvlad/kindgen/internal/typesys"
)

// matchInherited resolves the family's pre-declared registry contract and
// finds the ancestor instantiation that binds the family's base contract as
// its element type. The match anchors placeholder substitution: without it
// the declared contract has no provable relationship to the family.
func matchInherited(f *model.FamilyDefinition, in typesys.Introspection) (*InheritedBase, error) {
	declName := f.RegistryTypeName()
	decl, ok := in.Resolve(declName)
	if !ok {
		return nil, NewResolveError(f.Name, declName,
			"the family inherits a registry contract but no contract block declares it")
	}
	if len(decl.TypeParams) > 0 {
		return nil, NewResolveError(f.Name, declName,
			"inherited registry contracts must be concrete, this one declares type parameters")
	}

	chain, err := in.Chain(declName)
	if err != nil {
		return nil, NewResolveError(f.Name, declName, err.Error())
	}
	for _, entry := range chain[1:] {
		if len(entry.Args) != 1 {
			continue
		}
		arg := entry.Args[0]
		if arg.Kind == typesys.RefNamed && arg.Name == f.BaseType && len(arg.Args) == 0 {
			return &InheritedBase{
				DeclName: declName,
				BaseArg:  typesys.Named(entry.Decl.Name, entry.Args...),
			}, nil
		}
	}
	return nil, NewResolveError(f.Name, declName,
		fmt.Sprintf("no ancestor contract binds the base contract %q as its element type", f.BaseType))
}

// dispatch maps a reconstructed member name to its body shape. By-prefixed
// names resolve against the family's lookup keys; everything else goes
// through the fixed name table. The second return is the lookup property for
// keyed bodies.
func dispatch(name string, lookups []*model.LookupKeySpec) (BodyKind, string, bool) {
	switch name {
	case "All", "Values", "AsSlice", "Slice":
		return BodyEnumerate, "", true
	case "Empty", "Default":
		return BodySentinel, "", true
	case "ByID":
		return BodyByID, "", true
	case "TryByID":
		return BodyTryByID, "", true
	case "Len", "Count":
		return BodyLen, "", true
	case "IsEmpty":
		return BodyIsEmpty, "", true
	case "At":
		return BodyAt, "", true
	}
	if prop, ok := strings.CutPrefix(name, "TryBy"); ok && prop != "" {
		if hasLookup(lookups, prop) {
			return BodyTryByKey, prop, true
		}
		return 0, "", false
	}
	if prop, ok := strings.CutPrefix(name, "By"); ok && prop != "" {
		if hasLookup(lookups, prop) {
			return BodyByKey, prop, true
		}
	}
	return 0, "", false
}

func hasLookup(lookups []*model.LookupKeySpec, property string) bool {
	for _, l := range lookups {
		if l.Property == property {
			return true
		}
	}
	return false
}

// arityMatches checks a reconstructed member against the calling convention
// of its body shape. A member whose declared signature cannot serve the
// shape falls back to the not-implemented body instead of miscompiling.
func arityMatches(kind BodyKind, m typesys.Member) bool {
	switch kind {
	case BodyEnumerate, BodySentinel, BodyLen, BodyIsEmpty:
		return len(m.Params) == 0 && len(m.Results) == 1
	case BodyByID, BodyByKey, BodyAt:
		return len(m.Params) == 1 && len(m.Results) == 1
	case BodyTryByID, BodyTryByKey:
		return len(m.Params) == 1 && len(m.Results) == 2
	}
	return false
}

// memberDoc writes the doc comment for a generated registry member.
func memberDoc(kind BodyKind, name string, f *model.FamilyDefinition, idx *SecondaryIndex) string {
	switch kind {
	case BodyEnumerate:
		return fmt.Sprintf("%s returns every registered %s variant in declaration order.", name, f.Name)
	case BodySentinel:
		return fmt.Sprintf("%s returns the %s sentinel.", name, f.Name)
	case BodyByID:
		return fmt.Sprintf("%s returns the %s variant with the given id, or the sentinel when no variant matches.", name, f.Name)
	case BodyTryByID:
		return fmt.Sprintf("%s returns the %s variant with the given id and reports whether it is registered.", name, f.Name)
	case BodyByKey:
		if idx != nil && idx.Spec.Multiple {
			return fmt.Sprintf("%s returns the %s variants sharing the given %s key.", name, f.Name, lowerFirst(idx.Spec.Property))
		}
		return fmt.Sprintf("%s returns the %s variant with the given %s key, or the sentinel when no variant matches.", name, f.Name, lowerFirst(idx.Spec.Property))
	case BodyTryByKey:
		return fmt.Sprintf("%s returns the %s variant with the given %s key and reports whether it is registered.", name, f.Name, lowerFirst(idx.Spec.Property))
	case BodyLen:
		return fmt.Sprintf("%s returns the number of registered %s variants.", name, f.Name)
	case BodyIsEmpty:
		return fmt.Sprintf("%s reports whether the %s registry has no registered variants.", name, f.Name)
	case BodyAt:
		return fmt.Sprintf("%s returns the registered %s variant at a position in declaration order, or the sentinel when out of range.", name, f.Name)
	}
	return ""
}

// reconstruct maps every member visible on the inherited registry contract
// onto a generated method, so the emitted type satisfies the whole contract,
// not just the generic base's slice of it. Known member names get real
// lookup, enumeration, or sentinel bodies through the dispatch table;
// unknown ones get a visible not-implemented body plus a warning, so a
// renamed upstream member shows up at generation time instead of silently
// vanishing.
func reconstruct(f *model.FamilyDefinition, lookups []*model.LookupKeySpec, secondaries map[string]*SecondaryIndex, in typesys.Introspection) (*InheritedBase, []Method, []Warning, error) {
	inherited, err := matchInherited(f, in)
	if err != nil {
		return nil, nil, nil, err
	}
	members, err := typesys.FlattenMembers(in, inherited.DeclName)
	if err != nil {
		return nil, nil, nil, NewResolveError(f.Name, inherited.DeclName, err.Error())
	}

	var (
		methods  []Method
		warnings []Warning
	)
	for _, m := range members {
		switch m.Kind {
		case typesys.MemberConstructor:
			continue
		case typesys.MemberField:
			warnings = append(warnings, Warning{
				Family: f.Name,
				Member: m.Name,
				Reason: "field members have no registry representation and were skipped",
			})
			continue
		}
		if memberUnbound(m) {
			return nil, nil, nil, NewResolveError(f.Name, inherited.DeclName,
				"member "+m.Name+" still carries an unbound type parameter after substitution")
		}

		kind, prop, known := dispatch(m.Name, lookups)
		if known && !arityMatches(kind, m) {
			known = false
			warnings = append(warnings, Warning{
				Family: f.Name,
				Member: m.Name,
				Reason: fmt.Sprintf("declared signature does not match the %s convention, emitting a not-implemented body", m.Name),
			})
		} else if !known {
			warnings = append(warnings, Warning{
				Family: f.Name,
				Member: m.Name,
				Reason: "no generation rule matches this member, emitting a not-implemented body",
			})
		}

		method := Method{
			Name:    m.Name,
			Params:  m.Params,
			Results: m.Results,
			Body:    BodyNotImplemented,
		}
		if known {
			method.Body = kind
			if prop != "" {
				method.Key = secondaries[prop]
			}
			method.Doc = memberDoc(kind, m.Name, f, method.Key)
		}
		methods = append(methods, method)
	}
	return inherited, methods, warnings, nil
}

func memberUnbound(m typesys.Member) bool {
	for _, p := range m.Params {
		if p.Type.ContainsPlaceholder() {
			return true
		}
	}
	for _, r := range m.Results {
		if r.ContainsPlaceholder() {
			return true
		}
	}
	return false
}
