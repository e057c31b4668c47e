package typesys

import "strings"

// MemberKind discriminates the kinds of members a contract can declare.
type MemberKind int

const (
	MemberMethod MemberKind = iota
	MemberField
	MemberConstructor
)

// Param is one named, typed parameter of a method member.
type Param struct {
	Name string
	Type TypeRef
}

// Member is a single member of a contract: a method, a field, or a
// constructor.
type Member struct {
	Kind    MemberKind
	Name    string
	Params  []Param
	Results []TypeRef
	Owner   string // name of the declaring contract
}

// SignatureKey returns the identity used for override de-duplication: the
// member name plus the ordered parameter type list. Results do not
// participate, matching how overriding works in the source metadata.
func (m Member) SignatureKey() string {
	parts := make([]string, len(m.Params))
	for i, p := range m.Params {
		parts[i] = p.Type.String()
	}
	return m.Name + "(" + strings.Join(parts, ",") + ")"
}

// Substitute rewrites every placeholder in the member's parameter and result
// types using the given bindings.
func (m Member) Substitute(bindings map[string]TypeRef) Member {
	if len(bindings) == 0 {
		return m
	}
	out := Member{Kind: m.Kind, Name: m.Name, Owner: m.Owner}
	if len(m.Params) > 0 {
		out.Params = make([]Param, len(m.Params))
		for i, p := range m.Params {
			out.Params[i] = Param{Name: p.Name, Type: p.Type.Substitute(bindings)}
		}
	}
	if len(m.Results) > 0 {
		out.Results = make([]TypeRef, len(m.Results))
		for i, r := range m.Results {
			out.Results[i] = r.Substitute(bindings)
		}
	}
	return out
}
