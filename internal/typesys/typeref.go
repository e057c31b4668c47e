package typesys

import "strings"

// RefKind discriminates the node kinds of a type-reference tree.
type RefKind int

const (
	// RefNamed is a named type, optionally carrying generic type arguments.
	RefNamed RefKind = iota
	// RefPlaceholder is an unresolved generic type parameter.
	RefPlaceholder
	// RefPointer is a pointer to its element type.
	RefPointer
	// RefSlice is a slice of its element type.
	RefSlice
	// RefMap is a map from its key type to its element type.
	RefMap
)

// TypeRef is one node of a type-reference tree.
type TypeRef struct {
	Kind RefKind
	Name string    // RefNamed and RefPlaceholder
	Args []TypeRef // RefNamed generic arguments
	Key  *TypeRef  // RefMap
	Elem *TypeRef  // RefPointer, RefSlice, RefMap
}

// Named builds a named type reference with optional type arguments.
func Named(name string, args ...TypeRef) TypeRef {
	return TypeRef{Kind: RefNamed, Name: name, Args: args}
}

// Placeholder builds a generic-parameter placeholder node.
func Placeholder(name string) TypeRef {
	return TypeRef{Kind: RefPlaceholder, Name: name}
}

// PointerTo builds a pointer reference.
func PointerTo(elem TypeRef) TypeRef {
	return TypeRef{Kind: RefPointer, Elem: &elem}
}

// SliceOf builds a slice reference.
func SliceOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: RefSlice, Elem: &elem}
}

// MapOf builds a map reference.
func MapOf(key, elem TypeRef) TypeRef {
	return TypeRef{Kind: RefMap, Key: &key, Elem: &elem}
}

// String renders the reference in Go type syntax. Placeholders render as
// their parameter name.
func (r TypeRef) String() string {
	switch r.Kind {
	case RefPointer:
		return "*" + r.Elem.String()
	case RefSlice:
		return "[]" + r.Elem.String()
	case RefMap:
		return "map[" + r.Key.String() + "]" + r.Elem.String()
	case RefPlaceholder:
		return r.Name
	default:
		if len(r.Args) == 0 {
			return r.Name
		}
		parts := make([]string, len(r.Args))
		for i, a := range r.Args {
			parts[i] = a.String()
		}
		return r.Name + "[" + strings.Join(parts, ", ") + "]"
	}
}

// Equal reports whether two references are structurally identical.
func (r TypeRef) Equal(o TypeRef) bool {
	if r.Kind != o.Kind || r.Name != o.Name || len(r.Args) != len(o.Args) {
		return false
	}
	for i := range r.Args {
		if !r.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	if (r.Key == nil) != (o.Key == nil) || (r.Elem == nil) != (o.Elem == nil) {
		return false
	}
	if r.Key != nil && !r.Key.Equal(*o.Key) {
		return false
	}
	if r.Elem != nil && !r.Elem.Equal(*o.Elem) {
		return false
	}
	return true
}

// Substitute replaces every placeholder node that has a binding with the
// bound reference. Unbound placeholders are left in place.
func (r TypeRef) Substitute(bindings map[string]TypeRef) TypeRef {
	switch r.Kind {
	case RefPlaceholder:
		if b, ok := bindings[r.Name]; ok {
			return b
		}
		return r
	case RefPointer:
		return PointerTo(r.Elem.Substitute(bindings))
	case RefSlice:
		return SliceOf(r.Elem.Substitute(bindings))
	case RefMap:
		return MapOf(r.Key.Substitute(bindings), r.Elem.Substitute(bindings))
	default:
		if len(r.Args) == 0 {
			return r
		}
		args := make([]TypeRef, len(r.Args))
		for i, a := range r.Args {
			args[i] = a.Substitute(bindings)
		}
		return TypeRef{Kind: RefNamed, Name: r.Name, Args: args}
	}
}

// WithPlaceholders rewrites bare named references whose name appears in
// params into placeholder nodes. Parsers cannot tell a type parameter from a
// regular named type, so declarations apply this once their parameter list
// is known.
func (r TypeRef) WithPlaceholders(params []string) TypeRef {
	switch r.Kind {
	case RefNamed:
		if len(r.Args) == 0 {
			for _, p := range params {
				if r.Name == p {
					return Placeholder(r.Name)
				}
			}
			return r
		}
		args := make([]TypeRef, len(r.Args))
		for i, a := range r.Args {
			args[i] = a.WithPlaceholders(params)
		}
		return TypeRef{Kind: RefNamed, Name: r.Name, Args: args}
	case RefPointer:
		return PointerTo(r.Elem.WithPlaceholders(params))
	case RefSlice:
		return SliceOf(r.Elem.WithPlaceholders(params))
	case RefMap:
		return MapOf(r.Key.WithPlaceholders(params), r.Elem.WithPlaceholders(params))
	default:
		return r
	}
}

// ContainsPlaceholder reports whether any node in the tree is a placeholder.
func (r TypeRef) ContainsPlaceholder() bool {
	switch r.Kind {
	case RefPlaceholder:
		return true
	case RefPointer, RefSlice:
		return r.Elem.ContainsPlaceholder()
	case RefMap:
		return r.Key.ContainsPlaceholder() || r.Elem.ContainsPlaceholder()
	default:
		for _, a := range r.Args {
			if a.ContainsPlaceholder() {
				return true
			}
		}
		return false
	}
}
