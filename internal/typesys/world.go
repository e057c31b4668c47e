package typesys

import "fmt"

// TypeDecl is one declared contract: a named type with optional type
// parameters, an inheritance list, and a member set.
type TypeDecl struct {
	Name       string
	TypeParams []string
	Extends    []TypeRef
	Members    []Member
}

// ChainEntry is one step of a resolved inheritance chain. Bindings map the
// entry's declared type parameters to the concrete references they were
// instantiated with at this point in the chain.
type ChainEntry struct {
	Decl     *TypeDecl
	Args     []TypeRef
	Bindings map[string]TypeRef
}

// Introspection is the narrow capability surface the synthesizer consumes.
// Implementations resolve a type by name, enumerate its declared members,
// and walk its inheritance chain most-derived first.
type Introspection interface {
	Resolve(name string) (*TypeDecl, bool)
	Members(name string) ([]Member, error)
	Chain(name string) ([]ChainEntry, error)
}

// World is the in-memory Introspection built from manifest contract blocks.
type World struct {
	decls map[string]*TypeDecl
	order []string
}

// NewWorld creates an empty World.
func NewWorld() *World {
	return &World{decls: make(map[string]*TypeDecl)}
}

// Add registers a declaration. Declaring the same name twice is an error.
func (w *World) Add(decl *TypeDecl) error {
	if decl.Name == "" {
		return fmt.Errorf("contract declaration has no name")
	}
	if _, exists := w.decls[decl.Name]; exists {
		return fmt.Errorf("contract %q declared more than once", decl.Name)
	}
	w.decls[decl.Name] = decl
	w.order = append(w.order, decl.Name)
	return nil
}

// Names returns every declared contract name in declaration order.
func (w *World) Names() []string {
	out := make([]string, len(w.order))
	copy(out, w.order)
	return out
}

// Resolve returns the declaration registered under name.
func (w *World) Resolve(name string) (*TypeDecl, bool) {
	d, ok := w.decls[name]
	return d, ok
}

// Members returns the members declared directly on the named contract,
// without walking its inheritance chain.
func (w *World) Members(name string) ([]Member, error) {
	d, ok := w.decls[name]
	if !ok {
		return nil, fmt.Errorf("unknown contract %q", name)
	}
	return d.Members, nil
}

// Chain walks the inheritance chain of the named contract, most-derived
// first. Type arguments are substituted transitively, so an entry's Bindings
// always map its parameters to fully concrete references when the walk
// started from a non-generic type.
func (w *World) Chain(name string) ([]ChainEntry, error) {
	root, ok := w.decls[name]
	if !ok {
		return nil, fmt.Errorf("unknown contract %q", name)
	}

	var chain []ChainEntry
	// stack holds the names on the current descent only, so a diamond (two
	// parents sharing an ancestor) is not mistaken for a cycle.
	stack := make(map[string]struct{})

	var walk func(decl *TypeDecl, args []TypeRef) error
	walk = func(decl *TypeDecl, args []TypeRef) error {
		if _, on := stack[decl.Name]; on {
			return fmt.Errorf("inheritance cycle through contract %q", decl.Name)
		}
		stack[decl.Name] = struct{}{}
		defer delete(stack, decl.Name)

		if len(args) != len(decl.TypeParams) {
			return fmt.Errorf("contract %q expects %d type argument(s), got %d", decl.Name, len(decl.TypeParams), len(args))
		}
		bindings := make(map[string]TypeRef, len(args))
		for i, p := range decl.TypeParams {
			bindings[p] = args[i]
		}
		chain = append(chain, ChainEntry{Decl: decl, Args: args, Bindings: bindings})

		for _, ext := range decl.Extends {
			inst := ext.Substitute(bindings)
			if inst.Kind != RefNamed {
				return fmt.Errorf("contract %q extends non-named type %q", decl.Name, inst.String())
			}
			parent, ok := w.decls[inst.Name]
			if !ok {
				return fmt.Errorf("contract %q extends unknown contract %q", decl.Name, inst.Name)
			}
			if err := walk(parent, inst.Args); err != nil {
				return err
			}
		}
		return nil
	}

	rootArgs := make([]TypeRef, len(root.TypeParams))
	for i, p := range root.TypeParams {
		rootArgs[i] = Placeholder(p)
	}
	if err := walk(root, rootArgs); err != nil {
		return nil, err
	}
	return chain, nil
}

// FlattenMembers returns every member visible on the named contract with its
// full inheritance chain applied. When two chain entries carry members with
// the same signature, the occurrence closest to the named contract wins.
func FlattenMembers(in Introspection, name string) ([]Member, error) {
	entries, err := in.Chain(name)
	if err != nil {
		return nil, err
	}
	return FlattenChain(entries), nil
}

// FlattenChain applies each entry's bindings to its declared members and
// de-duplicates by signature, retaining the most-derived occurrence. Entries
// must be ordered most-derived first, as Chain returns them.
func FlattenChain(entries []ChainEntry) []Member {
	seen := make(map[string]struct{})
	var out []Member
	for _, e := range entries {
		for _, m := range e.Decl.Members {
			mm := m.Substitute(e.Bindings)
			key := mm.SignatureKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, mm)
		}
	}
	return out
}
