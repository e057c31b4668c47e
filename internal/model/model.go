package model

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/kindgen/internal/typesys"
)

// Model is the merged result of every loaded manifest.
type Model struct {
	Families []*FamilyDefinition
	World    *typesys.World
}

// NewModel creates an empty model with a fresh contract world.
func NewModel() *Model {
	return &Model{World: typesys.NewWorld()}
}

// AddFamily appends a family. Declaring the same family name twice, in any
// manifest file, is an error.
func (m *Model) AddFamily(f *FamilyDefinition) error {
	for _, existing := range m.Families {
		if existing.Name == f.Name {
			return fmt.Errorf("family %q declared more than once (first in %s, again in %s)", f.Name, existing.Source, f.Source)
		}
	}
	m.Families = append(m.Families, f)
	return nil
}

// Family returns the family with the given name.
func (m *Model) Family(name string) (*FamilyDefinition, bool) {
	for _, f := range m.Families {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Validate performs a structural check over the whole model and reports
// every finding at once.
func (m *Model) Validate() error {
	var errs []string

	for _, f := range m.Families {
		prefix := fmt.Sprintf("family '%s'", f.Name)

		if f.Package == "" {
			errs = append(errs, prefix+": package is required")
		}
		if f.BaseType == "" {
			errs = append(errs, prefix+": base is required")
		}
		if !f.Policy.Valid() {
			errs = append(errs, fmt.Sprintf("%s: unknown policy %q", prefix, f.Policy))
		}
		if !f.NameRule.Valid() {
			errs = append(errs, fmt.Sprintf("%s: unknown name_rule %q", prefix, f.NameRule))
		}
		if f.Policy == PolicyDeferred && !f.Inherits {
			errs = append(errs, prefix+": policy 'deferred' requires inherits = true")
		}

		errs = append(errs, f.validateLookups(prefix)...)
		errs = append(errs, f.validateVariants(prefix)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("model validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func (f *FamilyDefinition) validateLookups(prefix string) []string {
	var errs []string
	seen := make(map[string]struct{})
	for _, l := range f.Lookups {
		if l.Property == "ID" {
			errs = append(errs, prefix+": lookup 'ID' collides with the built-in identity index")
			continue
		}
		if _, dup := seen[l.Property]; dup {
			errs = append(errs, fmt.Sprintf("%s: lookup '%s' declared more than once", prefix, l.Property))
			continue
		}
		seen[l.Property] = struct{}{}

		if !l.Type.Comparable() {
			errs = append(errs, fmt.Sprintf("%s: lookup '%s' has non-comparable key type %s", prefix, l.Property, l.Type))
		}
		if l.Comparer != "" && l.Type.Kind != typesys.KindString {
			errs = append(errs, fmt.Sprintf("%s: lookup '%s' declares a comparer but its key type is %s, not string", prefix, l.Property, l.Type))
		}
	}
	return errs
}

func (f *FamilyDefinition) validateVariants(prefix string) []string {
	var errs []string
	seen := make(map[string]struct{})
	for _, v := range f.Variants {
		if _, dup := seen[v.Name]; dup {
			errs = append(errs, fmt.Sprintf("%s: variant '%s' declared more than once", prefix, v.Name))
			continue
		}
		seen[v.Name] = struct{}{}

		if v.ID < 1 {
			errs = append(errs, fmt.Sprintf("%s: variant '%s' has id %d; ids start at 1, zero is reserved for the sentinel", prefix, v.Name, v.ID))
		}
		if v.NonInstantiable && len(v.Constructors) > 0 {
			errs = append(errs, fmt.Sprintf("%s: variant '%s' is abstract but declares constructors", prefix, v.Name))
		}

		zeroArg := 0
		for _, c := range v.Constructors {
			if c.ZeroArg() {
				zeroArg++
			}
		}
		if zeroArg > 1 {
			errs = append(errs, fmt.Sprintf("%s: variant '%s' declares %d zero-argument construction paths; at most one is allowed", prefix, v.Name, zeroArg))
		}

		for prop := range v.KeyValues {
			spec, ok := f.Lookup(prop)
			if !ok {
				errs = append(errs, fmt.Sprintf("%s: variant '%s' declares a key value for unknown lookup '%s'", prefix, v.Name, prop))
				continue
			}
			if spec.Computed {
				errs = append(errs, fmt.Sprintf("%s: variant '%s' declares a key value for computed lookup '%s'", prefix, v.Name, prop))
			}
		}
	}
	return errs
}
