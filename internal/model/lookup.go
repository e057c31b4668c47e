package model

import "github.com/specialistvlad/kindgen/internal/typesys"

// LookupKeySpec declares one secondary lookup index over a family.
type LookupKeySpec struct {
	// Property is the key's name. It names the generated lookup members
	// (By<Property>, TryBy<Property>) and, for declared keys, selects the
	// matching entry of each variant's key-value map. The property "Name"
	// defaults each variant's key value to its registry name.
	Property string
	// Type is the declared key type.
	Type typesys.ValueType
	// Multiple selects a one-to-many index; keys may then repeat and
	// lookups return every match.
	Multiple bool
	// Try additionally generates the non-throwing probe member.
	Try bool
	// Comparer names a user normalizer func applied to keys and probes.
	// It overrides the family's name rule for this key.
	Comparer string
	// Computed builds the index in generated init code from each variant's
	// member of the same name, instead of from declared values.
	Computed bool
}

// MemberName returns the generated lookup member name.
func (l *LookupKeySpec) MemberName() string { return "By" + l.Property }

// TryMemberName returns the generated probe member name.
func (l *LookupKeySpec) TryMemberName() string { return "TryBy" + l.Property }

// Folds reports whether key comparison folds case under the given family
// rule: string-typed keys without a custom comparer.
func (l *LookupKeySpec) Folds(rule NameRule) bool {
	return rule == CompareFold && l.Comparer == "" && l.Type.Kind == typesys.KindString
}
