package typesys

import "github.com/zclconf/go-cty/cty"

// ValueKind enumerates the value types a manifest can declare for
// constructor parameters and lookup keys.
type ValueKind int

const (
	KindInvalid ValueKind = iota
	KindString
	KindNumber
	KindInt
	KindBool
	KindTimestamp
	KindUUID
	KindAny
	KindList
	KindMap
	KindSet
)

// ValueType is a declared manifest value type. Collection kinds carry their
// element type.
type ValueType struct {
	Kind ValueKind
	Elem *ValueType
}

// ListOf builds a list value type.
func ListOf(elem ValueType) ValueType { return ValueType{Kind: KindList, Elem: &elem} }

// MapValueOf builds a string-keyed map value type.
func MapValueOf(elem ValueType) ValueType { return ValueType{Kind: KindMap, Elem: &elem} }

// SetOf builds a set value type.
func SetOf(elem ValueType) ValueType { return ValueType{Kind: KindSet, Elem: &elem} }

// CtyType returns the cty type used to evaluate and convert manifest
// expressions declared with this type. Timestamp and UUID values travel as
// strings on the wire.
func (v ValueType) CtyType() cty.Type {
	switch v.Kind {
	case KindString, KindTimestamp, KindUUID:
		return cty.String
	case KindNumber, KindInt:
		return cty.Number
	case KindBool:
		return cty.Bool
	case KindList:
		return cty.List(v.Elem.CtyType())
	case KindMap:
		return cty.Map(v.Elem.CtyType())
	case KindSet:
		return cty.Set(v.Elem.CtyType())
	default:
		return cty.DynamicPseudoType
	}
}

// GoType renders the Go type this value type maps to in generated code.
// Sets render as slices.
func (v ValueType) GoType() string {
	switch v.Kind {
	case KindString:
		return "string"
	case KindNumber:
		return "float64"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindTimestamp:
		return "time.Time"
	case KindUUID:
		return "uuid.UUID"
	case KindList, KindSet:
		return "[]" + v.Elem.GoType()
	case KindMap:
		return "map[string]" + v.Elem.GoType()
	default:
		return "any"
	}
}

// String renders the manifest spelling of the type, for diagnostics.
func (v ValueType) String() string {
	switch v.Kind {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindTimestamp:
		return "timestamp"
	case KindUUID:
		return "uuid"
	case KindList:
		return "list(" + v.Elem.String() + ")"
	case KindMap:
		return "map(" + v.Elem.String() + ")"
	case KindSet:
		return "set(" + v.Elem.String() + ")"
	case KindAny:
		return "any"
	default:
		return "invalid"
	}
}

// Comparable reports whether values of this type can key a lookup index.
func (v ValueType) Comparable() bool {
	switch v.Kind {
	case KindString, KindNumber, KindInt, KindBool, KindUUID:
		return true
	default:
		return false
	}
}
