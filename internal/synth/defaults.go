package synth

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/kindgen/internal/typesys"
)

// ZeroExpr returns the type-directed default for a Go-world type reference.
// Pointer, slice, and map shapes default to nil; well-known named types get
// their conventional zero literal. Anything else reports Literal=false and
// the emitter falls back to a zero-valued variable declaration, which is
// valid for every Go type.
func ZeroExpr(ref typesys.TypeRef) ZeroValue {
	switch ref.Kind {
	case typesys.RefPointer, typesys.RefSlice, typesys.RefMap:
		return ZeroValue{Expr: "nil", Literal: true}
	case typesys.RefNamed:
		if len(ref.Args) > 0 {
			return ZeroValue{}
		}
		switch ref.Name {
		case "string":
			return ZeroValue{Expr: `""`, Literal: true}
		case "bool":
			return ZeroValue{Expr: "false", Literal: true}
		case "int", "int8", "int16", "int32", "int64",
			"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
			"byte", "rune", "float32", "float64", "complex64", "complex128",
			"time.Duration":
			return ZeroValue{Expr: "0", Literal: true}
		case "error", "any":
			return ZeroValue{Expr: "nil", Literal: true}
		case "time.Time":
			return ZeroValue{Expr: "time.Time{}", Literal: true}
		case "uuid.UUID":
			return ZeroValue{Expr: "uuid.Nil", Literal: true}
		}
	}
	return ZeroValue{}
}

// ValueZero returns the Go expression for the default of a manifest value
// type. Used for optional constructor parameters that declare no explicit
// default.
func ValueZero(vt typesys.ValueType) string {
	switch vt.Kind {
	case typesys.KindString:
		return `""`
	case typesys.KindNumber, typesys.KindInt:
		return "0"
	case typesys.KindBool:
		return "false"
	case typesys.KindTimestamp:
		return "time.Time{}"
	case typesys.KindUUID:
		return "uuid.Nil"
	default:
		return "nil"
	}
}

// RenderCty renders a declared manifest value as Go source of the given
// value type. Collection values spell out a composite literal of the Go
// element type.
func RenderCty(v cty.Value, vt typesys.ValueType) (string, error) {
	if v.IsNull() {
		return ValueZero(vt), nil
	}
	switch vt.Kind {
	case typesys.KindString:
		return strconv.Quote(v.AsString()), nil
	case typesys.KindNumber:
		return v.AsBigFloat().Text('f', -1), nil
	case typesys.KindInt:
		i, _ := v.AsBigFloat().Int64()
		return strconv.FormatInt(i, 10), nil
	case typesys.KindBool:
		return strconv.FormatBool(v.True()), nil
	case typesys.KindList, typesys.KindSet:
		var elems []string
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			rendered, err := RenderCty(ev, *vt.Elem)
			if err != nil {
				return "", err
			}
			elems = append(elems, rendered)
		}
		return vt.GoType() + "{" + strings.Join(elems, ", ") + "}", nil
	case typesys.KindMap:
		var pairs []string
		for it := v.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			rendered, err := RenderCty(ev, *vt.Elem)
			if err != nil {
				return "", err
			}
			pairs = append(pairs, strconv.Quote(kv.AsString())+": "+rendered)
		}
		sort.Strings(pairs)
		return vt.GoType() + "{" + strings.Join(pairs, ", ") + "}", nil
	default:
		return "", fmt.Errorf("no Go literal form for %s values", vt)
	}
}

// keyString normalizes a comparable key value for duplicate detection and
// error messages. Only comparable kinds reach this point.
func keyString(v cty.Value) string {
	switch {
	case v.Type() == cty.String:
		return strconv.Quote(v.AsString())
	case v.Type() == cty.Number:
		return v.AsBigFloat().Text('f', -1)
	case v.Type() == cty.Bool:
		return strconv.FormatBool(v.True())
	default:
		return v.GoString()
	}
}
