// This file contains the logic for parsing HCL type expressions (e.g.,
// `string`, `list(number)`) into their corresponding value types.

package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/kindgen/internal/ctxlog"
	"github.com/specialistvlad/kindgen/internal/typesys"
)

// valueTypeFromExpr converts an HCL type expression into its ValueType
// equivalent.
func valueTypeFromExpr(ctx context.Context, expr hcl.Expression) (typesys.ValueType, error) {
	logger := ctxlog.FromContext(ctx)
	anyType := typesys.ValueType{Kind: typesys.KindAny}

	if expr == nil {
		logger.Debug("Type expression is nil, defaulting to any.")
		return anyType, nil
	}

	// Using a type switch is the correct way to handle the various concrete
	// expression types that implement the hcl.Expression interface.
	switch v := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		logger.Debug("Parsing type expression as a function call.", "call", v.Name)
		if len(v.Args) != 1 {
			return anyType, fmt.Errorf("type constructors (list, map, set) require exactly one argument, got %d", len(v.Args))
		}

		// Recursively parse the inner type.
		elem, err := valueTypeFromExpr(ctx, v.Args[0])
		if err != nil {
			return anyType, err
		}
		if elem.Kind == typesys.KindAny {
			return anyType, fmt.Errorf("collection types cannot contain type 'any'")
		}

		switch v.Name {
		case "list":
			return typesys.ListOf(elem), nil
		case "map":
			return typesys.MapValueOf(elem), nil
		case "set":
			return typesys.SetOf(elem), nil
		default:
			return anyType, fmt.Errorf("unknown type constructor function %q", v.Name)
		}

	case *hclsyntax.ScopeTraversalExpr:
		// This handles primitive type identifiers like `string` or `number`.
		if len(v.Traversal) != 1 {
			return anyType, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		rootName := v.Traversal.RootName()
		logger.Debug("Parsing type expression as a primitive.", "keyword", rootName)
		switch rootName {
		case "string":
			return typesys.ValueType{Kind: typesys.KindString}, nil
		case "number":
			return typesys.ValueType{Kind: typesys.KindNumber}, nil
		case "int":
			return typesys.ValueType{Kind: typesys.KindInt}, nil
		case "bool":
			return typesys.ValueType{Kind: typesys.KindBool}, nil
		case "timestamp":
			return typesys.ValueType{Kind: typesys.KindTimestamp}, nil
		case "uuid":
			return typesys.ValueType{Kind: typesys.KindUUID}, nil
		case "any":
			return anyType, nil
		default:
			return anyType, fmt.Errorf("unknown primitive type %q", rootName)
		}

	default:
		// Fallback for any other kind of expression.
		return anyType, fmt.Errorf("unsupported expression for type definition: %T", v)
	}
}
