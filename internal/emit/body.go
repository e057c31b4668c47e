package emit

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/specialistvlad/kindgen/internal/model"
	"github.com/specialistvlad/kindgen/internal/synth"
	"github.com/specialistvlad/kindgen/internal/typesys"
)

// wellKnownImports maps type qualifiers the renderer can introduce on its own
// to their import paths. Everything else must come from the family's imports
// list.
var wellKnownImports = map[string]string{
	"time": "time",
	"uuid": "github.com/google/uuid",
}

// renderer accumulates one generated file for a registry definition. It
// tracks which imports the rendered code actually needs.
type renderer struct {
	def        *synth.RegistryDef
	imports    map[string]struct{}
	qualifiers map[string]string
	entryVars  map[string]string
}

func newRenderer(def *synth.RegistryDef) *renderer {
	r := &renderer{
		def:        def,
		imports:    make(map[string]struct{}),
		qualifiers: make(map[string]string, len(wellKnownImports)+len(def.Family.Imports)),
		entryVars:  make(map[string]string),
	}
	for q, path := range wellKnownImports {
		r.qualifiers[q] = path
	}
	for _, path := range def.Family.Imports {
		if i := strings.LastIndexByte(path, '/'); i >= 0 {
			r.qualifiers[path[i+1:]] = path
		} else {
			r.qualifiers[path] = path
		}
	}
	if def.Primary != nil {
		for _, e := range def.Primary.Entries {
			if e.VarName != "" {
				r.entryVars[e.Variant.Name] = e.VarName
			}
		}
	}
	return r
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	c, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(c)) + s[size:]
}

func (r *renderer) addImport(path string) {
	r.imports[path] = struct{}{}
}

// noteQualifier records the import backing a qualified identifier such as
// time.Time or shapes.Circle.
func (r *renderer) noteQualifier(name string) {
	i := strings.IndexByte(name, '.')
	if i <= 0 {
		return
	}
	if path, ok := r.qualifiers[name[:i]]; ok {
		r.addImport(path)
	}
}

// noteRef walks a type reference and records every import it pulls in.
func (r *renderer) noteRef(ref typesys.TypeRef) {
	switch ref.Kind {
	case typesys.RefNamed, typesys.RefPlaceholder:
		r.noteQualifier(ref.Name)
		for _, a := range ref.Args {
			r.noteRef(a)
		}
	case typesys.RefPointer, typesys.RefSlice:
		r.noteRef(*ref.Elem)
	case typesys.RefMap:
		r.noteRef(*ref.Key)
		r.noteRef(*ref.Elem)
	}
}

// noteValueType records the imports a manifest value type needs in Go.
func (r *renderer) noteValueType(vt typesys.ValueType) {
	switch vt.Kind {
	case typesys.KindTimestamp:
		r.addImport("time")
	case typesys.KindUUID:
		r.addImport(wellKnownImports["uuid"])
	case typesys.KindList, typesys.KindMap, typesys.KindSet:
		if vt.Elem != nil {
			r.noteValueType(*vt.Elem)
		}
	}
}

// prefix is the shared stem of the file's unexported package-level names.
func (r *renderer) prefix() string {
	return lowerFirst(r.def.Family.Name)
}

func (r *renderer) allVar() string {
	return r.prefix() + "All"
}

func (r *renderer) byIDVar() string {
	return r.prefix() + "ByID"
}

func (r *renderer) keyVar(property string) string {
	return r.prefix() + "By" + property
}

func (r *renderer) sentinelExpr() string {
	if r.def.Sentinel != nil {
		return r.def.Sentinel.TypeName + "{}"
	}
	return "r.Empty()"
}

func (r *renderer) factories() bool {
	return r.def.Family.Policy == model.PolicyFactories
}

func (r *renderer) deferred() bool {
	return r.def.Family.Policy == model.PolicyDeferred
}

// constructZero renders the zero-argument construction expression for an
// indexable variant: its zero-arg constructor with every default filled, or
// a composite literal of the concrete type.
func (r *renderer) constructZero(v *model.VariantDefinition) string {
	if ctor, ok := v.ZeroArgConstructor(); ok && ctor.FuncName != "" {
		args := make([]string, 0, len(ctor.Params))
		for _, p := range ctor.Params {
			args = append(args, r.defaultArg(p))
		}
		r.noteQualifier(ctor.FuncName)
		return ctor.FuncName + "(" + strings.Join(args, ", ") + ")"
	}
	concrete := v.ConcreteType
	if concrete == "" {
		concrete = v.Name
	}
	if rest, ok := strings.CutPrefix(concrete, "*"); ok {
		r.noteQualifier(rest)
		return "&" + rest + "{}"
	}
	r.noteQualifier(concrete)
	return concrete + "{}"
}

// defaultArg renders one defaulted constructor argument.
func (r *renderer) defaultArg(p *model.ParameterSpec) string {
	r.noteValueType(p.Type)
	if p.Default != nil {
		rendered, err := synth.RenderCty(*p.Default, p.Type)
		if err == nil {
			return rendered
		}
	}
	return synth.ValueZero(p.Type)
}

// probeExpr renders the lookup key expression for a secondary index probe,
// applying the fold rule or the user comparer the index was built with.
func (r *renderer) probeExpr(idx *synth.SecondaryIndex, param string) string {
	if idx.Spec.Comparer != "" {
		r.noteQualifier(idx.Spec.Comparer)
		return idx.Spec.Comparer + "(" + param + ")"
	}
	if idx.Folds {
		r.addImport("strings")
		return "strings.ToLower(" + param + ")"
	}
	return param
}

// methodBody renders the statements of one generated member, without
// indentation.
func (r *renderer) methodBody(m *synth.Method) []string {
	switch m.Body {
	case synth.BodyEnumerate:
		return r.enumerateBody(m)
	case synth.BodySentinel:
		return []string{"return " + r.sentinelExpr()}
	case synth.BodyByID:
		return r.byIDBody(m)
	case synth.BodyTryByID:
		return r.tryByIDBody(m)
	case synth.BodyByKey:
		return r.byKeyBody(m)
	case synth.BodyTryByKey:
		return r.tryByKeyBody(m)
	case synth.BodyLen:
		return []string{"return len(" + r.allVar() + ")"}
	case synth.BodyIsEmpty:
		return []string{"return len(" + r.allVar() + ") == 0"}
	case synth.BodyAt:
		return r.atBody(m)
	case synth.BodyIndexAccessor:
		return r.indexAccessorBody(m)
	case synth.BodySentinelAccessor:
		return []string{"return " + r.sentinelExpr()}
	case synth.BodyConstruct:
		return r.constructBody(m)
	case synth.BodyNotImplemented:
		return []string{fmt.Sprintf("panic(%q)",
			fmt.Sprintf("kindgen: %s.%s is not implemented: no generation rule matched this member", r.def.TypeName, m.Name))}
	}
	return []string{"panic(\"kindgen: unreachable\")"}
}

func (r *renderer) enumerateBody(m *synth.Method) []string {
	elem := r.def.Family.BaseType
	if len(m.Results) == 1 && m.Results[0].Kind == typesys.RefSlice {
		elem = m.Results[0].Elem.String()
	}
	if r.factories() {
		return []string{
			"out := make([]" + elem + ", 0, len(" + r.allVar() + "))",
			"for _, newFn := range " + r.allVar() + " {",
			"\tout = append(out, newFn())",
			"}",
			"return out",
		}
	}
	return []string{
		"out := make([]" + elem + ", len(" + r.allVar() + "))",
		"copy(out, " + r.allVar() + ")",
		"return out",
	}
}

func (r *renderer) byIDBody(m *synth.Method) []string {
	param := m.Params[0].Name
	if r.factories() {
		return []string{
			"if newFn, ok := " + r.byIDVar() + "[" + param + "]; ok {",
			"\treturn newFn()",
			"}",
			"return " + r.sentinelExpr(),
		}
	}
	return []string{
		"if v, ok := " + r.byIDVar() + "[" + param + "]; ok {",
		"\treturn v",
		"}",
		"return " + r.sentinelExpr(),
	}
}

func (r *renderer) tryByIDBody(m *synth.Method) []string {
	param := m.Params[0].Name
	if r.factories() {
		return []string{
			"newFn, ok := " + r.byIDVar() + "[" + param + "]",
			"if !ok {",
			"\treturn " + r.sentinelExpr() + ", false",
			"}",
			"return newFn(), true",
		}
	}
	return []string{
		"v, ok := " + r.byIDVar() + "[" + param + "]",
		"if !ok {",
		"\treturn " + r.sentinelExpr() + ", false",
		"}",
		"return v, true",
	}
}

func (r *renderer) byKeyBody(m *synth.Method) []string {
	idx := m.Key
	param := m.Params[0].Name
	probe := r.probeExpr(idx, param)
	mapVar := r.keyVar(idx.Spec.Property)

	if idx.Spec.Multiple {
		elem := r.def.Family.BaseType
		if r.factories() {
			return []string{
				"vs := " + mapVar + "[" + probe + "]",
				"out := make([]" + elem + ", 0, len(vs))",
				"for _, newFn := range vs {",
				"\tout = append(out, newFn())",
				"}",
				"return out",
			}
		}
		return []string{
			"vs := " + mapVar + "[" + probe + "]",
			"out := make([]" + elem + ", len(vs))",
			"copy(out, vs)",
			"return out",
		}
	}
	if r.factories() {
		return []string{
			"if newFn, ok := " + mapVar + "[" + probe + "]; ok {",
			"\treturn newFn()",
			"}",
			"return " + r.sentinelExpr(),
		}
	}
	return []string{
		"if v, ok := " + mapVar + "[" + probe + "]; ok {",
		"\treturn v",
		"}",
		"return " + r.sentinelExpr(),
	}
}

func (r *renderer) tryByKeyBody(m *synth.Method) []string {
	idx := m.Key
	param := m.Params[0].Name
	probe := r.probeExpr(idx, param)
	mapVar := r.keyVar(idx.Spec.Property)

	if idx.Spec.Multiple {
		// A one-to-many probe reports presence of at least one match.
		body := r.byKeyBody(m)
		return append(body[:len(body)-1], "return out, len(vs) > 0")
	}
	if r.factories() {
		return []string{
			"newFn, ok := " + mapVar + "[" + probe + "]",
			"if !ok {",
			"\treturn " + r.sentinelExpr() + ", false",
			"}",
			"return newFn(), true",
		}
	}
	return []string{
		"v, ok := " + mapVar + "[" + probe + "]",
		"if !ok {",
		"\treturn " + r.sentinelExpr() + ", false",
		"}",
		"return v, true",
	}
}

func (r *renderer) atBody(m *synth.Method) []string {
	param := m.Params[0].Name
	access := r.allVar() + "[" + param + "]"
	if r.factories() {
		access += "()"
	}
	return []string{
		"if " + param + " < 0 || " + param + " >= len(" + r.allVar() + ") {",
		"\treturn " + r.sentinelExpr(),
		"}",
		"return " + access,
	}
}

func (r *renderer) indexAccessorBody(m *synth.Method) []string {
	v := m.Variant
	if r.deferred() {
		return []string{"return r.ByID(" + strconv.FormatInt(v.ID, 10) + ")"}
	}
	if r.factories() {
		return []string{"return " + r.constructZero(v)}
	}
	if name, ok := r.entryVars[v.Name]; ok {
		return []string{"return " + name}
	}
	return []string{"return " + r.sentinelExpr()}
}

func (r *renderer) constructBody(m *synth.Method) []string {
	args := make([]string, 0, len(m.Ctor.Params))
	for _, p := range m.Ctor.Params {
		args = append(args, p.Name)
	}
	r.noteQualifier(m.Ctor.FuncName)
	return []string{"return " + m.Ctor.FuncName + "(" + strings.Join(args, ", ") + ")"}
}
