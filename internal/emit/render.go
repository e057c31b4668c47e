package emit

import (
	"fmt"
	"go/format"
	"sort"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/kindgen/internal/model"
	"github.com/specialistvlad/kindgen/internal/synth"
	"github.com/specialistvlad/kindgen/internal/typesys"
)

// Render produces the formatted Go source for one registry definition. The
// generated-code header is not part of the rendering; the pipeline's
// postprocessor stamps it on every file.
func Render(def *synth.RegistryDef) ([]byte, error) {
	r := newRenderer(def)

	// Sections are rendered before the file head: the import block is only
	// known once every type and body has been walked.
	var sections []string
	add := func(s string) {
		if s != "" {
			sections = append(sections, s)
		}
	}

	add(r.sentinelSection())
	add(r.instancesSection())
	add(r.allSection())
	add(r.byIDSection())
	for _, idx := range def.Secondary {
		add(r.secondarySection(idx))
	}
	add(r.registrySection())
	add(r.methodsSection())
	add(r.accessorsSection())

	var b strings.Builder
	b.WriteString("package " + def.Family.Package + "\n\n")
	if imports := r.importBlock(); imports != "" {
		b.WriteString(imports + "\n")
	}
	b.WriteString(strings.Join(sections, "\n"))

	formatted, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("generated source for family %s does not parse: %w", def.Family.Name, err)
	}
	return formatted, nil
}

func (r *renderer) importBlock() string {
	if len(r.imports) == 0 {
		return ""
	}
	var std, ext []string
	for path := range r.imports {
		if strings.Contains(path, ".") {
			ext = append(ext, path)
		} else {
			std = append(std, path)
		}
	}
	sort.Strings(std)
	sort.Strings(ext)

	var b strings.Builder
	b.WriteString("import (\n")
	for _, path := range std {
		b.WriteString("\t" + strconv.Quote(path) + "\n")
	}
	if len(std) > 0 && len(ext) > 0 {
		b.WriteString("\n")
	}
	for _, path := range ext {
		b.WriteString("\t" + strconv.Quote(path) + "\n")
	}
	b.WriteString(")\n")
	return b.String()
}

// baseType returns the family's base contract spelling and records its
// import when qualified.
func (r *renderer) baseType() string {
	r.noteQualifier(r.def.Family.BaseType)
	return r.def.Family.BaseType
}

func (r *renderer) sentinelSection() string {
	s := r.def.Sentinel
	if s == nil {
		return ""
	}
	f := r.def.Family

	var b strings.Builder
	fmt.Fprintf(&b, "// %s is the %s sentinel. Lookup misses return it instead of a nil\n", s.TypeName, f.Name)
	fmt.Fprintf(&b, "// %s, so every registry operation stays total.\n", r.baseType())
	fmt.Fprintf(&b, "type %s struct{}\n\n", s.TypeName)
	fmt.Fprintf(&b, "var _ %s = %s{}\n", r.baseType(), s.TypeName)

	for _, m := range s.Methods {
		b.WriteString("\n")
		r.writeFunc(&b, "("+s.TypeName+")", "", m.Name, m.Params, m.Results, r.sentinelBody(m))
	}
	return b.String()
}

// sentinelBody renders the type-directed default returns of one sentinel
// method. Results without a literal zero go through a zero-valued variable,
// which is valid for any Go type.
func (r *renderer) sentinelBody(m synth.SentinelMethod) []string {
	if len(m.Results) == 0 {
		return nil
	}
	var lines []string
	exprs := make([]string, len(m.Results))
	for i, z := range m.Zeros {
		if z.Literal {
			exprs[i] = z.Expr
			continue
		}
		name := "zero"
		if len(m.Results) > 1 {
			name = fmt.Sprintf("zero%d", i)
		}
		lines = append(lines, "var "+name+" "+m.Results[i].String())
		exprs[i] = name
	}
	return append(lines, "return "+strings.Join(exprs, ", "))
}

func (r *renderer) instancesSection() string {
	if r.def.Family.Policy != model.PolicySingletons || r.def.Primary == nil || len(r.def.Primary.Entries) == 0 {
		return ""
	}
	f := r.def.Family

	var b strings.Builder
	fmt.Fprintf(&b, "// Registered %s instances, one per indexable variant.\n", f.Name)
	b.WriteString("var (\n")
	for _, e := range r.def.Primary.Entries {
		fmt.Fprintf(&b, "\t%s %s = %s\n", e.VarName, r.baseType(), r.constructZero(e.Variant))
	}
	b.WriteString(")\n")
	return b.String()
}

// entryExpr is how index literals reference an indexed variant: the shared
// instance under singletons, a constructor thunk under factories.
func (r *renderer) entryExpr(e synth.PrimaryEntry) string {
	if r.factories() {
		return "func() " + r.baseType() + " { return " + r.constructZero(e.Variant) + " }"
	}
	return e.VarName
}

func (r *renderer) elemType() string {
	if r.factories() {
		return "func() " + r.baseType()
	}
	return r.baseType()
}

func (r *renderer) allSection() string {
	if r.def.Primary == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "// %s holds the indexed variants in declaration order.\n", r.allVar())
	fmt.Fprintf(&b, "var %s = []%s{\n", r.allVar(), r.elemType())
	for _, e := range r.def.Primary.Entries {
		b.WriteString("\t" + r.entryExpr(e) + ",\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func (r *renderer) byIDSection() string {
	if r.def.Primary == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "var %s = map[int64]%s{\n", r.byIDVar(), r.elemType())
	for i, e := range r.def.Primary.Entries {
		fmt.Fprintf(&b, "\t%d: %s[%d],\n", e.ID, r.allVar(), i)
	}
	b.WriteString("}\n")
	return b.String()
}

// keyLiteral renders a declared key value as a Go map key expression.
func (r *renderer) keyLiteral(v cty.Value, vt typesys.ValueType) (string, error) {
	if vt.Kind == typesys.KindUUID {
		r.noteValueType(vt)
		return "uuid.MustParse(" + strconv.Quote(v.AsString()) + ")", nil
	}
	return synth.RenderCty(v, vt)
}

func (r *renderer) secondarySection(idx *synth.SecondaryIndex) string {
	spec := idx.Spec
	r.noteValueType(spec.Type)
	keyType := spec.Type.GoType()
	mapVar := r.keyVar(spec.Property)

	valueType := r.elemType()
	if spec.Multiple {
		valueType = "[]" + valueType
	}

	if spec.Computed {
		return r.computedSection(idx, keyType, valueType, mapVar)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "var %s = map[%s]%s{\n", mapVar, keyType, valueType)
	if spec.Multiple {
		grouped, order := r.groupEntries(idx)
		for _, key := range order {
			fmt.Fprintf(&b, "\t%s: {%s},\n", key, strings.Join(grouped[key], ", "))
		}
	} else {
		for _, e := range idx.Entries {
			key, err := r.keyLiteral(e.Key, spec.Type)
			if err != nil {
				key = strconv.Quote(e.Key.GoString())
			}
			if spec.Comparer != "" {
				r.noteQualifier(spec.Comparer)
				key = spec.Comparer + "(" + key + ")"
			}
			fmt.Fprintf(&b, "\t%s: %s,\n", key, r.indexedExpr(e))
		}
	}
	b.WriteString("}\n")

	// A comparer runs at init time, so two declared keys may only collide
	// after normalization. A shrunken map is the only trace of that.
	if spec.Comparer != "" && !spec.Multiple && len(idx.Entries) > 0 {
		b.WriteString("\nfunc init() {\n")
		fmt.Fprintf(&b, "\tif len(%s) != %d {\n", mapVar, len(idx.Entries))
		fmt.Fprintf(&b, "\t\tpanic(%q)\n", fmt.Sprintf("kindgen: %s keys of family %s collide after %s normalization", spec.Property, r.def.Family.Name, spec.Comparer))
		b.WriteString("\t}\n")
		b.WriteString("}\n")
	}
	return b.String()
}

// indexedExpr references an indexed variant from a secondary map literal,
// through the all slice so entries stay single-sourced.
func (r *renderer) indexedExpr(e synth.SecondaryEntry) string {
	if r.def.Primary != nil {
		for i, pe := range r.def.Primary.Entries {
			if pe.Variant == e.Variant {
				return fmt.Sprintf("%s[%d]", r.allVar(), i)
			}
		}
	}
	return r.sentinelExpr()
}

func (r *renderer) groupEntries(idx *synth.SecondaryIndex) (map[string][]string, []string) {
	grouped := make(map[string][]string)
	var order []string
	for _, e := range idx.Entries {
		key, err := r.keyLiteral(e.Key, idx.Spec.Type)
		if err != nil {
			key = strconv.Quote(e.Key.GoString())
		}
		if idx.Spec.Comparer != "" {
			r.noteQualifier(idx.Spec.Comparer)
			key = idx.Spec.Comparer + "(" + key + ")"
		}
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], r.indexedExpr(e))
	}
	return grouped, order
}

// computedSection declares an empty index filled by init code that asks each
// indexed instance for its key.
func (r *renderer) computedSection(idx *synth.SecondaryIndex, keyType, valueType, mapVar string) string {
	spec := idx.Spec
	f := r.def.Family

	read := "v." + spec.Property + "()"
	iter := "for _, v := range " + r.allVar() + " {"
	store := "v"
	if r.factories() {
		iter = "for _, newFn := range " + r.allVar() + " {"
		read = "newFn()." + spec.Property + "()"
		store = "newFn"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// %s is computed at init time from each variant's %s.\n", mapVar, spec.Property)
	fmt.Fprintf(&b, "var %s = make(map[%s]%s, len(%s))\n\n", mapVar, keyType, valueType, r.allVar())
	b.WriteString("func init() {\n")
	b.WriteString("\t" + iter + "\n")
	b.WriteString("\t\tk := " + read + "\n")
	if spec.Multiple {
		fmt.Fprintf(&b, "\t\t%s[k] = append(%s[k], %s)\n", mapVar, mapVar, store)
	} else {
		r.addImport("fmt")
		fmt.Fprintf(&b, "\t\tif _, dup := %s[k]; dup {\n", mapVar)
		fmt.Fprintf(&b, "\t\t\tpanic(fmt.Sprintf(%q, k))\n", fmt.Sprintf("kindgen: duplicate %s %s key %%v", f.Name, spec.Property))
		b.WriteString("\t\t}\n")
		fmt.Fprintf(&b, "\t\t%s[k] = %s\n", mapVar, store)
	}
	b.WriteString("\t}\n")
	b.WriteString("}\n")
	return b.String()
}

func (r *renderer) registrySection() string {
	def := r.def
	f := def.Family

	var b strings.Builder
	if r.deferred() {
		if def.Inherited != nil {
			r.noteRef(def.Inherited.BaseArg)
		}
		fmt.Fprintf(&b, "// %s resolves %s variants through its embedded runtime registry.\n", def.TypeName, f.Name)
		fmt.Fprintf(&b, "type %s struct {\n\t%s\n}\n", def.TypeName, def.EmbedType)
		return b.String()
	}

	fmt.Fprintf(&b, "// %s provides indexed access to the registered %s variants.\n", def.TypeName, f.Name)
	fmt.Fprintf(&b, "type %s struct{}\n", def.TypeName)
	if def.VarName != "" {
		b.WriteString("\n")
		fmt.Fprintf(&b, "// %s is the shared %s registry.\n", def.VarName, f.Name)
		fmt.Fprintf(&b, "var %s = %s{}\n", def.VarName, def.TypeName)
	}
	return b.String()
}

func (r *renderer) methodsSection() string {
	return r.renderMethods(r.def.Methods)
}

func (r *renderer) accessorsSection() string {
	return r.renderMethods(r.def.Accessors)
}

func (r *renderer) renderMethods(methods []synth.Method) string {
	if len(methods) == 0 {
		return ""
	}
	var b strings.Builder
	for i := range methods {
		m := &methods[i]
		if i > 0 {
			b.WriteString("\n")
		}
		r.writeFunc(&b, "(r "+r.def.TypeName+")", m.Doc, m.Name, m.Params, m.Results, r.methodBody(m))
	}
	return b.String()
}

// writeFunc renders one method: doc comment, signature, and indented body.
func (r *renderer) writeFunc(b *strings.Builder, recv, doc, name string, params []typesys.Param, results []typesys.TypeRef, body []string) {
	if doc != "" {
		for _, line := range docLines(doc) {
			b.WriteString("// " + line + "\n")
		}
	}

	var ps []string
	for _, p := range params {
		r.noteRef(p.Type)
		ps = append(ps, p.Name+" "+p.Type.String())
	}
	var rs []string
	for _, res := range results {
		r.noteRef(res)
		rs = append(rs, res.String())
	}
	sig := "func " + recv + " " + name + "(" + strings.Join(ps, ", ") + ")"
	switch len(rs) {
	case 0:
	case 1:
		sig += " " + rs[0]
	default:
		sig += " (" + strings.Join(rs, ", ") + ")"
	}

	b.WriteString(sig + " {\n")
	for _, line := range body {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString("\t" + line + "\n")
	}
	b.WriteString("}\n")
}

// docLines wraps a doc sentence at a comfortable comment width.
func docLines(doc string) []string {
	const width = 77
	words := strings.Fields(doc)
	var lines []string
	line := ""
	for _, w := range words {
		if line == "" {
			line = w
			continue
		}
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
