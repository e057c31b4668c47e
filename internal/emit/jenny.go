package emit

import (
	"path"
	"strings"
	"unicode"

	"github.com/grafana/codejen"

	"github.com/specialistvlad/kindgen/internal/model"
	"github.com/specialistvlad/kindgen/internal/synth"
)

// Header is stamped on every generated file so tooling recognizes the output
// as machine-written.
const Header = "// Code generated by kindgen. DO NOT EDIT."

// RegistryJenny renders one registry definition into one Go source file.
type RegistryJenny struct{}

func (RegistryJenny) JennyName() string {
	return "RegistryJenny"
}

func (j RegistryJenny) Generate(def *synth.RegistryDef) (*codejen.File, error) {
	data, err := Render(def)
	if err != nil {
		return nil, err
	}
	return codejen.NewFile(OutPath(def.Family), data, j), nil
}

// NewJennyList assembles the generation pipeline: every definition runs
// through the registry jenny and every produced file gets the header.
func NewJennyList() *codejen.JennyList[*synth.RegistryDef] {
	jl := codejen.JennyListWithNamer(func(def *synth.RegistryDef) string {
		return def.Family.Name
	})
	jl.AppendOneToOne(RegistryJenny{})
	jl.AddPostprocessors(headerMapper)
	return jl
}

func headerMapper(f codejen.File) (codejen.File, error) {
	f.Data = append([]byte(Header+"\n\n"), f.Data...)
	return f, nil
}

// OutPath resolves where a family's generated file lands relative to the
// output root. An explicit output path on the family wins; otherwise the
// file is named after the family inside its package directory.
func OutPath(f *model.FamilyDefinition) string {
	if f.OutputPath != "" {
		return f.OutputPath
	}
	return path.Join(f.Package, snake(f.Name)+"_registry.gen.go")
}

// snake converts an exported camel-case name to its file-name form, keeping
// acronym runs together: TrafficLight becomes traffic_light, HTTPRoute
// becomes http_route.
func snake(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && !unicode.IsUpper(runes[i+1]) && unicode.IsLetter(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
