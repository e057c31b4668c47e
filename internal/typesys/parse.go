package typesys

import (
	"fmt"
	"strings"
)

// ParseRef parses a Go-style type reference string into a tree. Supported
// forms are named (optionally qualified) types, pointers, slices, maps, and
// generic instantiations written as either Name[A, B] or Name(A, B).
func ParseRef(s string) (TypeRef, error) {
	p := &refParser{input: s}
	ref, err := p.parseRef()
	if err != nil {
		return TypeRef{}, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return TypeRef{}, fmt.Errorf("unexpected trailing input at %d in type reference %q", p.pos, s)
	}
	return ref, nil
}

// ParseRefList parses a comma-separated list of type references, as written
// in a multi-valued returns clause. An empty string yields nil.
func ParseRefList(s string) ([]TypeRef, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	p := &refParser{input: s}
	var refs []TypeRef
	for {
		ref, err := p.parseRef()
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
		p.skipSpaces()
		if p.pos == len(p.input) {
			return refs, nil
		}
		if !p.consume(',') {
			return nil, fmt.Errorf("expected ',' at %d in type list %q", p.pos, s)
		}
	}
}

type refParser struct {
	input string
	pos   int
}

func (p *refParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *refParser) consume(c byte) bool {
	p.skipSpaces()
	if p.pos < len(p.input) && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *refParser) parseRef() (TypeRef, error) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return TypeRef{}, fmt.Errorf("unexpected end of type reference %q", p.input)
	}

	switch {
	case p.input[p.pos] == '*':
		p.pos++
		elem, err := p.parseRef()
		if err != nil {
			return TypeRef{}, err
		}
		return PointerTo(elem), nil

	case strings.HasPrefix(p.input[p.pos:], "[]"):
		p.pos += 2
		elem, err := p.parseRef()
		if err != nil {
			return TypeRef{}, err
		}
		return SliceOf(elem), nil

	case strings.HasPrefix(p.input[p.pos:], "map["):
		p.pos += len("map[")
		key, err := p.parseRef()
		if err != nil {
			return TypeRef{}, err
		}
		if !p.consume(']') {
			return TypeRef{}, fmt.Errorf("expected ']' at %d in map type %q", p.pos, p.input)
		}
		elem, err := p.parseRef()
		if err != nil {
			return TypeRef{}, err
		}
		return MapOf(key, elem), nil
	}

	name, err := p.parseIdent()
	if err != nil {
		return TypeRef{}, err
	}

	p.skipSpaces()
	var closer byte
	switch {
	case p.consume('['):
		closer = ']'
	case p.consume('('):
		closer = ')'
	default:
		return Named(name), nil
	}

	var args []TypeRef
	for {
		arg, err := p.parseRef()
		if err != nil {
			return TypeRef{}, err
		}
		args = append(args, arg)
		if p.consume(closer) {
			return Named(name, args...), nil
		}
		if !p.consume(',') {
			return TypeRef{}, fmt.Errorf("expected ',' or %q at %d in type reference %q", string(closer), p.pos, p.input)
		}
	}
}

func (p *refParser) parseIdent() (string, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '.' {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return "", fmt.Errorf("expected identifier at %d in type reference %q", p.pos, p.input)
	}
	ident := p.input[start:p.pos]
	if strings.HasPrefix(ident, ".") || strings.HasSuffix(ident, ".") {
		return "", fmt.Errorf("invalid identifier %q in type reference %q", ident, p.input)
	}
	return ident, nil
}
