package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go/ast"
	"go/types"
	"strconv"
	"strings"
)

// Parameter defaults are declared as doc-comment directives on the function:
//
//	//footprint:default limit=10
//	//footprint:default tags=["a", "b"]
//	func Search(q string, limit int, tags []string) ...
//
// Go has no default arguments, so the generator reads them from directives
// the same way build constraints ride on comments.
const directivePrefix = "//footprint:default"

// paramDefaults collects the declared parameter defaults for a function.
func (p *Provider) paramDefaults(fn *types.Func) (map[string]any, error) {
	decl := p.funcDecl(fn)
	if decl == nil || decl.Doc == nil {
		return nil, nil
	}

	var defaults map[string]any
	for _, c := range decl.Doc.List {
		if !strings.HasPrefix(c.Text, directivePrefix) {
			continue
		}
		arg := strings.TrimSpace(strings.TrimPrefix(c.Text, directivePrefix))
		name, raw, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%s: malformed directive %q", fn.Name(), c.Text)
		}
		v, err := parseValue(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: bad default for %s: %w", fn.Name(), name, err)
		}
		if defaults == nil {
			defaults = make(map[string]any)
		}
		name = strings.TrimSpace(name)
		if _, dup := defaults[name]; dup {
			return nil, fmt.Errorf("%s: duplicate default for %s", fn.Name(), name)
		}
		defaults[name] = v
	}
	return defaults, nil
}

// funcDecl finds the AST declaration behind a function object.
func (p *Provider) funcDecl(fn *types.Func) *ast.FuncDecl {
	pkg, ok := p.pkgs[fn.Pkg().Path()]
	if !ok {
		return nil
	}
	pos := fn.Pos()
	for _, file := range pkg.Syntax {
		if file.Pos() > pos || file.End() < pos {
			continue
		}
		for _, decl := range file.Decls {
			if fd, ok := decl.(*ast.FuncDecl); ok && fd.Name.Pos() == pos {
				return fd
			}
		}
	}
	return nil
}

// parseValue interprets a default value literal: numbers and booleans in
// their Go spellings, quoted strings, JSON arrays and objects, and anything
// else as a bare string.
func parseValue(raw string) (any, error) {
	if raw == "" {
		return "", nil
	}
	if raw == "null" || raw == "nil" {
		return nil, nil
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, nil
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b, nil
	}
	switch raw[0] {
	case '[', '{':
		return parseJSONValue(raw)
	case '\'':
		if len(raw) >= 2 && raw[len(raw)-1] == '\'' {
			return raw[1 : len(raw)-1], nil
		}
		return nil, fmt.Errorf("unterminated string %q", raw)
	case '"', '`':
		return strconv.Unquote(raw)
	}
	return raw, nil
}

func parseJSONValue(raw string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return normalizeJSON(v), nil
}

// normalizeJSON rewrites json.Number values so integer defaults do not grow
// a trailing ".0" when rendered.
func normalizeJSON(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		f, _ := x.Float64()
		return f
	case []any:
		for i := range x {
			x[i] = normalizeJSON(x[i])
		}
	case map[string]any:
		for k := range x {
			x[k] = normalizeJSON(x[k])
		}
	}
	return v
}
