// Package provider extracts typeable objects from Go source code and
// canonicalizes them into the footprint intermediate representation.
//
// Extraction is driven by go/packages rather than reflection: function
// parameter names only exist in source, and the generator needs them to
// render TypeScript signatures.
package provider

import (
	"context"
	"fmt"
	"go/ast"
	"go/constant"
	"go/types"
	"strings"

	"github.com/arabidopsis/footprint/tsgen/ir"
	"golang.org/x/tools/go/packages"
)

// Provider extracts types and functions by analyzing Go source code.
type Provider struct {
	// Dir is the working directory for package loading ("" means cwd).
	Dir string

	pkgs     map[string]*packages.Package
	warnings []ir.Warning
}

// New returns a Provider rooted at dir.
func New(dir string) *Provider {
	return &Provider{Dir: dir, pkgs: make(map[string]*packages.Package)}
}

// Load analyzes the given package patterns. Transitively imported packages
// become resolvable too, so annotations may reference types from anywhere
// in the build graph.
func (p *Provider) Load(ctx context.Context, patterns ...string) error {
	if len(patterns) == 0 {
		return fmt.Errorf("no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     p.Dir,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return fmt.Errorf("no packages found matching %q", patterns)
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
	}
	for _, pkg := range pkgs {
		p.register(pkg)
	}
	return nil
}

func (p *Provider) register(pkg *packages.Package) {
	if _, ok := p.pkgs[pkg.PkgPath]; ok {
		return
	}
	p.pkgs[pkg.PkgPath] = pkg
	for _, imp := range pkg.Imports {
		p.register(imp)
	}
}

// Warnings returns the non-fatal issues met while canonicalizing types.
func (p *Provider) Warnings() []ir.Warning {
	return p.warnings
}

func (p *Provider) warn(code, msg, typeName string) {
	p.warnings = append(p.warnings, ir.Warning{Code: code, Message: msg, TypeName: typeName})
}

// Typeables resolves a target spec to the names it covers. A spec is either
// a package path, covering every exported struct and function in declaration
// order, or "path:Name" for a single object.
func (p *Provider) Typeables(spec string) ([]ir.TypeName, error) {
	path := spec
	var only string
	if i := strings.IndexByte(spec, ':'); i >= 0 {
		path, only = spec[:i], spec[i+1:]
	}

	pkg, ok := p.pkgs[path]
	if !ok {
		return nil, fmt.Errorf("package %s not loaded", path)
	}

	if only != "" {
		if pkg.Types.Scope().Lookup(only) == nil {
			return nil, fmt.Errorf("%s not found in package %s", only, path)
		}
		return []ir.TypeName{{Name: only, Module: path}}, nil
	}

	// Syntax order, not scope order: generated output should follow the
	// source file.
	var names []ir.TypeName
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				for _, spec := range d.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok || !ts.Name.IsExported() {
						continue
					}
					if ts.TypeParams != nil {
						p.warn("GENERIC_TYPE",
							fmt.Sprintf("generic type %s skipped", ts.Name.Name), ts.Name.Name)
						continue
					}
					if _, ok := ts.Type.(*ast.StructType); !ok {
						continue
					}
					names = append(names, ir.TypeName{Name: ts.Name.Name, Module: path})
				}
			case *ast.FuncDecl:
				if d.Recv != nil || !d.Name.IsExported() {
					continue
				}
				if d.Type.TypeParams != nil {
					p.warn("GENERIC_FUNC",
						fmt.Sprintf("generic function %s skipped", d.Name.Name), d.Name.Name)
					continue
				}
				names = append(names, ir.TypeName{Name: d.Name.Name, Module: path})
			}
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no typeable objects in package %s", path)
	}
	return names, nil
}

// ResolveType returns the record or function object behind a name.
func (p *Provider) ResolveType(name ir.TypeName) (*ir.Object, error) {
	obj, err := p.lookup(name)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case *types.TypeName:
		return p.recordOf(name, o)
	case *types.Func:
		return p.funcOf(name, o)
	default:
		return nil, fmt.Errorf("%s is not a type or function", name)
	}
}

// ResolveForward returns the type expression a forward reference names.
func (p *Provider) ResolveForward(name ir.TypeName) (ir.TypeExpr, error) {
	obj, err := p.lookup(name)
	if err != nil {
		return nil, err
	}
	tn, ok := obj.(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("%s is not a type", name)
	}
	return p.exprOf(tn.Type()), nil
}

func (p *Provider) lookup(name ir.TypeName) (types.Object, error) {
	pkg, ok := p.pkgs[name.Module]
	if !ok {
		return nil, fmt.Errorf("package %s not loaded", name.Module)
	}
	obj := pkg.Types.Scope().Lookup(name.Name)
	if obj == nil {
		return nil, fmt.Errorf("%s not found in package %s", name.Name, name.Module)
	}
	return obj, nil
}

// recordOf builds a record object from a named struct type.
func (p *Provider) recordOf(name ir.TypeName, tn *types.TypeName) (*ir.Object, error) {
	st, ok := tn.Type().Underlying().(*types.Struct)
	if !ok {
		return nil, fmt.Errorf("%s is not a struct type", name)
	}
	anns, err := p.structAnnotations(name, st)
	if err != nil {
		return nil, err
	}
	return &ir.Object{Name: name, Annotations: anns}, nil
}

// structAnnotations converts struct fields to annotations, flattening
// embedded structs the way encoding/json promotes their fields.
func (p *Provider) structAnnotations(name ir.TypeName, st *types.Struct) ([]ir.Annotation, error) {
	var anns []ir.Annotation
	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		if !field.Exported() {
			continue
		}
		tags := parseStructTag(st.Tag(i))

		jsonName, _, skip := jsonTagName(tags["json"])
		if skip {
			continue
		}

		if field.Embedded() && jsonName == "" {
			ft := field.Type()
			if ptr, ok := ft.(*types.Pointer); ok {
				ft = ptr.Elem()
			}
			if est, ok := ft.Underlying().(*types.Struct); ok {
				embedded, err := p.structAnnotations(name, est)
				if err != nil {
					return nil, err
				}
				anns = append(anns, embedded...)
				continue
			}
		}

		ann, err := p.fieldAnnotation(name, field, tags, jsonName)
		if err != nil {
			return nil, err
		}
		anns = append(anns, ann)
	}
	return anns, nil
}

func (p *Provider) fieldAnnotation(owner ir.TypeName, field *types.Var, tags map[string]string, jsonName string) (ir.Annotation, error) {
	fname := jsonName
	if fname == "" {
		fname = field.Name()
	}

	var expr ir.TypeExpr
	switch {
	case tags["ts"] != "":
		// Explicit override, resolved at translation time in this
		// package's scope.
		expr = ir.Fwd(tags["ts"], owner.Module)
	case tags["wire"] != "":
		var err error
		expr, err = wireExpr(field.Type(), tags["wire"])
		if err != nil {
			return ir.Annotation{}, fmt.Errorf("%s.%s: %w", owner.Name, field.Name(), err)
		}
	default:
		expr = p.exprOf(field.Type())
	}

	ann := ir.Annotation{Name: fname, Type: expr}
	if raw, ok := tags["default"]; ok {
		if strings.Contains(tags["validate"], "required") {
			return ir.Annotation{}, fmt.Errorf(
				"%s.%s: a required field cannot declare a default", owner.Name, field.Name())
		}
		v, err := parseValue(raw)
		if err != nil {
			return ir.Annotation{}, fmt.Errorf("%s.%s: bad default %q: %w", owner.Name, field.Name(), raw, err)
		}
		ann.Default = &ir.Value{V: v}
	}
	return ann, nil
}

// wireExpr applies a wire tag to a []byte field: base64 keeps the string
// form, intlist sends the raw byte values.
func wireExpr(t types.Type, wire string) (ir.TypeExpr, error) {
	slice, ok := t.(*types.Slice)
	if !ok || !isByte(slice.Elem()) {
		return nil, fmt.Errorf("wire tag %q only applies to []byte fields", wire)
	}
	switch wire {
	case "base64":
		return ir.Bytes(), nil
	case "intlist":
		return ir.SeqOf(ir.Num()), nil
	default:
		return nil, fmt.Errorf("unknown wire tag %q", wire)
	}
}

// funcOf builds a callable object from a package-level function. Context
// parameters and error results are dropped: neither crosses the wire.
func (p *Provider) funcOf(name ir.TypeName, fn *types.Func) (*ir.Object, error) {
	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return nil, fmt.Errorf("%s is not a function", name)
	}

	defaults, err := p.paramDefaults(fn)
	if err != nil {
		return nil, err
	}

	var anns []ir.Annotation
	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		param := params.At(i)
		if isContext(param.Type()) {
			continue
		}
		pname := param.Name()
		if pname == "" || pname == "_" {
			return nil, fmt.Errorf("%s: parameter %d has no name", name, i)
		}
		ann := ir.Annotation{Name: pname, Type: p.exprOf(param.Type())}
		if v, ok := defaults[pname]; ok {
			ann.Default = &ir.Value{V: v}
			delete(defaults, pname)
		}
		anns = append(anns, ann)
	}
	for pname := range defaults {
		return nil, fmt.Errorf("%s: default for unknown parameter %q", name, pname)
	}

	ret := p.returnExpr(sig.Results())
	anns = append(anns, ir.Annotation{Name: ir.Return, Type: ret})

	return &ir.Object{Name: name, IsFunc: true, Annotations: anns}, nil
}

// returnExpr picks the wire-visible result: the first non-error result, or
// null for a function that returns nothing.
func (p *Provider) returnExpr(results *types.Tuple) ir.TypeExpr {
	for i := 0; i < results.Len(); i++ {
		if isError(results.At(i).Type()) {
			continue
		}
		return p.exprOf(results.At(i).Type())
	}
	return ir.Null()
}

// exprOf canonicalizes a Go type into the closed TypeExpr union. Everything
// the generator cannot express degrades to any with a warning.
func (p *Provider) exprOf(t types.Type) ir.TypeExpr {
	switch typ := t.(type) {
	case *types.Basic:
		return basicExpr(typ)

	case *types.Pointer:
		if isFileHeader(typ.Elem()) {
			return ir.File()
		}
		return ir.UnionOf(p.exprOf(typ.Elem()), ir.Null())

	case *types.Slice:
		if isByte(typ.Elem()) {
			return ir.Bytes()
		}
		return ir.SeqOf(p.exprOf(typ.Elem()))

	case *types.Array:
		return ir.SeqOf(p.exprOf(typ.Elem()))

	case *types.Map:
		return ir.MapOf(p.exprOf(typ.Key()), p.exprOf(typ.Elem()))

	case *types.Named:
		return p.namedExpr(typ)

	case *types.Alias:
		return p.exprOf(typ.Rhs())

	case *types.Interface:
		if !typ.Empty() {
			p.warn("INTERFACE_TYPE",
				fmt.Sprintf("interface type %s mapped to 'any'", typ.String()), "")
		}
		return ir.Any()

	default:
		p.warn("UNSUPPORTED_TYPE",
			fmt.Sprintf("unsupported type %s mapped to 'any'", t.String()), "")
		return ir.Any()
	}
}

func (p *Provider) namedExpr(named *types.Named) ir.TypeExpr {
	obj := named.Obj()
	if obj.Pkg() == nil {
		// Universe scope: error is handled by callers, anything else is any.
		return ir.Any()
	}
	path := obj.Pkg().Path()

	// Wire-level special cases.
	if path == "time" && obj.Name() == "Time" {
		return ir.Str()
	}
	if isFileHeader(named) {
		return ir.File()
	}

	switch under := named.Underlying().(type) {
	case *types.Struct:
		return ir.Ref(obj.Name(), path)

	case *types.Basic:
		if values := p.constGroup(named); len(values) > 0 {
			return ir.Lit(values...)
		}
		return basicExpr(under)

	case *types.Interface:
		p.warn("INTERFACE_TYPE",
			fmt.Sprintf("interface type %s mapped to 'any'", obj.Name()), obj.Name())
		return ir.Any()

	default:
		return p.exprOf(under)
	}
}

// constGroup collects the values of package constants declared with exactly
// this named type: such a group renders as a literal union.
func (p *Provider) constGroup(named *types.Named) []any {
	pkg := named.Obj().Pkg()
	if pkg == nil {
		return nil
	}
	var values []any
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		cnst, ok := scope.Lookup(name).(*types.Const)
		if !ok {
			continue
		}
		if types.Identical(cnst.Type(), named) {
			values = append(values, constValue(cnst.Val()))
		}
	}
	return values
}

func constValue(v constant.Value) any {
	switch v.Kind() {
	case constant.String:
		return constant.StringVal(v)
	case constant.Int:
		i64, _ := constant.Int64Val(v)
		return i64
	case constant.Float:
		f64, _ := constant.Float64Val(v)
		return f64
	case constant.Bool:
		return constant.BoolVal(v)
	default:
		return v.String()
	}
}

func basicExpr(basic *types.Basic) ir.TypeExpr {
	switch {
	case basic.Info()&types.IsBoolean != 0:
		return ir.Bool()
	case basic.Info()&types.IsString != 0:
		return ir.Str()
	case basic.Info()&types.IsNumeric != 0:
		return ir.Num()
	case basic.Kind() == types.UntypedNil:
		return ir.Null()
	default:
		return ir.Any()
	}
}

func isByte(t types.Type) bool {
	basic, ok := t.(*types.Basic)
	return ok && (basic.Kind() == types.Byte || basic.Kind() == types.Uint8)
}

func isContext(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok || named.Obj().Pkg() == nil {
		return false
	}
	return named.Obj().Pkg().Path() == "context" && named.Obj().Name() == "Context"
}

func isError(t types.Type) bool {
	named, ok := t.(*types.Named)
	return ok && named.Obj().Pkg() == nil && named.Obj().Name() == "error"
}

func isFileHeader(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok || named.Obj().Pkg() == nil {
		return false
	}
	return named.Obj().Pkg().Path() == "mime/multipart" && named.Obj().Name() == "FileHeader"
}

// jsonTagName splits a json struct tag into the name override and whether
// the field is skipped outright.
func jsonTagName(tag string) (name string, opts []string, skip bool) {
	if tag == "" {
		return "", nil, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] == "-" && len(parts) == 1 {
		return "", nil, true
	}
	return parts[0], parts[1:], false
}

// parseStructTag parses a struct tag string into a map.
func parseStructTag(tag string) map[string]string {
	result := make(map[string]string)
	for tag != "" {
		i := 0
		for i < len(tag) && tag[i] == ' ' {
			i++
		}
		tag = tag[i:]
		if tag == "" {
			break
		}

		i = 0
		for i < len(tag) && tag[i] != ':' && tag[i] != ' ' {
			i++
		}
		if i == 0 || i+1 >= len(tag) || tag[i] != ':' {
			break
		}
		key := tag[:i]
		tag = tag[i+1:]

		if tag[0] != '"' {
			break
		}
		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(tag) {
			break
		}
		value := tag[1:i]
		tag = tag[i+1:]

		result[key] = value
	}
	return result
}
