package typescript

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arabidopsis/footprint/tsgen/ir"
)

// ErrTooComplex marks a function argument whose type cannot be decoded from
// an HTTP request: a union of more than one non-null member that includes a
// composite type.
type ErrTooComplex struct {
	Annotation string
	Rendered   string
}

func (e *ErrTooComplex) Error() string {
	return fmt.Sprintf("type of %q is too complex: %s", e.Annotation, e.Rendered)
}

// Resolver supplies type definitions on demand: the translator asks for the
// annotations behind a record reference, or the type behind a forward
// reference, only when it meets one.
type Resolver interface {
	// ResolveType returns the record or function object behind a name.
	ResolveType(name ir.TypeName) (*ir.Object, error)

	// ResolveForward returns the type a forward reference names.
	ResolveForward(name ir.TypeName) (ir.TypeExpr, error)
}

// primitives maps IR primitives to their TypeScript spellings.
var primitives = map[ir.PrimitiveKind]string{
	ir.PrimitiveString: "string",
	ir.PrimitiveNumber: "number",
	ir.PrimitiveBool:   "boolean",
	ir.PrimitiveNull:   "null",
	ir.PrimitiveBytes:  "string",
	ir.PrimitiveFile:   "File",
	ir.PrimitiveAny:    "any",
}

// Deferred is a record whose declaration was postponed during translation.
// Build produces it on demand; building may defer further records.
type Deferred struct {
	Name  ir.TypeName
	Build func() (Decl, error)
}

// ContextOptions configure a translation context.
type ContextOptions struct {
	// Variables are argument names dropped from function signatures, on top
	// of the implicit return pseudo-annotation.
	Variables []string

	// Lazy defers every record reference instead of inlining top-level ones.
	Lazy bool
}

// Context carries the state of one translation run: which records have been
// seen, which are mid-build and which are fully declared. It is not safe for
// concurrent use.
type Context struct {
	resolver  Resolver
	variables map[string]struct{}
	lazy      bool

	seen  map[ir.TypeName]struct{}
	order []ir.TypeName
	built map[ir.TypeName]struct{}

	// building is the stack of records currently being declared; meeting one
	// again is a self reference and renders as the bare name.
	building []ir.TypeName
}

// NewContext returns a context resolving types through r.
func NewContext(r Resolver, opts ContextOptions) *Context {
	vars := make(map[string]struct{}, len(opts.Variables))
	for _, v := range opts.Variables {
		vars[v] = struct{}{}
	}
	return &Context{
		resolver:  r,
		variables: vars,
		lazy:      opts.Lazy,
		seen:      make(map[ir.TypeName]struct{}),
		built:     make(map[ir.TypeName]struct{}),
	}
}

// deferRecord queues a record for a later Drain pass, once.
func (c *Context) deferRecord(name ir.TypeName) {
	if _, ok := c.seen[name]; ok {
		return
	}
	c.seen[name] = struct{}{}
	c.order = append(c.order, name)
}

func (c *Context) isBuilding(name ir.TypeName) bool {
	for _, b := range c.building {
		if b == name {
			return true
		}
	}
	return false
}

// Pending reports whether a record is queued for a later Drain pass, so a
// driver can skip building it eagerly.
func (c *Context) Pending(name ir.TypeName) bool {
	_, ok := c.seen[name]
	return ok
}

// Translate renders a type expression as TypeScript. nested marks positions
// inside another type (struct fields, union members, sequence elements)
// where record references must stay by-name.
func (c *Context) Translate(expr ir.TypeExpr, nested bool) (string, error) {
	switch t := expr.(type) {
	case *ir.Primitive:
		return primitives[t.Primitive], nil

	case *ir.Record:
		return c.translateRecord(t, nested)

	case *ir.ForwardRef:
		return c.translateForward(t, nested)

	case *ir.Seq:
		elem, err := c.Translate(t.Elem, true)
		if err != nil {
			return "", err
		}
		if strings.Contains(elem, "|") {
			elem = "(" + elem + ")"
		}
		return elem + "[]", nil

	case *ir.Mapping:
		key, err := c.Translate(t.Key, true)
		if err != nil {
			return "", err
		}
		val, err := c.Translate(t.Value, true)
		if err != nil {
			return "", err
		}
		return "{ [name: " + key + "]: " + val + " }", nil

	case *ir.Union:
		return c.translateUnion(t)

	case *ir.Literal:
		parts := make([]string, len(t.Values))
		for n, v := range t.Values {
			parts[n] = Repr(v)
		}
		return strings.Join(parts, " | "), nil

	default:
		return "", fmt.Errorf("unknown type expression kind %s", expr.Kind())
	}
}

func (c *Context) translateRecord(t *ir.Record, nested bool) (string, error) {
	name := t.Name
	if c.isBuilding(name) {
		return name.Name, nil
	}
	if _, ok := c.seen[name]; ok {
		return name.Name, nil
	}
	if nested || c.lazy {
		if _, ok := c.built[name]; !ok {
			c.deferRecord(name)
		}
		return name.Name, nil
	}
	if _, ok := c.built[name]; ok {
		// Already emitted as a named declaration; inlining it again would
		// un-mark it and let a Drain pass declare it twice.
		return name.Name, nil
	}
	obj, err := c.resolver.ResolveType(name)
	if err != nil {
		// Unresolvable at the top level: leave it by name and let a
		// Drain pass surface the error.
		c.deferRecord(name)
		return name.Name, nil
	}
	iface, err := c.interfaceOf(obj)
	if err != nil {
		return "", err
	}
	// The inline rendering is anonymous; the name stays eligible for a
	// later named declaration.
	delete(c.built, name)
	return iface.Anonymous(), nil
}

func (c *Context) translateForward(t *ir.ForwardRef, nested bool) (string, error) {
	name := ir.TypeName{Name: t.Target, Module: t.Module}
	if _, ok := c.seen[name]; ok {
		return t.Target, nil
	}
	expr, err := c.resolver.ResolveForward(name)
	if err != nil {
		return "", fmt.Errorf("unknown forward reference %s: %w", name, err)
	}
	return c.Translate(expr, nested)
}

func (c *Context) translateUnion(t *ir.Union) (string, error) {
	rendered := make([]string, 0, len(t.Members))
	seen := make(map[string]struct{}, len(t.Members))
	hasNull := false
	for _, m := range t.Members {
		s, err := c.Translate(m, true)
		if err != nil {
			return "", err
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		if s == "null" {
			hasNull = true
			continue
		}
		rendered = append(rendered, s)
	}
	sort.Strings(rendered)
	if hasNull {
		rendered = append(rendered, "null")
	}
	return strings.Join(rendered, " | "), nil
}

// tooComplex reports whether a union type cannot be decoded from request
// parameters: more than one non-null member, at least one of them composite.
func tooComplex(expr ir.TypeExpr) bool {
	u, ok := expr.(*ir.Union)
	if !ok {
		return false
	}
	nonNull := 0
	composite := false
	for _, m := range u.Members {
		if ir.IsNull(m) {
			continue
		}
		nonNull++
		switch m.Kind() {
		case ir.KindRecord, ir.KindSeq, ir.KindMapping, ir.KindUnion:
			composite = true
		}
	}
	return nonNull > 1 && composite
}

// field translates one annotation. arg marks function-argument position:
// record references defer instead of inlining, and too-complex unions error.
func (c *Context) field(a ir.Annotation, arg bool) (TSField, error) {
	if arg && tooComplex(a.Type) {
		rendered, _ := c.Translate(a.Type, true)
		return TSField{}, &ErrTooComplex{Annotation: a.Name, Rendered: rendered}
	}
	typ, err := c.Translate(a.Type, arg)
	if err != nil {
		return TSField{}, fmt.Errorf("%s: %w", a.Name, err)
	}
	f := TSField{
		Name:         a.Name,
		Type:         typ,
		IsRecord:     a.Type.Kind() == ir.KindRecord,
		IsSeq:        a.Type.Kind() == ir.KindSeq,
		RequiresPost: a.RequiresPost(),
	}
	if a.HasDefault() {
		f.Default = Repr(a.Default.V)
	}
	return f, nil
}

// interfaceOf builds the interface declaration for a record object, tracking
// it on the building stack so self references render by name.
func (c *Context) interfaceOf(o *ir.Object) (*TSInterface, error) {
	c.built[o.Name] = struct{}{}
	c.building = append(c.building, o.Name)
	defer func() { c.building = c.building[:len(c.building)-1] }()

	fields := make([]TSField, 0, len(o.Annotations))
	for _, a := range o.Annotations {
		f, err := c.field(a, false)
		if err != nil {
			return nil, fmt.Errorf("%s.%w", o.Name.Name, err)
		}
		fields = append(fields, f)
	}
	return NewInterface(o.Name.Name, fields), nil
}

// functionOf builds the function declaration for a callable object. Context
// variables and the return pseudo-annotation are excluded from the argument
// list.
func (c *Context) functionOf(o *ir.Object) (*TSFunction, error) {
	c.built[o.Name] = struct{}{}
	c.building = append(c.building, o.Name)
	defer func() { c.building = c.building[:len(c.building)-1] }()

	var args []TSField
	ret := "any"
	for _, a := range o.Annotations {
		if a.Name == ir.Return {
			typ, err := c.Translate(a.Type, true)
			if err != nil {
				return nil, fmt.Errorf("%s return: %w", o.Name.Name, err)
			}
			if typ == "null" {
				typ = "void"
			}
			ret = typ
			continue
		}
		if _, ok := c.variables[a.Name]; ok {
			continue
		}
		f, err := c.field(a, true)
		if err != nil {
			return nil, fmt.Errorf("%s.%w", o.Name.Name, err)
		}
		args = append(args, f)
	}
	return &TSFunction{Name: o.Name.Name, Args: args, ReturnType: ret, Export: true}, nil
}

// Build produces the declaration for an object: an interface for records, a
// function type for callables.
func (c *Context) Build(o *ir.Object) (Decl, error) {
	if o.IsFunc {
		return c.functionOf(o)
	}
	return c.interfaceOf(o)
}

// Drain returns the records deferred so far, clearing the queue. Building a
// deferred record may defer more; callers loop until Drain returns nothing.
func (c *Context) Drain() []Deferred {
	if len(c.order) == 0 {
		return nil
	}
	pending := c.order
	c.order = nil
	c.seen = make(map[ir.TypeName]struct{})

	var out []Deferred
	for _, name := range pending {
		if _, ok := c.built[name]; ok {
			continue
		}
		name := name
		out = append(out, Deferred{
			Name: name,
			Build: func() (Decl, error) {
				obj, err := c.resolver.ResolveType(name)
				if err != nil {
					return nil, err
				}
				return c.Build(obj)
			},
		})
	}
	return out
}
