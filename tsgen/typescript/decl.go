// Package typescript renders footprint's intermediate representation as
// TypeScript declarations: interfaces for records, typed function stubs,
// wire-format serializers and the anonymous forms the route binder embeds
// into generated client classes.
package typescript

import (
	"strings"
)

const (
	// Indent and NL are the rendering defaults shared by all declarations.
	Indent = "  "
	NL     = "\n"
)

// Decl is a complete named TypeScript declaration: an interface or function.
type Decl interface {
	ToTS() string
	DeclName() string
	IsTyped() bool
}

// TSField is one translated member: a struct field, function argument or
// interface entry, with its rendered TypeScript type and optional default.
type TSField struct {
	Name string
	Type string

	// IsRecord and IsSeq drive serializer generation.
	IsRecord bool
	IsSeq    bool

	// RequiresPost marks file-upload members that cannot travel in a query string.
	RequiresPost bool

	// Default is the rendered default value, empty if the member is required.
	Default string

	// Colon overrides the name/type separator (class methods use " ").
	Colon string
}

func (f TSField) colon() string {
	if f.Colon != "" {
		return f.Colon
	}
	return ": "
}

func (f TSField) defaultSuffix(asComment bool) string {
	if f.Default == "" {
		return ""
	}
	if asComment {
		return " /* =" + f.Default + " */"
	}
	return " = " + f.Default
}

// ToTS renders the field as `name?: type /* =default */`. A default written
// as a real initializer excludes the optional marker: TypeScript rejects the
// combination.
func (f TSField) ToTS(withDefault, withOptional, asComment bool) string {
	var def string
	if withDefault {
		def = f.defaultSuffix(asComment)
	}
	q := ""
	if withOptional && f.Default != "" && !(withDefault && !asComment) {
		q = "?"
	}
	return f.Name + q + f.colon() + f.Type + def
}

// ToJS renders the field without type information.
func (f TSField) ToJS(withDefault, asComment bool) string {
	var def string
	if withDefault {
		def = f.defaultSuffix(asComment)
	}
	return f.Name + def
}

// IsTyped reports whether the field has a useful type.
func (f TSField) IsTyped() bool { return f.Type != "any" }

// elemType returns the element type of a `T[]` rendering.
func (f TSField) elemType() string {
	return strings.TrimSuffix(f.Type, "[]")
}

// Serializer renders the field's contribution to a record serializer body.
func (f TSField) Serializer(this string) string {
	if f.IsRecord {
		return f.Name + ": " + f.Type + "_serializer(" + this + f.Name + ")"
	}
	if f.IsSeq && strings.HasSuffix(f.Type, "[]") {
		if s := serializerFor(f.elemType()); s != "" {
			return f.Name + ": " + this + f.Name + ".map(v => " + s + "(v))"
		}
		return f.Name + ": " + this + f.Name
	}
	if s := serializerFor(f.Type); s != "" {
		return f.Name + ": " + s + "(" + this + f.Name + ")"
	}
	return f.Name + ": " + this + f.Name
}

// serializerFor returns the serializer function name for a rendered type,
// or "" when the value passes through unchanged.
func serializerFor(typ string) string {
	switch typ {
	case "string", "number", "boolean", "null", "any", "File":
		return ""
	}
	if strings.Contains(typ, "|") || strings.HasPrefix(typ, "{") || strings.HasPrefix(typ, "(") {
		return ""
	}
	if strings.HasSuffix(typ, "[]") {
		return serializerFor(strings.TrimSuffix(typ, "[]"))
	}
	return typ + "_serializer"
}

// TSInterface is a named record declaration.
type TSInterface struct {
	Name   string
	Fields []TSField
	Export bool
}

// NewInterface returns an exported interface declaration.
func NewInterface(name string, fields []TSField) *TSInterface {
	return &TSInterface{Name: name, Fields: fields, Export: true}
}

// DeclName returns the interface name.
func (i *TSInterface) DeclName() string { return i.Name }

// ToTS renders the full interface declaration.
func (i *TSInterface) ToTS() string {
	export := ""
	if i.Export {
		export = "export "
	}
	return export + "interface " + i.Name + " {" + NL + i.tsFields() + NL + "}"
}

func (i *TSInterface) tsFields() string {
	lines := make([]string, len(i.Fields))
	for n, f := range i.Fields {
		lines[n] = Indent + f.ToTS(true, true, true)
	}
	return strings.Join(lines, NL)
}

// Anonymous renders the interface as a structural type literal.
func (i *TSInterface) Anonymous() string {
	parts := make([]string, len(i.Fields))
	for n, f := range i.Fields {
		parts[n] = f.ToTS(true, false, true)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// IsTyped reports whether every field has a non-any rendering.
func (i *TSInterface) IsTyped() bool {
	for _, f := range i.Fields {
		if !f.IsTyped() {
			return false
		}
	}
	return true
}

// Serializer returns a function declaration that re-encodes a value of this
// interface into its wire form.
func (i *TSInterface) Serializer() *TSFunction {
	kv := make([]string, len(i.Fields))
	for n, f := range i.Fields {
		kv[n] = f.Serializer("input.")
	}
	sep := NL + Indent
	body := "return {" + sep + strings.Join(kv, ","+sep) + NL + "};"
	return &TSFunction{
		Name:       i.Name + "_serializer",
		Args:       []TSField{{Name: "input", Type: i.Name, IsRecord: true}},
		ReturnType: "{ [key: string]: any }",
		Export:     true,
		Body:       body,
	}
}

// TSFunction is a function declaration. With an empty Body it renders as a
// function type alias; with a body it renders as an arrow-function const.
type TSFunction struct {
	Name       string
	Args       []TSField
	ReturnType string
	Export     bool
	Body       string
}

// DeclName returns the function name.
func (f *TSFunction) DeclName() string { return f.Name }

// RequiresPost reports whether any argument needs multipart/POST handling.
func (f *TSFunction) RequiresPost() bool {
	for _, a := range f.Args {
		if a.RequiresPost {
			return true
		}
	}
	return false
}

// RemoveArgs returns a copy of the function without the named arguments.
func (f *TSFunction) RemoveArgs(names ...string) *TSFunction {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	out := *f
	out.Args = nil
	for _, a := range f.Args {
		if !drop[a.Name] {
			out.Args = append(out.Args, a)
		}
	}
	return &out
}

// ToTS renders the named declaration.
func (f *TSFunction) ToTS() string {
	export := ""
	if f.Export {
		export = "export "
	}
	if f.Body == "" {
		return export + "type " + f.Name + " = (" + f.tsArgs() + ") => " + f.ReturnType
	}
	return export + "const " + f.Name + " = (" + f.tsArgs() + "): " + f.ReturnType + " =>" + f.tsBody()
}

// ToJS renders the declaration without type annotations.
func (f *TSFunction) ToJS() string {
	if f.Body == "" {
		return f.Name + " = (" + f.jsArgs() + ")"
	}
	return f.Name + " = (" + f.jsArgs() + ")" + f.tsBody()
}

func (f *TSFunction) tsArgs() string {
	parts := make([]string, len(f.Args))
	for n, a := range f.Args {
		parts[n] = a.ToTS(true, true, f.Body == "")
	}
	return strings.Join(parts, ", ")
}

func (f *TSFunction) jsArgs() string {
	parts := make([]string, len(f.Args))
	for n, a := range f.Args {
		parts[n] = a.ToJS(true, f.Body == "")
	}
	return strings.Join(parts, ", ")
}

func (f *TSFunction) tsBody() string {
	if f.Body == "" {
		return ""
	}
	tab := NL + Indent
	return " {" + tab + strings.Join(strings.Split(f.Body, "\n"), tab) + NL + "}"
}

// Anonymous renders the function as an arrow expression (or, with a body,
// a method-style implementation).
func (f *TSFunction) Anonymous(asTS bool) string {
	if !asTS {
		return "(" + f.jsArgs() + ")" + f.tsBody()
	}
	if f.Body == "" {
		return "(" + f.tsArgs() + ") => " + f.ReturnType
	}
	return "(" + f.tsArgs() + "): " + f.ReturnType + f.tsBody()
}

// IsTyped reports whether every argument and the return type are non-any.
func (f *TSFunction) IsTyped() bool {
	for _, a := range f.Args {
		if !a.IsTyped() {
			return false
		}
	}
	return f.ReturnType != "any"
}

// Promise returns a copy whose return type is wrapped in Promise<...>.
func (f *TSFunction) Promise() *TSFunction {
	out := *f
	out.ReturnType = "Promise<" + f.ReturnType + ">"
	return &out
}

// TSClass is a class declaration built by the route binder: each field is an
// endpoint method rendered with a space separator instead of ": ".
type TSClass struct {
	Name       string
	Fields     []TSField
	Implements bool
	Export     bool
}

// DeclName returns the class name.
func (c *TSClass) DeclName() string { return c.Name + "Class" }

// ToTS renders the class declaration.
func (c *TSClass) ToTS() string {
	export := ""
	if c.Export {
		export = "export "
	}
	implements := ""
	if c.Implements {
		implements = " implements " + c.Name
	}
	lines := make([]string, len(c.Fields))
	for n, f := range c.Fields {
		lines[n] = Indent + f.ToTS(true, true, true)
	}
	return export + "class " + c.Name + "Class" + implements + " {" + NL +
		strings.Join(lines, NL) + NL + "}"
}

// IsTyped reports whether every method has a non-any rendering.
func (c *TSClass) IsTyped() bool {
	for _, f := range c.Fields {
		if !f.IsTyped() {
			return false
		}
	}
	return true
}
