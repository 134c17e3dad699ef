package typescript

import (
	"errors"
	"strings"
	"testing"

	"github.com/arabidopsis/footprint/tsgen/ir"
)

// fakeResolver serves objects and forward references from in-memory maps.
type fakeResolver struct {
	objects  map[ir.TypeName]*ir.Object
	forwards map[ir.TypeName]ir.TypeExpr
}

func (r *fakeResolver) ResolveType(name ir.TypeName) (*ir.Object, error) {
	o, ok := r.objects[name]
	if !ok {
		return nil, errors.New("no such type: " + name.String())
	}
	return o, nil
}

func (r *fakeResolver) ResolveForward(name ir.TypeName) (ir.TypeExpr, error) {
	e, ok := r.forwards[name]
	if !ok {
		return nil, errors.New("no such forward: " + name.String())
	}
	return e, nil
}

func record(name, module string, fields ...ir.Annotation) *ir.Object {
	return &ir.Object{Name: ir.TypeName{Name: name, Module: module}, Annotations: fields}
}

func fn(name, module string, anns ...ir.Annotation) *ir.Object {
	return &ir.Object{Name: ir.TypeName{Name: name, Module: module}, IsFunc: true, Annotations: anns}
}

func ann(name string, t ir.TypeExpr) ir.Annotation {
	return ir.Annotation{Name: name, Type: t}
}

func TestTranslate_Primitives(t *testing.T) {
	ctx := NewContext(&fakeResolver{}, ContextOptions{})
	tests := []struct {
		in   ir.TypeExpr
		want string
	}{
		{ir.Str(), "string"},
		{ir.Num(), "number"},
		{ir.Bool(), "boolean"},
		{ir.Null(), "null"},
		{ir.Bytes(), "string"},
		{ir.File(), "File"},
		{ir.Any(), "any"},
		{ir.SeqOf(ir.Num()), "number[]"},
		{ir.MapOf(ir.Str(), ir.Num()), "{ [name: string]: number }"},
		{ir.UnionOf(ir.Str(), ir.Null()), "string | null"},
		{ir.SeqOf(ir.UnionOf(ir.Str(), ir.Num())), "(number | string)[]"},
		{ir.Lit("a", "b"), "'a' | 'b'"},
	}
	for _, tt := range tests {
		got, err := ctx.Translate(tt.in, false)
		if err != nil {
			t.Fatalf("Translate(%v): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Translate(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTranslate_SeqIdempotent(t *testing.T) {
	ctx := NewContext(&fakeResolver{}, ContextOptions{})
	inner := ir.UnionOf(ir.Str(), ir.Null())
	one, err := ctx.Translate(inner, true)
	if err != nil {
		t.Fatal(err)
	}
	many, err := ctx.Translate(ir.SeqOf(inner), true)
	if err != nil {
		t.Fatal(err)
	}
	if many != "("+one+")[]" {
		t.Errorf("SeqOf = %q, elem = %q", many, one)
	}
}

func TestTranslate_NullLast(t *testing.T) {
	ctx := NewContext(&fakeResolver{}, ContextOptions{})
	got, err := ctx.Translate(ir.UnionOf(ir.Null(), ir.Num(), ir.Str()), true)
	if err != nil {
		t.Fatal(err)
	}
	if got != "number | string | null" {
		t.Errorf("union = %q", got)
	}
}

func TestTranslate_RecordInline(t *testing.T) {
	user := ir.TypeName{Name: "User", Module: "app/models"}
	r := &fakeResolver{objects: map[ir.TypeName]*ir.Object{
		user: record("User", "app/models", ann("name", ir.Str())),
	}}
	ctx := NewContext(r, ContextOptions{})
	got, err := ctx.Translate(ir.Ref("User", "app/models"), false)
	if err != nil {
		t.Fatal(err)
	}
	if got != "{ name: string }" {
		t.Errorf("top-level record = %q", got)
	}

	// Nested positions keep the reference by name and defer the declaration.
	got, err = ctx.Translate(ir.SeqOf(ir.Ref("User", "app/models")), false)
	if err != nil {
		t.Fatal(err)
	}
	if got != "User[]" {
		t.Errorf("nested record = %q", got)
	}
	if !ctx.Pending(user) {
		t.Error("nested record was not deferred")
	}
}

func TestTranslate_BuiltRecordStaysByName(t *testing.T) {
	x := ir.TypeName{Name: "X", Module: "app/m"}
	r := &fakeResolver{objects: map[ir.TypeName]*ir.Object{
		x: record("X", "app/m", ann("v", ir.Num())),
	}}
	ctx := NewContext(r, ContextOptions{})
	if _, err := ctx.Build(r.objects[x]); err != nil {
		t.Fatal(err)
	}

	// A later top-level reference renders by name instead of re-inlining
	// the already declared record.
	got, err := ctx.Translate(ir.Ref("X", "app/m"), false)
	if err != nil {
		t.Fatal(err)
	}
	if got != "X" {
		t.Errorf("built record rendered as %q, want bare name", got)
	}

	// Nested references after the named declaration must not re-queue it.
	if _, err := ctx.Translate(ir.UnionOf(ir.Ref("X", "app/m"), ir.Null()), true); err != nil {
		t.Fatal(err)
	}
	if ds := ctx.Drain(); len(ds) != 0 {
		t.Errorf("Drain() re-queued built record %s", ds[0].Name)
	}
}

func TestTranslate_SelfReference(t *testing.T) {
	node := ir.TypeName{Name: "Node", Module: "app/tree"}
	r := &fakeResolver{objects: map[ir.TypeName]*ir.Object{
		node: record("Node", "app/tree",
			ann("value", ir.Num()),
			ann("children", ir.SeqOf(ir.Ref("Node", "app/tree"))),
		),
	}}
	ctx := NewContext(r, ContextOptions{})
	decl, err := ctx.Build(r.objects[node])
	if err != nil {
		t.Fatal(err)
	}
	got := decl.ToTS()
	if !strings.Contains(got, "children: Node[]") {
		t.Errorf("self reference not by name:\n%s", got)
	}
	// Already built while on the stack: no deferred copy.
	if ds := ctx.Drain(); len(ds) != 0 {
		t.Errorf("Drain() returned %d deferred for a built record", len(ds))
	}
}

func TestTranslate_SameNameDifferentModule(t *testing.T) {
	a := ir.TypeName{Name: "User", Module: "app/admin"}
	b := ir.TypeName{Name: "User", Module: "app/public"}
	r := &fakeResolver{objects: map[ir.TypeName]*ir.Object{
		a: record("User", "app/admin", ann("role", ir.Str())),
		b: record("User", "app/public", ann("name", ir.Str())),
	}}
	ctx := NewContext(r, ContextOptions{Lazy: true})
	if _, err := ctx.Translate(&ir.Record{Name: a}, true); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Translate(&ir.Record{Name: b}, true); err != nil {
		t.Fatal(err)
	}
	ds := ctx.Drain()
	if len(ds) != 2 {
		t.Fatalf("Drain() = %d deferred, want 2", len(ds))
	}
	for _, d := range ds {
		if _, err := d.Build(); err != nil {
			t.Errorf("Build(%s): %v", d.Name, err)
		}
	}
}

func TestDrain_FixedPoint(t *testing.T) {
	order := ir.TypeName{Name: "Order", Module: "app/shop"}
	item := ir.TypeName{Name: "Item", Module: "app/shop"}
	r := &fakeResolver{objects: map[ir.TypeName]*ir.Object{
		order: record("Order", "app/shop", ann("items", ir.SeqOf(ir.Ref("Item", "app/shop")))),
		item:  record("Item", "app/shop", ann("sku", ir.Str())),
	}}
	ctx := NewContext(r, ContextOptions{Lazy: true})
	if _, err := ctx.Translate(&ir.Record{Name: order}, false); err != nil {
		t.Fatal(err)
	}

	var names []string
	for rounds := 0; ; rounds++ {
		if rounds > 10 {
			t.Fatal("drain did not reach a fixed point")
		}
		ds := ctx.Drain()
		if len(ds) == 0 {
			break
		}
		for _, d := range ds {
			if _, err := d.Build(); err != nil {
				t.Fatal(err)
			}
			names = append(names, d.Name.Name)
		}
	}
	if got := strings.Join(names, ","); got != "Order,Item" {
		t.Errorf("drained %q, want Order,Item", got)
	}
}

func TestFunction_Signature(t *testing.T) {
	user := ir.TypeName{Name: "User", Module: "app/models"}
	r := &fakeResolver{objects: map[ir.TypeName]*ir.Object{
		user: record("User", "app/models", ann("name", ir.Str())),
	}}
	ctx := NewContext(r, ContextOptions{Variables: []string{"conn"}})
	obj := fn("get_user", "app/views",
		ann("conn", ir.Any()),
		ann("id", ir.Num()),
		ann(ir.Return, ir.Ref("User", "app/models")),
	)
	decl, err := ctx.Build(obj)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := decl.ToTS(), "export type get_user = (id: number) => User"; got != want {
		t.Errorf("ToTS() = %q, want %q", got, want)
	}
	if !ctx.Pending(user) {
		t.Error("return record was not deferred")
	}
}

func TestFunction_NullReturnIsVoid(t *testing.T) {
	ctx := NewContext(&fakeResolver{}, ContextOptions{})
	decl, err := ctx.Build(fn("ping", "app/views", ann(ir.Return, ir.Null())))
	if err != nil {
		t.Fatal(err)
	}
	if got := decl.ToTS(); !strings.Contains(got, "=> void") {
		t.Errorf("null return renders as %q", got)
	}
}

func TestFunction_MissingReturnIsAny(t *testing.T) {
	ctx := NewContext(&fakeResolver{}, ContextOptions{})
	decl, err := ctx.Build(fn("fire", "app/views", ann("id", ir.Num())))
	if err != nil {
		t.Fatal(err)
	}
	if got := decl.ToTS(); !strings.Contains(got, "=> any") {
		t.Errorf("missing return renders as %q", got)
	}
	if decl.IsTyped() {
		t.Error("function with an any return reported as typed")
	}
}

func TestFunction_TooComplexArg(t *testing.T) {
	ctx := NewContext(&fakeResolver{}, ContextOptions{})
	obj := fn("save", "app/views",
		ann("payload", ir.UnionOf(ir.Str(), ir.SeqOf(ir.Num()))),
	)
	_, err := ctx.Build(obj)
	var tc *ErrTooComplex
	if !errors.As(err, &tc) {
		t.Fatalf("Build() error = %v, want ErrTooComplex", err)
	}
	if tc.Annotation != "payload" {
		t.Errorf("Annotation = %q", tc.Annotation)
	}
}

func TestForwardRef(t *testing.T) {
	name := ir.TypeName{Name: "Status", Module: "app/models"}
	r := &fakeResolver{forwards: map[ir.TypeName]ir.TypeExpr{
		name: ir.Lit("open", "closed"),
	}}
	ctx := NewContext(r, ContextOptions{})
	got, err := ctx.Translate(ir.Fwd("Status", "app/models"), true)
	if err != nil {
		t.Fatal(err)
	}
	if got != "'closed' | 'open'" && got != "'open' | 'closed'" {
		t.Errorf("forward ref = %q", got)
	}

	_, err = ctx.Translate(ir.Fwd("Missing", "app/models"), true)
	if err == nil || !strings.Contains(err.Error(), "unknown forward reference") {
		t.Errorf("missing forward ref error = %v", err)
	}
}
