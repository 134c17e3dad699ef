package ir

// ExprKind identifies the category of a type expression.
type ExprKind int

const (
	KindPrimitive  ExprKind = iota // built-in type with a fixed TypeScript name
	KindRecord                     // named record (struct) with an owning module
	KindSeq                        // ordered collection ([]T, [N]T)
	KindMapping                    // key-value mapping (map[K]V)
	KindUnion                      // union of member expressions
	KindLiteral                    // set of literal constant values
	KindForwardRef                 // name to be resolved in a module scope
)

// String returns the string representation of the expression kind.
func (k ExprKind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindRecord:
		return "Record"
	case KindSeq:
		return "Seq"
	case KindMapping:
		return "Mapping"
	case KindUnion:
		return "Union"
	case KindLiteral:
		return "Literal"
	case KindForwardRef:
		return "ForwardRef"
	default:
		return "Unknown"
	}
}

// TypeExpr is the base interface for all type expressions.
// The set of implementations is closed: translators may assume an exhaustive
// type switch over the kinds above.
type TypeExpr interface {
	Kind() ExprKind

	// Ensure only types in this package can implement TypeExpr.
	sealed()
}

type exprBase struct{}

func (exprBase) sealed() {}

// PrimitiveKind identifies a primitive with a fixed target-language name.
type PrimitiveKind int

const (
	PrimitiveString PrimitiveKind = iota
	PrimitiveNumber               // all Go numeric kinds collapse to "number"
	PrimitiveBool
	PrimitiveNull  // typed nil / None-equivalent
	PrimitiveBytes // []byte on the wire as base64 -> "string"
	PrimitiveFile  // multipart file upload -> "File", requires POST
	PrimitiveAny
)

// Primitive represents a built-in type that maps to a fixed TypeScript name.
type Primitive struct {
	exprBase
	Primitive PrimitiveKind
}

// Kind returns KindPrimitive.
func (e *Primitive) Kind() ExprKind { return KindPrimitive }

// Record represents a reference to a named record type.
type Record struct {
	exprBase
	Name TypeName
}

// Kind returns KindRecord.
func (e *Record) Kind() ExprKind { return KindRecord }

// Seq represents an ordered collection of elements.
type Seq struct {
	exprBase
	Elem TypeExpr
}

// Kind returns KindSeq.
func (e *Seq) Kind() ExprKind { return KindSeq }

// Mapping represents a key-value mapping.
type Mapping struct {
	exprBase
	Key   TypeExpr
	Value TypeExpr
}

// Kind returns KindMapping.
func (e *Mapping) Kind() ExprKind { return KindMapping }

// Union represents a union of member expressions.
// Invariant (maintained by UnionOf): members are deduplicated and a null
// member, if present, is last. This is a rendering convention, not a
// semantic requirement.
type Union struct {
	exprBase
	Members []TypeExpr
}

// Kind returns KindUnion.
func (e *Union) Kind() ExprKind { return KindUnion }

// Literal represents a set of literal constant values (an enumeration).
type Literal struct {
	exprBase
	Values []any
}

// Kind returns KindLiteral.
func (e *Literal) Kind() ExprKind { return KindLiteral }

// ForwardRef represents a name to be looked up in the owning module's scope
// at translation time.
type ForwardRef struct {
	exprBase
	Target string
	Module string
}

// Kind returns KindForwardRef.
func (e *ForwardRef) Kind() ExprKind { return KindForwardRef }

// Convenience constructors.

// Str returns a Primitive for string.
func Str() *Primitive { return &Primitive{Primitive: PrimitiveString} }

// Num returns a Primitive for a numeric type.
func Num() *Primitive { return &Primitive{Primitive: PrimitiveNumber} }

// Bool returns a Primitive for bool.
func Bool() *Primitive { return &Primitive{Primitive: PrimitiveBool} }

// Null returns a Primitive for the null-equivalent type.
func Null() *Primitive { return &Primitive{Primitive: PrimitiveNull} }

// Bytes returns a Primitive for base64-encoded bytes.
func Bytes() *Primitive { return &Primitive{Primitive: PrimitiveBytes} }

// File returns a Primitive for a file upload.
func File() *Primitive { return &Primitive{Primitive: PrimitiveFile} }

// Any returns a Primitive for any/unknown.
func Any() *Primitive { return &Primitive{Primitive: PrimitiveAny} }

// Ref returns a Record reference for a named type.
func Ref(name, module string) *Record {
	return &Record{Name: TypeName{Name: name, Module: module}}
}

// SeqOf returns a Seq with the given element type.
func SeqOf(elem TypeExpr) *Seq { return &Seq{Elem: elem} }

// MapOf returns a Mapping with the given key and value types.
func MapOf(key, value TypeExpr) *Mapping { return &Mapping{Key: key, Value: value} }

// Lit returns a Literal over the given constant values.
func Lit(values ...any) *Literal { return &Literal{Values: values} }

// Fwd returns a ForwardRef to be resolved in the given module.
func Fwd(target, module string) *ForwardRef {
	return &ForwardRef{Target: target, Module: module}
}

// UnionOf builds a Union from the given members, flattening nested unions
// and deduplicating, with a null member moved to the end. A single surviving
// member collapses to that member.
func UnionOf(members ...TypeExpr) TypeExpr {
	var out []TypeExpr
	var null TypeExpr
	var add func(m TypeExpr)
	add = func(m TypeExpr) {
		if m == nil {
			return
		}
		if u, ok := m.(*Union); ok {
			for _, inner := range u.Members {
				add(inner)
			}
			return
		}
		if p, ok := m.(*Primitive); ok && p.Primitive == PrimitiveNull {
			null = m
			return
		}
		for _, seen := range out {
			if Equal(seen, m) {
				return
			}
		}
		out = append(out, m)
	}
	for _, m := range members {
		add(m)
	}
	if null != nil {
		out = append(out, null)
	}
	if len(out) == 1 {
		return out[0]
	}
	return &Union{Members: out}
}

// IsNull reports whether e is the null primitive.
func IsNull(e TypeExpr) bool {
	p, ok := e.(*Primitive)
	return ok && p.Primitive == PrimitiveNull
}

// Equal reports structural equality of two type expressions.
func Equal(a, b TypeExpr) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Primitive:
		return x.Primitive == b.(*Primitive).Primitive
	case *Record:
		return x.Name == b.(*Record).Name
	case *Seq:
		return Equal(x.Elem, b.(*Seq).Elem)
	case *Mapping:
		y := b.(*Mapping)
		return Equal(x.Key, y.Key) && Equal(x.Value, y.Value)
	case *Union:
		y := b.(*Union)
		if len(x.Members) != len(y.Members) {
			return false
		}
		for i := range x.Members {
			if !Equal(x.Members[i], y.Members[i]) {
				return false
			}
		}
		return true
	case *Literal:
		y := b.(*Literal)
		if len(x.Values) != len(y.Values) {
			return false
		}
		for i := range x.Values {
			if x.Values[i] != y.Values[i] {
				return false
			}
		}
		return true
	case *ForwardRef:
		y := b.(*ForwardRef)
		return x.Target == y.Target && x.Module == y.Module
	default:
		return false
	}
}
