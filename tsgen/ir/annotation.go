package ir

// Annotation describes one parameter or field of a typeable object:
// its name, canonicalized type expression and optional default value.
// Annotations are built once per object and never mutated.
type Annotation struct {
	Name string
	Type TypeExpr

	// Default is the declared default value, nil if the member is required.
	// Values use ordinary Go representations: nil, bool, int64, float64,
	// string, []byte, []any, map[string]any, or a func() any default factory.
	Default *Value
}

// Value wraps a default value so that an explicit nil default ("null")
// is distinguishable from no default at all.
type Value struct {
	V any
}

// HasDefault reports whether the member declares a default value.
func (a Annotation) HasDefault() bool { return a.Default != nil }

// RequiresPost reports whether the member needs multipart/POST handling
// (file uploads cannot travel in a query string).
func (a Annotation) RequiresPost() bool {
	return requiresPost(a.Type)
}

func requiresPost(e TypeExpr) bool {
	switch x := e.(type) {
	case *Primitive:
		return x.Primitive == PrimitiveFile
	case *Seq:
		return requiresPost(x.Elem)
	case *Union:
		for _, m := range x.Members {
			if requiresPost(m) {
				return true
			}
		}
	}
	return false
}
