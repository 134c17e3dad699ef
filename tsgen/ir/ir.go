// Package ir defines the intermediate representation the footprint generator
// works on. Go types are canonicalized into a closed TypeExpr union up front;
// the TypeScript translator then pattern-matches over it without ever touching
// go/types again.
package ir

// TypeName identifies a named record together with its owning module
// (the Go package import path). Two records with the same name in different
// packages are distinct.
type TypeName struct {
	Name   string
	Module string
}

// IsZero returns true if the identifier is empty.
func (n TypeName) IsZero() bool {
	return n.Name == "" && n.Module == ""
}

func (n TypeName) String() string {
	if n.Module == "" {
		return n.Name
	}
	return n.Module + ":" + n.Name
}

// Warning represents a non-fatal issue encountered during generation.
type Warning struct {
	Code    string
	Message string

	// TypeName is the type that triggered the warning, if applicable.
	TypeName string
}
