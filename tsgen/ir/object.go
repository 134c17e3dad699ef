package ir

// Object is a typeable thing extracted from a module: a named record
// (struct) or a function. Records carry one Annotation per field; functions
// carry one per parameter plus a synthetic "return" entry (null when the
// function declares no result).
type Object struct {
	Name        TypeName
	IsFunc      bool
	Annotations []Annotation
}

// Return is the synthetic annotation name for a function result.
const Return = "return"

// RequiresPost reports whether any member of the object needs POST handling.
func (o *Object) RequiresPost() bool {
	for _, a := range o.Annotations {
		if a.RequiresPost() {
			return true
		}
	}
	return false
}
