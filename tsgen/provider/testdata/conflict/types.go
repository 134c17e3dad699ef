// Package conflict holds a fixture whose field tags contradict each other.
package conflict

// Form declares a default for a field its validation insists on.
type Form struct {
	Limit int `default:"10" validate:"required"`
}
