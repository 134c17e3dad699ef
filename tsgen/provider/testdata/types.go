// Package testdata holds fixture types for provider extraction tests.
package testdata

import (
	"context"
	"mime/multipart"
	"time"
)

// Status is a closed set of ticket states.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Audit carries timestamps shared by several records.
type Audit struct {
	Created time.Time `json:"created"`
}

// User is a basic record with tag-driven naming and defaults.
type User struct {
	ID     string `json:"id"`
	Name   string
	Age    *int
	Tags   []string
	Avatar []byte
	Raw    []byte `wire:"intlist"`
	Limit  int    `default:"10"`
	State  string `ts:"Status"`
	Note   string `json:"-"`

	secret string
}

// Ticket embeds Audit; its fields are promoted.
type Ticket struct {
	Audit
	Title  string
	Owner  *User
	Status Status
}

// Search looks up users matching q.
//
//footprint:default limit=25
func Search(ctx context.Context, q string, limit int) ([]User, error) {
	_ = ctx
	_ = q
	_ = limit
	return nil, nil
}

// Upload stores an avatar image.
func Upload(name string, avatar *multipart.FileHeader) (bool, error) {
	_ = name
	_ = avatar
	return false, nil
}

// Ping checks liveness and returns nothing.
func Ping() error {
	return nil
}

func internalOnly() {}

// Touch is a method and must not be extracted as a typeable.
func (u *User) Touch() {}
