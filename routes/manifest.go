package routes

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// RouteDef is one [[route]] entry in a TOML manifest.
type RouteDef struct {
	// Endpoint is the client-side method name.
	Endpoint string `toml:"endpoint" validate:"required"`

	// Rule is the werkzeug-style URL pattern.
	Rule string `toml:"rule" validate:"required,startswith=/"`

	// Function is the Go function backing the endpoint, as "path:Name".
	Function string `toml:"function" validate:"required,contains=:"`

	// Methods are the allowed HTTP methods (default GET).
	Methods []string `toml:"methods" validate:"dive,oneof=GET POST PUT DELETE PATCH get post put delete patch"`

	// View groups endpoints into one generated client ("app" by default).
	View string `toml:"view"`

	// Defaults substitute rule variables with fixed values.
	Defaults map[string]any `toml:"defaults"`
}

// Manifest is a parsed route manifest.
type Manifest struct {
	Routes []RouteDef `toml:"route" validate:"required,min=1,dive"`
}

// DefaultView is the view name for routes that do not declare one.
const DefaultView = "app"

// LoadManifest reads and validates a TOML route manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseManifest parses and validates manifest content.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	endpoints := make(map[string]struct{}, len(m.Routes))
	for i := range m.Routes {
		r := &m.Routes[i]
		if r.View == "" {
			r.View = DefaultView
		}
		key := r.View + "." + r.Endpoint
		if _, dup := endpoints[key]; dup {
			return nil, fmt.Errorf("invalid manifest: duplicate endpoint %s", key)
		}
		endpoints[key] = struct{}{}
	}
	return &m, nil
}
