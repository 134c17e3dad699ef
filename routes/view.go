package routes

import (
	"strings"

	"github.com/arabidopsis/footprint/tsgen/typescript"
)

// Preamble is the import line generated client files start with. The fetch
// helpers encode payloads (query string for get, form data for post) and
// decode the JSON response envelope.
const Preamble = "import { get, post } from './fetch-lib.js';"

// JSView groups bound endpoints into one generated client: an interface
// describing the methods, a class implementing them with fetch calls, and a
// ready-made instance.
type JSView struct {
	Name      string
	Endpoints []*Restful
}

// InterfaceName derives the exported interface name from the view name:
// each run of letters and digits becomes a capitalized segment, so
// "admin_panel" turns into "AdminPanel".
func (v *JSView) InterfaceName() string {
	var b strings.Builder
	upper := true
	for _, r := range v.Name {
		switch {
		case r >= 'a' && r <= 'z':
			if upper {
				r -= 'a' - 'A'
			}
			b.WriteRune(r)
			upper = false
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			upper = false
		default:
			upper = true
		}
	}
	if b.Len() == 0 {
		return "App"
	}
	return b.String()
}

// BuildInterface returns the view interface: one method stub per endpoint,
// with the return type wrapped in Promise since every call goes over the
// network.
func (v *JSView) BuildInterface() *typescript.TSInterface {
	fields := make([]typescript.TSField, len(v.Endpoints))
	for i, e := range v.Endpoints {
		stub := e.Function.Promise()
		fields[i] = typescript.TSField{Name: e.Rule.Endpoint, Type: stub.Anonymous(true)}
	}
	return typescript.NewInterface(v.InterfaceName(), fields)
}

// BuildClass returns the client class implementing the view interface.
func (v *JSView) BuildClass() *typescript.TSClass {
	fields := make([]typescript.TSField, len(v.Endpoints))
	for i, e := range v.Endpoints {
		method := e.Function.Promise()
		method.Name = e.Rule.Endpoint
		method.Body = methodBody(e)
		fields[i] = typescript.TSField{
			Name:  e.Rule.Endpoint,
			Type:  method.Anonymous(true),
			Colon: " ",
		}
	}
	return &typescript.TSClass{
		Name:       v.InterfaceName(),
		Fields:     fields,
		Implements: true,
		Export:     true,
	}
}

// methodBody renders the fetch call: URL variables interpolate into the
// template literal, remaining parameters travel as the payload. Record
// arguments spread into the payload object so their fields flatten out.
func methodBody(e *Restful) string {
	var kv []string
	for _, a := range e.PayloadArgs() {
		if a.IsRecord {
			kv = append(kv, "..."+a.Name)
		} else {
			kv = append(kv, a.Name)
		}
	}
	data := "const $data = {};"
	if len(kv) > 0 {
		data = "const $data = { " + strings.Join(kv, ", ") + " };"
	}
	return data + "\n" +
		"return " + e.Method() + "(`" + e.Rule.URL() + "`, $data);"
}

// Instance renders the ready-made client export for the view.
func (v *JSView) Instance() string {
	return "export const " + v.Name + " = new " + v.InterfaceName() + "Class();"
}

// BuildTS renders the view as TypeScript. withClass controls whether the
// implementing class and instance are emitted alongside the interface.
func (v *JSView) BuildTS(withClass bool) string {
	var b strings.Builder
	b.WriteString(v.BuildInterface().ToTS())
	b.WriteString("\n")
	if withClass {
		b.WriteString("\n")
		b.WriteString(v.BuildClass().ToTS())
		b.WriteString("\n\n")
		b.WriteString(v.Instance())
		b.WriteString("\n")
	}
	return b.String()
}

// Warnings collects the binding warnings of all endpoints.
func (v *JSView) Warnings() []string {
	var out []string
	for _, e := range v.Endpoints {
		out = append(out, e.Warnings...)
	}
	return out
}
