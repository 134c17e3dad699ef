// Package routes binds URL rules to generated TypeScript functions. Rules
// use the Flask/werkzeug pattern syntax ("/items/<int:id>"); the binder
// marries them to typed functions extracted from Go source and emits client
// classes whose methods fetch the right URL with the right payload.
package routes

import (
	"fmt"
	"regexp"
	"strings"
)

// ruleRe matches one dynamic part of a rule: <converter(args):variable>.
var ruleRe = regexp.MustCompile(`<(?:([a-zA-Z_][a-zA-Z0-9_]*)(?:\((.*?)\))?:)?([a-zA-Z_][a-zA-Z0-9_]*)>`)

// Segment is one piece of a parsed rule: literal text, or a converter-typed
// variable.
type Segment struct {
	// Static is the literal text; set only when Variable is empty.
	Static string

	// Converter names the werkzeug converter ("default" when the rule
	// writes a bare <name>).
	Converter string
	Args      []string
	KwArgs    map[string]string
	Variable  string
}

// IsStatic reports whether the segment is literal text.
func (s Segment) IsStatic() bool { return s.Variable == "" }

// TSType returns the TypeScript type a converter produces.
func (s Segment) TSType() string {
	switch s.Converter {
	case "int", "float":
		return "number"
	case "any":
		if len(s.Args) > 0 {
			quoted := make([]string, len(s.Args))
			for i, a := range s.Args {
				quoted[i] = "'" + a + "'"
			}
			return strings.Join(quoted, " | ")
		}
		return "string"
	default:
		// default, string, path, uuid all carry strings.
		return "string"
	}
}

// Rule is a parsed URL rule bound to an endpoint.
type Rule struct {
	// Endpoint is the endpoint name the rule routes to.
	Endpoint string

	// Rule is the original pattern text.
	Rule string

	// Methods are the allowed HTTP methods, uppercased. Empty means GET.
	Methods []string

	Segments []Segment
}

// ParseRule parses a werkzeug-style URL pattern.
func ParseRule(endpoint, pattern string, methods []string) (*Rule, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("rule %q must start with /", pattern)
	}

	r := &Rule{Endpoint: endpoint, Rule: pattern}
	for _, m := range methods {
		r.Methods = append(r.Methods, strings.ToUpper(m))
	}

	seen := make(map[string]struct{})
	last := 0
	for _, loc := range ruleRe.FindAllStringSubmatchIndex(pattern, -1) {
		if loc[0] > last {
			r.Segments = append(r.Segments, Segment{Static: pattern[last:loc[0]]})
		}
		last = loc[1]

		converter := "default"
		if loc[2] >= 0 {
			converter = pattern[loc[2]:loc[3]]
		}
		var rawArgs string
		if loc[4] >= 0 {
			rawArgs = pattern[loc[4]:loc[5]]
		}
		variable := pattern[loc[6]:loc[7]]
		if _, dup := seen[variable]; dup {
			return nil, fmt.Errorf("rule %q: duplicate variable %q", pattern, variable)
		}
		seen[variable] = struct{}{}

		args, kwargs := parseConverterArgs(rawArgs)
		r.Segments = append(r.Segments, Segment{
			Converter: converter,
			Args:      args,
			KwArgs:    kwargs,
			Variable:  variable,
		})
	}
	if last < len(pattern) {
		r.Segments = append(r.Segments, Segment{Static: pattern[last:]})
	}

	for _, s := range r.Segments {
		if s.IsStatic() && strings.ContainsAny(s.Static, "<>") {
			return nil, fmt.Errorf("rule %q: malformed pattern", pattern)
		}
	}
	return r, nil
}

// parseConverterArgs splits "a, b, max=10" into positional and keyword args.
func parseConverterArgs(raw string) (args []string, kwargs map[string]string) {
	if raw == "" {
		return nil, nil
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if k, v, ok := strings.Cut(part, "="); ok {
			if kwargs == nil {
				kwargs = make(map[string]string)
			}
			kwargs[strings.TrimSpace(k)] = strings.TrimSpace(v)
			continue
		}
		args = append(args, strings.Trim(part, `'"`))
	}
	return args, kwargs
}

// Arguments returns the rule's variable names in order.
func (r *Rule) Arguments() []string {
	var names []string
	for _, s := range r.Segments {
		if !s.IsStatic() {
			names = append(names, s.Variable)
		}
	}
	return names
}

// TSArgs maps each rule variable to the TypeScript type its converter
// produces.
func (r *Rule) TSArgs() map[string]string {
	out := make(map[string]string)
	for _, s := range r.Segments {
		if !s.IsStatic() {
			out[s.Variable] = s.TSType()
		}
	}
	return out
}

// URL renders the rule as a JavaScript template literal body, with each
// variable interpolated: "/items/<int:id>" becomes "/items/${id}".
func (r *Rule) URL() string {
	var b strings.Builder
	for _, s := range r.Segments {
		if s.IsStatic() {
			b.WriteString(s.Static)
		} else {
			b.WriteString("${" + s.Variable + "}")
		}
	}
	return b.String()
}

// ResolveDefaults returns a copy of the rule with defaulted variables
// replaced by their literal values, the way werkzeug builds URLs for rules
// that carry defaults.
func (r *Rule) ResolveDefaults(defaults map[string]any) *Rule {
	if len(defaults) == 0 {
		return r
	}
	out := *r
	out.Segments = make([]Segment, len(r.Segments))
	for i, s := range r.Segments {
		if !s.IsStatic() {
			if v, ok := defaults[s.Variable]; ok {
				s = Segment{Static: fmt.Sprint(v)}
			}
		}
		out.Segments[i] = s
	}
	return &out
}
