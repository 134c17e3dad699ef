package routes

import (
	"fmt"

	"github.com/arabidopsis/footprint/tsgen/typescript"
)

// Restful marries a typed function to a URL rule: URL variables come out of
// the path, every other parameter travels in the request payload.
type Restful struct {
	Function *typescript.TSFunction
	Rule     *Rule

	// Warnings are non-fatal mismatches between the rule and the function.
	Warnings []string
}

// Bind checks a function against a rule and returns the binding. Mismatches
// between URL variables and function parameters are collected as warnings,
// not errors: the generated client still works for the parts that line up.
func Bind(fn *typescript.TSFunction, rule *Rule, defaults map[string]any) *Restful {
	if len(defaults) > 0 {
		rule = rule.ResolveDefaults(defaults)
		names := make([]string, 0, len(defaults))
		for name := range defaults {
			names = append(names, name)
		}
		// Defaulted variables vanish from the URL and the signature alike:
		// the server fills them in.
		fn = fn.RemoveArgs(names...)
	}
	r := &Restful{Function: fn, Rule: rule}

	params := make(map[string]string, len(fn.Args))
	for _, a := range fn.Args {
		params[a.Name] = a.Type
	}

	for _, s := range rule.Segments {
		if s.IsStatic() {
			continue
		}
		have, ok := params[s.Variable]
		if !ok {
			r.warnf("url variable %q is not a parameter of %s", s.Variable, fn.Name)
			continue
		}
		if want := s.TSType(); have != want && have != "any" {
			r.warnf("url variable %q is %s in the rule but %s in %s", s.Variable, want, have, fn.Name)
		}
	}

	if fn.RequiresPost() && !r.hasMethod("POST") {
		r.warnf("%s uploads files but the rule does not allow POST", fn.Name)
	}
	return r
}

func (r *Restful) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Restful) hasMethod(method string) bool {
	for _, m := range r.Rule.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// Method returns the fetch helper the generated client calls: post when the
// function needs multipart handling or the rule allows POST, get otherwise.
func (r *Restful) Method() string {
	if r.Function.RequiresPost() || r.hasMethod("POST") {
		return "post"
	}
	return "get"
}

// PayloadArgs returns the function arguments that are not URL variables:
// these form the request payload.
func (r *Restful) PayloadArgs() []typescript.TSField {
	urlVars := r.Rule.TSArgs()
	var out []typescript.TSField
	for _, a := range r.Function.Args {
		if _, ok := urlVars[a.Name]; !ok {
			out = append(out, a)
		}
	}
	return out
}
