package routes

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/arabidopsis/footprint/tsgen/ir"
	"github.com/arabidopsis/footprint/tsgen/provider"
	"github.com/arabidopsis/footprint/tsgen/sink"
	"github.com/arabidopsis/footprint/tsgen/typescript"
)

// BuildOptions configure API building.
type BuildOptions struct {
	// Dir is the working directory for package loading ("" means cwd).
	Dir string

	// Variables are function parameter names excluded from generated
	// signatures (request-context values injected server side).
	Variables []string
}

// API is a fully bound route manifest: one view per generated client file,
// each with the type declarations its endpoints reference.
type API struct {
	// Views maps view names to their bound endpoints.
	Views map[string]*JSView

	// Decls holds the supporting type declarations per view, in dependency
	// discovery order.
	Decls map[string][]typescript.Decl

	// Errors are per-route failures; the remaining routes still generate.
	Errors []string
}

// Build resolves every route in the manifest against Go source and returns
// the bound API.
func Build(ctx context.Context, m *Manifest, opts BuildOptions) (*API, error) {
	p := provider.New(opts.Dir)
	if err := p.Load(ctx, manifestPackages(m)...); err != nil {
		return nil, err
	}

	api := &API{
		Views: make(map[string]*JSView),
		Decls: make(map[string][]typescript.Decl),
	}

	// One translation context per view keeps each generated file closed
	// over exactly the types its own endpoints use.
	for _, viewName := range viewNames(m) {
		tctx := typescript.NewContext(p, typescript.ContextOptions{Variables: opts.Variables})
		view := &JSView{Name: viewName}

		for _, def := range m.Routes {
			if def.View != viewName {
				continue
			}
			bound, err := bindRoute(p, tctx, def)
			if err != nil {
				api.Errors = append(api.Errors, fmt.Sprintf("%s.%s: %v", viewName, def.Endpoint, err))
				continue
			}
			view.Endpoints = append(view.Endpoints, bound)
		}
		if len(view.Endpoints) == 0 {
			continue
		}

		decls, errs := drainDecls(tctx)
		api.Errors = append(api.Errors, errs...)
		api.Views[viewName] = view
		api.Decls[viewName] = decls
	}
	return api, nil
}

func bindRoute(p *provider.Provider, tctx *typescript.Context, def RouteDef) (*Restful, error) {
	path, fname, ok := strings.Cut(def.Function, ":")
	if !ok {
		return nil, fmt.Errorf("function %q is not path:Name", def.Function)
	}
	obj, err := p.ResolveType(ir.TypeName{Name: fname, Module: path})
	if err != nil {
		return nil, err
	}
	if !obj.IsFunc {
		return nil, fmt.Errorf("%s is not a function", def.Function)
	}
	decl, err := tctx.Build(obj)
	if err != nil {
		return nil, err
	}
	fn, ok := decl.(*typescript.TSFunction)
	if !ok {
		return nil, fmt.Errorf("%s did not build as a function", def.Function)
	}

	rule, err := ParseRule(def.Endpoint, def.Rule, def.Methods)
	if err != nil {
		return nil, err
	}
	return Bind(fn, rule, def.Defaults), nil
}

func drainDecls(tctx *typescript.Context) (decls []typescript.Decl, errs []string) {
	for {
		deferred := tctx.Drain()
		if len(deferred) == 0 {
			return decls, errs
		}
		for _, d := range deferred {
			decl, err := d.Build()
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", d.Name, err))
				continue
			}
			decls = append(decls, decl)
		}
	}
}

func manifestPackages(m *Manifest) []string {
	seen := make(map[string]struct{})
	var paths []string
	for _, def := range m.Routes {
		path, _, ok := strings.Cut(def.Function, ":")
		if !ok {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		paths = append(paths, path)
	}
	return paths
}

func viewNames(m *Manifest) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, def := range m.Routes {
		if _, dup := seen[def.View]; dup {
			continue
		}
		seen[def.View] = struct{}{}
		names = append(names, def.View)
	}
	sort.Strings(names)
	return names
}

// Warnings collects binding warnings across all views.
func (a *API) Warnings() []string {
	var out []string
	for _, name := range a.viewOrder() {
		out = append(out, a.Views[name].Warnings()...)
	}
	return out
}

func (a *API) viewOrder() []string {
	names := make([]string, 0, len(a.Views))
	for name := range a.Views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate writes one "<view>_api.ts" file per view to the sink: the fetch
// helper import, the referenced type declarations, then the view itself.
func (a *API) Generate(ctx context.Context, out sink.OutputSink, withClass bool) error {
	for _, name := range a.viewOrder() {
		var b strings.Builder
		b.WriteString(Preamble)
		b.WriteString("\n\n")
		for _, decl := range a.Decls[name] {
			b.WriteString(decl.ToTS())
			b.WriteString("\n\n")
		}
		b.WriteString(a.Views[name].BuildTS(withClass))

		if err := out.WriteFile(ctx, name+"_api.ts", []byte(b.String())); err != nil {
			return fmt.Errorf("view %s: %w", name, err)
		}
	}
	return nil
}
