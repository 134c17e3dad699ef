package tsgen

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/arabidopsis/footprint/tsgen/ir"
	"github.com/arabidopsis/footprint/tsgen/provider"
	"github.com/arabidopsis/footprint/tsgen/typescript"
)

// Generate translates the typeable objects of the given target specs to
// TypeScript on out. A target is a package path, or "path:Name" for a single
// object. Diagnostics (warnings and, with NoErrors, failures) go to diag.
func Generate(ctx context.Context, out, diag io.Writer, targets []string, opts Options) (*Result, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets specified")
	}

	p := provider.New(opts.Dir)
	if err := p.Load(ctx, packagePaths(targets)...); err != nil {
		return nil, err
	}

	g := &generator{
		out:  out,
		diag: diag,
		p:    p,
		ctx: typescript.NewContext(p, typescript.ContextOptions{
			Variables: opts.Variables,
			Lazy:      opts.Lazy,
		}),
		opts:   opts,
		result: &Result{},
	}

	for _, target := range targets {
		if err := g.module(target); err != nil {
			return nil, err
		}
	}
	if err := g.drain(); err != nil {
		return nil, err
	}

	for _, w := range p.Warnings() {
		fmt.Fprintf(diag, "warning: %s: %s\n", w.Code, w.Message)
	}
	return g.result, nil
}

// packagePaths strips ":Name" selectors and deduplicates.
func packagePaths(targets []string) []string {
	var paths []string
	seen := make(map[string]struct{})
	for _, t := range targets {
		path := t
		if i := strings.IndexByte(t, ':'); i >= 0 {
			path = t[:i]
		}
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		paths = append(paths, path)
	}
	return paths
}

type generator struct {
	out  io.Writer
	diag io.Writer
	p    *provider.Provider
	ctx  *typescript.Context
	opts Options

	result *Result
}

// module generates the declarations for one target spec.
func (g *generator) module(target string) error {
	names, err := g.p.Typeables(target)
	if err != nil {
		return err
	}

	fmt.Fprintf(g.out, "// Module: %s\n\n", names[0].Module)

	// Typed functions accumulate into a structural app interface so a
	// client can implement the whole module at once.
	var app []typescript.TSField

	for _, name := range names {
		if g.ctx.Pending(name) {
			// Already queued as a dependency; the drain pass emits it.
			continue
		}
		obj, err := g.p.ResolveType(name)
		if err != nil {
			if err := g.fail(name, err); err != nil {
				return err
			}
			continue
		}
		decl, err := g.ctx.Build(obj)
		if err != nil {
			if err := g.fail(name, err); err != nil {
				return err
			}
			continue
		}
		g.emit(decl)

		if fn, ok := decl.(*typescript.TSFunction); ok && fn.IsTyped() {
			app = append(app, typescript.TSField{Name: fn.Name, Type: fn.Anonymous(true)})
		}
	}

	if len(app) > 0 {
		// The app interface is structural glue, not a wire record: no
		// serializer for it.
		iface := typescript.NewInterface(appName(names[0].Module), app)
		fmt.Fprintln(g.out, iface.ToTS())
		fmt.Fprintln(g.out)
		g.result.Objects++
	}
	return nil
}

// emit writes one declaration, plus a serializer for typed interfaces so
// clients can re-encode values into their wire form.
func (g *generator) emit(decl typescript.Decl) {
	fmt.Fprintln(g.out, decl.ToTS())
	fmt.Fprintln(g.out)
	g.result.Objects++

	if iface, ok := decl.(*typescript.TSInterface); ok && iface.IsTyped() {
		fmt.Fprintln(g.out, iface.Serializer().ToTS())
		fmt.Fprintln(g.out)
	}
}

// drain emits deferred record declarations until the queue reaches a fixed
// point: building one deferred record may defer more.
func (g *generator) drain() error {
	for {
		deferred := g.ctx.Drain()
		if len(deferred) == 0 {
			return nil
		}
		for _, d := range deferred {
			decl, err := d.Build()
			if err != nil {
				if err := g.fail(d.Name, err); err != nil {
					return err
				}
				continue
			}
			g.emit(decl)
		}
	}
}

func (g *generator) fail(name ir.TypeName, err error) error {
	if g.opts.Strict {
		return fmt.Errorf("%s: %w", name, err)
	}
	g.result.Errors = append(g.result.Errors, fmt.Sprintf("%s: %v", name, err))
	if g.opts.NoErrors {
		fmt.Fprintf(g.diag, "error for: %s: %v\n", name, err)
	} else {
		fmt.Fprintf(g.out, "// error for: %s: %v\n\n", name, err)
	}
	return nil
}

// appName derives the module interface name from the last package path
// segment: "example.com/app/views" becomes "ViewsApp".
func appName(module string) string {
	seg := module
	if i := strings.LastIndexByte(module, '/'); i >= 0 {
		seg = module[i+1:]
	}
	seg = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return -1
		}
	}, seg)
	if seg == "" {
		return "App"
	}
	return strings.ToUpper(seg[:1]) + seg[1:] + "App"
}
