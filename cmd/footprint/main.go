// Command footprint generates TypeScript from annotated Go code: type
// declarations and typed function stubs with the typescript command, and
// fetch-based client classes bound to URL rules with the routes command.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	"github.com/pterm/pterm"

	"github.com/arabidopsis/footprint/routes"
	"github.com/arabidopsis/footprint/tsgen"
	"github.com/arabidopsis/footprint/tsgen/sink"
)

type CLI struct {
	Version    VersionCmd    `cmd:"" help:"Print version information."`
	Typescript TypescriptCmd `cmd:"" help:"Generate TypeScript declarations for Go types and functions."`
	Routes     RoutesCmd     `cmd:"" help:"Generate fetch-based TypeScript clients from a route manifest."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

type TypescriptCmd struct {
	Targets   []string `arg:"" help:"Package paths, or path:Name for a single object."`
	Dir       string   `help:"Working directory for package loading." type:"existingdir"`
	Out       string   `help:"Output file (default stdout)." short:"o" type:"path"`
	Variables []string `help:"Parameter names excluded from signatures." short:"v"`
	Lazy      bool     `help:"Defer all record declarations to the dependency pass."`
	NoErrors  bool     `help:"Report failures on stderr instead of embedding comments." short:"e"`
	Strict    bool     `help:"Abort on the first failure." short:"r"`
}

func (c *TypescriptCmd) Run() error {
	out := io.Writer(os.Stdout)
	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	res, err := tsgen.Generate(context.Background(), out, os.Stderr, c.Targets, tsgen.Options{
		Dir:       c.Dir,
		Variables: c.Variables,
		Lazy:      c.Lazy,
		NoErrors:  c.NoErrors,
		Strict:    c.Strict,
	})
	if err != nil {
		return err
	}
	for _, e := range res.Errors {
		pterm.Error.Println(e)
	}
	if c.Out != "" {
		pterm.Success.Printf("wrote %d declarations to %s\n", res.Objects, c.Out)
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("%d objects failed", len(res.Errors))
	}
	return nil
}

type RoutesCmd struct {
	Manifest  string   `arg:"" help:"TOML route manifest." type:"existingfile"`
	Dir       string   `help:"Working directory for package loading." type:"existingdir"`
	Out       string   `help:"Output directory for generated clients." short:"o" default:"."`
	Variables []string `help:"Parameter names excluded from signatures." short:"v"`
	NoClass   bool     `help:"Emit only the view interfaces, without client classes."`
	Stdout    bool     `help:"Print generated files to stdout instead of writing them."`
}

func (c *RoutesCmd) Run() error {
	m, err := routes.LoadManifest(c.Manifest)
	if err != nil {
		return err
	}

	ctx := context.Background()
	api, err := routes.Build(ctx, m, routes.BuildOptions{Dir: c.Dir, Variables: c.Variables})
	if err != nil {
		return err
	}
	for _, w := range api.Warnings() {
		pterm.Warning.Println(w)
	}
	for _, e := range api.Errors {
		pterm.Error.Println(e)
	}

	if c.Stdout {
		if err := c.printAll(ctx, api); err != nil {
			return err
		}
	} else {
		if err := api.Generate(ctx, sink.NewFilesystemSink(c.Out), !c.NoClass); err != nil {
			return err
		}
		pterm.Success.Printf("wrote %d views to %s\n", len(api.Views), c.Out)
	}

	if len(api.Errors) > 0 {
		return fmt.Errorf("%d routes failed", len(api.Errors))
	}
	return nil
}

func (c *RoutesCmd) printAll(ctx context.Context, api *routes.API) error {
	mem := sink.NewMemorySink()
	if err := api.Generate(ctx, mem, !c.NoClass); err != nil {
		return err
	}
	paths := mem.Paths()
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Printf("// File: %s\n%s\n", p, mem.Get(p))
	}
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("footprint"),
		kong.Description("Generate TypeScript interfaces and clients from annotated Go code."),
		kong.UsageOnError(),
		kong.Configuration(kongtoml.Loader, "footprint.toml", "~/.config/footprint/footprint.toml"),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
