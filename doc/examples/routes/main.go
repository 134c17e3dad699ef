// Package routes provides example usage for route manifest documentation.
package routes

import (
	"context"
	"log"

	"github.com/arabidopsis/footprint/routes"
	"github.com/arabidopsis/footprint/tsgen/sink"
)

// [snippet:manifest]
const manifest = `
[[route]]
endpoint = "get_news"
rule = "/news/<int:id>"
function = "example.com/app/quickstart:GetNews"

[[route]]
endpoint = "create_news"
rule = "/news/create"
function = "example.com/app/quickstart:CreateNews"
methods = ["POST"]
`

// [/snippet:manifest]

func exampleBuild() {
	// [snippet:build]
	m, err := routes.ParseManifest([]byte(manifest))
	if err != nil {
		log.Fatal(err)
	}

	api, err := routes.Build(context.Background(), m, routes.BuildOptions{})
	if err != nil {
		log.Fatal(err)
	}
	for _, w := range api.Warnings() {
		log.Println("warning:", w)
	}

	out := sink.NewFilesystemSink("./client/src")
	if err := api.Generate(context.Background(), out, true); err != nil {
		log.Fatal(err)
	}
	// [/snippet:build]
}

// Keep imports used.
var _ = exampleBuild
