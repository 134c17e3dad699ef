// Package quickstart provides simple example code for documentation.
package quickstart

import (
	"context"
	"net/http"
	"os"

	"github.com/arabidopsis/footprint"
	"github.com/arabidopsis/footprint/tsgen"
)

// [snippet:handlers collapse]
func ListNews(ctx context.Context, req ListNewsParams) ([]*News, error) {
	// Your implementation
	return nil, nil
}

func CreateNews(ctx context.Context, req CreateNewsParams) (*News, error) {
	// Your implementation
	return nil, nil
}

// [/snippet:handlers]

func exampleRegistration() {
	// [snippet:registration]
	mux := http.NewServeMux()

	mux.Handle("/news/list", footprint.NewEndpoint(ListNews))
	mux.Handle("/news/create", footprint.NewEndpoint(CreateNews).Method(http.MethodPost))

	http.ListenAndServe(":8080", mux)
	// [/snippet:registration]
}

func exampleGeneration() {
	// [snippet:generation]
	out, _ := os.Create("./client/src/news_types.ts")
	defer out.Close()

	tsgen.Generate(context.Background(), out, os.Stderr,
		[]string{"example.com/app/quickstart"}, tsgen.Options{})
	// [/snippet:generation]
}

// Keep imports used.
var (
	_ = context.Background
	_ = exampleRegistration
	_ = exampleGeneration
)
