// Package tsgen drives TypeScript generation: it loads Go packages through
// the provider, translates every typeable object and drains the deferred
// dependency queue until the output is closed over all referenced types.
package tsgen

// Options configure a generation run.
type Options struct {
	// Dir is the working directory for package loading ("" means cwd).
	Dir string

	// Variables are function parameter names excluded from generated
	// signatures (request-context values injected server side).
	Variables []string

	// Lazy defers every record declaration to the drain phase instead of
	// inlining top-level ones.
	Lazy bool

	// NoErrors routes per-object failures to the diagnostic writer instead
	// of embedding them as comments in the output.
	NoErrors bool

	// Strict aborts on the first per-object failure instead of collecting it.
	Strict bool
}

// Result reports what a generation run produced.
type Result struct {
	// Objects is the number of declarations written.
	Objects int

	// Errors holds per-object failures (empty on a clean run).
	Errors []string
}
