package llm

import "context"

// Request is one completion call: a system instruction establishing persona
// and output discipline, plus the user prompt.
type Request struct {
	System      string
	User        string
	JSONMode    bool    // ask the provider for a JSON-object response
	Temperature float32 // 0 uses the client default
}

// Completer is the interface the pipelines depend on. The response is free
// text, nominally JSON; all shape enforcement happens in the callers.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}
