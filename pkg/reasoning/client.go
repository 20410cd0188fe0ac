// Package reasoning is the client boundary to the external judgment
// capability. The service is a black box: it receives an instruction plus
// context and returns free text or a value conforming to a declared schema.
// Validation of structured responses happens in the stage executor, not here.
package reasoning

import "context"

// Request is one evaluate call.
type Request struct {
	// Stage names the pipeline stage making the call, for tracing.
	Stage string `json:"stage"`
	// Model selects the capability tier ("fast" judgments vs "smart"
	// synthesis); interpreted by the service.
	Model string `json:"model"`
	// Instruction is the judgment policy for this call.
	Instruction string `json:"instruction"`
	// Context is the slice of run context relevant to the judgment.
	Context map[string]any `json:"context"`
	// OutputSchema, when non-empty, is a JSON Schema the response text must
	// conform to. The service is asked to conform; the caller verifies.
	OutputSchema string `json:"output_schema,omitempty"`
}

// Response is the service's answer: free text, or a JSON document when a
// schema was declared.
type Response struct {
	Text string `json:"text"`
}

// Client is the reasoning service boundary. Implementations must be safe
// for concurrent use: parallel stages evaluate simultaneously.
type Client interface {
	// Evaluate sends one judgment request. Blocking; honors ctx
	// cancellation and deadline.
	Evaluate(ctx context.Context, req *Request) (*Response, error)

	// Close releases any underlying connections.
	Close() error
}
