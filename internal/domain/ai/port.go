package ai

import (
	"context"
	"encoding/json"
)

// Request is a single structured-output generation call.
type Request struct {
	Model      string
	System     string
	User       string
	SchemaName string
	Schema     json.RawMessage
}

// Generator sends one request to a generative-text service and returns the
// raw text of the first candidate. Call failures should be returned as
// *Error with KindTransport.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
