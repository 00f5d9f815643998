// Package schema holds the structured-output contract sent with every
// generation request and checks payloads against it.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/xeipuuv/gojsonschema"

	"github.com/sakshisonawane10/Blast-Radius/internal/domain/blast"
)

// Name identifies the response format in provider requests.
const Name = "blast_analysis"

var (
	definition *jsonschema.Definition
	raw        json.RawMessage
	compiled   *gojsonschema.Schema
)

func init() {
	var err error
	definition, err = jsonschema.GenerateSchemaForType(blast.BlastAnalysis{})
	if err != nil {
		panic(fmt.Sprintf("schema: generate: %v", err))
	}
	raw, err = json.Marshal(definition)
	if err != nil {
		panic(fmt.Sprintf("schema: marshal: %v", err))
	}
	compiled, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("schema: compile: %v", err))
	}
}

// Definition returns the descriptor generated from blast.BlastAnalysis.
func Definition() *jsonschema.Definition { return definition }

// JSON returns the descriptor encoded as JSON.
func JSON() json.RawMessage { return raw }

// ErrMismatch is wrapped when a payload does not conform to the descriptor.
var ErrMismatch = errors.New("payload does not match response schema")

// MismatchError lists every schema violation in a payload.
type MismatchError struct {
	Problems []string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMismatch, strings.Join(e.Problems, "; "))
}

func (e *MismatchError) Unwrap() error { return ErrMismatch }

// Validate checks payload against the descriptor. Invalid JSON is reported
// as a plain error.
func Validate(payload []byte) error {
	res, err := compiled.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return fmt.Errorf("parse payload: %w", err)
	}
	if res.Valid() {
		return nil
	}
	problems := make([]string, 0, len(res.Errors()))
	for _, re := range res.Errors() {
		problems = append(problems, re.String())
	}
	return &MismatchError{Problems: problems}
}

// Decode validates payload and parses it into a BlastAnalysis. Property
// order in the payload is irrelevant.
func Decode(payload []byte) (*blast.BlastAnalysis, error) {
	if err := Validate(payload); err != nil {
		return nil, err
	}
	var a blast.BlastAnalysis
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &a, nil
}
