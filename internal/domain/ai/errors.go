package ai

import (
	"errors"
	"fmt"
)

// UserMessage is the only failure text shown to end users. Details stay in
// logs and diagnostics.
const UserMessage = "Failed to generate risk analysis. Please ensure your API key is configured correctly and try again."

// Kind classifies why an assessment could not be produced.
type Kind string

const (
	KindConfiguration     Kind = "configuration"
	KindTransport         Kind = "transport"
	KindEmptyResponse     Kind = "empty_response"
	KindMalformedResponse Kind = "malformed_response"
)

var (
	ErrConfiguration     = errors.New("ai: configuration error")
	ErrTransport         = errors.New("ai: transport error")
	ErrEmptyResponse     = errors.New("ai: empty response")
	ErrMalformedResponse = errors.New("ai: malformed response")
)

// Sentinel returns the package error matching k.
func (k Kind) Sentinel() error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindTransport:
		return ErrTransport
	case KindEmptyResponse:
		return ErrEmptyResponse
	case KindMalformedResponse:
		return ErrMalformedResponse
	}
	return nil
}

// Retryable reports whether resubmitting the same input could succeed.
// Configuration problems need operator action first.
func (k Kind) Retryable() bool {
	return k != KindConfiguration && k.Sentinel() != nil
}

// Error is a classified assessment failure. Cause keeps the underlying error
// for diagnostics and is never shown to users.
type Error struct {
	Kind     Kind
	Provider string
	Model    string
	Status   int
	Detail   string
	Cause    error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Provider != "" {
		msg = fmt.Sprintf("%s (%s/%s)", msg, e.Provider, e.Model)
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.Sentinel()
	return s != nil && s == target
}

// KindOf extracts the classification from anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

func ConfigurationError(detail string) *Error {
	return &Error{Kind: KindConfiguration, Detail: detail}
}

func TransportError(cause error) *Error {
	return &Error{Kind: KindTransport, Cause: cause}
}

func EmptyResponseError() *Error {
	return &Error{Kind: KindEmptyResponse, Detail: "no content returned"}
}

func MalformedResponseError(detail string, cause error) *Error {
	return &Error{Kind: KindMalformedResponse, Detail: detail, Cause: cause}
}
