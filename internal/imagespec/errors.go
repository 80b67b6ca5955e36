package imagespec

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	KindInternal Kind = iota
	KindEmptyPrompt
	KindMisconfigured
	KindProviderError
	KindEmptyProviderResponse
	KindNoJSONFound
	KindInvalidJSON
	KindSchemaViolation
)

var kindNames = map[Kind]string{
	KindInternal:              "internal",
	KindEmptyPrompt:           "empty_prompt",
	KindMisconfigured:         "misconfigured",
	KindProviderError:         "provider_error",
	KindEmptyProviderResponse: "empty_provider_response",
	KindNoJSONFound:           "no_json_found",
	KindInvalidJSON:           "invalid_json",
	KindSchemaViolation:       "schema_violation",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Status returns the HTTP status class for the kind:
// 400 for caller faults, 500 for server faults, 502 for upstream faults.
func (k Kind) Status() int {
	switch k {
	case KindEmptyPrompt:
		return http.StatusBadRequest
	case KindMisconfigured, KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

// Upstream reports whether the provider or its output is at fault.
func (k Kind) Upstream() bool {
	return k.Status() == http.StatusBadGateway
}

// ErrNotFound is returned by ExtractObject when no balanced object exists.
var ErrNotFound = errors.New("no balanced JSON object found")

// Error is the single failure type produced by the pipeline. Only the
// fields relevant to Kind are populated.
type Error struct {
	Kind Kind
	// Detail is the provider's error text for KindProviderError.
	Detail string
	// Raw is the provider text for KindNoJSONFound.
	Raw string
	// Candidate is the extracted substring for KindInvalidJSON.
	Candidate string
	// Violations and Object are set for KindSchemaViolation.
	Violations []Violation
	Object     map[string]any
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindEmptyPrompt:
		return "prompt is empty"
	case KindMisconfigured:
		return "provider is not configured"
	case KindProviderError:
		return "provider error: " + e.Detail
	case KindEmptyProviderResponse:
		return "provider returned no content"
	case KindNoJSONFound:
		return "no JSON object found in provider response"
	case KindInvalidJSON:
		if e.Err != nil {
			return "extracted JSON is invalid: " + e.Err.Error()
		}
		return "extracted JSON is invalid"
	case KindSchemaViolation:
		return fmt.Sprintf("schema validation failed with %d issue(s)", len(e.Violations))
	default:
		return "internal error"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind carried by err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return KindInternal
}
