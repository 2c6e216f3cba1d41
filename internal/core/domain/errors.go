package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotIndexed indicates the vector store is empty and a question
	// cannot be grounded.
	ErrNotIndexed = errors.New("corpus not indexed")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the completion service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrStoreUnavailable indicates the vector store is not configured.
	ErrStoreUnavailable = errors.New("vector store unavailable")
)

// TimeoutError reports that an external call exceeded its deadline.
// It is distinct from API-level errors: the provider never responded.
type TimeoutError struct {
	// Op names the call that timed out, e.g. "chat completion".
	Op string

	// Err is the underlying transport error.
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// ProtocolError reports a response that could not be interpreted:
// an unparseable body, a missing expected field, or a non-success
// status without a well-formed error object.
type ProtocolError struct {
	// Status is the HTTP status code, zero when the failure happened
	// before a status was received.
	Status int

	// Body is a bounded excerpt of the raw response body.
	Body string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("malformed API response (status %d): %s", e.Status, e.Body)
}

// APIError reports a non-success status carrying a well-formed error
// object from the provider.
type APIError struct {
	// Status is the HTTP status code.
	Status int

	// Message is the provider's error message.
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Message)
}

// DocumentError records a per-document indexing failure. Indexing of
// the remaining corpus continues; the failure is reported, not raised.
type DocumentError struct {
	// DocumentID is the file that failed.
	DocumentID string

	// Err is the cause.
	Err error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("index %s: %v", e.DocumentID, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }
