package driven

import (
	"context"
	"time"

	"github.com/complia-labs/complia-cli/internal/core/domain"
)

// LLMService sends chat-completion requests to an external model API.
//
// Implementations classify failures into the domain error taxonomy:
// a transport timeout becomes *domain.TimeoutError, an unparseable
// response becomes *domain.ProtocolError, and a non-success status with
// a well-formed error object becomes *domain.APIError. No call is
// retried inside the service; callers decide.
type LLMService interface {
	// Complete sends one request and returns the first completion's
	// text verbatim.
	Complete(ctx context.Context, messages []domain.Message, opts CompletionOptions) (string, error)

	// ModelName returns the model identifier sent with each request.
	ModelName() string

	// Close releases resources.
	Close() error
}

// CompletionOptions configures a single completion call.
type CompletionOptions struct {
	// MaxTokens is the response token budget. Zero omits the field.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// Timeout bounds the whole call. Zero uses the adapter default.
	Timeout time.Duration
}
