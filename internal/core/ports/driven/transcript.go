package driven

import (
	"context"

	"github.com/complia-labs/complia-cli/internal/core/domain"
)

// TranscriptStore persists chat exchanges. An exchange is recorded only
// after the answer succeeded; failed questions leave no partial record.
type TranscriptStore interface {
	// SaveMessage appends a message to its session's transcript.
	SaveMessage(ctx context.Context, msg domain.Message) error

	// ListSession returns a session's messages in insertion order.
	ListSession(ctx context.Context, sessionID string) ([]domain.Message, error)

	// Close releases resources.
	Close() error
}
