package driving

import (
	"context"

	"github.com/complia-labs/complia-cli/internal/core/domain"
)

// Assistant answers one question end to end: intent routing, retrieval
// when grounding is needed, prompt assembly and the completion call.
// A failure anywhere below surfaces as a single classified error; the
// assistant never retries.
type Assistant interface {
	Answer(ctx context.Context, question string) (domain.Answer, error)
}
