package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/complia-labs/complia-cli/internal/core/domain"
	"github.com/complia-labs/complia-cli/internal/core/ports/driven"
	"github.com/complia-labs/complia-cli/internal/core/ports/driving"
	"github.com/complia-labs/complia-cli/internal/logger"
)

// Ensure Assistant implements the interface.
var _ driving.Assistant = (*Assistant)(nil)

// Assistant defaults.
const (
	// DefaultTopK is how many chunks ground a compliance answer.
	DefaultTopK = 12

	// DefaultGeneralMaxTokens budgets ungrounded small-talk replies.
	DefaultGeneralMaxTokens = 256

	// DefaultGroundedMaxTokens budgets document-grounded answers.
	DefaultGroundedMaxTokens = 1024

	// DefaultGeneralTimeout bounds the short ungrounded call.
	DefaultGeneralTimeout = 30 * time.Second

	// DefaultGroundedTimeout bounds the larger grounded call.
	DefaultGroundedTimeout = 90 * time.Second

	// chunkSeparator joins retrieved chunk texts in ranked order.
	chunkSeparator = "\n\n---\n\n"
)

// AssistantConfig tunes the orchestrator. Zero values use defaults.
type AssistantConfig struct {
	TopK              int
	GeneralMaxTokens  int
	GroundedMaxTokens int
	GeneralTimeout    time.Duration
	GroundedTimeout   time.Duration
}

func (c *AssistantConfig) applyDefaults() {
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}
	if c.GeneralMaxTokens <= 0 {
		c.GeneralMaxTokens = DefaultGeneralMaxTokens
	}
	if c.GroundedMaxTokens <= 0 {
		c.GroundedMaxTokens = DefaultGroundedMaxTokens
	}
	if c.GeneralTimeout <= 0 {
		c.GeneralTimeout = DefaultGeneralTimeout
	}
	if c.GroundedTimeout <= 0 {
		c.GroundedTimeout = DefaultGroundedTimeout
	}
}

// Assistant is the retrieval orchestrator: it routes each question by
// intent, retrieves grounding chunks when needed, assembles the prompt
// and performs the completion call. It never retries; a failure below
// surfaces to the caller as one classified error.
type Assistant struct {
	classifier *Classifier
	embedder   driven.EmbeddingService
	store      driven.VectorStore
	llm        driven.LLMService
	prompts    driven.PromptStore
	cfg        AssistantConfig
}

// NewAssistant creates the retrieval orchestrator. The embedder should
// be the cached decorator so repeated questions skip re-encoding.
func NewAssistant(
	classifier *Classifier,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	llm driven.LLMService,
	prompts driven.PromptStore,
	cfg AssistantConfig,
) *Assistant {
	cfg.applyDefaults()
	return &Assistant{
		classifier: classifier,
		embedder:   embedder,
		store:      store,
		llm:        llm,
		prompts:    prompts,
		cfg:        cfg,
	}
}

// Answer processes one question start to finish.
func (a *Assistant) Answer(ctx context.Context, question string) (domain.Answer, error) {
	logger.Section("Answer")

	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if a.llm == nil {
		return domain.Answer{}, domain.ErrLLMUnavailable
	}

	intent := a.classifier.Classify(ctx, question)
	logger.Info("Intent: %s", intent)

	if intent == domain.IntentGeneral {
		return a.answerGeneral(ctx, question)
	}
	return a.answerGrounded(ctx, question)
}

// answerGeneral replies without document grounding: persona plus the
// question, small response budget. The vector store is never touched.
func (a *Assistant) answerGeneral(ctx context.Context, question string) (domain.Answer, error) {
	persona, err := a.prompts.Load(driven.PromptPersona)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("load persona prompt: %w", err)
	}

	text, err := a.llm.Complete(ctx,
		[]domain.Message{
			{Role: domain.RoleSystem, Content: persona},
			{Role: domain.RoleUser, Content: question},
		},
		driven.CompletionOptions{
			MaxTokens: a.cfg.GeneralMaxTokens,
			Timeout:   a.cfg.GeneralTimeout,
		},
	)
	if err != nil {
		return domain.Answer{}, err
	}

	return domain.Answer{Text: text, Intent: domain.IntentGeneral}, nil
}

// answerGrounded retrieves the nearest chunks and embeds them in the
// prompt alongside the question, with the larger response budget.
func (a *Assistant) answerGrounded(ctx context.Context, question string) (domain.Answer, error) {
	if a.embedder == nil {
		return domain.Answer{}, domain.ErrEmbeddingUnavailable
	}
	if a.store == nil {
		return domain.Answer{}, domain.ErrStoreUnavailable
	}

	count, err := a.store.Count(ctx)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("count store: %w", err)
	}
	if count == 0 {
		return domain.Answer{}, domain.ErrNotIndexed
	}

	embedding, err := a.embedder.Embed(ctx, question)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("embed question: %w", err)
	}

	hits, err := a.store.Query(ctx, embedding, a.cfg.TopK)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("query store: %w", err)
	}
	logger.Debug("Retrieved %d chunks", len(hits))

	contexts := make([]string, len(hits))
	for i, hit := range hits {
		contexts[i] = hit.Content
	}

	persona, err := a.prompts.Load(driven.PromptPersona)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("load persona prompt: %w", err)
	}
	template, err := a.prompts.Load(driven.PromptGrounded)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("load grounded prompt: %w", err)
	}

	prompt := fmt.Sprintf(template, strings.Join(contexts, chunkSeparator), question)

	text, err := a.llm.Complete(ctx,
		[]domain.Message{
			{Role: domain.RoleSystem, Content: persona},
			{Role: domain.RoleUser, Content: prompt},
		},
		driven.CompletionOptions{
			MaxTokens: a.cfg.GroundedMaxTokens,
			Timeout:   a.cfg.GroundedTimeout,
		},
	)
	if err != nil {
		return domain.Answer{}, err
	}

	return domain.Answer{
		Text:      text,
		Intent:    domain.IntentCompliance,
		Retrieved: len(hits),
	}, nil
}
