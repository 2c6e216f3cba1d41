package services

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/complia-labs/complia-cli/internal/core/domain"
	"github.com/complia-labs/complia-cli/internal/core/ports/driven"
	"github.com/complia-labs/complia-cli/internal/logger"
)

// Classifier defaults.
const (
	// DefaultIntentCacheSize bounds the intent cache.
	DefaultIntentCacheSize = 50

	// intentMaxTokens is the response budget: one label word.
	intentMaxTokens = 8

	// intentTimeout bounds the classification call. Classification is
	// cheap; a slow classifier must not stall the whole question.
	intentTimeout = 30 * time.Second
)

// Classifier routes a question to the general or compliance path with
// a single short LLM call. It fails closed: any classification failure
// degrades to the compliance path, which retrieves documents and is
// therefore the safe, if more expensive, default.
type Classifier struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	cache   *lru.Cache[string, domain.Intent]
}

// NewClassifier creates an intent classifier with a bounded LRU cache.
// cacheSize <= 0 uses DefaultIntentCacheSize.
func NewClassifier(llm driven.LLMService, prompts driven.PromptStore, cacheSize int) (*Classifier, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultIntentCacheSize
	}
	cache, err := lru.New[string, domain.Intent](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create intent cache: %w", err)
	}
	return &Classifier{llm: llm, prompts: prompts, cache: cache}, nil
}

// Classify labels a question. Repeated questions within the cache
// window never re-invoke the model. This is the single site where a
// classification failure maps to the default intent; the error never
// escapes.
func (c *Classifier) Classify(ctx context.Context, question string) domain.Intent {
	if intent, ok := c.cache.Get(question); ok {
		logger.Debug("Intent cache hit: %q -> %s", question, intent)
		return intent
	}

	intent, err := c.classify(ctx, question)
	if err != nil {
		logger.Warn("Intent classification failed, defaulting to %s: %v",
			domain.IntentCompliance, err)
		return domain.IntentCompliance
	}

	c.cache.Add(question, intent)
	logger.Debug("Intent: %q -> %s", question, intent)
	return intent
}

// classify performs the LLM call and parses the label. It returns an
// error only when the call itself failed; an unexpected label is a
// successful classification to the compliance path.
func (c *Classifier) classify(ctx context.Context, question string) (domain.Intent, error) {
	if c.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	template, err := c.prompts.Load(driven.PromptIntent)
	if err != nil {
		return "", fmt.Errorf("load intent prompt: %w", err)
	}

	response, err := c.llm.Complete(ctx,
		[]domain.Message{{Role: domain.RoleUser, Content: fmt.Sprintf(template, question)}},
		driven.CompletionOptions{MaxTokens: intentMaxTokens, Timeout: intentTimeout},
	)
	if err != nil {
		return "", err
	}

	return domain.ParseIntent(response), nil
}

// CacheLen returns the current number of cached intents.
func (c *Classifier) CacheLen() int {
	return c.cache.Len()
}
