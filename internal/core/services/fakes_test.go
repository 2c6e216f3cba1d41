package services

import (
	"context"
	"fmt"

	"github.com/complia-labs/complia-cli/internal/core/domain"
	"github.com/complia-labs/complia-cli/internal/core/ports/driven"
)

// fakeLLM returns canned responses in order and records every call.
type fakeLLM struct {
	responses []string
	err       error
	calls     int
	lastMsgs  []domain.Message
	lastOpts  driven.CompletionOptions
}

func (f *fakeLLM) Complete(_ context.Context, messages []domain.Message, opts driven.CompletionOptions) (string, error) {
	f.calls++
	f.lastMsgs = messages
	f.lastOpts = opts
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", fmt.Errorf("fakeLLM: no response configured")
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

func (f *fakeLLM) ModelName() string { return "fake-llm" }
func (f *fakeLLM) Close() error      { return nil }

// fakePrompts serves an in-memory template map.
type fakePrompts struct {
	templates map[string]string
}

func newFakePrompts() *fakePrompts {
	return &fakePrompts{templates: map[string]string{
		driven.PromptPersona:  "You are a compliance assistant.",
		driven.PromptGrounded: "Context:\n%s\n\nQuestion: %s",
		driven.PromptIntent:   "Label this question: %s",
	}}
}

func (f *fakePrompts) Load(name string) (string, error) {
	t, ok := f.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	return t, nil
}

// fakeEmbedder embeds every text as the same fixed vector unless a
// per-text override is set. It counts calls.
type fakeEmbedder struct {
	vectors    map[string][]float32
	embedCalls int
	batchCalls int
	err        error
}

func (f *fakeEmbedder) vector(text string) []float32 {
	if v, ok := f.vectors[text]; ok {
		return v
	}
	return []float32{1, 0, 0}
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.embedCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector(text), nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.batchCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.vector(t)
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int   { return 3 }
func (f *fakeEmbedder) ModelName() string { return "fake-embedding" }
func (f *fakeEmbedder) Close() error      { return nil }

// fakeSource serves documents from a map. IDs listed in failReads
// return an error from Read.
type fakeSource struct {
	docs      map[string]string
	order     []string
	failReads map[string]bool
}

func (f *fakeSource) List(_ context.Context) ([]string, error) {
	return append([]string(nil), f.order...), nil
}

func (f *fakeSource) Read(_ context.Context, id string) (domain.Document, error) {
	if f.failReads[id] {
		return domain.Document{}, fmt.Errorf("read %s: boom", id)
	}
	content, ok := f.docs[id]
	if !ok {
		return domain.Document{}, fmt.Errorf("read %s: %w", id, domain.ErrInvalidInput)
	}
	return domain.Document{ID: id, Path: id, Content: content}, nil
}

// recordingStore wraps a VectorStore and counts Query calls, so tests
// can assert the general path never touches retrieval.
type recordingStore struct {
	driven.VectorStore
	queries int
}

func (r *recordingStore) Query(ctx context.Context, embedding []float32, k int) ([]domain.Hit, error) {
	r.queries++
	return r.VectorStore.Query(ctx, embedding, k)
}
