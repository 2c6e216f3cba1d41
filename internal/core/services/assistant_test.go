package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complia-labs/complia-cli/internal/adapters/driven/vectorstore/memory"
	"github.com/complia-labs/complia-cli/internal/core/domain"
)

func newTestAssistant(t *testing.T, llm *fakeLLM, embedder *fakeEmbedder, store *recordingStore) *Assistant {
	t.Helper()
	classifier, err := NewClassifier(llm, newFakePrompts(), 0)
	require.NoError(t, err)
	return NewAssistant(classifier, embedder, store, llm, newFakePrompts(), AssistantConfig{})
}

func indexedStore(t *testing.T, entries ...domain.IndexEntry) *recordingStore {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Upsert(context.Background(), entries))
	return &recordingStore{VectorStore: store}
}

func TestAssistant_GeneralPathSkipsRetrieval(t *testing.T) {
	llm := &fakeLLM{responses: []string{"general", "Ola! Como posso ajudar?"}}
	embedder := &fakeEmbedder{}
	store := indexedStore(t, domain.IndexEntry{
		ChunkID: "politica.txt_0", Content: "regras", Embedding: []float32{1, 0, 0},
	})
	a := newTestAssistant(t, llm, embedder, store)

	answer, err := a.Answer(context.Background(), "bom dia!")
	require.NoError(t, err)

	assert.Equal(t, domain.IntentGeneral, answer.Intent)
	assert.Equal(t, "Ola! Como posso ajudar?", answer.Text)
	assert.Zero(t, answer.Retrieved)
	assert.Zero(t, store.queries, "general path must never query the store")
	assert.Zero(t, embedder.embedCalls, "general path must never embed")
}

func TestAssistant_CompliancePathRetrievesNearestChunks(t *testing.T) {
	llm := &fakeLLM{responses: []string{"compliance", "Transferencias PIX acima de R$ 5.000 exigem aprovacao."}}
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"qual o limite do pix?": {1, 0, 0},
	}}
	store := indexedStore(t,
		domain.IndexEntry{ChunkID: "politica.txt_0", Content: "PIX acima de R$ 5.000 exige aprovacao.", Embedding: []float32{1, 0, 0}},
		domain.IndexEntry{ChunkID: "politica.txt_1", Content: "Horario de atendimento.", Embedding: []float32{0, 1, 0}},
	)
	a := newTestAssistant(t, llm, embedder, store)

	answer, err := a.Answer(context.Background(), "qual o limite do pix?")
	require.NoError(t, err)

	assert.Equal(t, domain.IntentCompliance, answer.Intent)
	assert.Equal(t, 2, answer.Retrieved)
	assert.Equal(t, 1, store.queries)

	// The final request carries the persona plus a grounded prompt
	// containing both the retrieved text and the question.
	require.Len(t, llm.lastMsgs, 2)
	assert.Equal(t, domain.RoleSystem, llm.lastMsgs[0].Role)
	assert.Contains(t, llm.lastMsgs[1].Content, "PIX acima de R$ 5.000")
	assert.Contains(t, llm.lastMsgs[1].Content, "qual o limite do pix?")
}

func TestAssistant_GroundedPromptJoinsChunksInRank(t *testing.T) {
	llm := &fakeLLM{responses: []string{"compliance", "ok"}}
	embedder := &fakeEmbedder{vectors: map[string][]float32{"pergunta": {1, 0, 0}}}
	store := indexedStore(t,
		domain.IndexEntry{ChunkID: "a_0", Content: "menos relevante", Embedding: []float32{0.2, 1, 0}},
		domain.IndexEntry{ChunkID: "a_1", Content: "mais relevante", Embedding: []float32{1, 0.1, 0}},
	)
	a := newTestAssistant(t, llm, embedder, store)

	_, err := a.Answer(context.Background(), "pergunta")
	require.NoError(t, err)

	prompt := llm.lastMsgs[1].Content
	require.Contains(t, prompt, "mais relevante")
	require.Contains(t, prompt, "menos relevante")
	assert.Less(t,
		strings.Index(prompt, "mais relevante"),
		strings.Index(prompt, "menos relevante"),
		"chunks must appear in similarity order")
}

func TestAssistant_EmptyStoreIsNotIndexed(t *testing.T) {
	llm := &fakeLLM{responses: []string{"compliance"}}
	store := &recordingStore{VectorStore: memory.NewStore()}
	a := newTestAssistant(t, llm, &fakeEmbedder{}, store)

	_, err := a.Answer(context.Background(), "qual o limite do pix?")

	assert.ErrorIs(t, err, domain.ErrNotIndexed)
}

func TestAssistant_EmptyQuestionRejected(t *testing.T) {
	llm := &fakeLLM{}
	a := newTestAssistant(t, llm, &fakeEmbedder{}, &recordingStore{VectorStore: memory.NewStore()})

	_, err := a.Answer(context.Background(), "   \n ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, llm.calls)
}

func TestAssistant_CompletionErrorSurfacesUnchanged(t *testing.T) {
	timeoutErr := &domain.TimeoutError{Op: "chat completion"}
	llm := &fakeLLM{err: timeoutErr}
	store := indexedStore(t, domain.IndexEntry{
		ChunkID: "a_0", Content: "x", Embedding: []float32{1, 0, 0},
	})
	a := newTestAssistant(t, llm, &fakeEmbedder{}, store)

	// Classification fails closed to compliance, then the grounded
	// completion fails with the same timeout, which must reach the
	// caller as-is.
	_, err := a.Answer(context.Background(), "qual o limite?")

	var te *domain.TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "chat completion", te.Op)
}

func TestAssistant_TokenBudgetsPerPath(t *testing.T) {
	llm := &fakeLLM{responses: []string{"general", "oi"}}
	store := indexedStore(t, domain.IndexEntry{
		ChunkID: "a_0", Content: "x", Embedding: []float32{1, 0, 0},
	})
	a := newTestAssistant(t, llm, &fakeEmbedder{}, store)

	_, err := a.Answer(context.Background(), "bom dia")
	require.NoError(t, err)
	assert.Equal(t, DefaultGeneralMaxTokens, llm.lastOpts.MaxTokens)
	assert.Equal(t, DefaultGeneralTimeout, llm.lastOpts.Timeout)

	llm.responses = []string{"compliance", "resposta"}
	_, err = a.Answer(context.Background(), "qual a regra?")
	require.NoError(t, err)
	assert.Equal(t, DefaultGroundedMaxTokens, llm.lastOpts.MaxTokens)
	assert.Equal(t, DefaultGroundedTimeout, llm.lastOpts.Timeout)
}

func TestAssistant_EndToEndWithIndexer(t *testing.T) {
	policy := "As transferencias PIX acima de R$ 5.000 para novos destinatarios " +
		"exigem aprovacao do gerente. " +
		"Operacoes internacionais acima de USD 10.000 devem ser reportadas. "
	source := &fakeSource{
		docs: map[string]string{
			"politica.txt":   policy + policy + policy + policy, // forces multiple chunks
			"transacoes.csv": "id: 1; valor: 300.00; tipo: pix; status: aprovada",
		},
		order: []string{"politica.txt", "transacoes.csv"},
	}
	embedder := &fakeEmbedder{vectors: map[string][]float32{}}
	store := &recordingStore{VectorStore: memory.NewStore()}

	ix := NewIndexer(source, embedder, store)
	report, err := ix.Index(context.Background(), false)
	require.NoError(t, err)
	require.GreaterOrEqual(t, report.Chunks, 3)
	require.Empty(t, report.Failures)

	llm := &fakeLLM{responses: []string{"compliance", "Exigem aprovacao do gerente."}}
	a := newTestAssistant(t, llm, embedder, store)

	answer, err := a.Answer(context.Background(), "pix acima de 5000 precisa de aprovacao?")
	require.NoError(t, err)

	assert.Equal(t, domain.IntentCompliance, answer.Intent)
	assert.Positive(t, answer.Retrieved)
	assert.LessOrEqual(t, answer.Retrieved, DefaultTopK)
	assert.Equal(t, "Exigem aprovacao do gerente.", answer.Text)
}
