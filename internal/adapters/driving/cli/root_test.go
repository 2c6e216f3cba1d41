package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/complia-labs/complia-cli/internal/core/domain"
)

// stubAssistant returns a fixed answer.
type stubAssistant struct {
	answer domain.Answer
	err    error
	calls  int
	lastQ  string
}

func (s *stubAssistant) Answer(_ context.Context, question string) (domain.Answer, error) {
	s.calls++
	s.lastQ = question
	return s.answer, s.err
}

// stubIndexer returns a fixed report.
type stubIndexer struct {
	report    domain.IndexReport
	err       error
	calls     int
	lastForce bool
}

func (s *stubIndexer) Index(_ context.Context, force bool) (domain.IndexReport, error) {
	s.calls++
	s.lastForce = force
	return s.report, s.err
}

// setupTestServices wires stub services and returns a cleanup func.
func setupTestServices() func() {
	SetServices(&Services{
		Assistant: &stubAssistant{answer: domain.Answer{
			Text:      "Transferencias PIX acima de R$ 5.000 exigem aprovacao.",
			Intent:    domain.IntentCompliance,
			Retrieved: 4,
		}},
		Indexer: &stubIndexer{report: domain.IndexReport{Documents: 2, Chunks: 9}},
	})
	return func() {
		SetServices(nil)
	}
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "complia", rootCmd.Use)
}

func TestRootCmd_HasVerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	assert.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["index"])
	assert.True(t, names["ask"])
	assert.True(t, names["chat"])
	assert.True(t, names["version"])
}

func TestSetVersion(t *testing.T) {
	defer SetVersion("dev")

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)

	SetVersion("")
	assert.Equal(t, "1.2.3", version, "empty version must not overwrite")
}
