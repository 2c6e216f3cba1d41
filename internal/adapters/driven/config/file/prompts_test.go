package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complia-labs/complia-cli/internal/core/ports/driven"
)

func TestPromptStore_LoadDefaults(t *testing.T) {
	store, err := NewPromptStore(filepath.Join(t.TempDir(), "prompts"))
	require.NoError(t, err)

	for _, name := range []string{driven.PromptPersona, driven.PromptGrounded, driven.PromptIntent} {
		prompt, err := store.Load(name)
		require.NoError(t, err)
		assert.NotEmpty(t, prompt)
	}
}

func TestPromptStore_CreatesDefaultFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptPersona)
	require.NoError(t, err)

	for _, name := range []string{"persona", "grounded", "intent"} {
		_, err := os.Stat(filepath.Join(dir, name+".txt"))
		assert.NoError(t, err, "expected default file for %s", name)
	}
}

func TestPromptStore_UserEditWins(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")
	require.NoError(t, os.MkdirAll(dir, 0700))
	custom := "Custom persona text."
	require.NoError(t, os.WriteFile(filepath.Join(dir, "persona.txt"), []byte(custom), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptPersona)
	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestPromptStore_UnknownName(t *testing.T) {
	store, err := NewPromptStore(filepath.Join(t.TempDir(), "prompts"))
	require.NoError(t, err)

	_, err = store.Load("mystery")
	assert.Error(t, err)
}

func TestPromptStore_ReloadPicksUpEdits(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	first, err := store.Load(driven.PromptIntent)
	require.NoError(t, err)

	edited := first + "\nExtra instruction."
	require.NoError(t, os.WriteFile(filepath.Join(dir, "intent.txt"), []byte(edited), 0600))

	store.Reload()
	second, err := store.Load(driven.PromptIntent)
	require.NoError(t, err)
	assert.Equal(t, edited, second)
}

func TestPromptStore_GroundedHasPlaceholders(t *testing.T) {
	store, err := NewPromptStore(filepath.Join(t.TempDir(), "prompts"))
	require.NoError(t, err)

	grounded, err := store.Load(driven.PromptGrounded)
	require.NoError(t, err)
	assert.Equal(t, 2, countPlaceholders(grounded))

	intent, err := store.Load(driven.PromptIntent)
	require.NoError(t, err)
	assert.Equal(t, 1, countPlaceholders(intent))
}

func countPlaceholders(s string) int {
	n := 0
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '%' && s[i+1] == 's' {
			n++
		}
	}
	return n
}
