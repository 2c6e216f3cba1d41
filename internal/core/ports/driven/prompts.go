package driven

// Prompt template names. Templates are business content, loaded from
// user-editable files with embedded fallbacks.
const (
	// PromptPersona is the system message used on every request.
	PromptPersona = "persona"

	// PromptGrounded embeds retrieved chunk text and the question.
	// Placeholders: %s (context), %s (question).
	PromptGrounded = "grounded"

	// PromptIntent asks the model to label a question.
	// Placeholder: %s (question).
	PromptIntent = "intent"
)

// PromptStore loads prompt templates by name.
type PromptStore interface {
	// Load returns the template for the given name.
	Load(name string) (string, error)
}
