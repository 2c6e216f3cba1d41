package domain

import "strings"

// Intent is the routing label for an incoming question.
type Intent string

const (
	// IntentGeneral marks small talk and questions that need no
	// document grounding.
	IntentGeneral Intent = "general"

	// IntentCompliance marks questions answered against the indexed
	// corpus. It is also the safe default when classification fails.
	IntentCompliance Intent = "compliance"
)

// ParseIntent interprets a raw classifier response. The trimmed,
// lower-cased response must exactly equal "general" to route to the
// ungrounded path; any other value routes to the compliance path.
func ParseIntent(raw string) Intent {
	if strings.ToLower(strings.TrimSpace(raw)) == string(IntentGeneral) {
		return IntentGeneral
	}
	return IntentCompliance
}

// Answer is the orchestrator's result for one question.
type Answer struct {
	// Text is the completion returned verbatim by the model.
	Text string

	// Intent is the route the question took.
	Intent Intent

	// Retrieved is the number of chunks used to ground the answer.
	// Zero for the general path.
	Retrieved int
}
