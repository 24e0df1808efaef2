package ports

import (
	"context"

	"github.com/adamugarba/thanledger/internal/application/dto"
)

// IntentClassifier is the outbound port for the natural-language intent
// service. Any adapter (Gemini, OpenAI, Ollama, mock) implements this
// interface; the application layer only knows the contract. The context
// should carry a timeout: external model calls must not block the webhook.
type IntentClassifier interface {
	// Classify maps free-form operator text to one of the defined action
	// kinds with extracted slot values and a confidence score. When the
	// model cannot commit to an action it fills Clarification instead.
	Classify(ctx context.Context, text string) (*dto.IntentResult, error)
}
