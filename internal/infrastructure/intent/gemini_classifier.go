// Package intent adapts the Google Gemini REST API to the IntentClassifier
// port. It uses only net/http so the adapter adds no SDK dependency.
package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/adamugarba/thanledger/internal/application/dto"
	"github.com/adamugarba/thanledger/internal/application/ports"
	"github.com/adamugarba/thanledger/internal/domain/action"
)

var _ ports.IntentClassifier = (*GeminiClassifier)(nil)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s"

	// systemPrompt pins the model to the fixed action vocabulary and pure
	// JSON output. responseMimeType=application/json removes the need to
	// strip markdown fences from the reply.
	systemPrompt = `You are the intent parser for a textile wholesale inventory assistant.
Inventory is tracked in "thans" (bolts of fabric, numbered within a package) grouped into
"packages" (bales identified by a package number such as 5801). Operators send short
messages in English, sometimes mixing in Hindi/Urdu trade terms.

Return ONLY a JSON object (no extra text) with this exact structure:
{
  "action": {
    "kind": "<one of: sell_than, sell_package, sell_batch, return_than, return_package, transfer_than, transfer_package, transfer_batch, update_price, record_payment, add_customer>",
    "sell":     {"package_no": "", "than_no": 0, "packages": [], "customer": ""},
    "return":   {"package_no": "", "than_no": 0},
    "transfer": {"package_no": "", "than_no": 0, "packages": [], "to_warehouse": ""},
    "price":    {"package_no": "", "design": "", "shade": "", "new_price": "0"},
    "payment":  {"customer": "", "amount": "0", "method": "cash"},
    "customer": {"name": "", "credit_limit": "0"}
  },
  "confidence": <decimal between 0.0 and 1.0>,
  "clarification": "<question to ask the operator, only when confidence is low>"
}

Rules:
- Include ONLY the payload object matching the kind; omit the others entirely.
- Amounts and prices are decimal strings, never floats.
- payment method is "cash" or "bank"; default to "cash" when unstated.
- When the message is ambiguous or missing a required slot, set confidence below 0.75
  and write a single short clarification question naming the missing slot.
- Never invent package numbers, customers or amounts that are not in the message.`
)

// GeminiClassifier calls the Gemini REST API and maps its JSON reply to an
// IntentResult.
type GeminiClassifier struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiClassifier builds the adapter. model is typically
// "gemini-1.5-flash". An empty apiKey makes Classify fail fast instead of
// hanging on a doomed network call.
func NewGeminiClassifier(apiKey, model string) *GeminiClassifier {
	return &GeminiClassifier{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 20 * time.Second, // network timeout; callers also pass a ctx deadline
		},
	}
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"` // "application/json" forces pure JSON
	Temperature      float32 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// classifierPayload is the JSON shape the model is instructed to emit.
type classifierPayload struct {
	Action        action.Action `json:"action"`
	Confidence    float64       `json:"confidence"`
	Clarification string        `json:"clarification"`
}

// Classify maps one operator message to an action with a confidence score.
func (c *GeminiClassifier) Classify(ctx context.Context, text string) (*dto.IntentResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("intent: GEMINI_API_KEY not configured")
	}

	payload := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemPrompt}},
		},
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: text}},
			},
		},
		GenerationConfig: genConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.2, // low temperature for deterministic slot extraction
			MaxOutputTokens:  512,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("intent: marshal request: %w", err)
	}

	url := fmt.Sprintf(geminiBaseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("intent: create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("intent: timeout or cancellation: %w", ctx.Err())
		}
		return nil, fmt.Errorf("intent: HTTP call failed: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("intent: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp geminiResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("intent: Gemini error %d: %s", errResp.Error.Code, errResp.Error.Message)
		}
		return nil, fmt.Errorf("intent: Gemini HTTP %d", resp.StatusCode)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(rawBody, &gemResp); err != nil {
		return nil, fmt.Errorf("intent: unmarshal Gemini response: %w", err)
	}

	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("intent: Gemini returned an empty response")
	}

	rawJSON := strings.TrimSpace(gemResp.Candidates[0].Content.Parts[0].Text)

	var parsed classifierPayload
	if err := json.Unmarshal([]byte(rawJSON), &parsed); err != nil {
		return nil, fmt.Errorf("intent: model output is not valid JSON: %w (output: %s)", err, rawJSON)
	}

	confidence := parsed.Confidence
	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}

	return &dto.IntentResult{
		Action:        parsed.Action,
		Confidence:    confidence,
		Clarification: strings.TrimSpace(parsed.Clarification),
	}, nil
}
