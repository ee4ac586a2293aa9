package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
)

// CompletionProvider implements the TextGenerator port against an
// OpenAI-compatible chat-completions endpoint.
//
// It coordinates:
//   - Prompt assembly with a JSON schema hint
//   - External API calls with retry/backoff
//   - A circuit breaker so a degraded model API sheds load fast
//   - Defensive JSON extraction from free-form model output
//
// The provider is safe for concurrent use.
type CompletionProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	model   string
	breaker *gobreaker.CircuitBreaker[json.RawMessage]
}

func NewCompletionProvider(apiKey, baseURL, model string) (*CompletionProvider, error) {
	if apiKey == "" {
		return nil, errors.New("text generation api key is empty")
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	breaker := gobreaker.NewCircuitBreaker[json.RawMessage](gobreaker.Settings{
		Name:    "textgen",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &CompletionProvider{
		session: &http.Client{Timeout: 20 * time.Second},
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		breaker: breaker,
	}, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt and schema hint and returns the JSON document
// extracted from the model's reply.
func (p *CompletionProvider) Complete(ctx context.Context, prompt string, schemaHint string) (json.RawMessage, error) {
	return p.breaker.Execute(func() (json.RawMessage, error) {
		return p.complete(ctx, prompt, schemaHint)
	})
}

func (p *CompletionProvider) complete(ctx context.Context, prompt string, schemaHint string) (json.RawMessage, error) {
	endpoint := p.baseURL + "/v1/chat/completions"

	system := "You are a travel planning assistant. Respond with JSON only, no prose."
	if schemaHint != "" {
		system += " The response must match this shape: " + schemaHint
	}

	payload, err := gojson.Marshal(chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		return p.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded chatResponse
	if err := gojson.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return nil, errors.New("completion response has no choices")
	}

	doc, err := extractJSON(decoded.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("extract JSON from completion: %w", err)
	}

	return json.RawMessage(doc), nil
}
