package textgen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// MockTextGenerator returns canned JSON documents keyed by a substring of the
// prompt. Prompts matching no key return Err (or a default failure).
type MockTextGenerator struct {
	Responses map[string]string
	Err       error
	Calls     []string
}

func NewMockTextGenerator(responses map[string]string) *MockTextGenerator {
	return &MockTextGenerator{Responses: responses}
}

func (m *MockTextGenerator) Complete(ctx context.Context, prompt string, schemaHint string) (json.RawMessage, error) {
	m.Calls = append(m.Calls, prompt)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for key, doc := range m.Responses {
		if key == "" || containsFold(prompt, key) {
			return json.RawMessage(doc), nil
		}
	}

	if m.Err != nil {
		return nil, m.Err
	}
	return nil, errors.New("mock text generator: no canned response for prompt")
}
