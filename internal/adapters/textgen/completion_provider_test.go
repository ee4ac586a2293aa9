package textgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatHandler(t *testing.T, content string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func TestCompleteExtractsJSONFromReply(t *testing.T) {
	srv := httptest.NewServer(chatHandler(t, "Here you go:\n```json\n{\"overall_risk\": \"low\"}\n```"))
	defer srv.Close()

	p, err := NewCompletionProvider("test-key", srv.URL, "test-model")
	require.NoError(t, err)

	doc, err := p.Complete(context.Background(), "assess the trip", `{"overall_risk":"low|medium|high"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"overall_risk": "low"}`, string(doc))
}

func TestCompleteSchemaHintReachesSystemMessage(t *testing.T) {
	var sawHint atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if len(req.Messages) > 0 && req.Messages[0].Role == "system" {
			sawHint.Store(true)
			assert.Contains(t, req.Messages[0].Content, `"overall_risk"`)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
	}))
	defer srv.Close()

	p, err := NewCompletionProvider("test-key", srv.URL, "test-model")
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), "assess", `{"overall_risk":"low"}`)
	require.NoError(t, err)
	assert.True(t, sawHint.Load())
}

func TestCompleteRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"ok\":true}"}}]}`))
	}))
	defer srv.Close()

	p, err := NewCompletionProvider("test-key", srv.URL, "test-model")
	require.NoError(t, err)

	doc, err := p.Complete(context.Background(), "assess", "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(doc))
	assert.Equal(t, int32(2), calls.Load())
}

func TestCompleteGivesUpOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	p, err := NewCompletionProvider("test-key", srv.URL, "test-model")
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), "assess", "")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	p, err := NewCompletionProvider("test-key", srv.URL, "test-model")
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), "assess", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestNewCompletionProviderRequiresAPIKey(t *testing.T) {
	_, err := NewCompletionProvider("", "", "")
	assert.Error(t, err)
}
