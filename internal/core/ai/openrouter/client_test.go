package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-recommender/internal/core/ai/provider"
	"recipe-recommender/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(provider.Config{
		APIKey:  "sk-test",
		Model:   "mistralai/mistral-7b-instruct",
		BaseURL: srv.URL,
		Timeout: 2 * time.Second,
	})
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestClient_Generate(t *testing.T) {
	var got Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, `{"id":"gen-1","model":"mistralai/mistral-7b-instruct","choices":[{"message":{"role":"assistant","content":"Recipe Name: Toast"}}],"usage":{"prompt_tokens":12,"completion_tokens":4,"total_tokens":16}}`)
	})

	resp, err := client.Generate(context.Background(), provider.UserPrompt("make toast", provider.Params{MaxTokens: 100, Temperature: 0.1}))
	require.NoError(t, err)

	assert.Equal(t, "Recipe Name: Toast", resp.Content)
	assert.Equal(t, "mistralai/mistral-7b-instruct", resp.Model)
	assert.Equal(t, 16, resp.Usage.TotalTokens)

	assert.Equal(t, "mistralai/mistral-7b-instruct", got.Model)
	assert.Equal(t, 100, got.MaxTokens)
	assert.Equal(t, 0.1, got.Temperature)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "make toast", got.Messages[0].Content)
}

func TestClient_GenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   *common.CustomError
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, common.ErrTooManyRequests},
		{"upstream failure", http.StatusInternalServerError, `{"error":{"message":"boom"}}`, common.ErrModelUnavailable},
		{"upstream timeout", http.StatusGatewayTimeout, `{"error":{"message":"timeout"}}`, common.ErrGenerationTimeout},
		{"empty choices", http.StatusOK, `{"choices":[]}`, common.ErrModelUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := client.Generate(context.Background(), provider.UserPrompt("p", provider.Params{}))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), err.Error())
		})
	}
}

func TestClient_GenerateTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Generate(ctx, provider.UserPrompt("p", provider.Params{}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrGenerationTimeout))
	assert.True(t, common.IsRetryable(err))
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(provider.Config{Model: "m"})

	assert.Equal(t, "m", client.GetModel())
	assert.Equal(t, 90*time.Second, client.GetTimeout())
	assert.Equal(t, defaultBaseURL, client.cfg.BaseURL)
	assert.NoError(t, client.Close())
}
