package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"recipe-recommender/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_EncodeTEI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embed", r.URL.Path)

		var req teiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"Recipe with Egg."}, req.Inputs)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([][]float32{{0.1, 0.2, 0.3}})
	}))
	defer server.Close()

	client := NewClient(Config{Provider: ProviderTEI, BaseURL: server.URL})
	vec, err := client.Encode(context.Background(), "Recipe with Egg.")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestClient_EncodeOllama(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "all-minilm", req.Model)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": []float32{0.5, 0.5},
		})
	}))
	defer server.Close()

	client := NewClient(Config{Provider: ProviderOllama, BaseURL: server.URL, Model: "all-minilm"})
	vec, err := client.Encode(context.Background(), "hello")

	require.NoError(t, err)
	assert.Len(t, vec, 2)
}

func TestClient_ServerErrorIsModelUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.Encode(context.Background(), "test")

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrModelUnavailable))
}

func TestClient_WarmupRecordsDimension(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req teiRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		out := make([][]float32, len(req.Inputs))
		for i := range out {
			out[i] = []float32{1, 2, 3, 4}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	assert.False(t, client.Ready())

	require.NoError(t, client.Warmup(context.Background()))
	assert.True(t, client.Ready())
	assert.Equal(t, 4, client.Dimension())

	vec, err := client.Encode(context.Background(), "a")
	require.NoError(t, err)
	assert.Len(t, vec, 4)
}

func TestClient_DimensionMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([][]float32{{1, 2}})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Dimension: 384})
	_, err := client.Encode(context.Background(), "test")

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrModelUnavailable))
}

func TestClient_DefaultValues(t *testing.T) {
	client := NewClient(Config{Provider: ProviderOllama})
	assert.Equal(t, "http://localhost:11434", client.cfg.BaseURL)

	client = NewClient(Config{})
	assert.Equal(t, ProviderTEI, client.cfg.Provider)
	assert.Equal(t, "http://localhost:8080", client.cfg.BaseURL)
}
