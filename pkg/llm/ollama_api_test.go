package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/outreach/pkg/utils"
)

func TestOllamaClient_RequestsJSONFormat(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/x-ndjson")
		_, _ = w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"{\"title\":\"T\"}"},"done":true}` + "\n"))
	}))
	defer server.Close()

	client, err := NewOllamaClient(server.URL)
	require.NoError(t, err)

	opts := testOptions()
	opts.Model = "llama3"
	out, err := client.Generate(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, opts)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"T"}`, out)

	assert.Equal(t, "llama3", got["model"])
	assert.Equal(t, "json", got["format"])
	assert.Equal(t, false, got["stream"])
	options, ok := got["options"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, options["temperature"])
	assert.EqualValues(t, 4095, options["num_predict"])
}

func TestOllamaClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer server.Close()

	client, err := NewOllamaClient(server.URL)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), nil, testOptions())
	require.Error(t, err)
	assert.True(t, utils.HasCategory(err, utils.CategoryNetwork))
	assert.False(t, IsTimeout(err))
}

func TestNewOllamaClient_BadHost(t *testing.T) {
	_, err := NewOllamaClient("http://[::1")
	require.Error(t, err)
	assert.True(t, utils.HasCategory(err, utils.CategoryConfiguration))
}
