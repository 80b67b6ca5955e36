package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/promptspec/api/internal/imagespec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() imagespec.CompletionRequest {
	return imagespec.CompletionRequest{
		Messages:  imagespec.ComposePrompt("fox", "stable").Messages(),
		MaxTokens: 600,
	}
}

func TestClient_Complete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"prompt\":\"fox\"}"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "secret", BaseURL: srv.URL + "/v1/", Model: "small"}, nil)
	text, err := c.Complete(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, `{"prompt":"fox"}`, text)
	assert.Equal(t, "small", got.Model)
	assert.Zero(t, got.Temperature)
	assert.Equal(t, 600, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
}

func TestClient_Complete_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Unauthorized"}`))
	}))
	defer srv.Close()

	_, err := NewClient(Config{APIKey: "bad", BaseURL: srv.URL}, nil).Complete(context.Background(), testRequest())

	var serr *StatusError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusUnauthorized, serr.StatusCode)
	assert.Equal(t, `{"message":"Unauthorized"}`, serr.Body)
}

func TestClient_Complete_EmptyContent(t *testing.T) {
	for _, body := range []string{
		`{"choices":[]}`,
		`{"choices":[{"message":{"content":null}}]}`,
		`{"choices":[{"message":{}}]}`,
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		text, err := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil).Complete(context.Background(), testRequest())
		srv.Close()

		require.NoError(t, err, body)
		assert.Empty(t, text, body)
	}
}

func TestMessageText_Parts(t *testing.T) {
	raw := json.RawMessage(`[{"type":"text","text":"{\"a\":"},{"type":"image_url"},{"type":"text","text":"1}"}]`)
	assert.Equal(t, `{"a":1}`, messageText(raw))
}
