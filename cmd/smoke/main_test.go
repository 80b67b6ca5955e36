package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	opts, err := parseArgs([]string{"--engine", "flux", "a", "red", "fox", "--url", "http://x:9/"})
	require.NoError(t, err)
	assert.Equal(t, "a red fox", opts.prompt)
	assert.Equal(t, "flux", opts.engine)
	assert.Equal(t, "http://x:9", opts.url)

	_, err = parseArgs([]string{"--engine", "flux"})
	assert.Error(t, err)

	_, err = parseArgs([]string{"fox", "--url"})
	assert.Error(t, err)
}

func TestRun_Success(t *testing.T) {
	var got map[string]any
	var auth, requestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/generate", r.URL.Path)
		auth = r.Header.Get("Authorization")
		requestID = r.Header.Get("X-Request-ID")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"prompt":"fox"}}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := run(context.Background(), options{
		url: srv.URL, engine: "sdxl", prompt: "a fox", jwtSecret: "s3cret", attempts: 1,
	}, &out)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"prompt": "a fox", "engine": "sdxl"}, got)
	assert.Contains(t, out.String(), "Status:  200")
	assert.Contains(t, out.String(), requestID)

	require.True(t, strings.HasPrefix(auth, "Bearer "))
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), &jwt.RegisteredClaims{},
		func(*jwt.Token) (interface{}, error) { return []byte("s3cret"), nil })
	require.NoError(t, err)
	sub, _ := token.Claims.GetSubject()
	assert.Equal(t, "smoke", sub)
}

func TestRun_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k1", r.Header.Get("X-API-Key"))
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"No JSON object found in provider response","code":"NO_JSON_FOUND"}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := run(context.Background(), options{url: srv.URL, prompt: "fox", apiKey: "k1", attempts: 1}, &out)

	assert.Error(t, err)
	assert.Contains(t, out.String(), "NO_JSON_FOUND")
}

func TestRun_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := run(context.Background(), options{url: url, prompt: "fox", attempts: 1}, &bytes.Buffer{})
	assert.Error(t, err)
}
