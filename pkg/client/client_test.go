package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinGeckoUSDPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "chainlink", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		assert.Equal(t, "demo", r.Header.Get("x-cg-demo-api-key"))
		w.Write([]byte(`{"chainlink":{"usd":14.25}}`))
	}))
	defer srv.Close()

	c := NewCoinGeckoClient(srv.URL, "demo", time.Second)
	price, err := c.USDPrice(context.Background(), "chainlink")
	require.NoError(t, err)
	assert.Equal(t, "14.25", price.String())
}

func TestCoinGeckoErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{"server error", http.StatusTooManyRequests, `{}`},
		{"missing id", http.StatusOK, `{}`},
		{"bad json", http.StatusOK, `not json`},
		{"zero price", http.StatusOK, `{"dai":{"usd":0}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.payload))
			}))
			defer srv.Close()

			_, err := NewCoinGeckoClient(srv.URL, "", time.Second).USDPrice(context.Background(), "dai")
			assert.Error(t, err)
		})
	}
}

func TestCoinGeckoTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewCoinGeckoClient(srv.URL, "", 20*time.Millisecond).USDPrice(context.Background(), "ethereum")
	assert.Error(t, err)
}

func TestOpenAICompleteWithSystem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "hello", req.Messages[1].Content)
		assert.Equal(t, 200, req.MaxTokens)

		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  hi there  "}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL, Model: "test-model"})
	reply, err := c.CompleteWithSystem(context.Background(), "be brief", "hello", CompletionOptions{Temperature: 0.1, MaxTokens: 200})
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)
}

func TestOpenAIRequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(OpenAIConfig{}).CompleteWithSystem(context.Background(), "", "hi", CompletionOptions{})
	assert.EqualError(t, err, "API key not configured")
}

func TestOpenAIRetriesRateLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: srv.URL})
	reply, err := c.CompleteWithSystem(context.Background(), "", "hi", CompletionOptions{})
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestOpenAIDoesNotRetryBadRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"bad"}}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: srv.URL}).CompleteWithSystem(context.Background(), "", "hi", CompletionOptions{})
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence("```{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence(` {"a":1} `))
}
