// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inference

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient is a scripted provider for failover tests.
type fakeClient struct {
	result Result
	err    error
	calls  int
}

func (f *fakeClient) Generate(_ context.Context, _ Request) (Result, error) {
	f.calls++
	if f.err != nil {
		return Result{}, f.err
	}
	return f.result, nil
}

func TestFailoverClient_PrimarySucceeds(t *testing.T) {
	primary := &fakeClient{result: Result{Text: "local", Provider: "ollama"}}
	fallback := &fakeClient{result: Result{Text: "cloud", Provider: "openrouter"}}
	c := &FailoverClient{Primary: primary, Fallback: fallback}

	res, err := c.Generate(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "local", res.Text)
	assert.Equal(t, 1, primary.calls)
	assert.Zero(t, fallback.calls)
}

func TestFailoverClient_FailsOver(t *testing.T) {
	primary := &fakeClient{err: fmt.Errorf("connection refused")}
	fallback := &fakeClient{result: Result{Text: "cloud", Provider: "openrouter"}}
	c := &FailoverClient{Primary: primary, Fallback: fallback}

	res, err := c.Generate(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "cloud", res.Text)
	assert.Equal(t, 1, fallback.calls)
}

func TestFailoverClient_NoFallbackPropagates(t *testing.T) {
	primary := &fakeClient{err: fmt.Errorf("connection refused")}
	c := &FailoverClient{Primary: primary}

	_, err := c.Generate(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFailoverClient_BothFail(t *testing.T) {
	primary := &fakeClient{err: fmt.Errorf("primary down")}
	fallback := &fakeClient{err: fmt.Errorf("cloud down")}
	c := &FailoverClient{Primary: primary, Fallback: fallback}

	_, err := c.Generate(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primary down")
	assert.Contains(t, err.Error(), "cloud down")
}

func TestFailoverClient_CallCeiling(t *testing.T) {
	primary := &fakeClient{result: Result{Text: "ok"}}
	c := &FailoverClient{Primary: primary, MaxCalls: 2}

	for i := 0; i < 2; i++ {
		_, err := c.Generate(context.Background(), Request{})
		require.NoError(t, err)
	}
	_, err := c.Generate(context.Background(), Request{})
	require.ErrorIs(t, err, ErrBudgetExhausted)
	assert.Equal(t, 2, primary.calls)
}

func TestOpenRouterClient_MissingKey(t *testing.T) {
	c := NewOpenRouterClient(http.DefaultClient, "", "", "some-model")
	_, err := c.Generate(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestOpenRouterClient_Generate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`))
	}))
	defer ts.Close()

	c := NewOpenRouterClient(ts.Client(), ts.URL, "sk-test", "router-model")
	res, err := c.Generate(context.Background(), Request{Prompt: "p", Temperature: 0.2})
	require.NoError(t, err)
	assert.Equal(t, "hello", res.Text)
	assert.Equal(t, "openrouter", res.Provider)
	assert.Equal(t, "router-model", res.Model)
}

func TestOllamaClient_Generate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		w.Write([]byte(`{"response":"generated text"}`))
	}))
	defer ts.Close()

	c := NewOllamaClient(ts.Client(), ts.URL)
	res, err := c.Generate(context.Background(), Request{Prompt: "p", Model: "llama3.1:8b"})
	require.NoError(t, err)
	assert.Equal(t, "generated text", res.Text)
	assert.Equal(t, "ollama", res.Provider)
}
