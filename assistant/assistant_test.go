package assistant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBridge_AskOfflineWithoutCredential(t *testing.T) {
	bridge := New("http://unused", "", newTestStore(t))

	assert.False(t, bridge.Configured())

	reply, err := bridge.Ask(context.Background(), "sess-1", "hello")
	assert.NoError(t, err)
	assert.Equal(t, OfflineResponse, reply)
}

func TestBridge_AskWrapsMessageInPersona(t *testing.T) {
	var gotPrompt string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Prompt string `json:"prompt"`
		}
		_ = json.Unmarshal(body, &req)
		gotPrompt = req.Prompt
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "reply"})
	}))
	defer upstream.Close()

	bridge := New(upstream.URL, "test-key", newTestStore(t))

	reply, err := bridge.Ask(context.Background(), "sess-1", "what is an FIR?")
	assert.NoError(t, err)
	assert.Equal(t, "reply", reply)

	// the persona wrapper and the raw user message both reach the service
	assert.True(t, strings.Contains(gotPrompt, "You are FIR-Bot"))
	assert.True(t, strings.Contains(gotPrompt, `User's message: "what is an FIR?"`))
	assert.True(t, strings.Contains(gotPrompt, "emergency number 112"))
}

func TestBridge_AskRecordsBothTurns(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "An FIR is a First Information Report."})
	}))
	defer upstream.Close()

	store := newTestStore(t)
	bridge := New(upstream.URL, "test-key", store)

	_, err := bridge.Ask(context.Background(), "sess-1", "what is an FIR?")
	assert.NoError(t, err)

	history, err := store.History(context.Background(), "sess-1")
	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, "what is an FIR?", history[0].Text)
	assert.Equal(t, "An FIR is a First Information Report.", history[1].Text)
}

func TestBridge_AskUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "over quota", http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	store := newTestStore(t)
	bridge := New(upstream.URL, "test-key", store)

	_, err := bridge.Ask(context.Background(), "sess-1", "hello")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")

	history, err := store.History(context.Background(), "sess-1")
	assert.NoError(t, err)
	assert.Empty(t, history)
}

func TestBridge_AskMalformedUpstreamBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer upstream.Close()

	bridge := New(upstream.URL, "test-key", newTestStore(t))

	_, err := bridge.Ask(context.Background(), "sess-1", "hello")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "decode completion response")
}
