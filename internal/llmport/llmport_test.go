package llmport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Delta-in-hub/FuseLLM/internal/state"
)

func TestBuildMessagesPrependsSystemPromptWhenSet(t *testing.T) {
	cfg := state.EffectiveConfig{SystemPrompt: "be terse"}
	turns := []state.Turn{{Role: "user", Content: "hi"}}

	msgs := BuildMessages(cfg, turns)
	require.Len(t, msgs, 2)
	assert.Equal(t, Message{Role: "system", Content: "be terse"}, msgs[0])
	assert.Equal(t, Message{Role: "user", Content: "hi"}, msgs[1])
}

func TestBuildMessagesOmitsSystemPromptWhenEmpty(t *testing.T) {
	cfg := state.EffectiveConfig{}
	turns := []state.Turn{{Role: "user", Content: "hi"}}

	msgs := BuildMessages(cfg, turns)
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].Role)
}

func TestHTTPPortChatReturnsAssistantReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4", req.Model)

		resp := chatResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message Message `json:"message"`
		}{Message: Message{Role: "assistant", Content: "hello back"}})
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	port := NewHTTPPort(server.URL, "secret", 1000, nil)
	reply, err := port.Chat(context.Background(), state.EffectiveConfig{Model: "gpt-4"}, []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "hello back", reply)
}

func TestHTTPPortChatMapsHTTPErrorStatusToLLMFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	port := NewHTTPPort(server.URL, "", 1000, nil)
	_, err := port.Chat(context.Background(), state.EffectiveConfig{Model: "gpt-4"}, nil)
	assert.Error(t, err)
}

func TestHTTPPortChatMapsEndpointErrorField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := chatResponse{Error: &struct {
			Message string `json:"message"`
		}{Message: "invalid api key"}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	port := NewHTTPPort(server.URL, "", 1000, nil)
	_, err := port.Chat(context.Background(), state.EffectiveConfig{Model: "gpt-4"}, nil)
	assert.ErrorContains(t, err, "invalid api key")
}

func TestHTTPPortChatRejectsEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(chatResponse{}))
	}))
	defer server.Close()

	port := NewHTTPPort(server.URL, "", 1000, nil)
	_, err := port.Chat(context.Background(), state.EffectiveConfig{Model: "gpt-4"}, nil)
	assert.Error(t, err)
}
