package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("test-key", server.URL+"/v1", "test-model", nil)
}

func completionResponse(content string) string {
	resp := openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: content,
			},
		}},
	}
	body, _ := json.Marshal(resp)
	return string(body)
}

func TestChat(t *testing.T) {
	var received openai.ChatCompletionRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionResponse("You are free at 2 PM."))
	})

	response, err := client.Chat(context.Background(), "Am I free at 2 PM?", "CALENDAR EVENTS (0 total)")

	require.NoError(t, err)
	assert.Equal(t, "You are free at 2 PM.", response)

	require.Len(t, received.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, received.Messages[0].Role)
	assert.Contains(t, received.Messages[1].Content, "Context:\nCALENDAR EVENTS (0 total)")
	assert.Contains(t, received.Messages[1].Content, "Question: Am I free at 2 PM?")
	assert.Equal(t, "test-model", received.Model)
}

func TestChatWithoutContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Messages[1].Content, "no context prefix when context is empty")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionResponse("hi"))
	})

	response, err := client.Chat(context.Background(), "hello", "")

	require.NoError(t, err)
	assert.Equal(t, "hi", response)
}

func TestChatServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Chat(context.Background(), "hello", "")
	assert.Error(t, err)
}

func TestChatNoChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices": []}`)
	})

	_, err := client.Chat(context.Background(), "hello", "")
	assert.ErrorContains(t, err, "no choices")
}
