package utils

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"zungenrede-bot/internal/input"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIComplete(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Tisch\nстол"},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	client, err := NewOpenAIClient("sk-test", server.URL+"/v1", "gpt-4o")
	require.NoError(t, err)

	answer, err := client.Complete(context.Background(), "system prompt", "стол")
	require.NoError(t, err)
	assert.Equal(t, "Tisch\nстол", answer)

	assert.Equal(t, "gpt-4o", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "system prompt", got.Messages[0].Content)
	assert.Equal(t, "стол", got.Messages[1].Content)
}

func TestAnthropicComplete(t *testing.T) {
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"))
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"msg_1","type":"message","role":"assistant","model":"claude-test",
			"content":[{"type":"text","text":"Wald\nлес"}],
			"stop_reason":"end_turn","usage":{"input_tokens":3,"output_tokens":4}}`)
	}))
	defer server.Close()

	client, err := NewAnthropicClient("sk-ant", "claude-test", option.WithBaseURL(server.URL), option.WithMaxRetries(0))
	require.NoError(t, err)

	answer, err := client.Complete(context.Background(), "system prompt", "Wald")
	require.NoError(t, err)
	assert.Equal(t, "Wald\nлес", answer)
	assert.Contains(t, string(body), `system prompt\n\nWald`)
}

func TestNewClientsRequireKeys(t *testing.T) {
	_, err := NewOpenAIClient("", "", "")
	assert.Error(t, err)
	_, err = NewAnthropicClient("", "claude")
	assert.Error(t, err)
}

type stubTutor struct {
	answer string
	err    error
}

func (s stubTutor) Complete(context.Context, string, string) (string, error) {
	return s.answer, s.err
}

func TestTutorSwitch(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s, err := NewTutorSwitch(logger.WithField("component", "test"), "anthropic", map[string]TutorAPI{
		"anthropic": stubTutor{answer: " claude \n"},
		"openai":    stubTutor{answer: "gpt"},
	})
	require.NoError(t, err)

	answer, err := s.Complete(context.Background(), "", "x")
	require.NoError(t, err)
	assert.Equal(t, "claude", answer)

	require.NoError(t, s.Use("openai"))
	assert.Equal(t, "openai", s.Active())
	answer, err = s.Complete(context.Background(), "", "x")
	require.NoError(t, err)
	assert.Equal(t, "gpt", answer)

	assert.Error(t, s.Use("gemini"))
	assert.Equal(t, "openai", s.Active())

	_, err = NewTutorSwitch(logger.WithField("component", "test"), "gemini", nil)
	assert.Error(t, err)
}

func TestLoadTutorPrompts(t *testing.T) {
	prompts, err := LoadTutorPrompts()
	require.NoError(t, err)
	assert.Contains(t, prompts.For(input.GermanWord), "German article in nominative case")
	assert.Contains(t, prompts.For(input.Simplify), "Simplify")
	assert.NotEqual(t, prompts.For(input.GermanSentence), prompts.For(input.RussianSentence))
}

func TestSplitText(t *testing.T) {
	assert.Nil(t, SplitText("", 10))
	assert.Equal(t, []string{"short"}, SplitText("short", 10))
	assert.Equal(t, []string{"abcdefghij", "klm"}, SplitText("abcdefghijklm", 10))
	assert.Equal(t, []string{"line one\n", "line two"}, SplitText("line one\nline two", 10))
	assert.Equal(t, []string{"ääääà", "ää"}, SplitText("ääääàää", 5))
}
