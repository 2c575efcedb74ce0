package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/sozercan/rizziq/internal/config"
)

func TestAnthropicComplete(t *testing.T) {
	var captured []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("X-Api-Key"))
		captured, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-5",
			"content": [{"type": "text", "text": "{\"analysis\":\"a\","}, {"type": "text", "text": "\"options\":[]}"}],
			"stop_reason": "end_turn",
			"stop_sequence": null,
			"usage": {"input_tokens": 40, "output_tokens": 10}
		}`))
	}))
	defer ts.Close()

	p := NewAnthropic(&config.AnthropicConfig{
		APIKey:      "sk-ant-test",
		APIEndpoint: ts.URL,
		Model:       "claude-sonnet-4-5",
	})

	resp, err := p.Complete(context.Background(), CompletionRequest{
		SystemPrompt: "be witty",
		Image:        testImage,
	}, WithMaxTokens(200), WithJSON(true))
	require.NoError(t, err)

	assert.Equal(t, `{"analysis":"a","options":[]}`, resp.Content)
	assert.Equal(t, "claude-sonnet-4-5", resp.Model)
	assert.Equal(t, int64(50), resp.Usage.TotalTokens)

	body := string(captured)
	assert.Equal(t, int64(200), gjson.Get(body, "max_tokens").Int())
	assert.Equal(t, "be witty", gjson.Get(body, "system.0.text").String())
	assert.Equal(t, "image", gjson.Get(body, "messages.0.content.0.type").String())
	assert.Equal(t, "base64", gjson.Get(body, "messages.0.content.0.source.type").String())
	assert.Equal(t, "image/png", gjson.Get(body, "messages.0.content.0.source.media_type").String())
	assert.Equal(t, "cG5nLWJ5dGVz", gjson.Get(body, "messages.0.content.0.source.data").String())
}

func TestAnthropicCompleteErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`, "401 Unauthorized"},
		{"rate limited", http.StatusTooManyRequests, `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`, "429 Quota Exceeded"},
		{"overloaded", 529, `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`, "503 Anthropic service unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			p := NewAnthropic(&config.AnthropicConfig{APIKey: "sk-ant-test", APIEndpoint: ts.URL, Model: "claude-sonnet-4-5"})
			_, err := p.Complete(context.Background(), CompletionRequest{SystemPrompt: "p", Image: testImage})
			require.Error(t, err)

			ue, ok := err.(*UpstreamError)
			require.True(t, ok)
			assert.Equal(t, tt.message, ue.CallerMessage())
			assert.NotContains(t, ue.Message, "sk-ant-test")
			assert.Equal(t, 1, calls)
		})
	}
}
