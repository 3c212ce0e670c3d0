package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *zap.SugaredLogger { return zap.NewNop().Sugar() }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		Model:   "test-model",
		APIKey:  "test-key",
		BaseURL: srv.URL,
	}, testLogger())
	require.NoError(t, err)
	return c
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{Model: "m", APIKey: "k"}, testLogger())
	require.Error(t, err)
}

func TestChat(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody chatRequest

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "hello there"}},
			},
		})
	})

	reply, err := c.Chat(context.Background(), []Message{System("be nice"), User("hi")})
	require.NoError(t, err)
	assert.Equal(t, "hello there", reply)

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotBody.Model)
	assert.Equal(t, defaultTemperature, gotBody.Temperature)
	require.Len(t, gotBody.Messages, 2)
	assert.Equal(t, RoleSystem, gotBody.Messages[0].Role)
}

func TestChatEmptyChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	})

	reply, err := c.Chat(context.Background(), []Message{User("hi")})
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestChatServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	_, err := c.Chat(context.Background(), []Message{User("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestChatAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "invalid api key", "type": "auth"},
		})
	})

	_, err := c.Chat(context.Background(), []Message{User("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestMessageRoundTrip(t *testing.T) {
	original := Assistant("some reply")
	serialized, err := original.MarshalText()
	require.NoError(t, err)

	parsed, err := UnmarshalMessage(serialized)
	require.NoError(t, err)
	assert.Equal(t, original, parsed)

	_, err = UnmarshalMessage("{broken")
	require.Error(t, err)
}
