package telegram

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

func newTestBot(t *testing.T, handler http.HandlerFunc) *Bot {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	b, err := NewBot("test-token", testLogger())
	require.NoError(t, err)
	b.SetAPIBase(srv.URL)
	return b
}

func TestNewBotRequiresToken(t *testing.T) {
	_, err := NewBot("", testLogger())
	require.Error(t, err)
}

func TestSetWebhook(t *testing.T) {
	var gotPath string
	var gotPayload map[string]string

	b := newTestBot(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	})

	require.NoError(t, b.SetWebhook(context.Background(), "https://example.com/hook"))
	assert.Equal(t, "/bottest-token/setWebhook", gotPath)
	assert.Equal(t, "https://example.com/hook", gotPayload["url"])

	require.Error(t, b.SetWebhook(context.Background(), ""))
}

func TestSendMessage(t *testing.T) {
	var gotPayload map[string]interface{}

	b := newTestBot(t, func(w http.ResponseWriter, r *http.Request) {
		gotPayload = map[string]interface{}{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	})

	require.NoError(t, b.SendMessage(context.Background(), 42, "<b>hi</b>", ParseModeHTML))
	assert.Equal(t, float64(42), gotPayload["chat_id"])
	assert.Equal(t, "<b>hi</b>", gotPayload["text"])
	assert.Equal(t, "HTML", gotPayload["parse_mode"])

	require.NoError(t, b.SendMessage(context.Background(), 42, "plain", ParseModeNone))
	_, hasParseMode := gotPayload["parse_mode"]
	assert.False(t, hasParseMode)
}

func TestAPIRejection(t *testing.T) {
	b := newTestBot(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ok": false, "description": "Unauthorized",
		})
	})

	err := b.SendMessage(context.Background(), 1, "x", ParseModeNone)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestParseUpdate(t *testing.T) {
	update, err := ParseUpdate([]byte(`{
		"update_id": 7,
		"message": {
			"message_id": 1,
			"from": {"id": 2, "username": "amin"},
			"chat": {"id": 3, "type": "private"},
			"text": "/start"
		}
	}`))
	require.NoError(t, err)
	assert.Equal(t, int64(7), update.UpdateID)
	require.NotNil(t, update.Message)
	assert.Equal(t, "amin", update.Message.From.Username)
	assert.Equal(t, int64(3), update.Message.Chat.ID)

	_, err = ParseUpdate([]byte("{broken"))
	require.Error(t, err)
}

func TestMessageCommand(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"/start", "start"},
		{"/currensee now", "currensee"},
		{"/digin@mowzio_bot", "digin"},
		{"hello", ""},
		{"", ""},
	}
	for _, c := range cases {
		msg := &Message{Text: c.text}
		assert.Equal(t, c.want, msg.Command(), "text=%q", c.text)
	}
	var nilMsg *Message
	assert.Empty(t, nilMsg.Command())
}
