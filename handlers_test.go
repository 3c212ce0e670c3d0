package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mowziolabs/mowzio/internal/telegram"
)

// setupWebhookTest wires the package-level bot and registry against a fake
// Bot API and returns the payloads the fake received.
func setupWebhookTest(t *testing.T) *[]map[string]interface{} {
	t.Helper()
	logger = zap.NewNop().Sugar()

	var sent []map[string]interface{}
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		sent = append(sent, payload)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	}))
	t.Cleanup(api.Close)

	var err error
	bot, err = telegram.NewBot("test-token", logger)
	require.NoError(t, err)
	bot.SetAPIBase(api.URL)

	registry = telegram.NewRegistry(logger)
	return &sent
}

func postWebhook(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handleWebhook(rec, req)
	return rec
}

func updateJSON(text string) string {
	return `{"update_id":1,"message":{"message_id":1,"from":{"id":2,"username":"amin"},"chat":{"id":3,"type":"private"},"text":"` + text + `"}}`
}

func TestWebhookRejectsNonPost(t *testing.T) {
	setupWebhookTest(t)

	req := httptest.NewRequest(http.MethodGet, "/telegram/webhook", nil)
	rec := httptest.NewRecorder()
	handleWebhook(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWebhookAnswersOKOnBadBody(t *testing.T) {
	sent := setupWebhookTest(t)

	rec := postWebhook("{broken")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, *sent)
}

func TestWebhookDispatchesText(t *testing.T) {
	sent := setupWebhookTest(t)

	var got string
	registry.Text(func(_ context.Context, msg *telegram.Message) error {
		got = msg.Text
		return nil
	})

	rec := postWebhook(updateJSON("hello"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", got)
	assert.Empty(t, *sent)
}

func TestWebhookSendsApologyOnHandlerError(t *testing.T) {
	sent := setupWebhookTest(t)

	registry.Command("boom", func(context.Context, *telegram.Message) error {
		return errors.New("handler blew up")
	})

	// The webhook still answers 200 so Telegram does not redeliver, and
	// the chat gets a best-effort apology.
	rec := postWebhook(updateJSON("/boom"))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, *sent, 1)
	payload := (*sent)[0]
	assert.Equal(t, float64(3), payload["chat_id"])
	assert.Equal(t, apologyReply, payload["text"])
}
