package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultAPIBase = "https://api.telegram.org"

// Parse modes accepted by sendMessage.
const (
	ParseModeHTML = "HTML"
	ParseModeNone = ""
)

// Bot is a Telegram Bot API client.
type Bot struct {
	token      string
	apiBase    string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

func NewBot(token string, logger *zap.SugaredLogger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram: bot token must be provided")
	}
	return &Bot{
		token:      token,
		apiBase:    defaultAPIBase,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

// SetAPIBase overrides the Bot API endpoint. Tests point it at a local fake.
func (b *Bot) SetAPIBase(base string) { b.apiBase = base }

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

func (b *Bot) call(ctx context.Context, method string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshal %s payload: %w", method, err)
	}
	url := fmt.Sprintf("%s/bot%s/%s", b.apiBase, b.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: %s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("telegram: read %s response: %w", method, err)
	}
	var parsed apiResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("telegram: parse %s response: %w", method, err)
	}
	if !parsed.OK {
		return fmt.Errorf("telegram: %s rejected: %s", method, parsed.Description)
	}
	return nil
}

// SetWebhook registers url as the webhook for incoming updates.
func (b *Bot) SetWebhook(ctx context.Context, url string) error {
	if url == "" {
		return fmt.Errorf("telegram: webhook url must be provided")
	}
	return b.call(ctx, "setWebhook", map[string]string{"url": url})
}

// SendMessage sends text to a chat. parseMode may be ParseModeNone.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text, parseMode string) error {
	payload := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}
	if parseMode != ParseModeNone {
		payload["parse_mode"] = parseMode
	}
	return b.call(ctx, "sendMessage", payload)
}

// ParseUpdate decodes a webhook request body.
func ParseUpdate(body []byte) (*Update, error) {
	var u Update
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("telegram: parse update: %w", err)
	}
	return &u, nil
}
