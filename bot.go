package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/mowziolabs/mowzio/internal/agent"
	"github.com/mowziolabs/mowzio/internal/memory"
	"github.com/mowziolabs/mowzio/internal/rates"
	"github.com/mowziolabs/mowzio/internal/store"
	"github.com/mowziolabs/mowzio/internal/telegram"
)

const (
	greetingReply = "✨ Beep bop. Mowzio’s awake! Ready to organize, assist, and maybe drop a joke or two."
	amnesiaReply  = "💭 Zzzzzap! All gone. I feel… strangely empty."
	diginReply    = "Digin is not implemented yet."
	apologyReply  = "Oopsie! It seems your broke something with your request :(. Please try again later!"
)

// registerHandlers wires the bot command handlers into the registry. Every
// handler requires the authorized username.
func registerHandlers() {
	auth := func(h telegram.Handler) telegram.Handler {
		return telegram.Authorized(cfg.Telegram.AuthorizedUsername, sendPlain, h)
	}
	registry.Command("start", auth(handleStart))
	registry.Command("amnesia", auth(handleAmnesia))
	registry.Command("currensee", auth(handleCurrensee))
	registry.Command("digin", auth(handleDigin))
	registry.Text(auth(handleText))
}

func sendPlain(ctx context.Context, chatID int64, text string) error {
	return bot.SendMessage(ctx, chatID, text, telegram.ParseModeNone)
}

// telegramConversationID scopes persisted memory per Telegram chat.
func telegramConversationID(chatID int64) string {
	return fmt.Sprintf("tg:%d", chatID)
}

func handleStart(ctx context.Context, msg *telegram.Message) error {
	return sendPlain(ctx, msg.Chat.ID, greetingReply)
}

func handleAmnesia(ctx context.Context, msg *telegram.Message) error {
	mem := memory.NewPersistedWindowBuffer(db, telegramConversationID(msg.Chat.ID), 0)
	if err := mem.Clear(nil); err != nil {
		return err
	}
	return sendPlain(ctx, msg.Chat.ID, amnesiaReply)
}

func handleCurrensee(ctx context.Context, msg *telegram.Message) error {
	items, err := ratesSvc.Latest(ctx)
	if err != nil {
		logger.Errorw("exchange rate retrieval failed", "error", err)
		var storeErr *store.Error
		var fetchErr *rates.FetchError
		reply := rates.ErrMsgUnexpected
		switch {
		case errors.As(err, &storeErr):
			reply = rates.ErrMsgCache
		case errors.As(err, &fetchErr):
			reply = rates.ErrMsgFetchFailed
		}
		return sendPlain(ctx, msg.Chat.ID, reply)
	}
	return bot.SendMessage(ctx, msg.Chat.ID, rates.FormatHTML(items), telegram.ParseModeHTML)
}

func handleDigin(ctx context.Context, msg *telegram.Message) error {
	return sendPlain(ctx, msg.Chat.ID, diginReply)
}

// handleText runs a regular message through the agent with this chat's
// persisted memory.
func handleText(ctx context.Context, msg *telegram.Message) error {
	logger.Infow("received message", "chat", msg.Chat.ID)

	mem := memory.NewPersistedWindowBuffer(db, telegramConversationID(msg.Chat.ID), 0)
	ag, err := agent.New(llmClient, mem, agent.DefaultTools(), logger)
	if err != nil {
		return err
	}
	reply, err := ag.Process(ctx, msg.Text)
	if err != nil {
		return err
	}
	return sendPlain(ctx, msg.Chat.ID, reply)
}
