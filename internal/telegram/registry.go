package telegram

import (
	"context"

	"go.uber.org/zap"
)

// Handler processes one incoming message.
type Handler func(ctx context.Context, msg *Message) error

// Registry routes updates to command and text handlers.
type Registry struct {
	commands map[string]Handler
	text     Handler
	logger   *zap.SugaredLogger
}

func NewRegistry(logger *zap.SugaredLogger) *Registry {
	return &Registry{
		commands: make(map[string]Handler),
		logger:   logger,
	}
}

// Command registers a handler for "/name" messages.
func (r *Registry) Command(name string, h Handler) {
	r.commands[name] = h
}

// Text registers the handler for non-command text messages.
func (r *Registry) Text(h Handler) {
	r.text = h
}

// Dispatch routes an update. Updates without a message, empty text, and
// unknown commands are ignored.
func (r *Registry) Dispatch(ctx context.Context, update *Update) error {
	if update == nil || update.Message == nil || update.Message.Text == "" {
		return nil
	}
	msg := update.Message

	if cmd := msg.Command(); cmd != "" {
		h, ok := r.commands[cmd]
		if !ok {
			r.logger.Debugw("ignoring unknown command", "command", cmd)
			return nil
		}
		return h(ctx, msg)
	}

	if r.text == nil {
		return nil
	}
	return r.text(ctx, msg)
}

// Authorized wraps a handler so only username may trigger it. Everyone else
// gets a rejection reply through send.
func Authorized(username string, send func(ctx context.Context, chatID int64, text string) error, h Handler) Handler {
	return func(ctx context.Context, msg *Message) error {
		if msg.From != nil && msg.From.Username == username {
			return h(ctx, msg)
		}
		return send(ctx, msg.Chat.ID, "You are not authorized to use this bot.")
	}
}
