package memory

import (
	"fmt"

	"github.com/mowziolabs/mowzio/internal/llm"
	"github.com/mowziolabs/mowzio/internal/store"
)

const keyPrefix = "chat:memory:"

// PersistedWindowBuffer keeps window-buffered history in a store.Store list,
// scoped by conversation ID so separate chats never share history.
type PersistedWindowBuffer struct {
	window int
	store  store.Store
	key    string
}

// NewPersistedWindowBuffer returns persisted memory for one conversation.
// window <= 0 falls back to DefaultWindowSize.
func NewPersistedWindowBuffer(s store.Store, conversationID string, window int) *PersistedWindowBuffer {
	if window <= 0 {
		window = DefaultWindowSize
	}
	return &PersistedWindowBuffer{
		window: window,
		store:  s,
		key:    keyPrefix + conversationID,
	}
}

func (p *PersistedWindowBuffer) Add(msg llm.Message) error {
	if msg.Role == llm.RoleSystem {
		// Only one system prompt is kept; replace in place.
		msgs, err := p.Messages()
		if err != nil {
			return err
		}
		kept := []llm.Message{msg}
		for _, m := range msgs {
			if m.Role != llm.RoleSystem {
				kept = append(kept, m)
			}
		}
		return p.rewrite(kept)
	}

	serialized, err := msg.MarshalText()
	if err != nil {
		return fmt.Errorf("memory: serialize message: %w", err)
	}
	if _, err := p.store.RPush(p.key, serialized); err != nil {
		return err
	}

	msgs, err := p.Messages()
	if err != nil {
		return err
	}
	var system []llm.Message
	var rest []llm.Message
	for _, m := range msgs {
		if m.Role == llm.RoleSystem {
			system = append(system, m)
		} else {
			rest = append(rest, m)
		}
	}
	if len(rest) <= p.window {
		return nil
	}
	// Window exceeded: drop the oldest non-system messages.
	kept := append(system, rest[len(rest)-p.window:]...)
	return p.rewrite(kept)
}

func (p *PersistedWindowBuffer) Messages() ([]llm.Message, error) {
	raw, err := p.store.LRange(p.key, 0, -1)
	if err != nil {
		return nil, err
	}
	msgs := make([]llm.Message, 0, len(raw))
	for _, item := range raw {
		m, err := llm.UnmarshalMessage(item)
		if err != nil {
			return nil, fmt.Errorf("memory: corrupt message in %s: %w", p.key, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func (p *PersistedWindowBuffer) Clear(system *llm.Message) error {
	if err := p.store.DeleteList(p.key); err != nil {
		return err
	}
	if system != nil && system.Role == llm.RoleSystem {
		serialized, err := system.MarshalText()
		if err != nil {
			return fmt.Errorf("memory: serialize system prompt: %w", err)
		}
		if _, err := p.store.RPush(p.key, serialized); err != nil {
			return err
		}
	}
	return nil
}

func (p *PersistedWindowBuffer) RemoveLast() error {
	msgs, err := p.Messages()
	if err != nil {
		return err
	}
	if len(msgs) == 0 || msgs[len(msgs)-1].Role == llm.RoleSystem {
		return nil
	}
	return p.rewrite(msgs[: len(msgs)-1 : len(msgs)-1])
}

// WipeAll deletes every persisted conversation and returns how many were
// removed.
func WipeAll(s store.Store) (int, error) {
	keys, err := s.Lists(keyPrefix)
	if err != nil {
		return 0, err
	}
	for _, key := range keys {
		if err := s.DeleteList(key); err != nil {
			return 0, err
		}
	}
	return len(keys), nil
}

func (p *PersistedWindowBuffer) rewrite(msgs []llm.Message) error {
	if err := p.store.DeleteList(p.key); err != nil {
		return err
	}
	serialized := make([]string, 0, len(msgs))
	for _, m := range msgs {
		s, err := m.MarshalText()
		if err != nil {
			return fmt.Errorf("memory: serialize message: %w", err)
		}
		serialized = append(serialized, s)
	}
	if len(serialized) == 0 {
		return nil
	}
	_, err := p.store.RPush(p.key, serialized...)
	return err
}
