package memory

import "github.com/mowziolabs/mowzio/internal/llm"

// WindowBuffer is the in-memory Memory used by the chat REPL and tests.
type WindowBuffer struct {
	window   int
	system   *llm.Message
	messages []llm.Message
}

// NewWindowBuffer returns a buffer retaining at most window non-system
// messages. window <= 0 falls back to DefaultWindowSize.
func NewWindowBuffer(window int) *WindowBuffer {
	if window <= 0 {
		window = DefaultWindowSize
	}
	return &WindowBuffer{window: window}
}

func (w *WindowBuffer) Add(msg llm.Message) error {
	if msg.Role == llm.RoleSystem {
		m := msg
		w.system = &m
		return nil
	}
	w.messages = append(w.messages, msg)
	if len(w.messages) > w.window {
		w.messages = w.messages[len(w.messages)-w.window:]
	}
	return nil
}

func (w *WindowBuffer) Messages() ([]llm.Message, error) {
	out := make([]llm.Message, 0, len(w.messages)+1)
	if w.system != nil {
		out = append(out, *w.system)
	}
	return append(out, w.messages...), nil
}

func (w *WindowBuffer) Clear(system *llm.Message) error {
	w.messages = nil
	w.system = nil
	if system != nil && system.Role == llm.RoleSystem {
		m := *system
		w.system = &m
	}
	return nil
}

func (w *WindowBuffer) RemoveLast() error {
	if len(w.messages) > 0 {
		w.messages = w.messages[:len(w.messages)-1]
	}
	return nil
}
