// Package memory implements window-buffered conversation history. A window
// keeps the most recent non-system messages; the system prompt is always
// preserved.
package memory

import "github.com/mowziolabs/mowzio/internal/llm"

// DefaultWindowSize is the number of non-system messages a buffer retains.
const DefaultWindowSize = 20

// Memory stores chat history for one conversation.
type Memory interface {
	// Add appends a message. Adding a system message replaces any
	// existing one instead of growing the window.
	Add(msg llm.Message) error
	// Messages returns the full history, system prompt first.
	Messages() ([]llm.Message, error)
	// Clear drops the history. When system is non-nil and has the system
	// role, it is kept as the new sole message.
	Clear(system *llm.Message) error
	// RemoveLast removes the most recent message unless it is the system
	// prompt. Used to roll back a user turn after a failed LLM call.
	RemoveLast() error
}
