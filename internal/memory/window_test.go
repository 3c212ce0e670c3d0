package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mowziolabs/mowzio/internal/llm"
)

func messages(t *testing.T, m Memory) []llm.Message {
	t.Helper()
	msgs, err := m.Messages()
	require.NoError(t, err)
	return msgs
}

func TestWindowBufferAddWithinWindow(t *testing.T) {
	m := NewWindowBuffer(3)
	require.NoError(t, m.Add(llm.User("Hello")))
	require.NoError(t, m.Add(llm.Assistant("Hi there!")))

	assert.Equal(t, []llm.Message{llm.User("Hello"), llm.Assistant("Hi there!")}, messages(t, m))
}

func TestWindowBufferEvictsOldest(t *testing.T) {
	m := NewWindowBuffer(2)
	require.NoError(t, m.Add(llm.User("Message 1")))
	require.NoError(t, m.Add(llm.Assistant("Message 2")))
	require.NoError(t, m.Add(llm.User("Message 3")))

	assert.Equal(t, []llm.Message{llm.Assistant("Message 2"), llm.User("Message 3")}, messages(t, m))

	require.NoError(t, m.Add(llm.Assistant("Message 4")))
	assert.Equal(t, []llm.Message{llm.User("Message 3"), llm.Assistant("Message 4")}, messages(t, m))
}

func TestWindowBufferPreservesSystemPrompt(t *testing.T) {
	m := NewWindowBuffer(2)
	system := llm.System("System prompt")
	require.NoError(t, m.Add(system))
	require.NoError(t, m.Add(llm.User("User message 1")))
	require.NoError(t, m.Add(llm.Assistant("Assistant message 1")))
	require.NoError(t, m.Add(llm.User("User message 2")))

	assert.Equal(t, []llm.Message{
		system,
		llm.Assistant("Assistant message 1"),
		llm.User("User message 2"),
	}, messages(t, m))
}

func TestWindowBufferSystemPromptReplaced(t *testing.T) {
	m := NewWindowBuffer(5)
	require.NoError(t, m.Add(llm.System("first")))
	require.NoError(t, m.Add(llm.System("second")))
	require.NoError(t, m.Add(llm.User("hi")))

	assert.Equal(t, []llm.Message{llm.System("second"), llm.User("hi")}, messages(t, m))
}

func TestWindowBufferMessagesReturnsCopy(t *testing.T) {
	m := NewWindowBuffer(2)
	require.NoError(t, m.Add(llm.User("Test")))

	got := messages(t, m)
	got = append(got, llm.User("Modified"))
	_ = got

	assert.Equal(t, []llm.Message{llm.User("Test")}, messages(t, m))
}

func TestWindowBufferClear(t *testing.T) {
	m := NewWindowBuffer(2)
	require.NoError(t, m.Add(llm.System("System")))
	require.NoError(t, m.Add(llm.User("User")))

	require.NoError(t, m.Clear(nil))
	assert.Empty(t, messages(t, m))
}

func TestWindowBufferClearKeepsSystemPrompt(t *testing.T) {
	m := NewWindowBuffer(2)
	system := llm.System("System")
	require.NoError(t, m.Add(system))
	require.NoError(t, m.Add(llm.User("User")))

	require.NoError(t, m.Clear(&system))
	assert.Equal(t, []llm.Message{system}, messages(t, m))
}

func TestWindowBufferRemoveLast(t *testing.T) {
	m := NewWindowBuffer(3)
	require.NoError(t, m.Add(llm.User("Msg 1")))
	require.NoError(t, m.Add(llm.Assistant("Msg 2")))

	require.NoError(t, m.RemoveLast())
	assert.Equal(t, []llm.Message{llm.User("Msg 1")}, messages(t, m))
}

func TestWindowBufferRemoveLastKeepsSystemPrompt(t *testing.T) {
	m := NewWindowBuffer(2)
	system := llm.System("System prompt")
	require.NoError(t, m.Add(system))

	require.NoError(t, m.RemoveLast())
	assert.Equal(t, []llm.Message{system}, messages(t, m))

	require.NoError(t, m.Add(llm.User("User message")))
	require.NoError(t, m.RemoveLast())
	assert.Equal(t, []llm.Message{system}, messages(t, m))
}

func TestWindowBufferRemoveLastEmpty(t *testing.T) {
	m := NewWindowBuffer(2)
	require.NoError(t, m.RemoveLast())
	assert.Empty(t, messages(t, m))
}
