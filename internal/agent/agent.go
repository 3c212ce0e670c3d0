package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/mowziolabs/mowzio/internal/llm"
	"github.com/mowziolabs/mowzio/internal/memory"
)

// Chatter is the LLM surface the agent needs; *llm.Client satisfies it.
type Chatter interface {
	Chat(ctx context.Context, messages []llm.Message) (string, error)
}

// Agent runs user messages through the LLM with tool support and
// window-buffered memory.
type Agent struct {
	client Chatter
	mem    memory.Memory
	tools  map[string]Tool
	logger *zap.SugaredLogger
}

// New builds an agent. The system prompt (base prompt plus tool list) is
// written into mem immediately so persisted conversations always lead with
// the current prompt.
func New(client Chatter, mem memory.Memory, tools []Tool, logger *zap.SugaredLogger) (*Agent, error) {
	byName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		if _, dup := byName[t.Name()]; dup {
			return nil, fmt.Errorf("agent: duplicate tool %q", t.Name())
		}
		byName[t.Name()] = t
	}
	a := &Agent{
		client: client,
		mem:    mem,
		tools:  byName,
		logger: logger,
	}
	if err := mem.Add(llm.System(buildSystemPrompt(byName))); err != nil {
		return nil, fmt.Errorf("agent: seed system prompt: %w", err)
	}
	return a, nil
}

var toolBlockRe = regexp.MustCompile("(?s)```tool\\s*\\n(.*?)\\n```")

// ParseToolCall extracts a tool call from a model reply, or nil when the
// reply contains no valid tool block.
func (a *Agent) ParseToolCall(text string) *ToolCall {
	match := toolBlockRe.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	var call ToolCall
	if err := json.Unmarshal([]byte(match[1]), &call); err != nil {
		a.logger.Errorw("failed to parse tool call json", "error", err)
		return nil
	}
	if call.Name == "" {
		return nil
	}
	if call.Parameters == nil {
		call.Parameters = map[string]string{}
	}
	return &call
}

// ExecuteTool runs a parsed tool call. Failures come back as plain text so
// the model can recover; only the happy path returns tool output.
func (a *Agent) ExecuteTool(call *ToolCall) string {
	tool, ok := a.tools[call.Name]
	if !ok {
		a.logger.Errorw("tool not found", "tool", call.Name)
		return fmt.Sprintf("Error: Tool '%s' not found.", call.Name)
	}
	a.logger.Infow("executing tool", "tool", call.Name, "parameters", call.Parameters)
	result, err := tool.Execute(call.Parameters)
	if err != nil {
		a.logger.Errorw("tool execution failed", "tool", call.Name, "error", err)
		return fmt.Sprintf("Error executing tool '%s': %v", call.Name, err)
	}
	return result
}

// Process sends a user message through the agent loop: one LLM round, an
// optional tool execution, and a follow-up round carrying the tool result.
func (a *Agent) Process(ctx context.Context, userMessage string) (string, error) {
	reply, err := a.chat(ctx, llm.User(userMessage))
	if err != nil {
		return "", err
	}

	call := a.ParseToolCall(reply)
	if call == nil {
		return reply, nil
	}

	result := a.ExecuteTool(call)
	return a.chat(ctx, llm.User(fmt.Sprintf("Tool '%s' returned: %s", call.Name, result)))
}

// chat appends msg to memory, runs one completion and appends the reply. On
// completion failure msg is rolled back so history stays consistent.
func (a *Agent) chat(ctx context.Context, msg llm.Message) (string, error) {
	if err := a.mem.Add(msg); err != nil {
		return "", err
	}
	history, err := a.mem.Messages()
	if err != nil {
		return "", err
	}
	reply, err := a.client.Chat(ctx, history)
	if err != nil {
		if rbErr := a.mem.RemoveLast(); rbErr != nil {
			a.logger.Errorw("failed to roll back user message", "error", rbErr)
		}
		return "", err
	}
	if err := a.mem.Add(llm.Assistant(reply)); err != nil {
		return "", err
	}
	return reply, nil
}

// ClearMemory wipes the conversation, keeping the system prompt.
func (a *Agent) ClearMemory() error {
	system := llm.System(buildSystemPrompt(a.tools))
	return a.mem.Clear(&system)
}

// DefaultTools returns the standard Mowzio tool set.
func DefaultTools() []Tool {
	return []Tool{CalculatorTool{}, TimeTool{}}
}
