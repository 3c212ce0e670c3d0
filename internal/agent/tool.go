// Package agent implements the tool-calling loop around the LLM client: the
// model is prompted with a tool list, its replies are scanned for fenced tool
// calls, and tool results are fed back for a final answer.
package agent

// Param describes one tool parameter for the system prompt.
type Param struct {
	Type        string
	Description string
}

// Tool is a capability the agent can invoke on the model's behalf.
type Tool interface {
	Name() string
	Description() string
	// Parameters maps parameter name to its description for the prompt.
	Parameters() map[string]Param
	// Execute runs the tool. Errors are reported back to the model as
	// text, never surfaced to the user directly.
	Execute(args map[string]string) (string, error)
}

// ToolCall is a parsed tool invocation from a model reply.
type ToolCall struct {
	Name       string            `json:"name"`
	Parameters map[string]string `json:"parameters"`
}
