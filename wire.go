package wire

import "encoding/json"

// Role is the canonical turn role. Providers map it to their own vocabulary
// (e.g. Gemini renders RoleAssistant as "model").
type Role string

// Canonical conversation roles.
const (
	RoleUser       Role = "user"
	RoleAssistant  Role = "assistant"
	RoleToolOutput Role = "tool-output"
)

// ToolCall is a model-requested function invocation.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage // JSON object of call arguments
}

// ToolResult is the output of one executed tool call.
// Name is optional; it is only consumed by providers whose function-response
// shape is keyed by function name rather than call ID (Gemini).
type ToolResult struct {
	ToolCallID string
	Name       string
	Output     string
}

// Turn is one conversational unit: a role, optional text, the tool calls the
// model queued on this turn, and the tool results reported by this turn.
// Turns are value types; once appended to a Conversation they are never
// mutated by this module.
type Turn struct {
	Role        Role
	Text        string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
}

// Conversation is an ordered, append-only sequence of turns plus an optional
// system instruction attached to the conversation as a whole. Adapters
// preserve turn order end-to-end; the only permitted restructuring is
// Anthropic's compression of consecutive tool-output turns.
type Conversation struct {
	System string
	Turns  []Turn
}

// Append returns the conversation extended with the given turns. The receiver
// is not modified.
func (c Conversation) Append(turns ...Turn) Conversation {
	out := Conversation{System: c.System}
	out.Turns = make([]Turn, 0, len(c.Turns)+len(turns))
	out.Turns = append(out.Turns, c.Turns...)
	out.Turns = append(out.Turns, turns...)
	return out
}

// ToolDefinition is the universal tool schema advertised to a provider.
// Parameters is a JSON Schema object translated verbatim into each provider's
// function/tool shape. Definitions are supplied per request and not retained.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// NewUserTurn returns a user turn carrying plain text.
func NewUserTurn(text string) Turn {
	return Turn{Role: RoleUser, Text: text}
}

// NewAssistantTurn returns an assistant turn carrying plain text.
func NewAssistantTurn(text string) Turn {
	return Turn{Role: RoleAssistant, Text: text}
}

// NewToolCallTurn returns an assistant turn that queues the given tool calls
// alongside optional accompanying text.
func NewToolCallTurn(text string, calls ...ToolCall) Turn {
	return Turn{Role: RoleAssistant, Text: text, ToolCalls: append([]ToolCall(nil), calls...)}
}

// NewToolOutputTurn returns a tool-output turn reporting the given results.
func NewToolOutputTurn(results ...ToolResult) Turn {
	return Turn{Role: RoleToolOutput, ToolResults: append([]ToolResult(nil), results...)}
}
