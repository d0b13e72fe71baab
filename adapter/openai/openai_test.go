package openai

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/goleak"

	"github.com/JTan2231/wire"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ExampleAdapter_BuildRequest() {
	a := New()
	conv := wire.Conversation{Turns: []wire.Turn{wire.NewUserTurn("Hello")}}
	req, _ := a.BuildRequest(conv, nil, wire.ProviderConfig{APIKey: "sk-test", Model: "gpt-4o"})
	fmt.Println(req.URL())
	// Output: https://api.openai.com/v1/chat/completions
}

func testConfig() wire.ProviderConfig {
	return wire.ProviderConfig{APIKey: "sk-test", Model: "gpt-4o"}
}

func TestBuildRequest_EndpointAndAuth(t *testing.T) {
	t.Parallel()
	a := New()
	conv := wire.Conversation{Turns: []wire.Turn{wire.NewUserTurn("hi")}}

	req, err := a.BuildRequest(conv, nil, testConfig())
	require.NoError(t, err)

	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "api.openai.com", req.Host)
	assert.Equal(t, 443, req.Port)
	assert.Equal(t, "/v1/chat/completions", req.Path)
	assert.Empty(t, req.Query, "openai authenticates via header, not query")

	auth, ok := req.Header("Authorization")
	require.True(t, ok)
	assert.Equal(t, "Bearer sk-test", auth)

	ct, ok := req.Header("Content-Type")
	require.True(t, ok)
	assert.Equal(t, "application/json", ct)
}

func TestBuildRequest_MissingCredential(t *testing.T) {
	t.Parallel()
	a := New()
	conv := wire.Conversation{Turns: []wire.Turn{wire.NewUserTurn("hi")}}

	_, err := a.BuildRequest(conv, nil, wire.ProviderConfig{Model: "gpt-4o"})
	require.ErrorIs(t, err, wire.ErrMissingCredential)

	_, err = a.BuildRequest(conv, nil, wire.ProviderConfig{APIKey: "  ", Model: "gpt-4o"})
	require.ErrorIs(t, err, wire.ErrMissingCredential)
}

func TestBuildRequest_MessageOrderAndRoles(t *testing.T) {
	t.Parallel()
	a := New()
	call := wire.ToolCall{ID: "call-1", Name: "lookup_weather", Arguments: json.RawMessage(`{"location":"NYC"}`)}
	conv := wire.Conversation{
		System: "You are a helpful assistant.",
		Turns: []wire.Turn{
			wire.NewUserTurn("What's the weather?"),
			wire.NewToolCallTurn("", call),
			wire.NewToolOutputTurn(wire.ToolResult{ToolCallID: "call-1", Output: `{"forecast":"snow"}`}),
			wire.NewAssistantTurn("It will snow."),
		},
	}

	req, err := a.BuildRequest(conv, nil, testConfig())
	require.NoError(t, err)

	body := string(req.Body)
	assert.Equal(t, "gpt-4o", gjson.Get(body, "model").String())
	assert.False(t, gjson.Get(body, "stream").Bool())

	messages := gjson.Get(body, "messages").Array()
	require.Len(t, messages, 5, "system + four turns, order preserved")

	assert.Equal(t, "system", messages[0].Get("role").String())
	assert.Equal(t, "You are a helpful assistant.", messages[0].Get("content").String())

	assert.Equal(t, "user", messages[1].Get("role").String())

	assert.Equal(t, "assistant", messages[2].Get("role").String(), "tool-calling turn emits role assistant")
	calls := messages[2].Get("tool_calls").Array()
	require.Len(t, calls, 1)
	assert.Equal(t, "call-1", calls[0].Get("id").String())
	assert.Equal(t, "function", calls[0].Get("type").String())
	assert.Equal(t, "lookup_weather", calls[0].Get("function.name").String())
	assert.Equal(t, `{"location":"NYC"}`, calls[0].Get("function.arguments").String())

	assert.Equal(t, "tool", messages[3].Get("role").String())
	assert.Equal(t, "call-1", messages[3].Get("tool_call_id").String(), "tool message carries originating call id")
	assert.Equal(t, `{"forecast":"snow"}`, messages[3].Get("content").String())

	assert.Equal(t, "assistant", messages[4].Get("role").String())
}

func TestBuildRequest_MultipleResultsExpand(t *testing.T) {
	t.Parallel()
	a := New()
	conv := wire.Conversation{Turns: []wire.Turn{
		wire.NewToolCallTurn("",
			wire.ToolCall{ID: "call-1", Name: "a"},
			wire.ToolCall{ID: "call-2", Name: "b"},
		),
		wire.NewToolOutputTurn(
			wire.ToolResult{ToolCallID: "call-1", Output: "first"},
			wire.ToolResult{ToolCallID: "call-2", Output: "second"},
		),
	}}

	req, err := a.BuildRequest(conv, nil, testConfig())
	require.NoError(t, err)

	messages := gjson.GetBytes(req.Body, "messages").Array()
	require.Len(t, messages, 3, "two results expand to two tool messages")
	assert.Equal(t, "call-1", messages[1].Get("tool_call_id").String())
	assert.Equal(t, "call-2", messages[2].Get("tool_call_id").String())
}

func TestBuildRequest_Tools(t *testing.T) {
	t.Parallel()
	a := New()
	conv := wire.Conversation{Turns: []wire.Turn{wire.NewUserTurn("hi")}}
	tools := []wire.ToolDefinition{{
		Name:        "lookup_weather",
		Description: "Look up the forecast",
		Parameters:  json.RawMessage(`{"type":"object","properties":{"location":{"type":"string"}}}`),
	}}

	req, err := a.BuildRequest(conv, tools, testConfig())
	require.NoError(t, err)

	entries := gjson.GetBytes(req.Body, "tools").Array()
	require.Len(t, entries, 1)
	assert.Equal(t, "function", entries[0].Get("type").String())
	assert.Equal(t, "lookup_weather", entries[0].Get("function.name").String())
	assert.Equal(t, "Look up the forecast", entries[0].Get("function.description").String())
	assert.True(t, entries[0].Get("function.parameters").IsObject(), "parameter schema passed through verbatim")
}

func TestBuildRequest_ReasoningEffort(t *testing.T) {
	t.Parallel()
	a := New()
	conv := wire.Conversation{Turns: []wire.Turn{wire.NewUserTurn("hi")}}

	cfg := wire.ProviderConfig{APIKey: "sk-test", Model: "gpt-5", Thinking: wire.ThinkingMinimal}
	req, err := a.BuildRequest(conv, nil, cfg)
	require.NoError(t, err)
	assert.Equal(t, "minimal", gjson.GetBytes(req.Body, "reasoning_effort").String())

	cfg.Model = "gpt-4o"
	req, err = a.BuildRequest(conv, nil, cfg)
	require.NoError(t, err)
	assert.False(t, gjson.GetBytes(req.Body, "reasoning_effort").Exists(), "only gpt-5 accepts reasoning_effort")
}

func TestBuildRequest_StreamFlagAndOverride(t *testing.T) {
	t.Parallel()
	a := New()
	conv := wire.Conversation{Turns: []wire.Turn{wire.NewUserTurn("hi")}}

	cfg := testConfig()
	cfg.Stream = true
	cfg.Endpoint = &wire.Endpoint{Scheme: "http", Host: "127.0.0.1", Port: 8045}

	req, err := a.BuildRequest(conv, nil, cfg)
	require.NoError(t, err)
	assert.True(t, gjson.GetBytes(req.Body, "stream").Bool())
	assert.Equal(t, "http://127.0.0.1:8045/v1/chat/completions", req.URL())
}

func TestBuildRequest_Idempotent(t *testing.T) {
	t.Parallel()
	a := New()
	conv := wire.Conversation{
		System: "be terse",
		Turns: []wire.Turn{
			wire.NewUserTurn("hi"),
			wire.NewToolCallTurn("on it", wire.ToolCall{ID: "call-1", Name: "f", Arguments: json.RawMessage(`{}`)}),
			wire.NewToolOutputTurn(wire.ToolResult{ToolCallID: "call-1", Output: "done"}),
		},
	}
	tools := []wire.ToolDefinition{{Name: "f", Description: "d", Parameters: json.RawMessage(`{"type":"object"}`)}}

	first, err := a.BuildRequest(conv, tools, testConfig())
	require.NoError(t, err)
	second, err := a.BuildRequest(conv, tools, testConfig())
	require.NoError(t, err)

	assert.Equal(t, first.Body, second.Body, "identical inputs yield byte-identical bodies")
	assert.Equal(t, first.Headers, second.Headers)
	assert.Equal(t, first.URL(), second.URL())
}

func TestBuildRequest_InvalidSequence(t *testing.T) {
	t.Parallel()
	a := New()
	conv := wire.Conversation{Turns: []wire.Turn{
		wire.NewToolOutputTurn(wire.ToolResult{ToolCallID: "call-9", Output: "orphan"}),
	}}
	_, err := a.BuildRequest(conv, nil, testConfig())
	require.ErrorIs(t, err, wire.ErrInvalidTurnSequence)
}

func TestDecodeResponse_HappyPath(t *testing.T) {
	t.Parallel()
	a := New()
	body := []byte(`{"choices":[{"message":{"role":"assistant","content":"Response payload"}}]}`)

	resp, err := a.DecodeResponse(body)
	require.NoError(t, err)
	assert.Equal(t, "Response payload", resp.Text)
}

func TestDecodeResponse_Failures(t *testing.T) {
	t.Parallel()
	a := New()
	tests := []struct {
		name   string
		body   string
		target error
	}{
		{"not json", "<html>502</html>", wire.ErrInvalidEnvelope},
		{"missing choices", `{"usage":{"total_tokens":5}}`, wire.ErrMissingField},
		{"missing content", `{"choices":[{"message":{"role":"assistant"}}]}`, wire.ErrMissingField},
		{"null content", `{"choices":[{"message":{"content":null,"tool_calls":[]}}]}`, wire.ErrMissingField},
		{"empty content", `{"choices":[{"message":{"content":""}}]}`, wire.ErrEmptyResponse},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp, err := a.DecodeResponse([]byte(tt.body))
			require.ErrorIs(t, err, tt.target)
			assert.Nil(t, resp, "no partial response alongside an error")
		})
	}
}

func TestDecodeResponse_MissingFieldPath(t *testing.T) {
	t.Parallel()
	a := New()
	_, err := a.DecodeResponse([]byte(`{}`))

	var fe *wire.MissingFieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "openai", fe.Provider)
	assert.Equal(t, "choices.0.message.content", fe.Path)
}
