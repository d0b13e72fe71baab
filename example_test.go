package wire_test

import (
	"fmt"

	"github.com/JTan2231/wire"
	"github.com/JTan2231/wire/adapters"
	"github.com/JTan2231/wire/envelope"
)

// Build a request descriptor for a model and render it into raw HTTP/1.1
// bytes ready to write to a TLS connection.
func Example() {
	conv := wire.Conversation{
		System: "You are a helpful assistant.",
		Turns:  []wire.Turn{wire.NewUserTurn("Hello!")},
	}

	a, err := adapters.ForModel("claude-sonnet-4-20250514")
	if err != nil {
		fmt.Println(err)
		return
	}
	req, err := a.BuildRequest(conv, nil, wire.ProviderConfig{
		APIKey: "sk-ant-example",
		Model:  "claude-sonnet-4-20250514",
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	raw, err := envelope.Build(req)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(req.URL())
	fmt.Println(len(raw) > 0)
	// Output:
	// https://api.anthropic.com/v1/messages
	// true
}
