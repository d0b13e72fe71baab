// Package adapters dispatches provider tags and model identifiers to the
// matching adapter implementation. It exists as a separate package so the
// provider subpackages stay free of each other and of registry concerns.
package adapters

import (
	"fmt"

	"github.com/JTan2231/wire"
	"github.com/JTan2231/wire/adapter"
	"github.com/JTan2231/wire/adapter/anthropic"
	"github.com/JTan2231/wire/adapter/gemini"
	"github.com/JTan2231/wire/adapter/openai"
)

// For returns the adapter serving the given provider tag.
func For(p adapter.Provider) (adapter.ProviderAdapter, error) {
	switch p {
	case adapter.ProviderOpenAI:
		return openai.New(), nil
	case adapter.ProviderAnthropic:
		return anthropic.New(), nil
	case adapter.ProviderGemini:
		return gemini.New(), nil
	}
	return nil, fmt.Errorf("%w: %q", wire.ErrUnknownProvider, p)
}

// ForModel infers the provider from a model identifier and returns its
// adapter. Unknown models yield wire.ErrUnknownModel.
func ForModel(model string) (adapter.ProviderAdapter, error) {
	p, err := adapter.ProviderForModel(model)
	if err != nil {
		return nil, err
	}
	return For(p)
}
