package adapter

import (
	"fmt"

	"github.com/JTan2231/wire"
)

// Known model identifiers per provider. The tables drive provider inference
// in ForModel-style factories; endpoints accept any model string, so an
// unknown identifier only prevents inference, not explicit dispatch.
var knownModels = map[Provider][]string{
	ProviderOpenAI: {
		"gpt-5",
		"gpt-4o",
		"gpt-4o-mini",
		"o1-preview",
		"o1-mini",
	},
	ProviderAnthropic: {
		"claude-opus-4-1-20250805",
		"claude-opus-4-20250514",
		"claude-sonnet-4-20250514",
		"claude-3-7-sonnet-20250219",
		"claude-3-5-sonnet-20241022",
		"claude-3-5-haiku-20241022",
		"claude-3-5-sonnet-20240620",
		"claude-3-haiku-20240307",
		"claude-3-opus-20240229",
	},
	ProviderGemini: {
		"gemini-2.5-flash-preview-04-17",
		"gemini-2.0-flash",
		"gemini-2.0-flash-lite",
	},
}

// ProviderForModel infers the provider that serves the given model
// identifier. Returns wire.ErrUnknownModel when no table lists it.
func ProviderForModel(model string) (Provider, error) {
	for provider, models := range knownModels {
		for _, m := range models {
			if m == model {
				return provider, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", wire.ErrUnknownModel, model)
}

// Models returns the known model identifiers for a provider, in release
// order. The returned slice is a copy.
func Models(p Provider) []string {
	return append([]string(nil), knownModels[p]...)
}

// ParseProvider validates a provider tag string.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
		return Provider(s), nil
	}
	return "", fmt.Errorf("%w: %q", wire.ErrUnknownProvider, s)
}
