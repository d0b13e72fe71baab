// Package adapter defines the ProviderAdapter interface for translating
// wire's canonical Conversation into a provider-specific Request Descriptor
// and for decoding the provider's raw JSON response into normalized text.
// Implementations live in provider-specific subpackages (openai, anthropic,
// gemini); dispatch by provider tag lives in the adapters package.
package adapter
