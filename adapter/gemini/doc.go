// Package gemini implements adapter.ProviderAdapter for the Google Gemini
// generateContent API. Authentication travels in the query string (key=...),
// never in a header; the request path alternates between generateContent and
// streamGenerateContent on the streaming flag. Canonical assistant turns are
// emitted with Gemini's "model" role.
package gemini
