// Package mockllm runs a lightweight in-process HTTP server that mimics LLM
// provider endpoints. It speaks plain HTTP/1.1 over TCP so it can consume the
// raw request bytes produced by the envelope package as well as ordinary
// http.Client traffic, records every request per path, and replies with
// canned JSON, SSE, or chunked-array responses in each provider's shape.
// Intended for integration-style tests and applications that want to exercise
// adapters without contacting real services.
package mockllm
