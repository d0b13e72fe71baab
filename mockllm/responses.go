package mockllm

import (
	"bufio"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Response is one canned reply a route can serve.
type Response interface {
	write(w *bufio.Writer) error
}

// JSONResponse replies with a JSON body and Connection: close.
type JSONResponse struct {
	Status int
	Body   any
}

// JSON wraps a body in a 200 JSONResponse.
func JSON(body any) JSONResponse {
	return JSONResponse{Status: 200, Body: body}
}

func (r JSONResponse) write(w *bufio.Writer) error {
	status := r.Status
	if status == 0 {
		status = 200
	}
	body, err := json.Marshal(r.Body)
	if err != nil {
		return fmt.Errorf("mockllm: marshal json response: %w", err)
	}
	_, err = fmt.Fprintf(w,
		"HTTP/1.1 %d %s\r\nContent-Type: application/json\r\nContent-Length: %d\r\nConnection: close\r\n\r\n%s",
		status, statusText(status), len(body), body)
	return err
}

// SSEEvent is one server-sent event: an optional event name, data payload, or
// comment line.
type SSEEvent struct {
	Event   string
	Data    string
	Comment string
}

// SSEResponse streams server-sent events and optionally the OpenAI-style
// [DONE] terminator.
type SSEResponse struct {
	Events   []SSEEvent
	SendDone bool
}

func (r SSEResponse) write(w *bufio.Writer) error {
	if _, err := w.WriteString("HTTP/1.1 200 OK\r\nContent-Type: text/event-stream\r\nCache-Control: no-cache\r\nConnection: close\r\n\r\n"); err != nil {
		return err
	}
	for _, ev := range r.Events {
		if ev.Comment != "" {
			fmt.Fprintf(w, ": %s\n", ev.Comment)
		}
		if ev.Event != "" {
			fmt.Fprintf(w, "event: %s\n", ev.Event)
		}
		if ev.Data != "" {
			fmt.Fprintf(w, "data: %s\n", ev.Data)
		}
		if _, err := w.WriteString("\n"); err != nil {
			return err
		}
	}
	if r.SendDone {
		if _, err := w.WriteString("data: [DONE]\n\n"); err != nil {
			return err
		}
	}
	return nil
}

// ChunkedResponse streams a JSON array one element per HTTP chunk, the shape
// Gemini uses for streamGenerateContent.
type ChunkedResponse struct {
	Objects []any
}

func (r ChunkedResponse) write(w *bufio.Writer) error {
	if _, err := w.WriteString("HTTP/1.1 200 OK\r\nContent-Type: application/json\r\nTransfer-Encoding: chunked\r\nConnection: close\r\n\r\n"); err != nil {
		return err
	}
	for i, obj := range r.Objects {
		body, err := json.Marshal(obj)
		if err != nil {
			return fmt.Errorf("mockllm: marshal chunk: %w", err)
		}
		prefix := "[" // first element opens the array
		if i > 0 {
			prefix = ",\r\n"
		}
		if err := writeChunk(w, prefix+string(body)); err != nil {
			return err
		}
	}
	if err := writeChunk(w, "]"); err != nil {
		return err
	}
	_, err := w.WriteString("0\r\n\r\n")
	return err
}

func writeChunk(w *bufio.Writer, data string) error {
	_, err := fmt.Fprintf(w, "%x\r\n%s\r\n", len(data), data)
	return err
}

func statusText(status int) string {
	switch status {
	case 200:
		return "OK"
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 404:
		return "Not Found"
	case 429:
		return "Too Many Requests"
	case 500:
		return "Internal Server Error"
	default:
		return "Status"
	}
}

// OpenAIText builds a non-streaming chat completion body carrying text.
func OpenAIText(text string) JSONResponse {
	return JSON(map[string]any{
		"id":     "chatcmpl-" + uuid.NewString(),
		"object": "chat.completion",
		"choices": []any{
			map[string]any{
				"index": 0,
				"message": map[string]any{
					"role":    "assistant",
					"content": text,
				},
				"finish_reason": "stop",
			},
		},
	})
}

// AnthropicText builds a non-streaming Messages response body carrying text.
func AnthropicText(text string) JSONResponse {
	return JSON(map[string]any{
		"id":   "msg_" + uuid.NewString(),
		"type": "message",
		"role": "assistant",
		"content": []any{
			map[string]any{"type": "text", "text": text},
		},
		"stop_reason": "end_turn",
	})
}

// GeminiText builds a non-streaming generateContent response body carrying text.
func GeminiText(text string) JSONResponse {
	return JSON(map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	})
}

// OpenAITextStream builds an SSE stream of chat completion deltas terminated
// by [DONE].
func OpenAITextStream(chunks ...string) SSEResponse {
	events := make([]SSEEvent, 0, len(chunks))
	for _, text := range chunks {
		data, _ := json.Marshal(map[string]any{
			"choices": []any{
				map[string]any{"delta": map[string]any{"content": text}},
			},
		})
		events = append(events, SSEEvent{Data: string(data)})
	}
	return SSEResponse{Events: events, SendDone: true}
}

// AnthropicTextStream builds an SSE stream of content_block_delta events
// framed by message_start and message_stop.
func AnthropicTextStream(chunks ...string) SSEResponse {
	events := make([]SSEEvent, 0, len(chunks)+2)
	events = append(events, SSEEvent{Event: "message_start"})
	for _, text := range chunks {
		data, _ := json.Marshal(map[string]any{
			"type":  "content_block_delta",
			"delta": map[string]any{"text": text},
		})
		events = append(events, SSEEvent{Data: string(data)})
	}
	events = append(events, SSEEvent{Event: "message_stop"})
	return SSEResponse{Events: events}
}

// GeminiTextStream builds a chunked JSON array of candidate fragments.
func GeminiTextStream(chunks ...string) ChunkedResponse {
	objects := make([]any, 0, len(chunks))
	for _, text := range chunks {
		objects = append(objects, map[string]any{
			"candidates": []any{
				map[string]any{
					"content": map[string]any{
						"parts": []any{map[string]any{"text": text}},
					},
				},
			},
		})
	}
	return ChunkedResponse{Objects: objects}
}
