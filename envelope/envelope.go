package envelope

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/JTan2231/wire/adapter"
)

// Header names treated as the authentication entry. At most one appears on a
// descriptor; Gemini descriptors carry none because the key rides the query.
var authHeaders = []string{"Authorization", "x-api-key"}

var errIncomplete = errors.New("wire: request descriptor missing method or host")

// Build renders the descriptor into raw HTTP/1.1 request bytes, in order:
// request line, Host, the authentication header exactly as the adapter set
// it, Content-Length computed from the serialized body, remaining headers, a
// blank line, then the body verbatim.
func Build(req *adapter.Request) ([]byte, error) {
	if req == nil || req.Method == "" || req.Host == "" {
		return nil, errIncomplete
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "%s %s HTTP/1.1\r\n", req.Method, req.RequestTarget())
	fmt.Fprintf(&b, "Host: %s\r\n", req.HostHeader())

	for _, h := range req.Headers {
		if isAuthHeader(h.Name) {
			fmt.Fprintf(&b, "%s: %s\r\n", h.Name, h.Value)
			break
		}
	}

	fmt.Fprintf(&b, "Content-Length: %d\r\n", len(req.Body))

	for _, h := range req.Headers {
		if isAuthHeader(h.Name) {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\r\n", h.Name, h.Value)
	}
	b.WriteString("Accept: */*\r\n")

	b.WriteString("\r\n")
	b.Write(req.Body)
	return b.Bytes(), nil
}

func isAuthHeader(name string) bool {
	for _, a := range authHeaders {
		if strings.EqualFold(name, a) {
			return true
		}
	}
	return false
}
