package mockllm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// RecordedRequest is one request the server received. Header names are
// canonicalized via textproto; Path excludes the query string, which is kept
// separately in Query.
type RecordedRequest struct {
	Method  string
	Path    string
	Query   string
	Headers map[string]string
	Body    []byte
}

// Route binds a path (query string excluded) to a sequence of responses.
// Calls beyond the sequence repeat the last response.
type Route struct {
	Path      string
	Responses []Response
}

// SingleRoute is a Route with one response for every call.
func SingleRoute(path string, resp Response) Route {
	return Route{Path: path, Responses: []Response{resp}}
}

type routeState struct {
	responses []Response
	calls     int
}

func (r *routeState) next() Response {
	if len(r.responses) == 0 {
		return nil
	}
	idx := r.calls
	if idx >= len(r.responses) {
		idx = len(r.responses) - 1
	}
	r.calls++
	return r.responses[idx]
}

// Server is the mock provider endpoint. Create with Start; always Close to
// release the listener and wait for in-flight connections.
type Server struct {
	listener net.Listener
	group    *errgroup.Group

	mu      sync.Mutex
	routes  map[string]*routeState
	records []RecordedRequest
}

// Start listens on an ephemeral localhost port and serves the given routes.
func Start(routes ...Route) (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	s := &Server{
		listener: ln,
		group:    &errgroup.Group{},
		routes:   make(map[string]*routeState, len(routes)),
	}
	for _, route := range routes {
		s.routes[route.Path] = &routeState{responses: route.Responses}
	}
	s.group.Go(s.acceptLoop)
	return s, nil
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// BaseURL returns an http base URL for the server.
func (s *Server) BaseURL() string {
	return "http://" + s.Addr()
}

// Close stops accepting connections and waits for handlers to drain.
func (s *Server) Close() error {
	err := s.listener.Close()
	if werr := s.group.Wait(); werr != nil && err == nil {
		err = werr
	}
	return err
}

// Requests returns a copy of every recorded request, in arrival order.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.records...)
}

// RequestsFor returns the recorded requests whose path matches exactly.
func (s *Server) RequestsFor(path string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) acceptLoop() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		s.group.Go(func() error {
			defer conn.Close()
			return s.handle(conn)
		})
	}
}

// handle serves exactly one request per connection and closes it, matching
// the Connection: close semantics the canned responses advertise.
func (s *Server) handle(conn net.Conn) error {
	reader := bufio.NewReader(conn)
	tp := textproto.NewReader(reader)

	requestLine, err := tp.ReadLine()
	if err != nil {
		return nil // connection closed before a request arrived
	}
	method, target, ok := parseRequestLine(requestLine)
	if !ok {
		return fmt.Errorf("mockllm: malformed request line %q", requestLine)
	}

	mimeHeader, err := tp.ReadMIMEHeader()
	if err != nil {
		return fmt.Errorf("mockllm: read headers: %w", err)
	}
	headers := make(map[string]string, len(mimeHeader))
	for name, values := range mimeHeader {
		headers[name] = values[0]
	}

	var body []byte
	if cl := mimeHeader.Get("Content-Length"); cl != "" {
		n, err := strconv.Atoi(cl)
		if err != nil || n < 0 {
			return fmt.Errorf("mockllm: bad content-length %q", cl)
		}
		body = make([]byte, n)
		if _, err := io.ReadFull(reader, body); err != nil {
			return fmt.Errorf("mockllm: read body: %w", err)
		}
	}

	path, query := target, ""
	if i := strings.IndexByte(target, '?'); i >= 0 {
		path, query = target[:i], target[i+1:]
	}

	s.mu.Lock()
	s.records = append(s.records, RecordedRequest{
		Method:  method,
		Path:    path,
		Query:   query,
		Headers: headers,
		Body:    body,
	})
	var resp Response
	if route, ok := s.routes[path]; ok {
		resp = route.next()
	}
	s.mu.Unlock()

	w := bufio.NewWriter(conn)
	if resp == nil {
		writeNotFound(w)
	} else if err := resp.write(w); err != nil {
		return err
	}
	return w.Flush()
}

func parseRequestLine(line string) (method, target string, ok bool) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 || !strings.HasPrefix(parts[2], "HTTP/1.") {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func writeNotFound(w *bufio.Writer) {
	const body = "Not Found"
	fmt.Fprintf(w, "HTTP/1.1 404 Not Found\r\nContent-Length: %d\r\nConnection: close\r\n\r\n%s", len(body), body)
}
