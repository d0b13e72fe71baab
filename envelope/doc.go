// Package envelope renders a Request Descriptor into literal HTTP/1.1 request
// bytes for transports that bypass a higher-level HTTP client, such as the
// streaming path's bare TLS socket. Content-Length always equals the exact
// byte length of the serialized body.
package envelope
