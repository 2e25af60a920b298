// Package network provides the pre-configured HTTP layer for communication with the media server.
package network

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is the singleton HTTP client shared across the application for efficient resource utilization.
// It is tuned for long-lived streaming connections against a single server.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

// newTransport initializes a tuned http.Transport with optimized pool and timeout parameters.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	return t
}

// Server resolves server-relative resource paths against a configured base URL,
// attaching the API token the server expects on direct fetches.
type Server struct {
	baseURL string
	token   string
}

// NewServer creates a resolver for the given base URL and API token.
func NewServer(baseURL, token string) *Server {
	return &Server{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

// AbsoluteURL resolves a server-relative delivery path (e.g. a subtitle stream
// endpoint) to an absolute fetch URL. Already-absolute URLs pass through untouched.
func (s *Server) AbsoluteURL(path string) string {
	if strings.Contains(path, "://") {
		return path
	}

	absolute := s.baseURL + "/" + strings.TrimLeft(path, "/")
	if s.token == "" {
		return absolute
	}

	parsed, err := url.Parse(absolute)
	if err != nil {
		return absolute
	}

	query := parsed.Query()
	query.Set("api_key", s.token)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
