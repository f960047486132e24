package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/oauth2"
)

// Transport kinds accepted by NewTransport.
const (
	TransportSSE        = "sse"
	TransportStreamable = "streamable"
)

// NewTransport builds the client transport for the tool server at endpoint.
// A non-empty token is sent as a bearer token on every request.
func NewTransport(endpoint, kind, token string) (mcp.Transport, error) {
	normalized, err := normalizeEndpoint(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid tool server endpoint: %w", err)
	}

	httpClient := httpClientFor(token)

	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", TransportSSE:
		return &mcp.SSEClientTransport{Endpoint: normalized, HTTPClient: httpClient}, nil
	case TransportStreamable:
		return &mcp.StreamableClientTransport{Endpoint: normalized, HTTPClient: httpClient}, nil
	default:
		return nil, fmt.Errorf("unsupported tool server transport %q", kind)
	}
}

func httpClientFor(token string) *http.Client {
	if token == "" {
		return nil
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return oauth2.NewClient(context.Background(), src)
}

func normalizeEndpoint(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("endpoint is empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("missing host")
	}
	parsed.Scheme = scheme
	return parsed.String(), nil
}
