package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NoResultText stands in for a tool result that carries no text content.
const NoResultText = "No result text"

// ErrToolFailed is returned when the tool server reports a failed call or
// returns no result at all.
var ErrToolFailed = errors.New("tool call failed")

const (
	clientName    = "postbot"
	clientVersion = "1.0.0"
)

// MCPClient is a stateless wrapper around one MCP client session. It does
// not retry; transport failures are returned as-is (wrapped).
type MCPClient struct {
	session *mcp.ClientSession
	logger  *slog.Logger
}

// Connect opens the session with the tool server over transport.
func Connect(ctx context.Context, transport mcp.Transport, logger *slog.Logger) (*MCPClient, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client := mcp.NewClient(&mcp.Implementation{Name: clientName, Version: clientVersion}, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to tool server: %w", err)
	}

	return &MCPClient{
		session: session,
		logger:  logger.With("component", "mcp"),
	}, nil
}

// ListTools fetches every tool the server declares.
func (c *MCPClient) ListTools(ctx context.Context) ([]Descriptor, error) {
	var result []Descriptor
	for tool, err := range c.session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("listing tools: %w", err)
		}
		d, err := toDescriptor(tool)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	c.logger.Debug("listed tools", "count", len(result))
	return result, nil
}

// CallTool invokes the named tool and returns the text of its first content
// part, or NoResultText when there is none.
func (c *MCPClient) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	c.logger.Debug("calling tool", "tool", name, "args", args)

	res, err := c.session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return "", fmt.Errorf("calling tool %s: %w", name, err)
	}
	if res == nil {
		return "", fmt.Errorf("%w: %s returned no result", ErrToolFailed, name)
	}

	text := firstText(res)
	if res.IsError {
		return "", fmt.Errorf("%w: %s: %s", ErrToolFailed, name, text)
	}
	return text, nil
}

// Close ends the session.
func (c *MCPClient) Close() error {
	if c == nil || c.session == nil {
		return nil
	}
	err := c.session.Close()
	c.session = nil
	return err
}

func firstText(res *mcp.CallToolResult) string {
	if len(res.Content) == 0 {
		return NoResultText
	}
	if tc, ok := res.Content[0].(*mcp.TextContent); ok && tc.Text != "" {
		return tc.Text
	}
	return NoResultText
}

func toDescriptor(tool *mcp.Tool) (Descriptor, error) {
	if tool == nil {
		return Descriptor{}, fmt.Errorf("listing tools: nil tool")
	}

	d := Descriptor{Name: tool.Name, Description: tool.Description}
	if tool.InputSchema == nil {
		return d, nil
	}

	raw, err := json.Marshal(tool.InputSchema)
	if err != nil {
		return Descriptor{}, fmt.Errorf("tool %s: encoding input schema: %w", tool.Name, err)
	}
	var schema struct {
		Type       string         `json:"type"`
		Properties map[string]any `json:"properties"`
		Required   []string       `json:"required"`
	}
	if err := json.Unmarshal(raw, &schema); err != nil {
		return Descriptor{}, fmt.Errorf("tool %s: decoding input schema: %w", tool.Name, err)
	}

	d.Parameters = Schema{
		Type:       schema.Type,
		Properties: schema.Properties,
		Required:   schema.Required,
	}
	return d, nil
}
