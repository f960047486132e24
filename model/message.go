// Package model holds the conversation types shared by the agent and the
// inference gateway, and the Gemini implementation of that gateway.
package model

import (
	"strings"

	"google.golang.org/genai"
)

// ToolResultPrefix marks a user-role message as the output of a tool call.
const ToolResultPrefix = "Tool result: "

// Role identifies who authored a transcript message.
type Role string

const (
	RoleUser  Role = genai.RoleUser
	RoleModel Role = genai.RoleModel
)

// Message is one entry of the conversation transcript. It always carries a
// single text part on the wire.
type Message struct {
	Role Role
	Text string
}

// UserMessage returns a message typed by the user.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// ModelMessage returns a text reply produced by the model.
func ModelMessage(text string) Message {
	return Message{Role: RoleModel, Text: text}
}

// ToolResultMessage folds a tool result back into the transcript. The
// inference service has no tool role for plain-text turns, so results travel
// as user messages carrying ToolResultPrefix.
func ToolResultMessage(result string) Message {
	return Message{Role: RoleUser, Text: ToolResultPrefix + result}
}

// IsToolResult reports whether m was produced by ToolResultMessage.
func (m Message) IsToolResult() bool {
	return m.Role == RoleUser && strings.HasPrefix(m.Text, ToolResultPrefix)
}

// Request is everything one inference call needs.
type Request struct {
	Transcript []Message
	Tools      []*genai.FunctionDeclaration
	System     string
}
