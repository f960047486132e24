package model

import (
	"errors"
	"fmt"
)

// ErrNoAction is returned when an inference response carries neither text
// nor a function call.
var ErrNoAction = errors.New("model returned neither text nor a function call")

// ActionKind discriminates Action.
type ActionKind int

const (
	ActionText ActionKind = iota + 1
	ActionToolCall
)

func (k ActionKind) String() string {
	switch k {
	case ActionText:
		return "text"
	case ActionToolCall:
		return "tool_call"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// ToolCall is a function call requested by the model.
type ToolCall struct {
	Name string
	Args map[string]any
}

// Action is the next step chosen by the model. Exactly one of Text or Call
// is meaningful, selected by Kind.
type Action struct {
	Kind ActionKind
	Text string
	Call *ToolCall
}

// TextAction builds a terminal text reply.
func TextAction(text string) Action {
	return Action{Kind: ActionText, Text: text}
}

// ToolCallAction builds a function-call action. A nil args map is replaced
// by an empty one so callers can write into it.
func ToolCallAction(name string, args map[string]any) Action {
	if args == nil {
		args = make(map[string]any)
	}
	return Action{Kind: ActionToolCall, Call: &ToolCall{Name: name, Args: args}}
}
