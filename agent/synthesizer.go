package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"postbot/model"
)

// DefaultTopic is used when the tool call carries no topic.
const DefaultTopic = "a topic"

const postPrompt = `Write a Twitter post about: "%s". Include key facts, names, prices, features. Keep it within 280 characters and engaging.`

// ErrSynthesis is returned when the model produced no usable post text.
var ErrSynthesis = errors.New("failed to generate post content")

// Synthesizer asks the model for publishable post text about a topic. Each
// request is a fresh single-turn conversation, independent of the chat
// transcript.
type Synthesizer struct {
	model    Model
	topicArg string
}

// NewSynthesizer creates a synthesizer that rewrites the topicArg argument.
func NewSynthesizer(m Model, topicArg string) *Synthesizer {
	return &Synthesizer{model: m, topicArg: topicArg}
}

// Topic extracts the topic from the call, falling back to DefaultTopic.
func (s *Synthesizer) Topic(call *model.ToolCall) string {
	if call == nil {
		return DefaultTopic
	}
	topic, _ := call.Args[s.topicArg].(string)
	if strings.TrimSpace(topic) == "" {
		return DefaultTopic
	}
	return topic
}

// Synthesize returns post text about topic.
func (s *Synthesizer) Synthesize(ctx context.Context, topic string) (string, error) {
	if strings.TrimSpace(topic) == "" {
		topic = DefaultTopic
	}

	action, err := s.model.Generate(ctx, model.Request{
		Transcript: []model.Message{model.UserMessage(fmt.Sprintf(postPrompt, topic))},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSynthesis, err)
	}
	if action.Kind != model.ActionText {
		return "", fmt.Errorf("%w: model answered with %s", ErrSynthesis, action.Kind)
	}

	text := unwrapMarkup(strings.TrimSpace(action.Text))
	if text == "" {
		return "", ErrSynthesis
	}
	return text, nil
}

// Rewrite synthesizes post text for call and stores it in the topic
// argument, mutating call.Args in place. On failure call is left untouched.
func (s *Synthesizer) Rewrite(ctx context.Context, call *model.ToolCall) (string, error) {
	text, err := s.Synthesize(ctx, s.Topic(call))
	if err != nil {
		return "", err
	}
	if call.Args == nil {
		call.Args = make(map[string]any)
	}
	call.Args[s.topicArg] = text
	return text, nil
}

// unwrapMarkup returns the text content of s when the whole post is HTML
// markup, such as "<p>...</p>". Anything else is returned as is, so stray
// angle brackets or entities in a plain post are left alone.
func unwrapMarkup(s string) string {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), body)
	if err != nil || !isMarkup(nodes) {
		return s
	}

	var b strings.Builder
	for _, n := range nodes {
		writeText(&b, n)
	}
	return strings.TrimSpace(b.String())
}

// isMarkup reports whether the top level holds only known HTML elements and
// whitespace.
func isMarkup(nodes []*html.Node) bool {
	found := false
	for _, n := range nodes {
		switch {
		case n.Type == html.ElementNode && n.DataAtom != 0:
			found = true
		case n.Type == html.TextNode && strings.TrimSpace(n.Data) == "":
		default:
			return false
		}
	}
	return found
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
}
