// Package agent provides the turn-taking loop that connects the user, the
// model and the remote tools.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"postbot/model"
	"postbot/tools"
)

// DefaultPostTool is the tool whose content is written by the model before
// the call is forwarded.
const DefaultPostTool = "createPost"

// DefaultTopicArg is the post tool argument holding the topic, and later the
// synthesized content.
const DefaultTopicArg = "status"

const systemPrompt = `When using the "%s" tool, always generate a full post with informative and engaging content. Do not use just a topic or sentence.`

// Model returns the next action for a conversation.
type Model interface {
	Generate(ctx context.Context, req model.Request) (model.Action, error)
}

// Invoker executes a remote tool and returns its text result.
type Invoker interface {
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
}

type state int

const (
	stateAwaitingInput state = iota
	stateAwaitingModel
	stateHandlingToolCall
	stateDone
)

func (s state) String() string {
	switch s {
	case stateAwaitingInput:
		return "awaiting_input"
	case stateAwaitingModel:
		return "awaiting_model"
	case stateHandlingToolCall:
		return "handling_tool_call"
	case stateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Config wires an Agent to its collaborators.
type Config struct {
	Model    Model
	Invoker  Invoker
	Registry *tools.Registry
	Input    Input
	Output   io.Writer
	Logger   *slog.Logger

	// PostTool and TopicArg default to DefaultPostTool and DefaultTopicArg.
	PostTool string
	TopicArg string
}

// Agent holds one chat session: the transcript, the tool snapshot and the
// connections to the model and the tool server. Run must not be called
// concurrently.
type Agent struct {
	model    Model
	invoker  Invoker
	input    Input
	out      io.Writer
	logger   *slog.Logger
	synth    *Synthesizer
	registry *tools.Registry
	postTool string
	system   string

	declarations []*genai.FunctionDeclaration
	transcript   Transcript

	state state
	call  *model.ToolCall
	err   error
}

// New creates an Agent. The registry is read once; later changes to it are
// not seen by the agent.
func New(cfg Config) *Agent {
	if cfg.PostTool == "" {
		cfg.PostTool = DefaultPostTool
	}
	if cfg.TopicArg == "" {
		cfg.TopicArg = DefaultTopicArg
	}
	if cfg.Output == nil {
		cfg.Output = io.Discard
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Registry == nil {
		cfg.Registry = tools.NewRegistry()
	}

	return &Agent{
		model:        cfg.Model,
		invoker:      cfg.Invoker,
		input:        cfg.Input,
		out:          cfg.Output,
		logger:       cfg.Logger.With("component", "agent", "session", uuid.NewString()),
		synth:        NewSynthesizer(cfg.Model, cfg.TopicArg),
		registry:     cfg.Registry,
		postTool:     cfg.PostTool,
		system:       fmt.Sprintf(systemPrompt, cfg.PostTool),
		declarations: cfg.Registry.ToGeminiFormat(),
	}
}

// Transcript returns the conversation so far.
func (a *Agent) Transcript() []model.Message {
	return a.transcript.Messages()
}

// Run drives the conversation until the input is exhausted (returns nil),
// the input fails, or ctx is cancelled. Failed model or tool calls are
// reported to the user and do not stop the loop.
func (a *Agent) Run(ctx context.Context) error {
	a.state = stateAwaitingInput
	for {
		if err := ctx.Err(); err != nil && a.state != stateDone {
			a.finish(err)
		}
		a.logger.Debug("step", "state", a.state, "transcript_len", a.transcript.Len())

		switch a.state {
		case stateAwaitingInput:
			a.readInput(ctx)
		case stateAwaitingModel:
			a.infer(ctx)
		case stateHandlingToolCall:
			a.handleToolCall(ctx)
		case stateDone:
			return a.err
		}
	}
}

func (a *Agent) finish(err error) {
	a.state = stateDone
	a.err = err
	a.call = nil
}

func (a *Agent) readInput(ctx context.Context) {
	a.printf("You: ")
	line, err := a.input.ReadLine(ctx)
	if errors.Is(err, io.EOF) {
		a.printf("\n")
		a.finish(nil)
		return
	}
	if err != nil {
		a.finish(fmt.Errorf("reading input: %w", err))
		return
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	a.transcript.Append(model.UserMessage(line))
	a.state = stateAwaitingModel
}

func (a *Agent) infer(ctx context.Context) {
	action, err := a.model.Generate(ctx, model.Request{
		Transcript: a.transcript.Messages(),
		Tools:      a.declarations,
		System:     a.system,
	})
	if err != nil {
		if ctx.Err() != nil {
			a.finish(ctx.Err())
			return
		}
		a.logger.Error("inference failed", "err", err, "transcript_len", a.transcript.Len())
		a.printf("⚠️ The model did not answer: %v\n", err)
		a.state = stateAwaitingInput
		return
	}

	switch action.Kind {
	case model.ActionToolCall:
		if action.Call == nil {
			a.noAction(action.Kind)
			return
		}
		a.call = action.Call
		a.state = stateHandlingToolCall
	case model.ActionText:
		a.transcript.Append(model.ModelMessage(action.Text))
		a.printf("AI: %s\n", action.Text)
		a.state = stateAwaitingInput
	default:
		a.noAction(action.Kind)
	}
}

func (a *Agent) noAction(kind model.ActionKind) {
	a.logger.Error("inference failed", "err", model.ErrNoAction, "kind", kind)
	a.printf("⚠️ The model did not answer: %v\n", model.ErrNoAction)
	a.state = stateAwaitingInput
}

func (a *Agent) handleToolCall(ctx context.Context) {
	call := a.call
	a.call = nil
	a.state = stateAwaitingInput

	a.logger.Info("tool requested", "tool", call.Name)
	a.printf("🔧 Tool requested: %s\n", call.Name)

	if _, ok := a.registry.Get(call.Name); !ok {
		a.logger.Error("tool call failed", "tool", call.Name, "err", tools.ErrUnknownTool)
		a.printf("❌ Tool %s failed: %v\n", call.Name, tools.ErrUnknownTool)
		return
	}

	if call.Name == a.postTool {
		topic := a.synth.Topic(call)
		a.printf("📝 Generating post for topic: %s\n", topic)

		post, err := a.synth.Rewrite(ctx, call)
		if err != nil {
			a.logger.Error("post synthesis failed", "tool", call.Name, "topic", topic, "err", err)
			a.printf("❌ %v\n", err)
			return
		}
		a.printf("✅ Generated post: %s\n", post)
	}

	result, err := a.invoker.CallTool(ctx, call.Name, call.Args)
	if err != nil {
		a.logger.Error("tool call failed", "tool", call.Name, "err", err)
		a.printf("❌ Tool %s failed: %v\n", call.Name, err)
		return
	}

	a.printf("📤 Tool executed, result: %s\n", result)
	a.transcript.Append(model.ToolResultMessage(result))
	a.state = stateAwaitingModel
}

func (a *Agent) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(a.out, format, args...); err != nil {
		a.logger.Warn("writing output", "err", err)
	}
}
