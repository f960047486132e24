package agent

import (
	"context"
	"errors"
	"io"
	"maps"

	"postbot/model"
)

type modelStep struct {
	action model.Action
	err    error
}

type scriptedModel struct {
	steps    []modelStep
	requests []model.Request
}

func (m *scriptedModel) Generate(_ context.Context, req model.Request) (model.Action, error) {
	m.requests = append(m.requests, req)
	if len(m.steps) == 0 {
		return model.Action{}, errors.New("script exhausted")
	}
	step := m.steps[0]
	m.steps = m.steps[1:]
	return step.action, step.err
}

func text(s string) modelStep {
	return modelStep{action: model.TextAction(s)}
}

func toolCall(name string, args map[string]any) modelStep {
	return modelStep{action: model.ToolCallAction(name, args)}
}

type invocation struct {
	name string
	args map[string]any
}

type invokerStep struct {
	result string
	err    error
}

type fakeInvoker struct {
	steps []invokerStep
	calls []invocation
}

func (f *fakeInvoker) CallTool(_ context.Context, name string, args map[string]any) (string, error) {
	f.calls = append(f.calls, invocation{name: name, args: maps.Clone(args)})
	if len(f.steps) == 0 {
		return "ok", nil
	}
	step := f.steps[0]
	f.steps = f.steps[1:]
	return step.result, step.err
}

type scriptedInput struct {
	lines []string
	reads int
	err   error
}

func (s *scriptedInput) ReadLine(context.Context) (string, error) {
	s.reads++
	if len(s.lines) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}
