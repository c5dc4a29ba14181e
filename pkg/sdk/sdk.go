// Package sdk implements the embedded SDK Surface (spec §4.5): the host
// functions exposed under a global `sdk` namespace to embedded lua/js
// actions. All values cross the boundary through the pkg/value
// tagged-union representation.
package sdk

import (
	"strings"

	"github.com/gookit/color"

	"github.com/yggdrasil-au/remake-operator/pkg/events"
	"github.com/yggdrasil-au/remake-operator/pkg/sdk/pathpolicy"
	"github.com/yggdrasil-au/remake-operator/pkg/supervisor"
)

// PromptFunc requests a line of input from whichever front-end is
// attached, analogous to the Process Supervisor's stdinProvider but
// invoked directly by in-process actions rather than over a child's
// stdin.
type PromptFunc func(msg string, id string, secret bool) (string, bool)

// SDK is one embedded script invocation's bound host surface. A fresh SDK
// is built per script session so progress handles and prompt IDs never
// leak across scripts.
type SDK struct {
	Policy     *pathpolicy.Policy
	Supervisor *supervisor.Supervisor
	Emit       events.EventSink
	Output     events.OutputSink
	Prompt     PromptFunc

	progressSeq int
}

func New(policy *pathpolicy.Policy, sup *supervisor.Supervisor, emit events.EventSink, output events.OutputSink, prompt PromptFunc) *SDK {
	return &SDK{Policy: policy, Supervisor: sup, Emit: emit, Output: output, Prompt: prompt}
}

func (s *SDK) emit(e events.Event) {
	if s.Emit != nil {
		s.Emit(e)
	}
}

// Print writes msg as a print event, optionally colored.
func (s *SDK) Print(msg string, colorName string, newline bool) {
	ev := events.New(events.TagPrint).WithString("message", msg).WithBool("newline", newline)
	if colorName != "" {
		ev = ev.WithString("color", colorName)
	}
	s.emit(ev)
	if s.Output != nil {
		rendered := msg
		if colorName != "" {
			rendered = colorize(colorName, msg)
		}
		if newline {
			rendered += "\n"
		}
		s.Output(rendered, "stdout")
	}
}

// ColorPrint is Print with a mandatory color.
func (s *SDK) ColorPrint(colorName, msg string, newline bool) {
	s.Print(msg, colorName, newline)
}

func (s *SDK) Warn(msg string) {
	s.emit(events.New(events.TagWarning).WithString("message", msg))
}

func (s *SDK) Error(msg string) {
	s.emit(events.New(events.TagError).WithString("message", msg))
}

// RequestPrompt requests free text from the attached front-end.
func (s *SDK) RequestPrompt(msg, id string, secret bool) string {
	s.emit(events.New(events.TagPrompt).WithString("message", msg).WithString("id", id).WithBool("secret", secret))
	if s.Prompt == nil {
		return ""
	}
	answer, _ := s.Prompt(msg, id, secret)
	return answer
}

// ColorPrompt is RequestPrompt tagged with a render color.
func (s *SDK) ColorPrompt(msg, colorName, id string, secret bool) string {
	s.emit(events.New(events.TagColorPrompt).WithString("message", msg).WithString("color", colorName).
		WithString("id", id).WithBool("secret", secret))
	if s.Prompt == nil {
		return ""
	}
	answer, _ := s.Prompt(msg, id, secret)
	return answer
}

// Confirm requests a yes/no answer, falling back to def when the front
// end provides none.
func (s *SDK) Confirm(msg, id string, def bool) bool {
	s.emit(events.New(events.TagConfirm).WithString("message", msg).WithString("id", id).WithBool("default", def))
	if s.Prompt == nil {
		return def
	}
	answer, ok := s.Prompt(msg, id, false)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "true", "1":
		return true
	case "n", "no", "false", "0":
		return false
	default:
		return def
	}
}

func colorize(name, msg string) string {
	return color.Tag(name).Sprint(msg)
}
