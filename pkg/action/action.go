// Package action defines the polymorphic "action" capability spec §9
// prescribes in place of the teacher's Skill/Task/Plan pipeline: a small
// capability set `execute(ctx, tools, cancel) → success`, with variants
// for an external command, a lua script, a js script, and a built-in
// engine verb. The functional-wrapper shape (Func implementing Action via
// stored closures) is carried over from the teacher's SkillFunc pattern.
package action

import "context"

// Tools bundles the event and output sinks an Action may report through.
// It is intentionally a thin struct of funcs so callers (engine built-ins,
// the sequencer) can pass exactly what one invocation needs without a
// god-object.
type Tools struct {
	EmitEvent  func(tag string, fields map[string]any)
	EmitOutput func(line, stream string)
}

// Action is the capability every executable step implements, regardless
// of whether it runs out-of-process (external command) or in-process
// (embedded script, built-in engine verb).
type Action interface {
	// Execute runs the action to completion or until ctx is cancelled,
	// returning success.
	Execute(ctx context.Context, tools Tools) bool
}

// Func adapts a plain function to Action, mirroring the teacher's
// SkillFunc wrapper for the simple case of a single closure.
type Func func(ctx context.Context, tools Tools) bool

func (f Func) Execute(ctx context.Context, tools Tools) bool { return f(ctx, tools) }
