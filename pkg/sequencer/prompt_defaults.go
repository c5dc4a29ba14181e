package sequencer

import (
	"github.com/expr-lang/expr"

	"github.com/yggdrasil-au/remake-operator/pkg/operation"
	"github.com/yggdrasil-au/remake-operator/pkg/value"
)

// BuildPromptDefaults derives answers for every prompt op declares (spec
// §4.11 "Prompt defaults"). resolved tracks prior operations' boolean
// confirm answers by prompt name, so a later operation's condition can
// reference an earlier one's resolved value; it is also updated in place
// with this operation's own confirm answers.
func BuildPromptDefaults(op operation.Operation, resolved map[string]bool) operation.Answers {
	answers := operation.NewAnswers()

	// First pass: resolve every prompt with no condition, recording confirm
	// answers in resolved so conditioned prompts can gate on them.
	for _, p := range op.Prompts {
		if p.Condition != "" {
			continue
		}
		v := defaultFor(p)
		answers.Set(p.Name, v)
		if p.Type == operation.PromptConfirm {
			if b, ok := v.Scalar().(bool); ok {
				resolved[p.Name] = b
			}
		}
	}

	for _, p := range op.Prompts {
		if p.Condition == "" {
			continue
		}
		v := p.EmptyValue()
		if conditionSatisfied(p.Condition, op, resolved) {
			v = defaultFor(p)
		}
		answers.Set(p.Name, v)
		if p.Type == operation.PromptConfirm {
			if b, ok := v.Scalar().(bool); ok {
				resolved[p.Name] = b
			}
		}
	}

	return answers
}

func defaultFor(p operation.Prompt) value.Value {
	if p.Default.Kind() != value.KindNull {
		return p.Default
	}
	return p.EmptyValue()
}

// conditionSatisfied evaluates p's condition as a small boolean
// expression over resolved (spec §4.11, supplemented by expr-lang per the
// expanded spec). A bare name that matches another prompt of op is
// evaluated as a direct lookup; anything else is compiled and run as an
// expr-lang expression over resolved, defaulting to false on any error so
// a malformed condition never blocks the whole run.
func conditionSatisfied(condition string, op operation.Operation, resolved map[string]bool) bool {
	if b, ok := resolved[condition]; ok {
		return b
	}
	if prefetch, ok := prefetchDefault(condition, op); ok {
		return prefetch
	}

	env := make(map[string]any, len(resolved))
	for k, v := range resolved {
		env[k] = v
	}
	program, err := expr.Compile(condition, expr.Env(env), expr.AsBool())
	if err != nil {
		return false
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false
	}
	b, _ := out.(bool)
	return b
}

// prefetchDefault implements "when evaluating a condition whose target
// hasn't been resolved yet, use its own default (if any) as a prefetch."
func prefetchDefault(name string, op operation.Operation) (bool, bool) {
	for _, p := range op.Prompts {
		if p.Name != name || p.Type != operation.PromptConfirm {
			continue
		}
		if p.Default.Kind() == value.KindNull {
			return false, true
		}
		b, _ := p.Default.Scalar().(bool)
		return b, true
	}
	return false, false
}
