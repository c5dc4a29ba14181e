// Package command converts an operation + resolved context + prompt
// answers into an argv for external execution, or a normalized embedded
// form (spec §4.3).
package command

import (
	"fmt"

	"github.com/yggdrasil-au/remake-operator/pkg/operation"
	"github.com/yggdrasil-au/remake-operator/pkg/placeholder"
	"github.com/yggdrasil-au/remake-operator/pkg/value"
)

// Command is the output of Build: either an external Argv or an embedded
// ScriptPath+Args, never both.
type Command struct {
	Embedded   bool
	Argv       []string // external: argv[0] is the executable
	ScriptPath string   // embedded: resolved script path
	Args       []string // embedded: resolved args
}

// Build resolves placeholders in op.Script and every element of op.Args
// against ctx merged with answers under "PromptAnswers", then dispatches on
// op.ScriptType.
func Build(op operation.Operation, answers operation.Answers, ctx value.Mapping) (Command, error) {
	merged := value.NewMapping()
	for _, k := range ctx.Keys() {
		v, _ := ctx.Get(k)
		merged.Set(k, v)
	}
	merged.Set("PromptAnswers", value.Map(answers.Mapping()))

	script := placeholder.ResolveString(op.Script, merged)
	args := make([]string, 0, len(op.Args))
	for _, a := range op.Args {
		args = append(args, placeholder.ResolveString(a.String(), merged))
	}

	switch op.ScriptType {
	case "python":
		return Command{}, fmt.Errorf("command: script_type=python is not supported")

	case "bms":
		quickbms := "quickbms"
		if v, ok := merged.Lookup("quickbms_path"); ok {
			quickbms = v.String()
		}
		input := placeholder.ResolveString(op.Input, merged)
		output := placeholder.ResolveString(op.Output, merged)
		return Command{Argv: []string{quickbms, script, input, output}}, nil

	case "engine", "lua", "js":
		return Command{Embedded: true, ScriptPath: script, Args: args}, nil

	default:
		argv := append([]string{script}, args...)
		return Command{Argv: argv}, nil
	}
}
