// Package builtins implements script_type="engine" built-in actions (spec
// §4.7): download_tools, format-extract (TXD), format-convert,
// validate-files, rename-folders.
package builtins

import (
	"context"
	"fmt"
	"strings"

	"github.com/yggdrasil-au/remake-operator/internal/config"
	"github.com/yggdrasil-au/remake-operator/pkg/operation"
	"github.com/yggdrasil-au/remake-operator/pkg/sdk"
	"github.com/yggdrasil-au/remake-operator/pkg/value"
)

// Deps bundles the collaborators a built-in verb needs.
type Deps struct {
	Paths config.Paths
	SDK   *sdk.SDK
}

// Dispatch routes op.Script (for script_type="engine") to the matching
// verb (spec §4.7). resolvedArgs are op.Args with placeholders already
// resolved against the execution context + prompt answers.
func Dispatch(ctx context.Context, deps Deps, op operation.Operation, answers operation.Answers, resolvedArgs []string) bool {
	switch op.Script {
	case "download_tools":
		return downloadTools(deps, op, answers)
	case "format-extract":
		return formatExtract(deps, op, resolvedArgs)
	case "format-convert":
		return formatConvert(ctx, deps, op, resolvedArgs)
	case "validate-files":
		return validateFiles(deps, op, resolvedArgs)
	case "rename-folders":
		return renameFolders(deps, op, resolvedArgs)
	default:
		deps.SDK.Error(fmt.Sprintf("builtins: unrecognized engine verb %q", op.Script))
		return false
	}
}

func answerBool(answers operation.Answers, names ...string) bool {
	for _, n := range names {
		if v, ok := answers.Get(n); ok {
			if b, ok := v.Scalar().(bool); ok {
				return b
			}
		}
	}
	return false
}

func firstFlag(args []string, names ...string) (string, bool) {
	for i, a := range args {
		for _, n := range names {
			if a == n && i+1 < len(args) {
				return args[i+1], true
			}
			if strings.HasPrefix(a, n+"=") {
				return strings.TrimPrefix(a, n+"="), true
			}
		}
	}
	return "", false
}

func toStrings(vals []value.Value) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.String()
	}
	return out
}
