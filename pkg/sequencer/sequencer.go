// Package sequencer implements the Run-All Sequencer (spec §4.11):
// selecting init/run-all operations, deriving prompt defaults under
// condition-gating, and driving each selected operation through the
// executor while emitting run-all-* events. Grounded on the teacher's
// orchestration loop shape (select → emit start → iterate → emit end),
// generalized from a single pipeline to the spec's init+run-all phases.
package sequencer

import (
	"context"

	"github.com/yggdrasil-au/remake-operator/pkg/events"
	"github.com/yggdrasil-au/remake-operator/pkg/executor"
	"github.com/yggdrasil-au/remake-operator/pkg/operation"
)

// RunAllResult summarizes one sequencer pass (spec §4.11 step 3).
type RunAllResult struct {
	Total     int
	Succeeded int
	Success   bool
	Cancelled bool
}

// Select implements the init/run-all selection rule (spec §4.11 steps
// 1-4): init ops first, then run-all ops, both in declaration order,
// deduped by position in ops (an operation flagged both init and run-all
// appears once).
// If nothing qualifies, the full list is returned.
func Select(ops []operation.Operation) []operation.Operation {
	var selected []operation.Operation
	seen := map[int]bool{}

	for i, op := range ops {
		if op.Init && !seen[i] {
			selected = append(selected, op)
			seen[i] = true
		}
	}
	for i, op := range ops {
		if (op.RunAll) && !seen[i] {
			selected = append(selected, op)
			seen[i] = true
		}
	}

	if len(selected) == 0 {
		return ops
	}
	return selected
}

// RunAll executes selected through env, emitting the run-all-* event
// sequence on router, honoring ctx cancellation between operations (spec
// §4.11 Execution).
func RunAll(ctx context.Context, env executor.Env, router *events.Router, ops []operation.Operation) RunAllResult {
	selected := Select(ops)
	total := len(selected)

	router.Emit(events.New(events.TagRunAllStart).WithInt("total", int64(total)))

	succeeded := 0
	success := true
	cancelled := false

	resolved := map[string]bool{}

	for i, op := range selected {
		select {
		case <-ctx.Done():
			cancelled = true
			success = false
		default:
		}
		if cancelled {
			break
		}

		name := op.DisplayName()
		opRouter := router.WithOperation(name)
		opRouter.Emit(events.New(events.TagRunAllOpStart).WithInt("index", int64(i)).WithInt("total", int64(total)).WithString("name", name))

		answers := BuildPromptDefaults(op, resolved)

		opEnv := env
		opEnv.SDK = withRouter(env.SDK, opRouter)

		ok := executor.Execute(ctx, opEnv, op, answers)
		if ok {
			succeeded++
		} else {
			success = false
		}

		opRouter.Emit(events.New(events.TagRunAllOpEnd).WithInt("index", int64(i)).WithInt("total", int64(total)).
			WithString("name", name).WithBool("success", ok))

		select {
		case <-ctx.Done():
			cancelled = true
			success = false
		default:
		}
		if cancelled {
			break
		}
	}

	router.Emit(events.New(events.TagRunAllComplete).WithBool("success", success).
		WithInt("total", int64(total)).WithInt("succeeded", int64(succeeded)))

	return RunAllResult{Total: total, Succeeded: succeeded, Success: success, Cancelled: cancelled}
}
