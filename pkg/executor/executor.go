// Package executor ties the Execution Context Builder, Command Builder,
// Process Supervisor, Embedded Action Dispatcher, and Built-in Engine
// Actions into the single per-operation invocation path the sequencer
// drives (spec §4.7 "onsuccess cascade", §4.11 step 2). Grounded on the
// teacher's orchestrator loop that resolved a skill, ran it, then chained
// its declared follow-ups.
package executor

import (
	"context"
	"path/filepath"

	"github.com/yggdrasil-au/remake-operator/internal/config"
	"github.com/yggdrasil-au/remake-operator/pkg/action"
	"github.com/yggdrasil-au/remake-operator/pkg/builtins"
	"github.com/yggdrasil-au/remake-operator/pkg/command"
	"github.com/yggdrasil-au/remake-operator/pkg/execctx"
	"github.com/yggdrasil-au/remake-operator/pkg/operation"
	"github.com/yggdrasil-au/remake-operator/pkg/scripting"
	"github.com/yggdrasil-au/remake-operator/pkg/sdk"
	"github.com/yggdrasil-au/remake-operator/pkg/supervisor"
)

// Env bundles the collaborators a single operation invocation needs. One
// Env is built per module and reused across every operation a run
// touches, so the SDK's progress-handle counter and the supervisor's
// allow-list policy stay consistent for the whole run.
type Env struct {
	Config *config.EngineConfig
	Paths  config.Paths
	Module execctx.Module
	SDK    *sdk.SDK
}

// Execute runs op (resolving its placeholders against env and answers),
// then — only on success — recursively executes every child declared in
// op.OnSuccess with the same answers (spec §4.7, §8 scenario 6). Failure
// of any child propagates as overall failure of op.
func Execute(ctx context.Context, env Env, op operation.Operation, answers operation.Answers) bool {
	execCtx, err := execctx.Build(env.Config, env.Paths, env.Module)
	if err != nil {
		env.SDK.Error(err.Error())
		return false
	}

	cmd, err := command.Build(op, answers, execCtx)
	if err != nil {
		env.SDK.Error(err.Error())
		return false
	}

	ok := runOne(ctx, env, op, cmd, answers)
	if !ok {
		return false
	}

	for _, child := range op.OnSuccess {
		if !Execute(ctx, env, child, answers) {
			return false
		}
	}
	return true
}

// runOne resolves op's ScriptType to one of the four Action variants spec
// §9's "polymorphic action abstraction" note calls for (external command,
// lua script, js script, built-in engine verb), then runs it. Each
// variant is a plain action.Func closure; the Tools bundle carries
// nothing the closures don't already hold by capture, since this engine's
// event/output sinks live on *sdk.SDK rather than being rebuilt per call.
func runOne(ctx context.Context, env Env, op operation.Operation, cmd command.Command, answers operation.Answers) bool {
	var act action.Action

	switch op.ScriptType {
	case "engine":
		act = action.Func(func(ctx context.Context, _ action.Tools) bool {
			return builtins.Dispatch(ctx, builtins.Deps{Paths: env.Paths, SDK: env.SDK}, op, answers, cmd.Args)
		})

	case "lua", "js":
		act = action.Func(func(ctx context.Context, _ action.Tools) bool {
			sess := &scripting.Session{
				Type:        scripting.ScriptType(op.ScriptType),
				ScriptDir:   filepath.Dir(cmd.ScriptPath),
				GameRoot:    env.Module.GameRoot,
				ProjectRoot: env.Paths.Root,
				Argv:        cmd.Args,
				SDK:         env.SDK,
			}
			return sess.Run(ctx, cmd.ScriptPath)
		})

	default:
		act = action.Func(func(ctx context.Context, _ action.Tools) bool {
			return env.SDK.Supervisor.Run(ctx, supervisor.Options{
				Argv:          cmd.Argv,
				Dir:           env.Module.GameRoot,
				EventSink:     env.SDK.Emit,
				OutputSink:    env.SDK.Output,
				StdinProvider: stdinFromPrompt(env.SDK),
			})
		})
	}

	return act.Execute(ctx, action.Tools{EmitOutput: env.SDK.Output})
}

// stdinFromPrompt adapts the SDK's front-end prompt hook into the
// supervisor's StdinProvider: the "prompt" event itself (message/id/
// secret) already reached the front end via EventSink, so this only
// needs to fetch whatever line the front end sends back.
func stdinFromPrompt(s *sdk.SDK) func() (string, bool) {
	if s.Prompt == nil {
		return nil
	}
	return func() (string, bool) {
		return s.Prompt("", "", false)
	}
}
