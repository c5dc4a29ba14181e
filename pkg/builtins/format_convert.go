package builtins

import (
	"context"
	"fmt"
	"strings"

	"github.com/yggdrasil-au/remake-operator/pkg/operation"
	"github.com/yggdrasil-au/remake-operator/pkg/sdk"
)

var supportedConvertTools = map[string]string{
	"ffmpeg":     "ffmpeg",
	"vgmstream":  "vgmstream-cli",
	"imagemagick": "magick",
}

// formatConvert selects a conversion tool and runs it under the Process
// Supervisor (spec §4.7). Tool selection order: op.Tool, then an explicit
// -m/--mode flag in the args, then inference from which conversion flags
// are present.
func formatConvert(ctx context.Context, deps Deps, op operation.Operation, resolvedArgs []string) bool {
	tool := op.Tool
	if tool == "" {
		if mode, ok := firstFlag(resolvedArgs, "-m", "--mode"); ok {
			tool = mode
		}
	}
	if tool == "" {
		tool = inferConvertTool(resolvedArgs)
	}
	tool = strings.ToLower(tool)

	binary, ok := supportedConvertTools[tool]
	if !ok {
		names := make([]string, 0, len(supportedConvertTools))
		for name := range supportedConvertTools {
			names = append(names, name)
		}
		deps.SDK.Error(fmt.Sprintf("format-convert: unsupported tool %q, supported: %s", tool, strings.Join(names, ", ")))
		return false
	}

	args := stripFlagPair(resolvedArgs, "-m", "--mode")
	argv := append([]string{binary}, args...)

	result := deps.SDK.RunProcess(argv, sdk.ProcessOptions{CaptureStderr: true})
	if !result.Success {
		deps.SDK.Error(fmt.Sprintf("format-convert: %s exited with code %d: %s", binary, result.ExitCode, result.Stderr))
		return false
	}
	return true
}

// inferConvertTool implements the "by the presence of
// --source/--input-ext/--output-ext/--type combinations" clause of spec
// §4.7: a --type flag signals an image conversion; --source,
// --input-ext, or --output-ext signal a media conversion, defaulting to
// ffmpeg since it's the more general of the two media tools.
func inferConvertTool(args []string) string {
	if _, ok := firstFlag(args, "--type"); ok {
		return "imagemagick"
	}
	for _, flag := range []string{"--source", "--input-ext", "--output-ext"} {
		if _, ok := firstFlag(args, flag); ok {
			return "ffmpeg"
		}
	}
	return ""
}

func stripFlagPair(args []string, names ...string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		matched := false
		for _, n := range names {
			if args[i] == n {
				matched = true
				i++ // also skip the value
				break
			}
			if strings.HasPrefix(args[i], n+"=") {
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, args[i])
		}
	}
	return out
}
