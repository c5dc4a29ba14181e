package builtins

import (
	"fmt"
	"strings"

	"github.com/yggdrasil-au/remake-operator/pkg/operation"
	"github.com/yggdrasil-au/remake-operator/pkg/txd"
)

// formatExtract dispatches op.Format to the matching binary-format
// extractor (spec §4.7). Only "txd" (or unset, defaulting to txd) is
// implemented; any other format is a recoverable error.
func formatExtract(deps Deps, op operation.Operation, resolvedArgs []string) bool {
	format := strings.ToLower(op.Format)
	if format != "" && format != "txd" {
		deps.SDK.Error(fmt.Sprintf("format-extract: unsupported format %q", op.Format))
		return false
	}

	input, ok := firstFlag(resolvedArgs, "--input", "-i")
	if !ok && len(resolvedArgs) > 0 {
		input = resolvedArgs[0]
	}
	if input == "" {
		deps.SDK.Error("format-extract: no input file given")
		return false
	}
	output, ok := firstFlag(resolvedArgs, "--output", "-o")
	if !ok {
		output = op.Output
	}
	if output == "" {
		deps.SDK.Error("format-extract: no output directory given")
		return false
	}

	count, err := txd.ExtractFile(input, output)
	if err != nil {
		deps.SDK.Error("format-extract: " + err.Error())
		return false
	}
	deps.SDK.Print(fmt.Sprintf("format-extract: wrote %d texture(s) from %s", count, input), "green", true)
	return true
}
