package builtins

import (
	"fmt"

	"github.com/yggdrasil-au/remake-operator/pkg/operation"
)

// renameFolders takes op.args, already resolved, as (src, dst) pairs and
// renames each through the path-policy-checked SDK rename helper (spec
// §4.7 "invokes the folder renamer"). An odd number of args is a
// configuration error.
func renameFolders(deps Deps, op operation.Operation, resolvedArgs []string) bool {
	if len(resolvedArgs)%2 != 0 {
		deps.SDK.Error("rename-folders: args must be src/dst pairs")
		return false
	}

	ok := true
	for i := 0; i+1 < len(resolvedArgs); i += 2 {
		src, dst := resolvedArgs[i], resolvedArgs[i+1]
		if !deps.SDK.IsDir(src) {
			deps.SDK.Warn(fmt.Sprintf("rename-folders: %s does not exist, skipping", src))
			continue
		}
		if !deps.SDK.MoveDir(src, dst) {
			deps.SDK.Error(fmt.Sprintf("rename-folders: failed to move %s -> %s", src, dst))
			ok = false
			continue
		}
		deps.SDK.Print(fmt.Sprintf("renamed %s -> %s", src, dst), "green", true)
	}
	return ok
}
