package builtins

import (
	"fmt"

	"github.com/yggdrasil-au/remake-operator/pkg/operation"
)

// validateFiles opens op.DB (a sqlite manifest of expected path → sha1
// pairs) and checks each resolved arg path's hash against it (spec §4.7
// "invokes the file validator after resolving placeholders"). A failed
// query, a missing file, or a hash mismatch is reported as an error and
// fails the verb; a path with no manifest row is only warned about. None
// of these aborts the remaining checks.
func validateFiles(deps Deps, op operation.Operation, resolvedArgs []string) bool {
	if op.DB == "" {
		deps.SDK.Error("validate-files: no db given")
		return false
	}
	db, ok := deps.SDK.SqliteOpen(op.DB)
	if !ok {
		return false
	}
	defer db.Close()

	ok = true
	for _, path := range resolvedArgs {
		rows, err := db.Query(`SELECT sha1 FROM files WHERE path = :path`, map[string]any{"path": path})
		if err != nil {
			deps.SDK.Error(fmt.Sprintf("validate-files: query %s: %v", path, err))
			ok = false
			continue
		}
		if len(rows) == 0 {
			deps.SDK.Warn(fmt.Sprintf("validate-files: %s not in manifest", path))
			continue
		}
		want, _ := rows[0]["sha1"].(string)

		got, exists := deps.SDK.Sha1File(path)
		if !exists {
			deps.SDK.Error(fmt.Sprintf("validate-files: cannot hash %s", path))
			ok = false
			continue
		}
		if want != "" && got != want {
			deps.SDK.Error(fmt.Sprintf("validate-files: %s sha1 mismatch: want %s got %s", path, want, got))
			ok = false
		}
	}
	return ok
}
