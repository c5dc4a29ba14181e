package sequencer

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/yggdrasil-au/remake-operator/internal/config"
)

// RunLog persists a single run's structured output under
// logs/{gui,tui,cli}/<timestamp>/ (spec §6.4), adapted from the teacher's
// timestamped-workdir manager: one directory per run, named log files
// written to on demand rather than upfront.
type RunLog struct {
	dir string
	mu  sync.Mutex
}

// NewRunLog creates (and returns a handle to) logs/<frontend>/<timestamp>.
func NewRunLog(paths config.Paths, frontend, timestamp string) (*RunLog, error) {
	dir := paths.LogsDir(frontend, timestamp)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("runlog: create %s: %w", dir, err)
	}
	return &RunLog{dir: dir}, nil
}

// Append writes line (with a trailing newline) to <dir>/<stream>.log,
// where stream is one of trace|debug|lua|js|python|exception (spec
// §6.4's listed per-run log files).
func (r *RunLog) Append(stream, line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	path := filepath.Join(r.dir, stream+".log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("runlog: open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("runlog: write %s: %w", path, err)
	}
	return nil
}

// Dir returns the run's log directory.
func (r *RunLog) Dir() string { return r.dir }
