package sequencer

import (
	"time"

	"github.com/google/uuid"
)

// RunSession is the supplemental "implied by §6.4" entity: a run identity
// carried once per CLI invocation / run-all, threaded through the Event
// Router so emitted events correlate back to the log directory under
// logs/{gui,tui,cli}/<timestamp>/ (spec §6.4).
type RunSession struct {
	ID       uuid.UUID
	Frontend string
	Started  time.Time
}

// NewRunSession stamps a fresh session for frontend ("gui", "tui", or
// "cli").
func NewRunSession(frontend string) RunSession {
	return RunSession{ID: uuid.New(), Frontend: frontend, Started: time.Now()}
}

// Timestamp renders Started in the directory-name form §6.4's
// logs/<frontend>/<timestamp>/ expects.
func (s RunSession) Timestamp() string {
	return s.Started.Format("20060102-150405")
}
