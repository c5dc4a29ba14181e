package sdk

import (
	"fmt"
	"sync"

	"github.com/yggdrasil-au/remake-operator/pkg/events"
)

// ProgressHandle is an opaque handle returned to scripts by sdk.progress
// and sdk.script_progress (spec §4.5). It holds a counter and a reference
// to the event sink (spec §9); handle methods emit progress_panel events.
// Handles are owned by the script for their lifetime and must be
// releasable deterministically (Finish), matching spec §9's requirement.
type ProgressHandle struct {
	id      string
	label   string
	total   int
	current int
	mu      sync.Mutex
	emit    events.EventSink
	panel   bool // true = progress_panel_*, false = script_progress
}

// Progress creates a panel-style progress handle (sdk.progress).
func (s *SDK) Progress(total int, id, label string) *ProgressHandle {
	s.progressSeq++
	if id == "" {
		id = fmt.Sprintf("progress-%d", s.progressSeq)
	}
	h := &ProgressHandle{id: id, label: label, total: total, emit: s.Emit, panel: true}
	h.event(events.TagProgressPanelStart)
	return h
}

// ScriptProgress creates a script-lifecycle progress handle
// (sdk.script_progress).
func (s *SDK) ScriptProgress(total int, id, label string) *ProgressHandle {
	s.progressSeq++
	if id == "" {
		id = fmt.Sprintf("script-progress-%d", s.progressSeq)
	}
	h := &ProgressHandle{id: id, label: label, total: total, emit: s.Emit}
	return h
}

// Step advances the handle by one and emits a progress event.
func (h *ProgressHandle) Step() { h.Add(1) }

// Add advances the handle by n and emits a progress event.
func (h *ProgressHandle) Add(n int) {
	h.mu.Lock()
	h.current += n
	h.mu.Unlock()
	if h.panel {
		h.event(events.TagProgressPanel)
	} else {
		h.event(events.TagScriptProgress)
	}
}

// Finish releases the handle, emitting its terminal event. Safe to call
// once per handle; a script that forgets to call it leaves no dangling
// resource beyond the handle's own memory, but the UI keeps the panel
// open until this fires.
func (h *ProgressHandle) Finish() {
	if h.panel {
		h.event(events.TagProgressPanelEnd)
	}
}

func (h *ProgressHandle) event(tag events.Tag) {
	if h.emit == nil {
		return
	}
	h.mu.Lock()
	current, total, label, id := h.current, h.total, h.label, h.id
	h.mu.Unlock()
	ev := events.New(tag).WithString("id", id).WithInt("total", int64(total)).WithInt("current", int64(current))
	if label != "" {
		ev = ev.WithString("label", label)
	}
	h.emit(ev)
}

// ScriptActiveStart emits the script_active_start event the dispatcher
// sends before interpreting a script (spec §4.6).
func (s *SDK) ScriptActiveStart(path string) {
	s.emit(events.New(events.TagScriptActiveStart).WithString("path", path))
}

// ScriptActiveEnd emits the script_active_end event the dispatcher sends
// after interpreting a script, on both success and failure paths.
func (s *SDK) ScriptActiveEnd(success bool, exitCode int) {
	s.emit(events.New(events.TagScriptActiveEnd).WithBool("success", success).WithInt("exit_code", int64(exitCode)))
}
