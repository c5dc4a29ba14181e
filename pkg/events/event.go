// Package events models the structured Event entity (spec §3) and the
// per-run Event Router (spec §4.12), grounded on the teacher's HTTP event
// monitor (subscriber channel map, non-blocking emit, bounded history).
package events

import "github.com/yggdrasil-au/remake-operator/pkg/value"

// Tag is the event's "event" discriminator. The set is an open enum per
// spec §9: engine code never fails on an unrecognized tag.
type Tag string

const (
	TagPrint              Tag = "print"
	TagPrompt             Tag = "prompt"
	TagColorPrompt        Tag = "color_prompt"
	TagConfirm            Tag = "confirm"
	TagWarning            Tag = "warning"
	TagError              Tag = "error"
	TagStart              Tag = "start"
	TagEnd                Tag = "end"
	TagProgressPanelStart Tag = "progress_panel_start"
	TagProgressPanel      Tag = "progress_panel"
	TagProgressPanelEnd   Tag = "progress_panel_end"
	TagScriptActiveStart  Tag = "script_active_start"
	TagScriptProgress     Tag = "script_progress"
	TagScriptActiveEnd    Tag = "script_active_end"
	TagRunAllStart        Tag = "run-all-start"
	TagRunAllOpStart      Tag = "run-all-op-start"
	TagRunAllOpEnd        Tag = "run-all-op-end"
	TagRunAllComplete     Tag = "run-all-complete"
	TagRunAllOpError      Tag = "run-all-op-error"
	TagModulesChanged     Tag = "modules-changed"
)

// Event is a structured message from a running action to the UI (spec §3).
// Payload fields depend on Tag; Fields holds them as a value.Mapping so an
// unrecognized tag with arbitrary payload shape is never rejected.
type Event struct {
	Tag    Tag
	Fields value.Mapping
}

func New(tag Tag) Event {
	return Event{Tag: tag, Fields: value.NewMapping()}
}

func (e Event) With(key string, v value.Value) Event {
	e.Fields.Set(key, v)
	return e
}

func (e Event) WithString(key, s string) Event { return e.With(key, value.Str(s)) }
func (e Event) WithBool(key string, b bool) Event { return e.With(key, value.Bool(b)) }
func (e Event) WithInt(key string, i int64) Event { return e.With(key, value.Int(i)) }

// Native renders the event as a plain map[string]any (with "event" set to
// the tag), the shape JSON-encoded onto the stdout sentinel-prefixed wire
// form (spec §6.2) or handed directly to an in-process sink.
func (e Event) Native() map[string]any {
	out, _ := value.Map(e.Fields).Native().(map[string]any)
	if out == nil {
		out = map[string]any{}
	}
	out["event"] = string(e.Tag)
	return out
}
