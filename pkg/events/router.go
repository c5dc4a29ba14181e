package events

import (
	"encoding/json"
	"strings"

	"github.com/yggdrasil-au/remake-operator/pkg/value"
)

// WirePrefix is the fixed sentinel prefix that marks a stdout line as a
// structured event rather than raw output (spec §4.4, §6.2). Its exact
// value must match bit-for-bit across emitter and consumer, per spec §9 —
// it is otherwise an opaque constant.
const WirePrefix = "@@RE_EVENT@@"

// Encode renders an event as its stdout wire line: the sentinel prefix
// followed by the JSON-encoded payload, no trailing newline.
func Encode(e Event) (string, error) {
	data, err := json.Marshal(e.Native())
	if err != nil {
		return "", err
	}
	return WirePrefix + string(data), nil
}

// Decode attempts to parse a stdout line as an event. ok is false if the
// line does not begin with WirePrefix or the remainder is not a JSON
// object with an "event" field.
func Decode(line string) (Event, bool) {
	if !strings.HasPrefix(line, WirePrefix) {
		return Event{}, false
	}
	rest := strings.TrimPrefix(line, WirePrefix)

	var raw map[string]any
	if err := json.Unmarshal([]byte(rest), &raw); err != nil {
		return Event{}, false
	}
	tag, ok := raw["event"].(string)
	if !ok {
		return Event{}, false
	}
	delete(raw, "event")

	ev := New(Tag(tag))
	for k, v := range raw {
		ev = ev.With(k, value.FromNative(v))
	}
	return ev, true
}

// OutputSink receives raw (non-event) lines, tagged by stream.
type OutputSink func(line, stream string)

// EventSink receives decoded structured events.
type EventSink func(Event)

// StdinProvider is invoked synchronously when a "prompt" event is seen; it
// returns the string to write to the child's stdin and true, or false to
// decline.
type StdinProvider func() (string, bool)

// Router is a per-run sink that tags every event with the current game and
// (when available) operation name before forwarding to a UI-provided sink
// (spec §4.11 "Event routing", §4.12). It is grounded on the teacher's
// pkg/monitor HTTP monitor's "install a scoped sink, restore on exit"
// shape, but threaded explicitly instead of through a package-global.
type Router struct {
	game      string
	operation string
	runID     string
	upstream  EventSink
	output    OutputSink
}

// NewRouter builds a Router that tags events with game and forwards them
// (and raw output lines) to upstream/output.
func NewRouter(game string, upstream EventSink, output OutputSink) *Router {
	return &Router{game: game, upstream: upstream, output: output}
}

// WithOperation returns a copy of r scoped to operation, used while a
// single operation within a run-all is executing.
func (r *Router) WithOperation(operation string) *Router {
	clone := *r
	clone.operation = operation
	return &clone
}

// WithRunID returns a copy of r tagging every event with runID (the
// RunSession identity threaded from the CLI/run-all entry point).
func (r *Router) WithRunID(runID string) *Router {
	clone := *r
	clone.runID = runID
	return &clone
}

func (r *Router) Emit(e Event) {
	if r == nil || r.upstream == nil {
		return
	}
	tagged := e.WithString("game", r.game)
	if r.operation != "" {
		tagged = tagged.WithString("operation", r.operation)
	}
	if r.runID != "" {
		tagged = tagged.WithString("run_id", r.runID)
	}
	r.upstream(tagged)
}

func (r *Router) Output(line, stream string) {
	if r == nil || r.output == nil {
		return
	}
	r.output(line, stream)
}

