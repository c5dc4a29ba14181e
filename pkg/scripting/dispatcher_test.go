package scripting

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yggdrasil-au/remake-operator/pkg/events"
	"github.com/yggdrasil-au/remake-operator/pkg/sdk"
	"github.com/yggdrasil-au/remake-operator/pkg/sdk/pathpolicy"
	"github.com/yggdrasil-au/remake-operator/pkg/supervisor"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.go")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func newSession(t *testing.T, sink events.EventSink) *Session {
	t.Helper()
	root := t.TempDir()
	policy := pathpolicy.New(root, os.TempDir(), root, root)
	return &Session{
		Type:        JS,
		ScriptDir:   root,
		GameRoot:    root,
		ProjectRoot: root,
		Argv:        []string{"a", "b"},
		SDK:         sdk.New(policy, supervisor.New(policy), sink, nil, nil),
	}
}

func TestRunEvaluatesGuestScriptAndCallsSDK(t *testing.T) {
	var tags []events.Tag
	sink := func(e events.Event) { tags = append(tags, e.Tag) }

	sess := newSession(t, sink)
	script := writeScript(t, `
import "guest/guest"

guest.Sdk.Print("hello from guest", "green", true)
`)

	ok := sess.Run(context.Background(), script)
	assert.True(t, ok)
	assert.Contains(t, tags, events.TagScriptActiveStart)
	assert.Contains(t, tags, events.TagScriptActiveEnd)
}

func TestRunEmitsFailureEndOnScriptError(t *testing.T) {
	var tags []events.Tag
	sink := func(e events.Event) { tags = append(tags, e.Tag) }

	sess := newSession(t, sink)
	script := writeScript(t, `
import "guest/guest"

guest.Sdk.Print(1, 2, 3)
`)

	ok := sess.Run(context.Background(), script)
	assert.False(t, ok)
	assert.Contains(t, tags, events.TagScriptActiveEnd)
}

func TestRunFailsWhenScriptFileMissing(t *testing.T) {
	sess := newSession(t, nil)
	ok := sess.Run(context.Background(), filepath.Join(t.TempDir(), "nope.go"))
	assert.False(t, ok)
}

func TestRunExposesArgvToGuest(t *testing.T) {
	var captured []string
	sink := func(e events.Event) {
		if msg, ok := e.Native()["message"].(string); ok {
			captured = append(captured, msg)
		}
	}
	sess := newSession(t, sink)

	script := writeScript(t, `
import "guest/guest"

guest.Sdk.Print(guest.Argv[0], "green", true)
`)

	ok := sess.Run(context.Background(), script)
	assert.True(t, ok)
	assert.Contains(t, captured, "a")
}
