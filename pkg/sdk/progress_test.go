package sdk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yggdrasil-au/remake-operator/pkg/events"
)

func TestProgressEmitsPanelStartThenStepsThenEnd(t *testing.T) {
	var tags []events.Tag
	sdk := newTestSDK(t, func(e events.Event) { tags = append(tags, e.Tag) }, nil)

	h := sdk.Progress(10, "", "loading")
	h.Step()
	h.Add(2)
	h.Finish()

	require.Len(t, tags, 4)
	assert.Equal(t, events.TagProgressPanelStart, tags[0])
	assert.Equal(t, events.TagProgressPanel, tags[1])
	assert.Equal(t, events.TagProgressPanel, tags[2])
	assert.Equal(t, events.TagProgressPanelEnd, tags[3])
}

func TestProgressAssignsSequentialIDsWhenUnset(t *testing.T) {
	sdk := newTestSDK(t, nil, nil)
	h1 := sdk.Progress(1, "", "")
	h2 := sdk.Progress(1, "", "")
	assert.NotEqual(t, h1.id, h2.id)
}

func TestScriptProgressDoesNotEmitPanelEndOnFinish(t *testing.T) {
	var tags []events.Tag
	sdk := newTestSDK(t, func(e events.Event) { tags = append(tags, e.Tag) }, nil)

	h := sdk.ScriptProgress(5, "p1", "label")
	h.Step()
	h.Finish()

	require.Len(t, tags, 1)
	assert.Equal(t, events.TagScriptProgress, tags[0])
}

func TestScriptActiveStartAndEndEmitExpectedFields(t *testing.T) {
	var got []events.Event
	sdk := newTestSDK(t, func(e events.Event) { got = append(got, e) }, nil)

	sdk.ScriptActiveStart("/scripts/a.js")
	sdk.ScriptActiveEnd(true, 0)

	require.Len(t, got, 2)
	assert.Equal(t, "/scripts/a.js", got[0].Native()["path"])
	assert.Equal(t, true, got[1].Native()["success"])
	assert.Equal(t, int64(0), got[1].Native()["exit_code"])
}
