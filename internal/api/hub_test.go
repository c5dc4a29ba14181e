package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yggdrasil-au/remake-operator/pkg/events"
)

func TestHubEmitDeliversToSubscribers(t *testing.T) {
	h := NewHub(10)
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	h.Emit(events.New(events.TagPrint).WithString("message", "hi"))

	select {
	case e := <-ch:
		assert.Equal(t, events.TagPrint, e.Tag)
	case <-time.After(time.Second):
		t.Fatal("expected event to be delivered to subscriber")
	}
}

func TestHubEmitIsNonBlockingForSlowSubscriber(t *testing.T) {
	h := NewHub(10)
	ch := h.Subscribe() // never drained
	defer h.Unsubscribe(ch)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			h.Emit(events.New(events.TagPrint))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked on a full subscriber channel")
	}
}

func TestHubHistoryIsBoundedByMaxHistory(t *testing.T) {
	h := NewHub(3)
	for i := 0; i < 10; i++ {
		h.Emit(events.New(events.TagPrint))
	}

	history, _ := h.Snapshot()
	assert.Len(t, history, 3)
}

func TestHubSnapshotReportsSubscriberCount(t *testing.T) {
	h := NewHub(10)
	_, n := h.Snapshot()
	assert.Equal(t, 0, n)

	ch1 := h.Subscribe()
	ch2 := h.Subscribe()
	_, n = h.Snapshot()
	assert.Equal(t, 2, n)

	h.Unsubscribe(ch1)
	h.Unsubscribe(ch2)
	_, n = h.Snapshot()
	assert.Equal(t, 0, n)
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub(10)
	ch := h.Subscribe()
	h.Unsubscribe(ch)

	_, ok := <-ch
	require.False(t, ok, "channel should be closed after Unsubscribe")
}
