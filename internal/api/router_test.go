package api

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yggdrasil-au/remake-operator/internal/config"
	"github.com/yggdrasil-au/remake-operator/pkg/events"
)

func TestHandleStatusReportsSnapshot(t *testing.T) {
	hub := NewHub(10)
	hub.Emit(events.New(events.TagPrint).WithString("message", "hi"))
	srv := NewServer(config.Empty(), hub)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body statusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.HistoryLen)
	assert.Equal(t, 0, body.Subscribers)
}

func TestApiKeyAuthRejectsMissingOrWrongKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api":{"key":"secret"}}`), 0o644))
	cfg := config.Load(path)

	srv := NewServer(cfg, NewHub(10))

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req2 := httptest.NewRequest(http.MethodGet, "/status", nil)
	req2.Header.Set("X-API-Key", "wrong")
	w2 := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
}

func TestApiKeyAuthAcceptsHeaderOrQueryParam(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api":{"key":"secret"}}`), 0o644))
	cfg := config.Load(path)
	srv := NewServer(cfg, NewHub(10))

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("X-API-Key", "secret")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req2 := httptest.NewRequest(http.MethodGet, "/status?api_key=secret", nil)
	w2 := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusOK, w2.Code)
}

func TestHandleEventsStreamsEmittedEventsAsSSE(t *testing.T) {
	hub := NewHub(10)
	srv := NewServer(config.Empty(), hub)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// give the handler's Subscribe() a moment to register before emitting
	time.Sleep(50 * time.Millisecond)
	hub.Emit(events.New(events.TagPrint).WithString("message", "streamed"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "data: "))
	assert.Contains(t, line, "streamed")
}
