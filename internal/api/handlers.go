package api

import (
	"encoding/json"
	"net/http"

	"github.com/yggdrasil-au/remake-operator/pkg/events"
)

// ErrorResponse is the JSON body of a non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusResponse is the /status payload: a snapshot of the Hub.
type statusResponse struct {
	Subscribers int            `json:"subscribers"`
	HistoryLen  int            `json:"history_len"`
	History     []map[string]any `json:"history"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	history, subs := s.hub.Snapshot()
	native := make([]map[string]any, len(history))
	for i, e := range history {
		native[i] = e.Native()
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Subscribers: subs,
		HistoryLen:  len(history),
		History:     native,
	})
}

// handleEvents implements the SSE stream: one "data:" frame per event,
// matching the teacher's pkg/monitor SSE handler shape.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := s.hub.Subscribe()
	defer s.hub.Unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			writeSSE(w, e)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, e events.Event) {
	data, err := json.Marshal(e.Native())
	if err != nil {
		return
	}
	w.Write([]byte("data: "))
	w.Write(data)
	w.Write([]byte("\n\n"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
