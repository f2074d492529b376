package rest

import (
	"fmt"
	"net/http"
	"time"

	"rental-listing-client/internal/contextkeys"
	"rental-listing-client/internal/core/port"
)

const keepAliveInterval = 15 * time.Second

// SubscribeEvents - GET /api/v1/sessions/{sessionID}/events
// Поток SSE: первым идет текущий снимок, дальше события контроллера.
func (h *SessionHandlers) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	id, controller, ok := h.session(w, r)
	if !ok {
		return
	}
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":    "SubscribeEvents",
		"session_id": id,
	})

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteJSONError(w, http.StatusInternalServerError, "streaming is not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := h.notifier.AddClient(id)
	defer h.notifier.RemoveClient(id, clientChan)

	snapshot := controller.Snapshot()
	initial, err := EncodeListingEvent(port.ListingEvent{Type: port.EventSnapshot, SessionID: id, Snapshot: &snapshot})
	if err != nil {
		handlerLogger.Error("Failed to encode initial snapshot", err, nil)
		return
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", port.EventSnapshot, initial); err != nil {
		return
	}
	flusher.Flush()
	handlerLogger.Info("Client subscribed to session events", nil)

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case data, open := <-clientChan:
			if !open {
				handlerLogger.Info("Session closed, ending SSE stream", nil)
				return
			}
			if _, err := w.Write(data); err != nil {
				handlerLogger.Error("Error writing to client, closing SSE connection", err, nil)
				return
			}
			flusher.Flush()

		case <-ticker.C:
			// строки с двоеточием - комментарии SSE, браузер их игнорирует
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			handlerLogger.Info("SSE client disconnected", nil)
			return
		}
	}
}
