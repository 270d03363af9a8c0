package httpapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"dm-lab/auth"
	"dm-lab/contract"
	"dm-lab/sink"
)

// StreamHandler establishes a long-lived server-sent-events stream for
// real-time delivery. It registers a dedicated sink in the registry and
// blocks until the client disconnects or the registration is superseded
// by a newer stream from the same user. Proper cleanup is ensured via
// deferred unregistration to prevent memory leaks in the registry.
type StreamHandler struct {
	registry             contract.IRegistry
	connectionBufferSize int
	log                  *slog.Logger
}

func NewStreamHandler(registry contract.IRegistry, connectionBufferSize int, log *slog.Logger) *StreamHandler {
	return &StreamHandler{
		registry:             registry,
		connectionBufferSize: connectionBufferSize,
		log:                  log,
	}
}

func (h *StreamHandler) Connect(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	streamSink := sink.NewStreamSink(h.log, h.connectionBufferSize)
	handle := h.registry.Register(userID, streamSink)
	defer h.registry.Unregister(userID, handle)

	// Comment frame so the client knows the stream is live before the
	// first event arrives.
	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			h.log.Info(fmt.Sprintf("Client %s disconnected from stream", userID))
			return
		case evt, open := <-streamSink.Events():
			if !open {
				// Superseded by a newer stream from the same user
				h.log.Debug("Stream sink closed, unwinding handler", "user_id", userID)
				return
			}
			payload, err := json.Marshal(evt)
			if err != nil {
				h.log.Error("Marshalling stream event failed", "user_id", userID, "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				h.log.Warn("Writing to stream failed",
					"user_id", userID,
					"error", err)
				return
			}
			flusher.Flush()
		}
	}
}
