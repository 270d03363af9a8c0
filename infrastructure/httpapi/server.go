// Package httpapi is the transport layer: JSON over HTTP for commands
// and queries, server-sent events for the live message stream.
package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"dm-lab/auth"
)

// NewServer assembles the mux and wraps the message surface in the
// token middleware. Health stays outside so probes need no token.
func NewServer(host string, port int, handler *MessageHandler,
	stream *StreamHandler, log *slog.Logger) *http.Server {
	api := http.NewServeMux()
	api.HandleFunc("GET /api/message/stream", stream.Connect)
	api.HandleFunc("POST /api/message/send", handler.Send)
	api.HandleFunc("POST /api/message/get", handler.GetConversation)
	api.HandleFunc("GET /api/message/recent", handler.Recent)
	api.HandleFunc("POST /api/message/schedule", handler.Schedule)
	api.HandleFunc("GET /api/message/scheduled", handler.ListScheduled)
	api.HandleFunc("POST /api/message/cancel-scheduled", handler.CancelScheduled)
	api.HandleFunc("GET /api/message/search", handler.Search)

	root := http.NewServeMux()
	root.Handle("/api/", auth.Middleware(api))
	root.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
