package server

import (
	"net/http"

	"lighthousebot/handler"
)

func Route(feed http.Handler, h *handler.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /ws", feed)
	mux.HandleFunc("GET /healthz", h.HandleHealth)
	mux.HandleFunc("GET /history", h.HandleHistory)
	mux.HandleFunc("GET /initial-state", h.HandleInitialState)
	return mux
}
