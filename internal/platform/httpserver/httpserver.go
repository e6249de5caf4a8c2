package httpserver

import (
	"net/http"
	"time"
)

// New builds the server that fronts the registry and marketplace API.
// Requests carry small JSON bodies, so header and write deadlines stay
// tight; slow clients get cut rather than holding settlement goroutines.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
