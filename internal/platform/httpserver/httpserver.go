// Package httpserver builds the process's HTTP listener.
package httpserver

import (
	"net/http"
	"time"
)

// Lookup requests legitimately run for minutes (dozens of sequential SMTP
// probes), so only the header read and idle keep-alives get fixed bounds
// here; the per-request budget lives in the handler's timeout middleware.
const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 2 * time.Minute
)

// New assembles the server; starting and shutting it down is the caller's
// job.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
}
