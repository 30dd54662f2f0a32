// Package probes exposes the liveness/readiness endpoints the deployment
// environment polls, on a port separate from the service itself.
package probes

import (
	"net/http"
	"sync/atomic"
)

type Status struct {
	server *http.Server
	ready  atomic.Bool
}

func NewStatus(bindAddress string) *Status {
	s := &Status{}

	mux := http.NewServeMux()
	mux.HandleFunc("/system/probes/liveness", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/system/probes/readiness", func(w http.ResponseWriter, r *http.Request) {
		if s.ready.Load() {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	s.server = &http.Server{Addr: bindAddress, Handler: mux}
	return s
}

func (s *Status) SetReady(ready bool) {
	s.ready.Store(ready)
}

func (s *Status) Run() error {
	return s.server.ListenAndServe()
}

func (s *Status) Close() error {
	return s.server.Close()
}
