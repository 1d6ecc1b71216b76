package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bjaus/gate"
)

// Server exposes /metrics for a registry and /state for watched controllers.
type Server struct {
	server *http.Server

	mu          sync.Mutex
	controllers []*gate.Controller
}

// NewServer creates a server listening on addr.
func NewServer(gatherer prometheus.Gatherer, addr string) *Server {
	mux := http.NewServeMux()
	s := &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}

	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/state", s.handleState)

	return s
}

// Watch adds c to the /state report.
func (s *Server) Watch(c *gate.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controllers = append(s.controllers, c)
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server. It blocks until Stop is called.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type controllerState struct {
	Name string `json:"name"`
	gate.State
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	report := make([]controllerState, 0, len(s.controllers))
	for _, c := range s.controllers {
		report = append(report, controllerState{Name: c.Name(), State: c.State()})
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}
