// Package control exposes the configurator commands over HTTP and streams
// configurator events to websocket subscribers.
package control

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/sofa-configurator/internal/configurator"
	"github.com/Faultbox/sofa-configurator/internal/engine/camera"
	"github.com/Faultbox/sofa-configurator/internal/logger"
)

// Server accepts commands on HTTP and queues them for the render loop.
// Handlers never touch scene state; the loop drains Inbox between frames.
type Server struct {
	inbox    chan<- configurator.Command
	hub      *Hub
	catalog  configurator.Catalog
	upgrader websocket.Upgrader
	srv      *http.Server
}

// NewServer creates a server listening on addr that pushes commands into
// inbox and streams hub events.
func NewServer(addr string, inbox chan<- configurator.Command, hub *Hub, catalog configurator.Catalog) *Server {
	s := &Server{
		inbox:   inbox,
		hub:     hub,
		catalog: catalog,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the routed handler with recovery and access logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/events", s.handleEvents).Methods(http.MethodGet)
	r.HandleFunc("/api/views", s.handleViews).Methods(http.MethodGet)
	r.HandleFunc("/api/catalog", s.handleCatalog).Methods(http.MethodGet)
	r.HandleFunc("/api/{kind}/{arg:.+}", s.handleCommand).Methods(http.MethodPost)

	var h http.Handler = r
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(logger.StdLog("control")))(h)
	h = handlers.LoggingHandler(logger.StdLog("control.access").Writer(), h)
	return h
}

// Start listens on the configured address and serves in the background.
// It returns the bound address.
func (s *Server) Start() (net.Addr, error) {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return nil, err
	}
	logger.Info("control server listening", zap.String("addr", ln.Addr().String()))
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("control server stopped", zap.Error(err))
		}
	}()
	return ln.Addr(), nil
}

// Shutdown closes event subscribers and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	cmd, err := configurator.ParseCommand(vars["kind"], vars["arg"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	select {
	case s.inbox <- cmd:
		writeJSON(w, http.StatusAccepted, map[string]string{
			"kind": string(cmd.Kind),
			"arg":  cmd.Arg,
		})
	default:
		logger.Warn("command inbox full", zap.Stringer("cmd", cmd))
		writeError(w, http.StatusServiceUnavailable, errors.New("command queue full"))
	}
}

func (s *Server) handleViews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, camera.Presets())
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	textures := make([]string, 0, len(s.catalog.Textures))
	for id := range s.catalog.Textures {
		textures = append(textures, id)
	}
	sort.Strings(textures)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"base":     s.catalog.BaseKey,
		"legs":     s.catalog.LegsKeys(),
		"textures": textures,
		"views":    camera.Presets(),
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	s.hub.Serve(conn)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("writing response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
