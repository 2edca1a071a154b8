// Package server exposes the policy chat service over HTTP: a chat
// endpoint backed by retrieval plus answer generation, document management
// and an explicit reindex signal.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"policychat/internal/ai"
	"policychat/internal/retrieval"
	"policychat/internal/store"
)

// Server is the HTTP front of the service.
type Server struct {
	store    *store.Store
	indexer  *retrieval.Indexer
	ranker   *retrieval.Ranker
	answerer *ai.Answerer

	httpServer *http.Server
	upgrader   websocket.Upgrader
	startTime  time.Time
}

// New creates a server on the given port wiring the store, retrieval core
// and answerer together.
func New(port int, st *store.Store, indexer *retrieval.Indexer, ranker *retrieval.Ranker, answerer *ai.Answerer) *Server {
	s := &Server{
		store:    st,
		indexer:  indexer,
		ranker:   ranker,
		answerer: answerer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// The service runs behind the organization's reverse
				// proxy which enforces origin policy.
				return true
			},
		},
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/documents", s.handleDocuments)
	mux.HandleFunc("/api/reindex", s.handleReindex)
	mux.HandleFunc("/ws/chat", s.handleWSChat)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return s
}

// Handler returns the route handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("[Server] Listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Printf("[Server] Shutting down")
	return s.httpServer.Shutdown(ctx)
}
