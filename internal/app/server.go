package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/markdave123-py/Docra/internal/api/handlers"
	appMiddleware "github.com/markdave123-py/Docra/internal/api/middlewares"
	"github.com/markdave123-py/Docra/internal/config"
	"github.com/markdave123-py/Docra/internal/core"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes. Every endpoint sits behind the
// bearer token check; rendering and OCR of a large batch can run for minutes,
// so the request timeout is generous.
func NewServer(cfg *config.Config, db core.DbClient, ing handlers.Ingestor, ans handlers.Answerer) *Server {
	extractHandler := handlers.NewExtractHandler(ing)
	queryHandler := handlers.NewQueryHandler(ans)
	docHandler := handlers.NewDocumentHandler(db)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	r.Group(func(protected chi.Router) {
		protected.Use(appMiddleware.BearerAuth(cfg.APIKey))
		protected.Post("/extract", extractHandler.Extract)
		protected.Post("/query", queryHandler.Query)
		protected.Get("/documents", docHandler.List)
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server.
func (s *Server) Start() {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
