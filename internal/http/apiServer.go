package http

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"hashbox/internal/api"

	"github.com/rs/cors"
)

type APIServer struct {
	server *http.Server
	wg     sync.WaitGroup
}

func NewAPIServer(apiHandlers *api.API, addr string) *APIServer {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", NewUsageHandler())

	mux.HandleFunc("POST /upload", apiHandlers.UploadHandler)
	mux.HandleFunc("GET /download/{id}", apiHandlers.DownloadHandler)
	mux.HandleFunc("GET /health", apiHandlers.HealthHandler)

	if addr == "" {
		addr = "0.0.0.0:7870"
	}

	return &APIServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           RequestLogger(cors.AllowAll().Handler(mux)),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       time.Minute,
			WriteTimeout:      time.Minute,
		},
	}
}

// Handler returns the fully wrapped router, for mounting in tests.
func (s *APIServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *APIServer) Start() error {
	log.Printf("Server started on %s", s.server.Addr)
	s.wg.Add(1)
	defer s.wg.Done()

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *APIServer) Shutdown(ctx context.Context) error {
	defer s.wg.Wait()
	return s.server.Shutdown(ctx)
}
