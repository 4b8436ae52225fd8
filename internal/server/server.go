package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Server wraps the gin engine in an http.Server so the process can drain
// in-flight requests on shutdown.
type Server struct {
	httpServer *http.Server
}

func New(addr string, handler *Handler, appEnv string) *Server {
	if appEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	handler.RegisterRoutes(router)
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Serve blocks until the listener fails or Shutdown is called.
func (s *Server) Serve() error {
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
