package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smolder-dev/smolder/internal/domain/config"
	"github.com/smolder-dev/smolder/internal/usecase"
)

// Handlers bundles the use cases exposed over HTTP
type Handlers struct {
	ListNetworks     *usecase.ListNetworks
	ListContracts    *usecase.ListContracts
	ListDeployments  *usecase.ListDeployments
	ShowDeployment   *usecase.ShowDeployment
	InteractContract *usecase.InteractContract
	ListArtifacts    *usecase.ListArtifacts
	ShowArtifact     *usecase.ShowArtifact
	DeployArtifact   *usecase.DeployArtifact
	ManageWallets    *usecase.ManageWallets
}

// Server is the JSON API over the registry
type Server struct {
	handlers *Handlers
	cfg      *config.RuntimeConfig
	log      *slog.Logger
	engine   *gin.Engine
}

// NewServer creates the API server and its routes
func NewServer(cfg *config.RuntimeConfig, handlers *Handlers, log *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		handlers: handlers,
		cfg:      cfg,
		log:      log.With("component", "Server"),
		engine:   gin.New(),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(corsMiddleware())
	s.engine.Use(requestLogger(s.log))
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupRoutes() {
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api")
	{
		api.GET("/health", s.healthCheck)

		api.GET("/networks", s.listNetworks)
		api.GET("/networks/:name", s.getNetwork)

		api.GET("/contracts", s.listContracts)
		api.GET("/contracts/:name", s.getContract)

		api.GET("/deployments", s.listDeployments)
		api.GET("/deployments/:id", s.getDeployment)
		api.GET("/deployments/:id/functions", s.getFunctions)
		api.POST("/deployments/:id/call", s.callFunction)
		api.POST("/deployments/:id/send", s.sendTransaction)
		api.GET("/deployments/:id/history", s.getHistory)

		api.GET("/artifacts", s.listArtifacts)
		api.GET("/artifacts/:name", s.getArtifact)
		api.POST("/deploy", s.deploy)

		api.GET("/wallets", s.listWallets)
	}
}

// ListenAndServe serves on the configured host and port until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("API server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "smolder-api",
	})
}
