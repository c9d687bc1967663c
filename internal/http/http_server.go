package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/fcv-2025.net/executor/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/executor/internal/core/services/execution"
	"gitlab.com/fcv-2025.net/executor/internal/core/services/node"
	"gitlab.com/fcv-2025.net/executor/internal/handlers"
	"gitlab.com/fcv-2025.net/executor/internal/handlers/nodes"
	"gitlab.com/fcv-2025.net/executor/internal/handlers/submissions"
)

type ServiceProvider struct {
	executionService execution.IExecutionService
	nodeService      node.INodeService
}

// NewServiceProvider bundles the services exposed over HTTP. nodeService may be nil
// when the node registry is disabled.
func NewServiceProvider(
	executionService execution.IExecutionService,
	nodeService node.INodeService,
) *ServiceProvider {
	return &ServiceProvider{
		executionService: executionService,
		nodeService:      nodeService,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	if s.ServiceProvider.executionService == nil {
		return errors.New("execution service is required")
	}
	r := mux.NewRouter()
	handlers.RegisterHealth(r, s.ServiceName)
	submissions.
		NewSubmissionHandler(s.ServiceProvider.executionService, s.logger).
		RegisterRoutes(r)
	if s.ServiceProvider.nodeService != nil {
		nodes.NewHandler(s.ServiceProvider.nodeService).Register(r)
	}
	s.router = r
	return nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) {
	// Submissions block for compile time plus every test case, so no write timeout
	s.srv = &http.Server{
		Addr:        fmt.Sprintf(":%d", s.Port),
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		s.logger.Info("Server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down http server...")
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
