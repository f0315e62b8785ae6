package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"powerplants/internal"
	"powerplants/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configures the HTTP server
type Options struct {
	Addr           string
	DefaultMetric  string
	MetricsEnabled bool
}

// Server exposes the plant queries over HTTP, plus health, readiness and metrics endpoints.
type Server struct {
	httpServer    *http.Server
	router        *gin.Engine
	logger        *internal.Logger
	metrics       *Metrics
	defaultMetric string

	queriesMu sync.RWMutex
	queries   ports.PlantQueryService
}

// NewServer builds the router. Query routes answer 503 until SetQueries is called.
func NewServer(opts Options, metrics *Metrics, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	router := gin.New()
	s := &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:        router,
		logger:        logger,
		metrics:       metrics,
		defaultMetric: opts.DefaultMetric,
	}

	s.setupMiddleware(opts.MetricsEnabled)
	s.setupRoutes(opts.MetricsEnabled)
	return s
}

func (s *Server) setupMiddleware(metricsEnabled bool) {
	s.router.Use(gin.Recovery())
	s.router.Use(requestID())
	s.router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    s.logger.Writer(),
		SkipPaths: []string{"/health", "/metrics"},
	}))
	if metricsEnabled && s.metrics != nil {
		s.router.Use(instrument(s.metrics))
	}
}

func (s *Server) setupRoutes(metricsEnabled bool) {
	s.router.GET("/", s.handleRoot)
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/ready", s.handleReady)
	if metricsEnabled && s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))
	}

	plants := s.router.Group("/plants", s.requireQueries)
	plants.GET("/top", s.handleTopPlants)
	plants.GET("/states", s.handleStateSummary)
	plants.GET("/state/:state", s.handleDataByState)
	plants.GET("/metrics", s.handleMetrics)
	plants.GET("/metrics/profile", s.handleMetricProfile)
}

// SetQueries installs the query service and marks the server ready
func (s *Server) SetQueries(q ports.PlantQueryService) {
	s.queriesMu.Lock()
	defer s.queriesMu.Unlock()
	s.queries = q
}

func (s *Server) getQueries() ports.PlantQueryService {
	s.queriesMu.RLock()
	defer s.queriesMu.RUnlock()
	return s.queries
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("[API] http server starting on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the router, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
