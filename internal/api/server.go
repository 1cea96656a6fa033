package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/gray-logic-companion/internal/automation"
	"github.com/nerrad567/gray-logic-companion/internal/catalog"
	"github.com/nerrad567/gray-logic-companion/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-companion/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-companion/internal/infrastructure/metrics"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// metricsInterval is how often the catalog and automation gauges are refreshed.
const metricsInterval = 10 * time.Second

// HealthChecker is implemented by infrastructure the status report probes.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config      config.APIConfig
	Metrics     config.MetricsConfig
	Logger      *logging.Logger
	Catalog     *catalog.Registry
	Automations *automation.Registry
	Summariser  *automation.Summariser
	Registry    *metrics.Registry // optional; nil disables /metrics and request metrics
	Database    HealthChecker     // optional
	MQTT        HealthChecker     // optional; nil when MQTT is disabled
	Version     string
}

// Server is the HTTP API server for Gray Logic Companion.
//
// The server is created with New() and started with Start().
type Server struct {
	cfg         config.APIConfig
	metricsCfg  config.MetricsConfig
	logger      *logging.Logger
	catalog     *catalog.Registry
	automations *automation.Registry
	summariser  *automation.Summariser
	metrics     *metrics.Registry
	db          HealthChecker
	mqtt        HealthChecker
	version     string
	startTime   time.Time
	server      *http.Server
	cancel      context.CancelFunc // stops the gauge refresh loop
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog registry is required")
	}
	if deps.Automations == nil {
		return nil, fmt.Errorf("automation registry is required")
	}
	if deps.Summariser == nil {
		return nil, fmt.Errorf("summariser is required")
	}

	return &Server{
		cfg:         deps.Config,
		metricsCfg:  deps.Metrics,
		logger:      deps.Logger,
		catalog:     deps.Catalog,
		automations: deps.Automations,
		summariser:  deps.Summariser,
		metrics:     deps.Registry,
		db:          deps.Database,
		mqtt:        deps.MQTT,
		version:     deps.Version,
		startTime:   time.Now(),
	}, nil
}

// Handler returns the fully wired router without starting a listener.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start begins listening for HTTP connections.
//
// The listener runs in a background goroutine; a failure to bind is logged.
// The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	if s.metrics != nil {
		go s.updateMetricsPeriodically(srvCtx)
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", s.server.Addr)
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}

// updateMetricsPeriodically refreshes the catalog and automation gauges.
func (s *Server) updateMetricsPeriodically(ctx context.Context) {
	s.updateCounts()

	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.updateCounts()
		}
	}
}

func (s *Server) updateCounts() {
	if s.metrics == nil {
		return
	}
	s.metrics.SetCounts(s.catalog.NodeCount(), s.automations.Count())
}
