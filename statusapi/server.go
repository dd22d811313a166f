package statusapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/modkit/component"
	"github.com/kbukum/modkit/logger"
)

const componentName = "status-api"

var (
	_ component.Component   = (*Server)(nil)
	_ component.Describable = (*Server)(nil)
)

// Server serves the status endpoints.
type Server struct {
	service string
	version string
	health  HealthSource
	run     RunSource

	engine     *gin.Engine
	httpServer *http.Server
	log        *logger.Logger

	mu       sync.Mutex
	listener net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithService sets the service name and version reported by /healthz.
func WithService(name, version string) Option {
	return func(s *Server) {
		s.service = name
		s.version = version
	}
}

// WithRun attaches the bootstrap run reported by /modules.
func WithRun(run RunSource) Option {
	return func(s *Server) { s.run = run }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New creates a Server listening on addr once started.
func New(addr string, health HealthSource, opts ...Option) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{health: health}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.WithComponent(componentName)
	}

	s.engine = gin.New()
	s.engine.Use(recovery(s.log), requestID(), requestLogger(s.log))
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/modules", s.handleModules)
	s.engine.GET("/version", s.handleVersion)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(s.engine, &http2.Server{IdleTimeout: 120 * time.Second}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler, for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Name returns the component name.
func (s *Server) Name() string { return componentName }

// Start binds the address and serves in the background. It returns once the
// listener is bound.
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("status api failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.log.Error("status api stopped", logger.MergeWithError(nil, err))
		}
	}()
	s.log.Info("status api listening", logger.Fields("addr", ln.Addr().String()))
	return nil
}

// Stop shuts the server down, waiting at most 5 seconds for open requests.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	started := s.listener != nil
	s.mu.Unlock()
	if !started {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("status api shutdown: %w", err)
	}
	return nil
}

// Health reports healthy while the listener is bound.
func (s *Server) Health(_ context.Context) component.Health {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return component.Health{Name: componentName, Status: component.StatusUnhealthy, Message: "not listening"}
	}
	return component.Health{Name: componentName, Status: component.StatusHealthy}
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Describe reports the listen address.
func (s *Server) Describe() component.Description {
	return component.Description{Name: "Status API", Type: "server", Details: s.Addr()}
}
