package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/lexscan/internal/compliance"
)

// ServiceName is reported by the root endpoint.
const ServiceName = "lexscan"

// maxBodyBytes limits request bodies.
const maxBodyBytes = 10 << 20

// Config configures a Server.
type Config struct {
	// Checker answers every compliance request. Required.
	Checker *compliance.Checker

	// ListenAddr is the TCP address Serve listens on.
	ListenAddr string

	// APIKey is the key clients must present. When empty, only loopback
	// clients with AllowNoAuth set are admitted.
	APIKey string

	// AllowNoAuth admits loopback clients without a key.
	AllowNoAuth bool

	// RequestTimeout bounds each request.
	RequestTimeout time.Duration

	Logger *slog.Logger
}

// Server is the HTTP API around a compliance.Checker.
type Server struct {
	checker *compliance.Checker
	addr    string
	auth    authenticator
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a Server.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Server{
		checker: cfg.Checker,
		addr:    cfg.ListenAddr,
		auth: authenticator{
			apiKey:      cfg.APIKey,
			allowNoAuth: cfg.AllowNoAuth,
		},
		timeout: timeout,
		logger:  logger,
	}
}

// Handler returns the router with every route and middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		s.requestLogger,
		s.recoverer,
		middleware.Timeout(s.timeout),
	)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.auth.middleware)
		r.Get("/config/status", s.handleConfigStatus)
		r.Get("/stats", s.handleStats)
		r.Post("/articles/check-compliance", s.handleCheckCompliance)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return r
}

// Serve listens on the configured address and blocks until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting API server", "addr", ln.Addr().String())

	// Load the lexicon before the first request arrives.
	state := s.checker.Warm()
	if state != compliance.StateReady {
		s.logger.Warn("lexicon not loaded, all checks will be skipped", "state", state.String())
	}

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// requestLogger logs each request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// recoverer turns a panic into a 500 response with a JSON body.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler { //nolint:errorlint // sentinel is compared by identity
				panic(rvr)
			}
			s.logger.Error("request panicked",
				"method", r.Method,
				"path", r.URL.Path,
				"panic", fmt.Sprint(rvr),
				"request_id", middleware.GetReqID(r.Context()),
			)
			writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		}()
		next.ServeHTTP(w, r)
	})
}
