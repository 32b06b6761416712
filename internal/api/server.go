package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JakeFAU/police-log-etl/internal/config"
	"github.com/JakeFAU/police-log-etl/internal/ingest"
	"github.com/JakeFAU/police-log-etl/internal/metrics"
)

const (
	defaultRequestTimeout = 60 * time.Second
	maxEventBytes         = 1 << 20
)

// Invoker runs the pipeline once for a trigger event.
type Invoker interface {
	Handle(ctx context.Context, event any) (ingest.Response, error)
}

// Server wires HTTP handlers to the pipeline runner.
type Server struct {
	router  chi.Router
	invoker Invoker
	logger  *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(invoker Invoker, cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()
	s := &Server{
		invoker: invoker,
		logger:  logger,
	}
	timeout := cfg.RequestTimeout()
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(timeoutMiddleware(timeout))
		if cfg.Auth.Enabled {
			r.Use(apiKeyMiddleware(cfg.Auth.APIKey))
		}
		r.Post("/v1/runs", s.invoke)
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	if s.invoker == nil {
		writeError(w, http.StatusServiceUnavailable, "runner not configured")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// invoke accepts an optional JSON trigger event (for example a scheduler
// payload) and runs the pipeline synchronously.
func (s *Server) invoke(w http.ResponseWriter, r *http.Request) {
	if s.invoker == nil {
		writeError(w, http.StatusServiceUnavailable, "runner not configured")
		return
	}
	event, err := decodeEvent(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	resp, err := s.invoker.Handle(r.Context(), event)
	if err != nil {
		s.logger.Error("invocation failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err),
		)
		status := http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, resp.StatusCode, resp)
}

func decodeEvent(body io.Reader) (any, error) {
	if body == nil {
		return nil, nil
	}
	var event any
	err := json.NewDecoder(io.LimitReader(body, maxEventBytes)).Decode(&event)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
