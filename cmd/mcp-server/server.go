package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/njchilds90/gometric/internal/tools"
)

const maxBodyBytes = 1 << 20 // 1 MiB

const requestIDHeader = "X-Request-ID"

var (
	toolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gometric_tool_calls_total",
			Help: "Tool calls by tool name and outcome",
		},
		[]string{"tool", "outcome"},
	)

	toolLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gometric_tool_call_duration_seconds",
			Help:    "Tool call latency",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
		[]string{"tool"},
	)
)

type server struct {
	logger     *zap.Logger
	dispatcher *tools.Dispatcher
}

// newRouter wires the tool endpoints:
//
//	POST /tool     handle a tool call
//	GET  /schema   tool schema for agent registration
//	GET  /health   liveness check
//	GET  /metrics  prometheus metrics
func newRouter(logger *zap.Logger, dispatcher *tools.Dispatcher) http.Handler {
	s := &server{logger: logger, dispatcher: dispatcher}

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.recoverer)

	r.Post("/tool", s.handleTool)
	r.Get("/schema", s.handleSchema)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

// requestID reuses the caller's X-Request-ID or mints one.
func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic in handler",
					zap.String("path", r.URL.Path),
					zap.String("request_id", r.Header.Get(requestIDHeader)),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *server) handleTool(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req tools.Request
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	if dec.More() {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON: trailing data"))
		return
	}

	start := time.Now()
	resp := s.dispatcher.Handle(req)
	elapsed := time.Since(start)

	outcome := "ok"
	if resp.Error != "" {
		outcome = "error"
	}
	toolCalls.WithLabelValues(req.Tool, outcome).Inc()
	toolLatency.WithLabelValues(req.Tool).Observe(elapsed.Seconds())

	s.logger.Info("tool call",
		zap.String("request_id", r.Header.Get(requestIDHeader)),
		zap.String("tool", req.Tool),
		zap.String("outcome", outcome),
		zap.Duration("elapsed", elapsed))

	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, tools.Spec())
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
