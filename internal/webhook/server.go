package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mattjoyce/usergate/internal/event"
	"github.com/mattjoyce/usergate/internal/storage"
)

// Server is the webhook ingestion HTTP server.
type Server struct {
	config     Config
	verifier   *Verifier
	dispatcher Dispatcher
	deliveries DeliveryLog
	logger     *slog.Logger
	server     *http.Server
	startedAt  time.Time
}

// New creates a new webhook server instance.
func New(config Config, dispatcher Dispatcher, deliveries DeliveryLog, logger *slog.Logger) *Server {
	// Apply defaults
	if config.Path == "" {
		config.Path = DefaultPath
	}
	if config.MaxBodySize == 0 {
		config.MaxBodySize = DefaultMaxBodySize
	}

	return &Server{
		config:     config,
		verifier:   NewVerifier(config.Secret),
		dispatcher: dispatcher,
		deliveries: deliveries,
		logger:     logger,
		startedAt:  time.Now(),
	}
}

// Start starts the webhook HTTP server (blocking).
func (s *Server) Start(ctx context.Context) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Addr:         s.config.Listen,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("webhook server starting", "listen", s.config.Listen, "path", s.config.Path)

	// Run server in goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("webhook server error: %w", err)
	}
}

// setupRoutes configures the HTTP router.
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Post(s.config.Path, s.handleWebhook)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/deliveries", s.handleDeliveries)

	return r
}

// loggingMiddleware logs HTTP requests (excludes sensitive payloads).
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// Log request (no body content for security)
		s.logger.Info("webhook request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// handleWebhook runs the ingestion pipeline: verify, decode, dispatch,
// respond. Each stage returns an explicit error; nothing past verification
// runs on an unauthenticated payload.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Enforce body size limit before doing any crypto work
	limitedReader := io.LimitReader(r.Body, s.config.MaxBodySize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "read failure", "failed to read request body")
		return
	}
	if int64(len(body)) > s.config.MaxBodySize {
		s.respondText(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	msgID := r.Header.Get(HeaderMessageID)

	// Signature verification. The failure class is logged but never leaks
	// into the response body.
	if err := s.verifier.Verify(r.Header, body); err != nil {
		s.logger.Warn("webhook verification failed",
			"svix_id", msgID,
			"reason", verificationClass(err),
			"error", err,
		)
		s.respondText(w, http.StatusBadRequest, "invalid webhook request")
		return
	}

	ev, err := event.Decode(body)
	if err != nil {
		s.logger.Warn("webhook decode failed", "svix_id", msgID, "error", err)
		s.respondText(w, http.StatusBadRequest, "invalid webhook payload")
		return
	}

	if ev.User != nil && ev.User.ID == "" {
		s.logger.Warn("user event without external id", "svix_id", msgID, "event_type", ev.Type)
	}

	outcome, err := s.dispatcher.Dispatch(ctx, ev)
	if err != nil {
		s.logger.Error("webhook dispatch failed",
			"svix_id", msgID,
			"event_type", ev.Type,
			"error", err,
		)
		// 500 asks the provider to redeliver; every mutation is idempotent
		// so the retry is safe.
		s.respondError(w, http.StatusInternalServerError, "processing failed", err.Error())
		return
	}

	s.recordDelivery(ctx, msgID, ev.Type, outcome.UserID, string(outcome.Action), body)

	s.logger.Info("webhook processed",
		"svix_id", msgID,
		"event_type", ev.Type,
		"action", outcome.Action,
		"external_id", outcome.UserID,
	)
	s.respondText(w, http.StatusOK, "webhook processed")
}

// recordDelivery appends to the delivery log. Best-effort: the mutation has
// already been applied, so a failed audit write is logged, not surfaced.
func (s *Server) recordDelivery(ctx context.Context, msgID, eventType, externalID, outcome string, body []byte) {
	if s.deliveries == nil {
		return
	}
	err := s.deliveries.Record(ctx, storage.Delivery{
		MessageID:   msgID,
		EventType:   eventType,
		Outcome:     outcome,
		ExternalID:  externalID,
		PayloadHash: storage.PayloadDigest(body),
	})
	if err != nil {
		s.logger.Warn("failed to record delivery", "svix_id", msgID, "error", err)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
	})
}

func (s *Server) handleDeliveries(w http.ResponseWriter, r *http.Request) {
	if s.deliveries == nil {
		s.respondJSON(w, http.StatusOK, []storage.Delivery{})
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	deliveries, err := s.deliveries.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list deliveries", "error", err)
		s.respondError(w, http.StatusInternalServerError, "query failed", err.Error())
		return
	}
	if deliveries == nil {
		deliveries = []storage.Delivery{}
	}
	s.respondJSON(w, http.StatusOK, deliveries)
}

// verificationClass names the verification failure for logs.
func verificationClass(err error) string {
	switch {
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrMissingHeader):
		return "missing_header"
	case errors.Is(err, ErrMalformedHeader):
		return "malformed_header"
	case errors.Is(err, ErrStaleRequest):
		return "stale_request"
	case errors.Is(err, ErrSignatureInvalid):
		return "signature_invalid"
	default:
		return "unknown"
	}
}

// respondText sends a plain-text response.
func (s *Server) respondText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintln(w, message)
}

// respondJSON sends a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends a JSON error response.
func (s *Server) respondError(w http.ResponseWriter, status int, errName, message string) {
	s.respondJSON(w, status, ErrorResponse{Error: errName, Message: message})
}
