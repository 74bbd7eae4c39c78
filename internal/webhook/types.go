package webhook

import (
	"context"

	"github.com/mattjoyce/usergate/internal/dispatch"
	"github.com/mattjoyce/usergate/internal/event"
	"github.com/mattjoyce/usergate/internal/storage"
)

// Dispatcher routes decoded events to their handlers.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev *event.Event) (dispatch.Outcome, error)
}

// DeliveryLog records processed deliveries and serves the read side of the
// admin surface. Recording is best-effort; a failed write never fails the
// delivery it describes.
type DeliveryLog interface {
	Record(ctx context.Context, d storage.Delivery) error
	Recent(ctx context.Context, limit int) ([]storage.Delivery, error)
}

// Config holds webhook server configuration.
type Config struct {
	// Listen is the address to bind (e.g. "127.0.0.1:8080").
	Listen string

	// Path is the webhook endpoint path.
	Path string

	// Secret is the provider's signing secret (whsec_... form).
	Secret string

	// MaxBodySize is the maximum allowed request body size in bytes.
	MaxBodySize int64
}

// ErrorResponse is the JSON body for 500 responses. The message is included
// so the provider's redelivery dashboard shows why processing failed.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the JSON body for GET /healthz.
type HealthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Default values
const (
	DefaultPath        = "/clerk-users-webhook"
	DefaultMaxBodySize = 1048576 // 1 MB
)
