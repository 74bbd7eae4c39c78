// Package dispatch routes decoded webhook events to their handlers.
//
// Routing is a pure switch over the event kind: created and updated both
// collapse into one idempotent sync (the provider sends near-identical
// payloads for both), deleted maps to the delete handler, and unrecognized
// kinds succeed as a logged no-op so future provider event types do not
// break ingestion.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mattjoyce/usergate/internal/event"
	"github.com/mattjoyce/usergate/internal/log"
)

// Applier applies user-projection mutations.
type Applier interface {
	Upsert(ctx context.Context, user *event.UserData) error
	Delete(ctx context.Context, externalID string) error
}

// Action names what a dispatch did, for logging and the delivery log.
type Action string

const (
	ActionSynced  Action = "synced"
	ActionDeleted Action = "deleted"
	ActionIgnored Action = "ignored"
)

// Outcome reports what a successful dispatch did.
type Outcome struct {
	Action Action

	// UserID is the external user id acted upon; empty for ignored events.
	UserID string
}

// Dispatcher routes events to the applier. It performs no I/O itself and
// holds no cross-request state.
type Dispatcher struct {
	applier Applier
	logger  *slog.Logger
}

// New creates a Dispatcher.
func New(applier Applier) *Dispatcher {
	return &Dispatcher{
		applier: applier,
		logger:  log.WithComponent("dispatch"),
	}
}

// Dispatch applies the event. Exactly one store call happens per
// user-lifecycle event; unknown kinds make none.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *event.Event) (Outcome, error) {
	switch ev.Kind {
	case event.KindUserCreated, event.KindUserUpdated:
		if err := d.applier.Upsert(ctx, ev.User); err != nil {
			return Outcome{}, fmt.Errorf("sync user: %w", err)
		}
		return Outcome{Action: ActionSynced, UserID: ev.User.ID}, nil

	case event.KindUserDeleted:
		if err := d.applier.Delete(ctx, ev.User.ID); err != nil {
			return Outcome{}, fmt.Errorf("delete user: %w", err)
		}
		return Outcome{Action: ActionDeleted, UserID: ev.User.ID}, nil

	default:
		d.logger.Info("ignoring unrecognized event type", "event_type", ev.Type)
		return Outcome{Action: ActionIgnored}, nil
	}
}
