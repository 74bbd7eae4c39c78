// Package projection applies user-lifecycle events to the downstream user
// store, keyed by the provider's stable external id.
//
// Both operations are idempotent and map to exactly one store call, so
// duplicate and out-of-order redeliveries converge without local locking or
// retries. Ordering is last-applied-wins: strict convergence would require
// comparing provider event timestamps on upsert, which this service does
// not do.
package projection

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mattjoyce/usergate/internal/event"
	"github.com/mattjoyce/usergate/internal/log"
)

// User is the projected record written to the store.
type User struct {
	ExternalID   string
	Username     string
	PrimaryEmail string
	FirstName    string
	LastName     string
	ImageURL     string
}

// UserStore is the minimal storage contract the applier needs. Both
// operations must be single-key atomic: upsert never duplicates a record
// and delete of an absent record is not an error.
type UserStore interface {
	UpsertByExternalID(ctx context.Context, u User) error
	DeleteByExternalID(ctx context.Context, externalID string) error
}

// Applier translates decoded user data into store mutations.
type Applier struct {
	store  UserStore
	logger *slog.Logger
}

// NewApplier creates an Applier backed by the given store.
func NewApplier(store UserStore) *Applier {
	return &Applier{
		store:  store,
		logger: log.WithComponent("projection"),
	}
}

// Upsert creates or updates the projection for the user. The external id is
// required: decode tolerates its absence on created/updated events, so the
// guard lives here, in front of the mutation.
func (a *Applier) Upsert(ctx context.Context, data *event.UserData) error {
	if data == nil || data.ID == "" {
		return fmt.Errorf("upsert requires an external user id")
	}

	u := User{
		ExternalID:   data.ID,
		PrimaryEmail: data.PrimaryEmail(),
		ImageURL:     data.ImageURL,
	}
	if data.Username != nil {
		u.Username = *data.Username
	}
	if data.FirstName != nil {
		u.FirstName = *data.FirstName
	}
	if data.LastName != nil {
		u.LastName = *data.LastName
	}

	if err := a.store.UpsertByExternalID(ctx, u); err != nil {
		return fmt.Errorf("upsert user %s: %w", data.ID, err)
	}

	a.logger.Debug("user projection upserted", "external_id", u.ExternalID)
	return nil
}

// Delete removes the projection for the external id. Deleting a record that
// is already absent succeeds silently.
func (a *Applier) Delete(ctx context.Context, externalID string) error {
	if externalID == "" {
		return fmt.Errorf("delete requires an external user id")
	}

	if err := a.store.DeleteByExternalID(ctx, externalID); err != nil {
		return fmt.Errorf("delete user %s: %w", externalID, err)
	}

	a.logger.Debug("user projection deleted", "external_id", externalID)
	return nil
}
