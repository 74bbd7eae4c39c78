package event

import "encoding/json"

// Kind identifies the webhook event category.
type Kind string

const (
	KindUserCreated Kind = "user.created"
	KindUserUpdated Kind = "user.updated"
	KindUserDeleted Kind = "user.deleted"
	KindUnknown     Kind = "unknown"
)

// Envelope is the provider's webhook event envelope.
// Data is kept raw so unknown event types pass through untouched.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// EmailAddress is a nested object within the provider's user data.
// The list is ordered; the first entry is the primary address.
type EmailAddress struct {
	ID           string `json:"id,omitempty"`
	EmailAddress string `json:"email_address"`
}

// UserData carries the user-lifecycle payload fields this service acts on.
// Provider-specific profile fields beyond these are preserved in Raw and
// passed through opaquely.
type UserData struct {
	ID             string         `json:"id"`
	Username       *string        `json:"username"`
	FirstName      *string        `json:"first_name"`
	LastName       *string        `json:"last_name"`
	ImageURL       string         `json:"image_url"`
	EmailAddresses []EmailAddress `json:"email_addresses"`

	// Raw is the unmodified data object as received.
	Raw json.RawMessage `json:"-"`
}

// PrimaryEmail returns the first email address, or "" if none.
func (u *UserData) PrimaryEmail() string {
	if u == nil || len(u.EmailAddresses) == 0 {
		return ""
	}
	return u.EmailAddresses[0].EmailAddress
}

// Event is a decoded webhook event.
type Event struct {
	// Kind is the recognized event kind, or KindUnknown.
	Kind Kind

	// Type is the raw provider type string, retained for logging
	// when Kind is KindUnknown.
	Type string

	// User is set for user-lifecycle kinds, nil otherwise.
	User *UserData
}
