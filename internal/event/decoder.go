package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrDecode indicates the payload is not a well-formed webhook event.
// All decode failures wrap this sentinel so callers can classify them
// without inspecting message text.
var ErrDecode = errors.New("webhook event decode failed")

// Decode parses a verified webhook payload into a typed Event.
//
// The payload must be a JSON envelope with non-empty "type" and "data"
// fields. Recognized user-lifecycle types are decoded into UserData;
// anything else becomes KindUnknown with the raw type string preserved.
//
// data.id is required for user.deleted (it is the only field a deletion
// needs). For user.created/user.updated a missing id is tolerated here —
// the applier refuses to mutate without one — so a malformed-but-signed
// payload surfaces at apply time rather than being silently dropped.
func Decode(payload []byte) (*Event, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if env.Type == "" {
		return nil, fmt.Errorf("%w: missing type field", ErrDecode)
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil, fmt.Errorf("%w: missing data field", ErrDecode)
	}

	switch Kind(env.Type) {
	case KindUserCreated, KindUserUpdated, KindUserDeleted:
		user, err := decodeUserData(env.Data)
		if err != nil {
			return nil, err
		}
		if Kind(env.Type) == KindUserDeleted && user.ID == "" {
			return nil, fmt.Errorf("%w: user.deleted event without data.id", ErrDecode)
		}
		return &Event{Kind: Kind(env.Type), Type: env.Type, User: user}, nil

	default:
		return &Event{Kind: KindUnknown, Type: env.Type}, nil
	}
}

func decodeUserData(data json.RawMessage) (*UserData, error) {
	var user UserData
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("%w: invalid user data: %v", ErrDecode, err)
	}
	user.Raw = data
	return &user, nil
}
