package storage

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// Delivery is one processed webhook delivery, recorded for diagnostics.
// The payload itself is not stored; the digest is enough to recognize a
// redelivered body without retaining user data.
type Delivery struct {
	ID          string    `json:"id"`
	MessageID   string    `json:"svix_id"`
	EventType   string    `json:"event_type"`
	Outcome     string    `json:"outcome"`
	ExternalID  string    `json:"external_id,omitempty"`
	PayloadHash string    `json:"payload_hash"`
	ReceivedAt  time.Time `json:"received_at"`
}

// PayloadDigest returns the hex BLAKE3 digest of a payload body.
func PayloadDigest(body []byte) string {
	sum := blake3.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// DeliveryLog is the SQLite-backed audit log of processed deliveries.
type DeliveryLog struct {
	db *sql.DB
}

// NewDeliveryLog creates a DeliveryLog over an opened database.
func NewDeliveryLog(db *sql.DB) *DeliveryLog {
	return &DeliveryLog{db: db}
}

// Record inserts a delivery row. Missing id/timestamp are filled in.
func (l *DeliveryLog) Record(ctx context.Context, d Delivery) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.ReceivedAt.IsZero() {
		d.ReceivedAt = time.Now().UTC()
	}

	_, err := l.db.ExecContext(ctx, `
INSERT INTO delivery_log (id, svix_id, event_type, outcome, external_id, payload_hash, received_at)
VALUES (?, ?, ?, ?, ?, ?, ?);`,
		d.ID, d.MessageID, d.EventType, d.Outcome, d.ExternalID, d.PayloadHash,
		d.ReceivedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record delivery: %w", err)
	}
	return nil
}

// Recent returns the most recently received deliveries, newest first.
func (l *DeliveryLog) Recent(ctx context.Context, limit int) ([]Delivery, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := l.db.QueryContext(ctx, `
SELECT id, svix_id, event_type, outcome, external_id, payload_hash, received_at
FROM delivery_log ORDER BY received_at DESC, id LIMIT ?;`, limit)
	if err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
	}
	defer rows.Close()

	var out []Delivery
	for rows.Next() {
		var d Delivery
		var receivedAt string
		if err := rows.Scan(&d.ID, &d.MessageID, &d.EventType, &d.Outcome, &d.ExternalID, &d.PayloadHash, &receivedAt); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, receivedAt); err == nil {
			d.ReceivedAt = ts
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deliveries: %w", err)
	}
	return out, nil
}
