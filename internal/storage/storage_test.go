package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/usergate/internal/projection"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	// In-memory databases are per-connection; pin the pool to one.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserStore_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(openTestDB(t))

	u := projection.User{
		ExternalID:   "user_1",
		Username:     "ada",
		PrimaryEmail: "ada@example.com",
		FirstName:    "Ada",
		LastName:     "Lovelace",
	}
	require.NoError(t, store.UpsertByExternalID(ctx, u))

	got, err := store.GetByExternalID(ctx, "user_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u, *got)
}

func TestUserStore_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewUserStore(db)

	u := projection.User{ExternalID: "user_1", PrimaryEmail: "a@b.com"}
	require.NoError(t, store.UpsertByExternalID(ctx, u))
	require.NoError(t, store.UpsertByExternalID(ctx, u))

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users;`).Scan(&count))
	assert.Equal(t, 1, count, "duplicate upserts must not create duplicate records")

	got, err := store.GetByExternalID(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", got.PrimaryEmail)
}

func TestUserStore_UpsertUpdatesExisting(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(openTestDB(t))

	require.NoError(t, store.UpsertByExternalID(ctx, projection.User{ExternalID: "user_1", Username: "ada"}))
	require.NoError(t, store.UpsertByExternalID(ctx, projection.User{ExternalID: "user_1", Username: "ada2", PrimaryEmail: "new@b.com"}))

	got, err := store.GetByExternalID(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, "ada2", got.Username)
	assert.Equal(t, "new@b.com", got.PrimaryEmail)
}

func TestUserStore_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(openTestDB(t))

	require.NoError(t, store.UpsertByExternalID(ctx, projection.User{ExternalID: "user_1"}))
	require.NoError(t, store.DeleteByExternalID(ctx, "user_1"))

	got, err := store.GetByExternalID(ctx, "user_1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting an already-absent record is not an error.
	require.NoError(t, store.DeleteByExternalID(ctx, "user_1"))
	require.NoError(t, store.DeleteByExternalID(ctx, "never_existed"))
}

func TestDeliveryLog_RecordAndRecent(t *testing.T) {
	ctx := context.Background()
	dl := NewDeliveryLog(openTestDB(t))

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, msgID := range []string{"msg_1", "msg_2", "msg_3"} {
		require.NoError(t, dl.Record(ctx, Delivery{
			MessageID:   msgID,
			EventType:   "user.created",
			Outcome:     "synced",
			ExternalID:  "user_1",
			PayloadHash: PayloadDigest([]byte(msgID)),
			ReceivedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	recent, err := dl.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "msg_3", recent[0].MessageID, "newest first")
	assert.Equal(t, "msg_2", recent[1].MessageID)
	assert.NotEmpty(t, recent[0].ID, "row id should be generated")
	assert.Equal(t, base.Add(2*time.Minute), recent[0].ReceivedAt)
}

func TestDeliveryLog_RecordFillsDefaults(t *testing.T) {
	ctx := context.Background()
	dl := NewDeliveryLog(openTestDB(t))

	require.NoError(t, dl.Record(ctx, Delivery{
		MessageID:   "msg_1",
		EventType:   "user.deleted",
		Outcome:     "deleted",
		PayloadHash: PayloadDigest([]byte(`{}`)),
	}))

	recent, err := dl.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.NotEmpty(t, recent[0].ID)
	assert.False(t, recent[0].ReceivedAt.IsZero())
}

func TestPayloadDigest(t *testing.T) {
	a := PayloadDigest([]byte(`{"type":"user.created"}`))
	b := PayloadDigest([]byte(`{"type":"user.created"}`))
	c := PayloadDigest([]byte(`{"type":"user.deleted"}`))

	assert.Equal(t, a, b, "digest should be deterministic")
	assert.NotEqual(t, a, c, "different payloads should differ")
	assert.Len(t, a, 64, "hex BLAKE3-256 digest")
}
