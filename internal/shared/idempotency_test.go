package shared

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*IdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewIdempotencyStore(client, time.Minute), mr
}

func TestIdempotencyFirstInsertSucceeds(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CheckAndInsert(ctx, "key-1", "orders"))
}

func TestIdempotencyDuplicateRejected(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CheckAndInsert(ctx, "key-1", "orders"))
	err := store.CheckAndInsert(ctx, "key-1", "orders")
	require.ErrorIs(t, err, ErrIdempotencyConflict)
}

func TestIdempotencyModulesIsolated(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CheckAndInsert(ctx, "key-1", "orders"))
	require.NoError(t, store.CheckAndInsert(ctx, "key-1", "items"))
}

func TestIdempotencyDeleteAllowsRetry(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CheckAndInsert(ctx, "key-1", "orders"))
	require.NoError(t, store.Delete(ctx, "key-1", "orders"))
	require.NoError(t, store.CheckAndInsert(ctx, "key-1", "orders"))
}

func TestIdempotencyKeyExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CheckAndInsert(ctx, "key-1", "orders"))
	mr.FastForward(2 * time.Minute)
	require.NoError(t, store.CheckAndInsert(ctx, "key-1", "orders"))
}

func TestIdempotencyRequiresKeyAndModule(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.Error(t, store.CheckAndInsert(ctx, "", "orders"))
	require.Error(t, store.CheckAndInsert(ctx, "key-1", ""))
}
