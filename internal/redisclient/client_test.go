package redisclient

import (
	"context"
	"testing"
	"time"

	"prediction-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyKeyNamespace(t *testing.T) {
	assert.Equal(t, "idempotency:abc-123", idempotencyKey("abc-123"))
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Skip("Integration test - requires Redis")

	c, err := NewClient("localhost:6379", "", 15, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.GetClient().Del(ctx, snapshotKey).Err())

	missing, err := c.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, missing)

	snap := models.Snapshot{
		Products: []models.Product{{ID: "p1", Name: "Mug", UnitPrice: 12, Quantity: 3}},
		Settings: &models.BusinessSettings{ID: "s1", VATRate: 5},
		Source:   models.SourceDatabase,
	}
	require.NoError(t, c.SaveSnapshot(ctx, snap))

	got, err := c.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Mug", got.Products[0].Name)
	assert.Equal(t, 5.0, got.Settings.VATRate)
}

func TestClaimIdempotencyKey(t *testing.T) {
	t.Skip("Integration test - requires Redis")

	c, err := NewClient("localhost:6379", "", 15, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	_ = c.ReleaseIdempotencyKey(ctx, "test-key")

	first, err := c.ClaimIdempotencyKey(ctx, "test-key", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := c.ClaimIdempotencyKey(ctx, "test-key", time.Minute)
	require.NoError(t, err)
	assert.False(t, second)
}
