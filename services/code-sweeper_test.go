package services

import (
	"context"
	"testing"
	"time"

	"hotel-server/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeSweeper_Sweep(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Set(ctx, "gone@example.com", cache.VerificationEntry{Code: "1", ExpiresAt: now.Add(-cache.ExpiredGrace - time.Minute)}))
	require.NoError(t, store.Set(ctx, "kept@example.com", cache.VerificationEntry{Code: "2", ExpiresAt: now.Add(time.Minute)}))

	sweeper := NewCodeSweeper(store, time.Hour)
	sweeper.now = func() time.Time { return now }

	assert.Equal(t, 1, sweeper.Sweep())
	assert.Equal(t, 0, sweeper.Sweep())
	assert.Equal(t, 1, sweeper.Stats()["pending_codes"])
}

func TestCodeSweeper_StartStopsWithContext(t *testing.T) {
	store := cache.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), "gone@example.com", cache.VerificationEntry{Code: "1", ExpiresAt: time.Now().Add(-cache.ExpiredGrace - time.Minute)}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	NewCodeSweeper(store, time.Second).Start(ctx)

	assert.Eventually(t, func() bool {
		return store.Stats()["pending_codes"] == 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestNewCodeSweeper_DefaultInterval(t *testing.T) {
	s := NewCodeSweeper(cache.NewMemoryStore(), 0)
	assert.Equal(t, time.Minute, s.interval)
}
