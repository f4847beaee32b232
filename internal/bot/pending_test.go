package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingStoreTakeRemoves(t *testing.T) {
	t.Parallel()

	store := newPendingStore()
	store.put(1, "Cross-Testing", "https://example.com/proof.png")

	entry, ok := store.take(1)
	require.True(t, ok)
	assert.Equal(t, "Cross-Testing", entry.taskType)
	assert.Equal(t, "https://example.com/proof.png", entry.proofURL)

	_, ok = store.take(1)
	assert.False(t, ok)
}

func TestPendingStoreReplacesOnRepeat(t *testing.T) {
	t.Parallel()

	store := newPendingStore()
	store.put(1, "Cross-Testing", "first")
	store.put(1, "Anomaly Testing", "second")

	entry, ok := store.take(1)
	require.True(t, ok)
	assert.Equal(t, "Anomaly Testing", entry.taskType)
	assert.Equal(t, "second", entry.proofURL)
}

func TestPendingStoreExpires(t *testing.T) {
	t.Parallel()

	store := newPendingStore()
	store.put(1, "Cross-Testing", "proof")

	stale := store.entries[1]
	stale.at = time.Now().Add(-pendingTTL - time.Minute)
	store.entries[1] = stale

	_, ok := store.take(1)
	assert.False(t, ok)
}
