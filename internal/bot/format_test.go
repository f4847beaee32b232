package bot

import (
	"testing"
	"time"

	"github.com/scidept/sentinel/internal/database/models"
	"github.com/scidept/sentinel/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceSuffix(t *testing.T) {
	t.Parallel()

	five := 5

	tests := []struct {
		name     string
		startSeq *int
		count    int
		want     string
	}{
		{"unnumbered", nil, 3, ""},
		{"single", &five, 1, " #5"},
		{"range", &five, 4, " #5–#8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, sequenceSuffix(tt.startSeq, tt.count))
		})
	}
}

func TestFormatTotals(t *testing.T) {
	t.Parallel()

	counts := []models.TypeCount{
		{TaskType: "Cross-Testing", Count: 7},
		{TaskType: "SCP Interviews", Count: 2},
	}

	bold := formatTotals(counts, true)
	assert.Equal(t, "**Cross-Tests** — 7\n**SCP Interviews** — 2", bold)

	plain := formatTotals(counts, false)
	assert.Equal(t, "Cross-Tests — 7\nSCP Interviews — 2", plain)
}

func TestBuildLeaderboardOrdering(t *testing.T) {
	t.Parallel()

	tasks := map[uint64]int{1: 5, 2: 5, 3: 9}
	times := map[uint64]int{1: 30 * 60, 2: 45 * 60, 4: 10 * 60}

	names := map[uint64]string{1: "beta", 2: "Alpha", 3: "gamma", 4: "delta"}
	entries := buildLeaderboard(tasks, times, func(id uint64) string { return names[id] })

	require.Len(t, entries, 4)

	// Most tasks first, then minutes, then case-insensitive name.
	assert.Equal(t, uint64(3), entries[0].MemberID)
	assert.Equal(t, uint64(2), entries[1].MemberID)
	assert.Equal(t, uint64(1), entries[2].MemberID)
	assert.Equal(t, uint64(4), entries[3].MemberID)
}

func TestFormatLeaderboardMedalsAndCap(t *testing.T) {
	t.Parallel()

	entries := make([]boardEntry, 12)
	for i := range entries {
		entries[i] = boardEntry{MemberID: uint64(i + 1), Name: "m", Tasks: 12 - i}
	}

	out := formatLeaderboard(entries)

	assert.Contains(t, out, "🥇")
	assert.Contains(t, out, "🥈")
	assert.Contains(t, out, "🥉")
	assert.Contains(t, out, "**10.**")
	assert.NotContains(t, out, "**11.**")
}

func TestFormatStrikes(t *testing.T) {
	t.Parallel()

	empty := formatStrikes(nil, 4)
	assert.Contains(t, empty, "**Active strikes:** 0/3")
	assert.Contains(t, empty, "**Total strikes ever:** 4")

	expires := time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC)
	active := []*types.Strike{
		{Reason: "Missed weekly quota", ExpiresAt: expires, Auto: true},
		{Reason: "Conduct", ExpiresAt: expires.Add(24 * time.Hour)},
	}

	out := formatStrikes(active, 5)
	assert.Contains(t, out, "**Active strikes:** 2/3")
	assert.Contains(t, out, "• Missed weekly quota — expires **2026-11-20** (auto)")
	assert.Contains(t, out, "• Conduct — expires **2026-11-21** (manual)")
	assert.Contains(t, out, "**Total strikes ever:** 5")
}
