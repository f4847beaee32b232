package bot

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/scidept/sentinel/internal/database/models"
	"github.com/scidept/sentinel/internal/database/types"
)

// leaderboardSize caps how many members the weekly leaderboard shows.
const leaderboardSize = 10

func formatUTC(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04 UTC")
}

// sequenceSuffix renders the sequence label for a numbered batch, " #4" for a
// single addition or " #4–#7" for a range. Unnumbered batches render nothing.
func sequenceSuffix(startSeq *int, count int) string {
	switch {
	case startSeq == nil:
		return ""
	case count == 1:
		return fmt.Sprintf(" #%d", *startSeq)
	default:
		return fmt.Sprintf(" #%d–#%d", *startSeq, *startSeq+count-1)
	}
}

// formatTotals renders per-type totals, one line per type in the stored
// order (highest count first).
func formatTotals(counts []models.TypeCount, bold bool) string {
	lines := make([]string, len(counts))

	for i, count := range counts {
		label := types.PluralTaskName(count.TaskType)
		if bold {
			lines[i] = fmt.Sprintf("**%s** — %d", label, count.Count)
		} else {
			lines[i] = fmt.Sprintf("%s — %d", label, count.Count)
		}
	}

	return strings.Join(lines, "\n")
}

// boardEntry is one leaderboard row.
type boardEntry struct {
	MemberID uint64
	Name     string
	Tasks    int
	Minutes  int
}

// buildLeaderboard merges the weekly task and time counters into sorted rows:
// most tasks first, minutes as tie-break, then name.
func buildLeaderboard(tasks, times map[uint64]int, nameOf func(uint64) string) []boardEntry {
	ids := make(map[uint64]struct{}, len(tasks)+len(times))
	for id := range tasks {
		ids[id] = struct{}{}
	}

	for id := range times {
		ids[id] = struct{}{}
	}

	entries := make([]boardEntry, 0, len(ids))
	for id := range ids {
		entries = append(entries, boardEntry{
			MemberID: id,
			Name:     nameOf(id),
			Tasks:    tasks[id],
			Minutes:  times[id] / 60,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Tasks != entries[j].Tasks {
			return entries[i].Tasks > entries[j].Tasks
		}

		if entries[i].Minutes != entries[j].Minutes {
			return entries[i].Minutes > entries[j].Minutes
		}

		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	return entries
}

// formatLeaderboard renders the top rows with medals for the first three.
func formatLeaderboard(entries []boardEntry) string {
	medals := []string{"🥇", "🥈", "🥉"}

	if len(entries) > leaderboardSize {
		entries = entries[:leaderboardSize]
	}

	lines := make([]string, len(entries))

	for i, entry := range entries {
		prefix := fmt.Sprintf("**%d.**", i+1)
		if i < len(medals) {
			prefix = medals[i]
		}

		lines[i] = fmt.Sprintf("%s **%s** — %d tasks, %d mins", prefix, entry.Name, entry.Tasks, entry.Minutes)
	}

	return strings.Join(lines, "\n")
}

// formatStrikes renders the /strikes view body: each active strike with its
// expiry and origin, then the lifetime total.
func formatStrikes(active []*types.Strike, total int) string {
	if len(active) == 0 {
		return fmt.Sprintf("**Active strikes:** 0/%d\n**Total strikes ever:** %d", types.StrikeThreshold, total)
	}

	lines := make([]string, len(active))

	for i, strike := range active {
		origin := "manual"
		if strike.Auto {
			origin = "auto"
		}

		lines[i] = fmt.Sprintf("• %s — expires **%s** (%s)",
			strike.Reason, strike.ExpiresAt.Format("2006-01-02"), origin)
	}

	return fmt.Sprintf("**Active strikes:** %d/%d\n%s\n\n**Total strikes ever:** %d",
		len(active), types.StrikeThreshold, strings.Join(lines, "\n"), total)
}
