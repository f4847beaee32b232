package webhook

import (
	"fmt"
	"time"
)

func formatJoin(memberID uint64) string {
	return fmt.Sprintf("<@%d> started a session.", memberID)
}

func formatLeave(memberID uint64, elapsed time.Duration, weeklyMinutes, requiredMinutes int) string {
	return fmt.Sprintf(
		"<@%d> ended their session. Time this session: **%d min**.\nThis week: **%d/%d min**",
		memberID, int(elapsed.Minutes()), weeklyMinutes, requiredMinutes)
}
