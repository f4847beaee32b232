package types

import "time"

const (
	// OrientationWindow is the time a trainee has to complete orientation.
	OrientationWindow = 14 * 24 * time.Hour
	// OrientationWarningLead is how far before the deadline the reminder fires.
	OrientationWarningLead = 5 * 24 * time.Hour
	// OrientationWarningTolerance widens the warning instant into a band so a
	// coarse poll interval cannot step over it.
	OrientationWarningTolerance = time.Hour
)

// Orientation tracks a member's onboarding window. One row per member who has
// ever held the trainee role; never deleted. Warned and ExpiredHandled are
// fires-once latches, and Passed set to true forces both latches so no further
// automated transition can occur.
type Orientation struct {
	MemberID       uint64     `bun:",pk"`
	AssignedAt     time.Time  `bun:",notnull"`
	Deadline       *time.Time `bun:",nullzero"`
	Passed         bool       `bun:",notnull"`
	PassedAt       *time.Time `bun:",nullzero"`
	Warned         bool       `bun:"warned_5d,notnull"`
	ExpiredHandled bool       `bun:",notnull"`
}

// Remaining returns the time left until the deadline, negative once past it.
// Records without a deadline report zero and are skipped by the poll.
func (o *Orientation) Remaining(now time.Time) time.Duration {
	if o.Deadline == nil {
		return 0
	}

	return o.Deadline.Sub(now)
}

// InWarningBand reports whether the remaining time falls inside the
// warning window centered on the warning lead.
func (o *Orientation) InWarningBand(now time.Time) bool {
	if o.Deadline == nil {
		return false
	}

	remaining := o.Remaining(now)

	return remaining >= OrientationWarningLead-OrientationWarningTolerance &&
		remaining <= OrientationWarningLead+OrientationWarningTolerance
}
