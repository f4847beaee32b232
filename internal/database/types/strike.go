package types

import "time"

const (
	// StrikeDuration is how long a strike stays active after issuance.
	StrikeDuration = 90 * 24 * time.Hour
	// StrikeThreshold is the active strike count that triggers removal.
	StrikeThreshold = 3
)

// Strike represents a single disciplinary strike against a member.
// Rows are immutable after insertion; a strike leaves the active set either by
// manual deletion or by its expiry timestamp passing. Expiry is purely a query
// predicate, no sweep ever rewrites these rows.
type Strike struct {
	ID        uint64    `bun:"strike_id,pk,autoincrement"`
	MemberID  uint64    `bun:",notnull"`
	Reason    string    `bun:",type:text"`
	IssuedAt  time.Time `bun:",notnull"`
	ExpiresAt time.Time `bun:",notnull"`
	SetBy     *uint64   `bun:",nullzero"` // Issuing member, nil when automated
	Auto      bool      `bun:",notnull"`
}

// IsActive reports whether the strike still counts at the given instant.
func (s *Strike) IsActive(now time.Time) bool {
	return s.ExpiresAt.After(now)
}
