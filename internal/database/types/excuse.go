package types

import "time"

// ActivityExcuse waives strike issuance for one ISO week. At most one row per
// week; presence suppresses strikes for that week's evaluation but the report
// and the weekly reset still happen.
type ActivityExcuse struct {
	WeekKey string    `bun:",pk"` // "2025-W39"
	Reason  string    `bun:",type:text"`
	SetBy   uint64    `bun:",notnull"`
	SetAt   time.Time `bun:",notnull"`
}
