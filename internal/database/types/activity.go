package types

import "time"

// WeeklyTask is the per-member task counter for the current week.
// Created on first task log, truncated at each weekly reset.
type WeeklyTask struct {
	MemberID       uint64 `bun:",pk"`
	TasksCompleted int    `bun:",notnull"`
}

// SiteTime is the per-member accumulated on-site time for the current week,
// in seconds. Truncated at each weekly reset.
type SiteTime struct {
	MemberID         uint64 `bun:",pk"`
	TimeSpentSeconds int    `bun:",notnull"`
}

// SiteSession is an open on-site session, keyed by the external Roblox ID.
// At most one open session per player; a "left" event deletes the row and
// folds the duration into SiteTime. Orphans survive until the weekly truncate.
type SiteSession struct {
	RobloxID  uint64    `bun:",pk"`
	StartTime time.Time `bun:",notnull"`
}
