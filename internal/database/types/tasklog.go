package types

import "time"

// TaskLog is a permanent record of a single task submission.
// SequenceNo is only assigned for numbered (test-type) tasks and counts per
// member per task type.
type TaskLog struct {
	ID         uint64    `bun:"log_id,pk,autoincrement"`
	MemberID   uint64    `bun:",notnull"`
	TaskType   string    `bun:",type:text"`
	ProofURL   string    `bun:",type:text"`
	Comments   string    `bun:",type:text"`
	LoggedAt   time.Time `bun:",notnull"`
	SequenceNo *int      `bun:",nullzero"`
}

// WeeklyTaskLog mirrors TaskLog for the current week only; the weekly reset
// truncates it. Kept separate so /removelastlog can undo the newest weekly
// submission without touching permanent history.
type WeeklyTaskLog struct {
	ID         uint64    `bun:"log_id,pk,autoincrement"`
	MemberID   uint64    `bun:",notnull"`
	TaskType   string    `bun:",type:text"`
	ProofURL   string    `bun:",type:text"`
	Comments   string    `bun:",type:text"`
	LoggedAt   time.Time `bun:",notnull"`
	SequenceNo *int      `bun:",nullzero"`
}
