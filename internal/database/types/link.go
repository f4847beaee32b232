package types

import "time"

// RobloxLink maps a Discord member to their verified Roblox account.
type RobloxLink struct {
	MemberID uint64 `bun:",pk"`
	RobloxID uint64 `bun:",unique,notnull"`
}

// MemberRank stores the last group rank assigned to a member via /rank.
type MemberRank struct {
	MemberID uint64    `bun:",pk"`
	Rank     string    `bun:",type:text"`
	SetBy    uint64    `bun:",notnull"`
	SetAt    time.Time `bun:",notnull"`
}
