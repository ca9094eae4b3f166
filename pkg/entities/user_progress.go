package entities

import "github.com/Jacobbrewer1/concord/pkg/custom"

// UserProgress is the per-guild, per-user XP, level and coin record. It is created lazily
// on first interaction and never deleted.
//
// Invariant: XP is always strictly less than the XP threshold for the current level; the
// leveling loop normalizes this on every grant.
type UserProgress struct {
	// GuildID is the ID of the guild the record belongs to.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// UserID is the ID of the user the record belongs to.
	UserID string `json:"user_id" bson:"user_id"`

	// XP is the XP accumulated inside the current level.
	XP int `json:"xp" bson:"xp"`

	// Level is the current level.
	Level int `json:"level" bson:"level"`

	// Coins is the coin balance.
	Coins int `json:"coins" bson:"coins"`

	// LastDaily is the time of the last successful daily claim.
	LastDaily custom.Datetime `json:"last_daily" bson:"last_daily"`
}
