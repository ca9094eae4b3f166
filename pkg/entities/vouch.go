package entities

import "github.com/Jacobbrewer1/concord/pkg/custom"

// Vouch is a single peer endorsement. The voucher/vouched pair may repeat; the count is
// the reputation signal.
type Vouch struct {
	// ID is the per-guild sequential number of the vouch.
	ID int `json:"id" bson:"id"`

	// GuildID is the ID of the guild that the vouch belongs to.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// VoucherID is the ID of the user giving the vouch.
	VoucherID string `json:"voucher_id" bson:"voucher_id"`

	// VouchedID is the ID of the user being vouched for.
	VouchedID string `json:"vouched_id" bson:"vouched_id"`

	// Message is the optional endorsement text.
	Message string `json:"message" bson:"message"`

	// CreatedAt is the time the vouch was given.
	CreatedAt custom.Datetime `json:"created_at" bson:"created_at"`
}
