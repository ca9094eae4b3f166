package entities

import "github.com/Jacobbrewer1/concord/pkg/custom"

// Guild is the per-guild configuration record. It is created lazily with defaults on
// first access and never deleted.
type Guild struct {
	// ID is the ID of the guild.
	ID string `json:"id" bson:"id"`

	// LogChannelID is the ID of the channel that event notices are posted to.
	LogChannelID string `json:"log_channel_id" bson:"log_channel_id"`

	// Ticketing is the ticketing configuration.
	Ticketing TicketingConfig `json:"ticketing" bson:"ticketing"`

	// Bugs is the bug tracking configuration.
	Bugs BugConfig `json:"bugs" bson:"bugs"`

	// VouchCounter is the vouch ID sequence for the guild.
	VouchCounter int `json:"vouch_counter" bson:"vouch_counter"`

	// PanelChannelID is the ID of the channel holding the button panel message.
	PanelChannelID string `json:"panel_channel_id" bson:"panel_channel_id"`

	// PanelMessageID is the ID of the button panel message.
	PanelMessageID string `json:"panel_message_id" bson:"panel_message_id"`

	// UpdatedAt is the time the record was last saved.
	UpdatedAt custom.Datetime `json:"updated_at" bson:"updated_at"`
}

// NewGuild creates a guild configuration record with defaults.
func NewGuild(id string) *Guild {
	return &Guild{
		ID: id,
	}
}
