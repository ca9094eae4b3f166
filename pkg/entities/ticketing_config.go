package entities

type TicketingConfig struct {
	// StaffRoleID is the ID of the role that handles tickets. Optional.
	StaffRoleID string `json:"staff_role_id" bson:"staff_role_id"`

	// CategoryID is the ID of the category that ticket channels are created under.
	CategoryID string `json:"category_id" bson:"category_id"`

	// Counter is the ticket sequence for the guild. It only ever increases, even when a
	// channel creation attempt fails after the increment.
	Counter int `json:"counter" bson:"counter"`
}

type BugConfig struct {
	// InputChannelID is the ID of the channel whose messages are ingested as bug reports.
	InputChannelID string `json:"input_channel_id" bson:"input_channel_id"`

	// BoardChannelID is the ID of the channel holding the board message.
	BoardChannelID string `json:"board_channel_id" bson:"board_channel_id"`

	// UpdatesChannelID is the ID of the channel that status-change notices are posted to.
	// Optional; the board channel is used as a fallback.
	UpdatesChannelID string `json:"updates_channel_id" bson:"updates_channel_id"`

	// BoardMessageID is the ID of the board message. Empty until the first refresh posts it.
	BoardMessageID string `json:"board_message_id" bson:"board_message_id"`

	// Counter is the bug ID sequence for the guild.
	Counter int `json:"counter" bson:"counter"`
}
