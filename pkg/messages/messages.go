package messages

const (
	// ErrUserErrorProcessing is the generic message returned to a user when a command fails
	// unexpectedly.
	ErrUserErrorProcessing = "Something went wrong processing that, please try again later."

	// ErrNotAdministrator is returned when a command requires the administrator permission.
	ErrNotAdministrator = "You must be an administrator to use this command"

	// ErrNotElevated is returned when a command requires the manage server permission.
	ErrNotElevated = "You need the **Manage Server** permission to do that."

	// ErrNotStaff is returned when a ticket operation requires the staff role.
	ErrNotStaff = "You need the ticket staff role (or **Manage Server**) to do that."

	// ErrGuildOnly is returned when a command is invoked outside a guild.
	ErrGuildOnly = "This command can only be used in a server."

	// ErrTextChannelRequired is returned when a non-text channel was provided.
	ErrTextChannelRequired = "You must provide a text channel."

	// ErrNotATicket is returned when a ticket command runs outside a ticket channel.
	ErrNotATicket = "This channel is not a ticket."
)
