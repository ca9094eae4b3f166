package entities

import (
	"fmt"

	"github.com/Jacobbrewer1/concord/pkg/custom"
)

// TicketStatus is the status of a ticket. A ticket only ever goes open -> closed.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

// Ticket is a private support channel with an owner and a staff workflow. It is keyed by
// the channel that backs it; the channel ID is unique and stable for the ticket lifetime.
type Ticket struct {
	// ID is the number of the ticket. This is used to derive the channel name, for
	// example ticket ID 12 names the channel "ticket-0012".
	ID int `json:"id" bson:"id"`

	// GuildID is the ID of the guild that the ticket is in.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// ChannelID is the ID of the channel that backs the ticket.
	ChannelID string `json:"channel_id" bson:"channel_id"`

	// OwnerID is the ID of the user that opened the ticket.
	OwnerID string `json:"owner_id" bson:"owner_id"`

	// Status is the status of the ticket.
	Status TicketStatus `json:"status" bson:"status"`

	// AssignedStaff are the IDs of staff members assigned to the ticket.
	AssignedStaff []string `json:"assigned_staff" bson:"assigned_staff"`

	// AddedUsers are the IDs of users granted access on top of the owner and staff.
	AddedUsers []string `json:"added_users" bson:"added_users"`

	// CreatedAt is the time that the ticket was created.
	CreatedAt custom.Datetime `json:"created_at" bson:"created_at"`

	// ClosedAt is the time that the ticket was closed. Zero while the ticket is open.
	ClosedAt custom.Datetime `json:"closed_at" bson:"closed_at"`

	// ClosedBy is the ID of the user that closed the ticket.
	ClosedBy string `json:"closed_by" bson:"closed_by"`
}

// Name returns the channel name for the ticket.
func (t *Ticket) Name() string {
	return fmt.Sprintf("ticket-%04d", t.ID)
}

// IsAssigned reports whether the user is in the assigned staff set.
func (t *Ticket) IsAssigned(userID string) bool {
	for _, id := range t.AssignedStaff {
		if id == userID {
			return true
		}
	}
	return false
}

// HasAddedUser reports whether the user was explicitly added to the ticket.
func (t *Ticket) HasAddedUser(userID string) bool {
	for _, id := range t.AddedUsers {
		if id == userID {
			return true
		}
	}
	return false
}
