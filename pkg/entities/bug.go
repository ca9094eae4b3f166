package entities

import (
	"fmt"

	"github.com/Jacobbrewer1/concord/pkg/custom"
)

// BugStatus is the status of a bug report.
type BugStatus string

const (
	BugStatusOpen          BugStatus = "OPEN"
	BugStatusInProgress    BugStatus = "IN_PROGRESS"
	BugStatusWaiting       BugStatus = "WAITING"
	BugStatusCantFix       BugStatus = "CANT_FIX"
	BugStatusCantReproduce BugStatus = "CANT_REPRODUCE"
	BugStatusResolved      BugStatus = "RESOLVED"
)

// BugStatuses lists every valid status, in display order.
var BugStatuses = []BugStatus{
	BugStatusOpen,
	BugStatusInProgress,
	BugStatusWaiting,
	BugStatusCantFix,
	BugStatusCantReproduce,
	BugStatusResolved,
}

// Valid reports whether the status is one of the enumerated values.
func (s BugStatus) Valid() bool {
	for _, v := range BugStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Emoji returns the emoji used for the status on the board.
func (s BugStatus) Emoji() string {
	switch s {
	case BugStatusOpen:
		return "\U0001F41B" // Bug
	case BugStatusInProgress:
		return "\U0001F527" // Wrench
	case BugStatusWaiting:
		return "⏳" // Hourglass
	case BugStatusCantFix:
		return "\U0001F6AB" // No entry
	case BugStatusCantReproduce:
		return "\U0001F50D" // Magnifying glass
	case BugStatusResolved:
		return "✅" // Check mark
	default:
		return "❓" // Question mark
	}
}

// BugComment is a single comment on a bug.
type BugComment struct {
	// AuthorID is the ID of the user that wrote the comment.
	AuthorID string `json:"author_id" bson:"author_id"`

	// Text is the comment text.
	Text string `json:"text" bson:"text"`

	// CreatedAt is the time the comment was added.
	CreatedAt custom.Datetime `json:"created_at" bson:"created_at"`
}

// Bug is a tracked defect report. IDs are sequential per guild and never reused; bugs are
// never deleted, only status-transitioned.
type Bug struct {
	// ID is the per-guild sequential number of the bug.
	ID int `json:"id" bson:"id"`

	// GuildID is the ID of the guild that the bug belongs to.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// ReporterID is the ID of the user that reported the bug.
	ReporterID string `json:"reporter_id" bson:"reporter_id"`

	// Title is the bug title.
	Title string `json:"title" bson:"title"`

	// Description is the bug description.
	Description string `json:"description" bson:"description"`

	// Status is the current status of the bug.
	Status BugStatus `json:"status" bson:"status"`

	// SourceChannelID and SourceMessageID reference the message the bug was ingested
	// from, when it came through the input channel. Used to build a permalink.
	SourceChannelID string `json:"source_channel_id" bson:"source_channel_id"`
	SourceMessageID string `json:"source_message_id" bson:"source_message_id"`

	// AssigneeID is the ID of the user the bug is assigned to. Empty when unassigned.
	AssigneeID string `json:"assignee_id" bson:"assignee_id"`

	// LastNote is the most recent free-text note attached by a status change.
	LastNote string `json:"last_note" bson:"last_note"`

	// Comments is the ordered comment list.
	Comments []BugComment `json:"comments" bson:"comments"`

	// CreatedAt is the time the bug was reported.
	CreatedAt custom.Datetime `json:"created_at" bson:"created_at"`

	// UpdatedAt is the time the bug was last mutated.
	UpdatedAt custom.Datetime `json:"updated_at" bson:"updated_at"`
}

// Permalink returns the message link for the source message, or an empty string when the
// bug has no source reference.
func (b *Bug) Permalink() string {
	if b.SourceChannelID == "" || b.SourceMessageID == "" {
		return ""
	}
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", b.GuildID, b.SourceChannelID, b.SourceMessageID)
}
