package dataaccess

import (
	"context"

	"github.com/Jacobbrewer1/concord/pkg/entities"
)

// GuildDal is the data access layer for guild configuration records.
type GuildDal interface {
	// SaveGuild saves a guild, stamping its updated-at time.
	SaveGuild(ctx context.Context, guild *entities.Guild) error

	// GetGuildByID gets a guild by ID. Returns ErrNotFound when the guild has no record
	// yet.
	GetGuildByID(ctx context.Context, id string) (*entities.Guild, error)
}

// TicketDal is the data access layer for tickets. Tickets are keyed by the channel that
// backs them.
type TicketDal interface {
	// SaveTicket saves a ticket.
	SaveTicket(ctx context.Context, ticket *entities.Ticket) error

	// GetTicketByChannel gets a ticket by its channel ID. Returns ErrNotFound when the
	// channel is not a ticket.
	GetTicketByChannel(ctx context.Context, channelID string) (*entities.Ticket, error)
}

// BugDal is the data access layer for bug reports.
type BugDal interface {
	// SaveBug saves a bug.
	SaveBug(ctx context.Context, bug *entities.Bug) error

	// GetBug gets a bug by guild and ID. Returns ErrNotFound for unknown IDs.
	GetBug(ctx context.Context, guildID string, id int) (*entities.Bug, error)

	// ListBugs lists all bugs for a guild, ascending by ID.
	ListBugs(ctx context.Context, guildID string) ([]*entities.Bug, error)
}

// VouchDal is the data access layer for vouches.
type VouchDal interface {
	// SaveVouch saves a vouch.
	SaveVouch(ctx context.Context, vouch *entities.Vouch) error

	// GetVouch gets a vouch by guild and ID. Returns ErrNotFound for unknown IDs.
	GetVouch(ctx context.Context, guildID string, id int) (*entities.Vouch, error)

	// DeleteVouch deletes a vouch by guild and ID. Returns ErrNotFound for unknown IDs.
	DeleteVouch(ctx context.Context, guildID string, id int) error

	// ListVouches lists all vouches for a guild, ascending by ID.
	ListVouches(ctx context.Context, guildID string) ([]*entities.Vouch, error)
}

// ProgressDal is the data access layer for per-user XP, level and coin records.
type ProgressDal interface {
	// SaveProgress saves a progress record.
	SaveProgress(ctx context.Context, progress *entities.UserProgress) error

	// GetProgress gets the progress record for a user. Returns ErrNotFound when the
	// user has no record yet.
	GetProgress(ctx context.Context, guildID, userID string) (*entities.UserProgress, error)

	// ListProgress lists all progress records for a guild.
	ListProgress(ctx context.Context, guildID string) ([]*entities.UserProgress, error)
}

// Store aggregates the DALs behind a single injection point.
type Store struct {
	Guilds   GuildDal
	Tickets  TicketDal
	Bugs     BugDal
	Vouches  VouchDal
	Progress ProgressDal
}
