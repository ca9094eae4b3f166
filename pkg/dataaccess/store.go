package dataaccess

import (
	"fmt"
	"log/slog"
)

// NewMongoStore builds the full DAL set on top of the Mongo client.
func NewMongoStore(l *slog.Logger) *Store {
	return &Store{
		Guilds:   NewGuildDal(l),
		Tickets:  NewTicketDal(l),
		Bugs:     NewBugDal(l),
		Vouches:  NewVouchDal(l),
		Progress: NewProgressDal(l),
	}
}

// NewInMemoryStore builds the full DAL set on process-local maps. State does not survive
// a restart.
func NewInMemoryStore() *Store {
	return &Store{
		Guilds:   NewInMemoryGuildDal(),
		Tickets:  NewInMemoryTicketDal(),
		Bugs:     NewInMemoryBugDal(),
		Vouches:  NewInMemoryVouchDal(),
		Progress: NewInMemoryProgressDal(),
	}
}

// NewPostgresSettingsStore builds a store that keeps guild settings in Postgres and the
// remaining collections in memory.
func NewPostgresSettingsStore(l *slog.Logger) (*Store, error) {
	guilds, err := NewPostgresGuildDal(l)
	if err != nil {
		return nil, fmt.Errorf("error creating postgres guild dal: %w", err)
	}

	return &Store{
		Guilds:   guilds,
		Tickets:  NewInMemoryTicketDal(),
		Bugs:     NewInMemoryBugDal(),
		Vouches:  NewInMemoryVouchDal(),
		Progress: NewInMemoryProgressDal(),
	}, nil
}
