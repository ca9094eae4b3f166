package dataaccess

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/concord/pkg/custom"
	"github.com/Jacobbrewer1/concord/pkg/entities"
	"github.com/Jacobbrewer1/concord/pkg/logging"
)

const postgresGuildDalName = "postgres_guild_dal"

// guildSettingsSchema is applied on startup. The table carries the per-guild channel and
// role bindings plus the sequence counters, with automatic updated-at stamping.
const guildSettingsSchema = `
CREATE TABLE IF NOT EXISTS guild_settings (
	guild_id            TEXT PRIMARY KEY,
	log_channel_id      TEXT NOT NULL DEFAULT '',
	staff_role_id       TEXT NOT NULL DEFAULT '',
	ticket_category_id  TEXT NOT NULL DEFAULT '',
	ticket_counter      INT  NOT NULL DEFAULT 0,
	bug_input_channel   TEXT NOT NULL DEFAULT '',
	bug_board_channel   TEXT NOT NULL DEFAULT '',
	bug_updates_channel TEXT NOT NULL DEFAULT '',
	bug_board_message   TEXT NOT NULL DEFAULT '',
	bug_counter         INT  NOT NULL DEFAULT 0,
	vouch_counter       INT  NOT NULL DEFAULT 0,
	panel_channel_id    TEXT NOT NULL DEFAULT '',
	panel_message_id    TEXT NOT NULL DEFAULT '',
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type postgresGuildDal struct {
	// l is the logger.
	l *slog.Logger

	// db is the database.
	db *sql.DB
}

// NewPostgresGuildDal creates a Postgres-backed guild data access layer and ensures the
// settings table exists.
func NewPostgresGuildDal(l *slog.Logger) (GuildDal, error) {
	l = l.With(slog.String(logging.KeyDal, postgresGuildDalName))

	if PostgresDB == nil {
		return nil, fmt.Errorf("postgres connection is not configured")
	}

	if _, err := PostgresDB.Exec(guildSettingsSchema); err != nil {
		return nil, fmt.Errorf("error creating guild_settings table: %w", err)
	}

	return &postgresGuildDal{
		l:  l,
		db: PostgresDB,
	}, nil
}

func (g *postgresGuildDal) SaveGuild(ctx context.Context, guild *entities.Guild) error {
	guild.UpdatedAt = custom.Now()

	_, err := g.db.ExecContext(ctx, `
		INSERT INTO guild_settings (
			guild_id, log_channel_id, staff_role_id, ticket_category_id, ticket_counter,
			bug_input_channel, bug_board_channel, bug_updates_channel, bug_board_message,
			bug_counter, vouch_counter, panel_channel_id, panel_message_id, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (guild_id) DO UPDATE SET
			log_channel_id = EXCLUDED.log_channel_id,
			staff_role_id = EXCLUDED.staff_role_id,
			ticket_category_id = EXCLUDED.ticket_category_id,
			ticket_counter = EXCLUDED.ticket_counter,
			bug_input_channel = EXCLUDED.bug_input_channel,
			bug_board_channel = EXCLUDED.bug_board_channel,
			bug_updates_channel = EXCLUDED.bug_updates_channel,
			bug_board_message = EXCLUDED.bug_board_message,
			bug_counter = EXCLUDED.bug_counter,
			vouch_counter = EXCLUDED.vouch_counter,
			panel_channel_id = EXCLUDED.panel_channel_id,
			panel_message_id = EXCLUDED.panel_message_id,
			updated_at = now()
	`, guild.ID, guild.LogChannelID, guild.Ticketing.StaffRoleID, guild.Ticketing.CategoryID,
		guild.Ticketing.Counter, guild.Bugs.InputChannelID, guild.Bugs.BoardChannelID,
		guild.Bugs.UpdatesChannelID, guild.Bugs.BoardMessageID, guild.Bugs.Counter,
		guild.VouchCounter, guild.PanelChannelID, guild.PanelMessageID, guild.UpdatedAt.Time())
	if err != nil {
		return fmt.Errorf("error saving guild settings: %w", err)
	}
	return nil
}

func (g *postgresGuildDal) GetGuildByID(ctx context.Context, id string) (*entities.Guild, error) {
	guild := new(entities.Guild)
	var updatedAt time.Time

	err := g.db.QueryRowContext(ctx, `
		SELECT guild_id, log_channel_id, staff_role_id, ticket_category_id, ticket_counter,
			bug_input_channel, bug_board_channel, bug_updates_channel, bug_board_message,
			bug_counter, vouch_counter, panel_channel_id, panel_message_id, updated_at
		FROM guild_settings WHERE guild_id = $1
	`, id).Scan(&guild.ID, &guild.LogChannelID, &guild.Ticketing.StaffRoleID,
		&guild.Ticketing.CategoryID, &guild.Ticketing.Counter, &guild.Bugs.InputChannelID,
		&guild.Bugs.BoardChannelID, &guild.Bugs.UpdatesChannelID, &guild.Bugs.BoardMessageID,
		&guild.Bugs.Counter, &guild.VouchCounter, &guild.PanelChannelID, &guild.PanelMessageID,
		&updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting guild settings: %w", err)
	}

	guild.UpdatedAt = custom.Datetime(updatedAt)
	return guild, nil
}
