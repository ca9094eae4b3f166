package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Jacobbrewer1/concord/pkg/dataaccess"
	"github.com/Jacobbrewer1/concord/pkg/logging"
	"github.com/bwmarrin/discordgo"
)

// Discord is the slice of the chat platform the sink needs.
type Discord interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Sink posts event summaries to a guild's configured log channel. Posts are fire and
// forget: failures are logged here and never propagate to the primary action.
type Sink struct {
	// l is the logger.
	l *slog.Logger

	// session is the discord session.
	session Discord

	// guilds is the guild configuration store.
	guilds dataaccess.GuildDal
}

// NewSink creates a new log sink.
func NewSink(l *slog.Logger, session Discord, guilds dataaccess.GuildDal) *Sink {
	return &Sink{
		l:       l.With(slog.String("component", "log_sink")),
		session: session,
		guilds:  guilds,
	}
}

// Post sends an embed to the guild's log channel. It is a no-op when no log channel is
// configured.
func (s *Sink) Post(ctx context.Context, guildID, title, description string) {
	guild, err := s.guilds.GetGuildByID(ctx, guildID)
	if err != nil {
		// An unconfigured guild has no log channel either.
		if errors.Is(err, dataaccess.ErrNotFound) {
			return
		}
		s.l.Warn("Error getting guild for log notice",
			slog.String(logging.KeyGuild, guildID),
			slog.String(logging.KeyError, err.Error()),
		)
		return
	}

	if guild.LogChannelID == "" {
		return
	}

	if _, err := s.session.ChannelMessageSendEmbed(guild.LogChannelID, &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       0x5865F2,
	}); err != nil {
		s.l.Warn("Error posting log notice",
			slog.String(logging.KeyGuild, guildID),
			slog.String(logging.KeyChannel, guild.LogChannelID),
			slog.String(logging.KeyError, err.Error()),
		)
	}
}
