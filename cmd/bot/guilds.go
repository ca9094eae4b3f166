package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Jacobbrewer1/concord/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/concord/pkg/bugtracking"
	"github.com/Jacobbrewer1/concord/pkg/logging"
	"github.com/bwmarrin/discordgo"
)

func guildJoinedHandler(a IApp) func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(_ *discordgo.Session, g *discordgo.GuildCreate) {
		a.Log().Info("Joined guild",
			slog.String(logging.KeyGuild, g.ID),
			slog.String("name", g.Name),
		)
		monitoring.TotalDiscordGuilds.Inc()
	}
}

func guildLeaveHandler(a IApp) func(s *discordgo.Session, g *discordgo.GuildDelete) {
	return func(_ *discordgo.Session, g *discordgo.GuildDelete) {
		if g.Unavailable {
			// Outage, not a removal.
			return
		}
		a.Log().Info("Left guild", slog.String(logging.KeyGuild, g.ID))
		monitoring.TotalDiscordGuilds.Dec()
	}
}

// messageCreateHandler feeds guild messages into the XP system and, for the configured
// bug input channel, into the bug tracker.
func messageCreateHandler(a IApp) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot || m.GuildID == "" {
			return
		}

		ctx := context.Background()

		guild, err := guildSettings(a, ctx, m.GuildID)
		if err != nil {
			a.Log().Error("Error getting guild settings",
				slog.String(logging.KeyGuild, m.GuildID),
				slog.String(logging.KeyError, err.Error()))
			return
		}

		if guild.Bugs.InputChannelID != "" && m.ChannelID == guild.Bugs.InputChannelID {
			ingestBugReport(a, ctx, m)
			return
		}

		grantMessageXP(a, ctx, m)
	}
}

func grantMessageXP(a IApp, ctx context.Context, m *discordgo.MessageCreate) {
	res, err := a.Economy().GrantMessageXP(ctx, m.GuildID, m.Author.ID)
	if err != nil {
		a.Log().Error("Error granting message XP",
			slog.String(logging.KeyGuild, m.GuildID),
			slog.String(logging.KeyUser, m.Author.ID),
			slog.String(logging.KeyError, err.Error()))
		return
	}
	if res.LevelsGained == 0 {
		return
	}

	content := fmt.Sprintf("Congratulations %s, you reached level %d!", m.Author.Mention(), res.Progress.Level)
	if _, err := a.Session().ChannelMessageSend(m.ChannelID, content); err != nil {
		a.Log().Error("Error sending level up message",
			slog.String(logging.KeyChannel, m.ChannelID),
			slog.String(logging.KeyError, err.Error()))
	}
}

// ingestBugReport turns a message in the bug input channel into a tracked bug. The first
// line becomes the title, the rest the description; an empty body (no message content
// intent) is still tracked with placeholder text.
func ingestBugReport(a IApp, ctx context.Context, m *discordgo.MessageCreate) {
	title, description := splitBugReport(m.Content)

	bug, err := a.Bugs().CreateBug(ctx, m.GuildID, m.Author.ID, title, description, &bugtracking.SourceRef{
		ChannelID: m.ChannelID,
		MessageID: m.ID,
	})
	if err != nil {
		a.Log().Error("Error creating bug from message",
			slog.String(logging.KeyGuild, m.GuildID),
			slog.String(logging.KeyChannel, m.ChannelID),
			slog.String(logging.KeyError, err.Error()))
		return
	}

	// Acknowledge the report on the source message.
	if err := a.Session().MessageReactionAdd(m.ChannelID, m.ID, "✅"); err != nil {
		a.Log().Error("Error reacting to bug report",
			slog.String(logging.KeyChannel, m.ChannelID),
			slog.String(logging.KeyError, err.Error()))
	}

	reply := fmt.Sprintf("Tracked as bug **#%d**. Staff will take a look.", bug.ID)
	if _, err := a.Session().ChannelMessageSendReply(m.ChannelID, reply, m.Reference()); err != nil {
		a.Log().Error("Error replying to bug report",
			slog.String(logging.KeyChannel, m.ChannelID),
			slog.String(logging.KeyError, err.Error()))
	}

	if err := a.Bugs().RefreshBoard(ctx, m.GuildID); err != nil {
		a.Log().Error("Error refreshing bug board",
			slog.String(logging.KeyGuild, m.GuildID),
			slog.String(logging.KeyError, err.Error()))
	}
}

// splitBugReport derives a title and description from a raw report message.
func splitBugReport(content string) (title, description string) {
	content = strings.TrimSpace(content)
	if content == "" {
		// The message content intent is privileged; without it the gateway strips the body.
		return "Untitled report", "No description captured."
	}

	line, rest, found := strings.Cut(content, "\n")
	title = bugtracking.Truncate(strings.TrimSpace(line), bugtracking.MaxTitleLen)
	if found {
		description = bugtracking.Truncate(strings.TrimSpace(rest), bugtracking.MaxDescriptionLen)
	}
	if description == "" {
		description = bugtracking.Truncate(content, bugtracking.MaxDescriptionLen)
	}
	return title, description
}
