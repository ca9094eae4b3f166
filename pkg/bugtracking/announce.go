package bugtracking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/concord/pkg/entities"
	"github.com/Jacobbrewer1/concord/pkg/logging"
)

// AnnounceUpdate posts a one-off notice about a bug change to the updates channel,
// falling back to the board channel, then the input channel. It is a no-op when none is
// configured, and best effort otherwise.
//
// The reporter is mentioned if and only if the bug's status is exactly RESOLVED.
func (t *Tracker) AnnounceUpdate(ctx context.Context, guildID string, bug *entities.Bug, actorID, extra string) {
	guild, err := t.guildSettings(ctx, guildID)
	if err != nil {
		t.l.Warn("Error getting guild for bug announcement",
			slog.String(logging.KeyGuild, guildID),
			slog.String(logging.KeyError, err.Error()),
		)
		return
	}

	channelID := guild.Bugs.UpdatesChannelID
	if channelID == "" {
		channelID = guild.Bugs.BoardChannelID
	}
	if channelID == "" {
		channelID = guild.Bugs.InputChannelID
	}
	if channelID == "" {
		return
	}

	content := fmt.Sprintf("%s Bug **#%d** %s is now `%s` (by <@%s>)",
		bug.Status.Emoji(), bug.ID, Truncate(bug.Title, 60), bug.Status, actorID)
	// Only the resolution notice pings the reporter.
	if bug.Status == entities.BugStatusResolved {
		content = fmt.Sprintf("<@%s>, your report was resolved.\n%s", bug.ReporterID, content)
	}
	if extra != "" {
		content += "\n> " + extra
	}

	if _, err := t.session.ChannelMessageSend(channelID, content); err != nil {
		t.l.Warn("Error posting bug announcement",
			slog.String(logging.KeyGuild, guildID),
			slog.String(logging.KeyChannel, channelID),
			slog.String(logging.KeyError, err.Error()),
		)
	}
}
