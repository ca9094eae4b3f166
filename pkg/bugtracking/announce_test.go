package bugtracking

import (
	"context"
	"testing"

	"github.com/Jacobbrewer1/concord/pkg/entities"
	"github.com/stretchr/testify/require"
)

func TestAnnounceUpdate_OnlyResolutionMentionsReporter(t *testing.T) {
	tests := []struct {
		name        string
		status      entities.BugStatus
		wantMention bool
	}{
		{name: "resolved mentions reporter", status: entities.BugStatusResolved, wantMention: true},
		{name: "in progress does not", status: entities.BugStatusInProgress, wantMention: false},
		{name: "cant fix does not", status: entities.BugStatusCantFix, wantMention: false},
		{name: "reopened does not", status: entities.BugStatusOpen, wantMention: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, session, store := newTestTracker(t)
			ctx := context.Background()

			guild := entities.NewGuild(testGuildID)
			guild.Bugs.UpdatesChannelID = "updates-chan"
			require.NoError(t, store.Guilds.SaveGuild(ctx, guild))

			bug := &entities.Bug{ID: 1, GuildID: testGuildID, ReporterID: "reporter-1", Title: "title", Status: tt.status}
			tracker.AnnounceUpdate(ctx, testGuildID, bug, "actor-1", "")

			require.Len(t, session.sent, 1)
			content := session.sent[0].content
			require.Contains(t, content, "Bug **#1**")
			require.Contains(t, content, "<@actor-1>")
			if tt.wantMention {
				require.Contains(t, content, "<@reporter-1>, your report was resolved.")
			} else {
				require.NotContains(t, content, "<@reporter-1>")
			}
		})
	}
}

func TestAnnounceUpdate_ChannelPriority(t *testing.T) {
	tests := []struct {
		name        string
		updates     string
		board       string
		input       string
		wantChannel string
	}{
		{name: "updates wins", updates: "u", board: "b", input: "i", wantChannel: "u"},
		{name: "board next", board: "b", input: "i", wantChannel: "b"},
		{name: "input last", input: "i", wantChannel: "i"},
		{name: "nowhere to post", wantChannel: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, session, store := newTestTracker(t)
			ctx := context.Background()

			guild := entities.NewGuild(testGuildID)
			guild.Bugs.UpdatesChannelID = tt.updates
			guild.Bugs.BoardChannelID = tt.board
			guild.Bugs.InputChannelID = tt.input
			require.NoError(t, store.Guilds.SaveGuild(ctx, guild))

			bug := &entities.Bug{ID: 1, GuildID: testGuildID, ReporterID: "reporter-1", Title: "title", Status: entities.BugStatusWaiting}
			tracker.AnnounceUpdate(ctx, testGuildID, bug, "actor-1", "waiting on logs")

			if tt.wantChannel == "" {
				require.Empty(t, session.sent)
				return
			}
			require.Len(t, session.sent, 1)
			require.Equal(t, tt.wantChannel, session.sent[0].channelID)
			require.Contains(t, session.sent[0].content, "> waiting on logs")
		})
	}
}
