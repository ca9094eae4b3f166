package bugtracking

import (
	"context"
	"strings"
	"testing"

	"github.com/Jacobbrewer1/concord/pkg/entities"
	"github.com/stretchr/testify/require"
)

func TestRenderBoard_Empty(t *testing.T) {
	got := RenderBoard(nil)
	require.Contains(t, got, "Open: **0** | Resolved: **0** | Total: **0**")
	require.Contains(t, got, "No bugs reported yet.")
}

func TestRenderBoard_Deterministic(t *testing.T) {
	bugs := []*entities.Bug{
		{ID: 1, GuildID: testGuildID, Title: "first", Status: entities.BugStatusOpen},
		{ID: 2, GuildID: testGuildID, Title: "second", Status: entities.BugStatusResolved},
	}
	require.Equal(t, RenderBoard(bugs), RenderBoard(bugs))
}

func TestRenderBoard_CountsAndOrder(t *testing.T) {
	bugs := []*entities.Bug{
		{ID: 1, GuildID: testGuildID, Title: "oldest", Status: entities.BugStatusOpen},
		{ID: 2, GuildID: testGuildID, Title: "resolved one", Status: entities.BugStatusResolved},
		{ID: 3, GuildID: testGuildID, Title: "newest", Status: entities.BugStatusInProgress, AssigneeID: "staff-1"},
	}

	got := RenderBoard(bugs)
	require.Contains(t, got, "Open: **2** | Resolved: **1** | Total: **3**")

	// Most recent first.
	require.Less(t, strings.Index(got, "#3"), strings.Index(got, "#2"))
	require.Less(t, strings.Index(got, "#2"), strings.Index(got, "#1"))

	require.Contains(t, got, "assigned to <@staff-1>")
	require.Contains(t, got, "no source")
}

func TestRenderBoard_CapsAtBoardSize(t *testing.T) {
	bugs := make([]*entities.Bug, 0, boardSize+5)
	for id := 1; id <= boardSize+5; id++ {
		bugs = append(bugs, &entities.Bug{ID: id, GuildID: testGuildID, Title: "bug", Status: entities.BugStatusOpen})
	}

	got := RenderBoard(bugs)
	require.Contains(t, got, "Total: **25**")
	require.NotContains(t, got, "**#5**")
	require.Contains(t, got, "**#6**")
}

func TestRefreshBoard_NoChannelConfigured(t *testing.T) {
	tracker, session, _ := newTestTracker(t)

	require.NoError(t, tracker.RefreshBoard(context.Background(), testGuildID))
	require.Empty(t, session.sent)
	require.Empty(t, session.sentComplex)
}

func TestRefreshBoard_PostsThenEditsInPlace(t *testing.T) {
	tracker, session, store := newTestTracker(t)
	ctx := context.Background()

	guild := entities.NewGuild(testGuildID)
	guild.Bugs.BoardChannelID = "board-chan"
	require.NoError(t, store.Guilds.SaveGuild(ctx, guild))

	_, err := tracker.CreateBug(ctx, testGuildID, "reporter", "title", "desc", nil)
	require.NoError(t, err)

	// First refresh posts the board and persists the message reference.
	require.NoError(t, tracker.RefreshBoard(ctx, testGuildID))
	require.Len(t, session.sentComplex, 1)
	require.Equal(t, "board-chan", session.sentComplex[0].channelID)

	guild, err = store.Guilds.GetGuildByID(ctx, testGuildID)
	require.NoError(t, err)
	require.NotEmpty(t, guild.Bugs.BoardMessageID)
	firstID := guild.Bugs.BoardMessageID

	// Second refresh edits in place: no new post, same message reference.
	require.NoError(t, tracker.RefreshBoard(ctx, testGuildID))
	require.Len(t, session.sentComplex, 1)
	require.Len(t, session.edits, 1)
	require.Equal(t, firstID, session.edits[0].ID)

	guild, err = store.Guilds.GetGuildByID(ctx, testGuildID)
	require.NoError(t, err)
	require.Equal(t, firstID, guild.Bugs.BoardMessageID)
}

func TestRefreshBoard_RepostsWhenMessageGone(t *testing.T) {
	tracker, session, store := newTestTracker(t)
	ctx := context.Background()

	guild := entities.NewGuild(testGuildID)
	guild.Bugs.BoardChannelID = "board-chan"
	guild.Bugs.BoardMessageID = "deleted-by-hand"
	require.NoError(t, store.Guilds.SaveGuild(ctx, guild))

	require.NoError(t, tracker.RefreshBoard(ctx, testGuildID))
	require.Len(t, session.sentComplex, 1)
	require.Empty(t, session.edits)

	guild, err := store.Guilds.GetGuildByID(ctx, testGuildID)
	require.NoError(t, err)
	require.NotEqual(t, "deleted-by-hand", guild.Bugs.BoardMessageID)
	require.NotEmpty(t, guild.Bugs.BoardMessageID)
}
