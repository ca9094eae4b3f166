package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/Jacobbrewer1/concord/pkg/dataaccess"
	"github.com/Jacobbrewer1/concord/pkg/entities"
	"github.com/Jacobbrewer1/concord/pkg/logging"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

type fakeDiscord struct {
	embeds    []*discordgo.MessageEmbed
	channelID string
}

func (f *fakeDiscord) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channelID = channelID
	f.embeds = append(f.embeds, embed)
	return &discordgo.Message{ID: "msg-1", ChannelID: channelID}, nil
}

func TestPost(t *testing.T) {
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	session := new(fakeDiscord)
	store := dataaccess.NewInMemoryStore()
	sink := NewSink(l, session, store.Guilds)
	ctx := context.Background()

	// Without a log channel nothing is posted.
	sink.Post(ctx, "guild-1", "Ticket opened", "details")
	require.Empty(t, session.embeds)

	guild := entities.NewGuild("guild-1")
	guild.LogChannelID = "log-chan"
	require.NoError(t, store.Guilds.SaveGuild(ctx, guild))

	sink.Post(ctx, "guild-1", "Ticket opened", "details")
	require.Len(t, session.embeds, 1)
	require.Equal(t, "log-chan", session.channelID)
	require.Equal(t, "Ticket opened", session.embeds[0].Title)
	require.Equal(t, "details", session.embeds[0].Description)
}

func TestPostUnknownGuild(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, nil))

	session := new(fakeDiscord)
	store := dataaccess.NewInMemoryStore()
	sink := NewSink(l, session, store.Guilds)

	// A guild that was never configured is as quiet as one without a log channel.
	sink.Post(context.Background(), "guild-unseen", "Vouch added", "details")
	require.Empty(t, session.embeds)
	require.NotContains(t, buf.String(), "Error getting guild")
}
