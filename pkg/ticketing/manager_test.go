package ticketing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Jacobbrewer1/concord/pkg/dataaccess"
	"github.com/Jacobbrewer1/concord/pkg/entities"
	"github.com/Jacobbrewer1/concord/pkg/logging"
	"github.com/Jacobbrewer1/concord/pkg/notify"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

const testGuildID = "guild-1"

var testBotUser = &discordgo.User{ID: "bot-1", Username: "concord"}

// fakeDiscord is an in-memory Discord implementation recording every call. It also
// satisfies the log sink's interface so one fake can back a whole manager.
type fakeDiscord struct {
	channels map[string]*discordgo.Channel
	nextID   int

	// createErr makes channel creation fail.
	createErr error

	created  []discordgo.GuildChannelCreateData
	deleted  []string
	permSets []permChange
	permDels []permChange
	sent     []fakeSent
	embeds   []string

	// history serves ChannelMessages pages, newest first.
	history []*discordgo.Message

	// members backs GuildMember; unknown IDs resolve to an unprivileged member.
	members map[string]*discordgo.Member
}

type permChange struct {
	channelID string
	targetID  string
}

type fakeSent struct {
	channelID string
	content   string
}

func newFakeDiscord() *fakeDiscord {
	return &fakeDiscord{
		channels: make(map[string]*discordgo.Channel),
		members:  make(map[string]*discordgo.Member),
	}
}

func (f *fakeDiscord) Channel(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	ch, ok := f.channels[channelID]
	if !ok {
		return nil, fmt.Errorf("unknown channel %s", channelID)
	}
	return ch, nil
}

func (f *fakeDiscord) GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, data)
	f.nextID++
	ch := &discordgo.Channel{
		ID:      fmt.Sprintf("chan-%d", f.nextID),
		GuildID: guildID,
		Name:    data.Name,
		Type:    data.Type,
	}
	f.channels[ch.ID] = ch
	return ch, nil
}

func (f *fakeDiscord) ChannelDelete(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.deleted = append(f.deleted, channelID)
	ch := f.channels[channelID]
	delete(f.channels, channelID)
	return ch, nil
}

func (f *fakeDiscord) ChannelPermissionSet(channelID, targetID string, _ discordgo.PermissionOverwriteType, _, _ int64, _ ...discordgo.RequestOption) error {
	f.permSets = append(f.permSets, permChange{channelID: channelID, targetID: targetID})
	return nil
}

func (f *fakeDiscord) ChannelPermissionDelete(channelID, targetID string, _ ...discordgo.RequestOption) error {
	f.permDels = append(f.permDels, permChange{channelID: channelID, targetID: targetID})
	return nil
}

func (f *fakeDiscord) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.sent = append(f.sent, fakeSent{channelID: channelID, content: content})
	return &discordgo.Message{ID: "msg-1", ChannelID: channelID}, nil
}

func (f *fakeDiscord) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.sent = append(f.sent, fakeSent{channelID: channelID, content: data.Content})
	return &discordgo.Message{ID: "msg-1", ChannelID: channelID}, nil
}

func (f *fakeDiscord) ChannelMessages(channelID string, limit int, beforeID, _, _ string, _ ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	start := 0
	if beforeID != "" {
		for idx, msg := range f.history {
			if msg.ID == beforeID {
				start = idx + 1
				break
			}
		}
	}

	end := start + limit
	if end > len(f.history) {
		end = len(f.history)
	}
	if start >= len(f.history) {
		return nil, nil
	}
	return f.history[start:end], nil
}

func (f *fakeDiscord) GuildMember(guildID, userID string, _ ...discordgo.RequestOption) (*discordgo.Member, error) {
	if member, ok := f.members[userID]; ok {
		return member, nil
	}
	return &discordgo.Member{User: &discordgo.User{ID: userID}}, nil
}

func (f *fakeDiscord) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.embeds = append(f.embeds, embed.Title)
	return &discordgo.Message{ID: "msg-1", ChannelID: channelID}, nil
}

func newTestManager(t *testing.T) (*Manager, *fakeDiscord, *dataaccess.Store) {
	t.Helper()

	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	session := newFakeDiscord()
	store := dataaccess.NewInMemoryStore()
	sink := notify.NewSink(l, session, store.Guilds)
	m := NewManager(l, session, store.Guilds, store.Tickets, sink, func() *discordgo.User { return testBotUser })
	m.deleteDelay = time.Millisecond
	return m, session, store
}

func TestCreateTicket(t *testing.T) {
	m, session, store := newTestManager(t)
	ctx := context.Background()

	ticket, err := m.CreateTicket(ctx, testGuildID, "owner-1", "cannot log in")
	require.NoError(t, err)
	require.Equal(t, 1, ticket.ID)
	require.Equal(t, "ticket-0001", ticket.Name())
	require.Equal(t, entities.TicketStatusOpen, ticket.Status)
	require.NotEmpty(t, ticket.ChannelID)

	// Category plus the ticket channel itself.
	require.Len(t, session.created, 2)
	require.Equal(t, discordgo.ChannelTypeGuildCategory, session.created[0].Type)

	channel := session.created[1]
	require.Equal(t, "ticket-0001", channel.Name)
	require.Len(t, channel.PermissionOverwrites, 3)
	require.Equal(t, testGuildID, channel.PermissionOverwrites[0].ID)
	require.Equal(t, int64(discordgo.PermissionViewChannel), channel.PermissionOverwrites[0].Deny)
	require.Equal(t, "owner-1", channel.PermissionOverwrites[1].ID)
	require.Equal(t, testBotUser.ID, channel.PermissionOverwrites[2].ID)

	// Welcome message lands in the new channel.
	require.NotEmpty(t, session.sent)
	require.Equal(t, ticket.ChannelID, session.sent[0].channelID)

	saved, err := store.Tickets.GetTicketByChannel(ctx, ticket.ChannelID)
	require.NoError(t, err)
	require.Equal(t, ticket.ID, saved.ID)
}

func TestCreateTicket_StaffRoleOverwrite(t *testing.T) {
	m, session, store := newTestManager(t)
	ctx := context.Background()

	guild := entities.NewGuild(testGuildID)
	guild.Ticketing.StaffRoleID = "staff-role"
	require.NoError(t, store.Guilds.SaveGuild(ctx, guild))

	_, err := m.CreateTicket(ctx, testGuildID, "owner-1", "")
	require.NoError(t, err)

	channel := session.created[len(session.created)-1]
	require.Len(t, channel.PermissionOverwrites, 4)
	require.Equal(t, "staff-role", channel.PermissionOverwrites[3].ID)
	require.Equal(t, discordgo.PermissionOverwriteTypeRole, channel.PermissionOverwrites[3].Type)
}

func TestCreateTicket_NoBotUser(t *testing.T) {
	m, _, _ := newTestManager(t)
	m.botUser = func() *discordgo.User { return nil }

	_, err := m.CreateTicket(context.Background(), testGuildID, "owner-1", "")
	require.ErrorIs(t, err, ErrNoBotUser)
}

func TestCreateTicket_CounterNeverReused(t *testing.T) {
	m, session, _ := newTestManager(t)
	ctx := context.Background()

	// Pre-create the category so the forced failure only hits the ticket channel.
	first, err := m.CreateTicket(ctx, testGuildID, "owner-1", "")
	require.NoError(t, err)
	require.Equal(t, 1, first.ID)

	session.createErr = errors.New("discord is down")
	_, err = m.CreateTicket(ctx, testGuildID, "owner-2", "")
	require.Error(t, err)

	// The failed attempt consumed number 2.
	session.createErr = nil
	third, err := m.CreateTicket(ctx, testGuildID, "owner-3", "")
	require.NoError(t, err)
	require.Equal(t, 3, third.ID)
}

func TestCloseTicket(t *testing.T) {
	m, session, _ := newTestManager(t)
	ctx := context.Background()

	ticket, err := m.CreateTicket(ctx, testGuildID, "owner-1", "")
	require.NoError(t, err)

	closed, err := m.CloseTicket(ctx, testGuildID, ticket.ChannelID, "staff-1")
	require.NoError(t, err)
	require.Equal(t, entities.TicketStatusClosed, closed.Status)
	require.Equal(t, "staff-1", closed.ClosedBy)
	require.False(t, closed.ClosedAt.IsZero())

	// The channel deletion is scheduled; the test manager uses a short delay.
	require.Eventually(t, func() bool {
		return len(session.deleted) == 1 && session.deleted[0] == ticket.ChannelID
	}, time.Second, 5*time.Millisecond)

	_, err = m.CloseTicket(ctx, testGuildID, ticket.ChannelID, "staff-1")
	require.ErrorIs(t, err, ErrAlreadyClosed)
}

func TestCloseTicket_NotATicket(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.CloseTicket(ctx, testGuildID, "random-channel", "staff-1")
	require.ErrorIs(t, err, ErrNotATicket)

	// A ticket from another guild is not reachable either.
	ticket, err := m.CreateTicket(ctx, "other-guild", "owner-1", "")
	require.NoError(t, err)
	_, err = m.CloseTicket(ctx, testGuildID, ticket.ChannelID, "staff-1")
	require.ErrorIs(t, err, ErrNotATicket)
}

func TestAddRemoveUser(t *testing.T) {
	m, session, _ := newTestManager(t)
	ctx := context.Background()

	ticket, err := m.CreateTicket(ctx, testGuildID, "owner-1", "")
	require.NoError(t, err)

	got, err := m.AddUser(ctx, testGuildID, ticket.ChannelID, "friend-1")
	require.NoError(t, err)
	require.True(t, got.HasAddedUser("friend-1"))
	require.Len(t, session.permSets, 1)
	require.Equal(t, "friend-1", session.permSets[0].targetID)

	// Adding again does not duplicate.
	got, err = m.AddUser(ctx, testGuildID, ticket.ChannelID, "friend-1")
	require.NoError(t, err)
	require.Len(t, got.AddedUsers, 1)

	got, err = m.RemoveUser(ctx, testGuildID, ticket.ChannelID, "friend-1")
	require.NoError(t, err)
	require.False(t, got.HasAddedUser("friend-1"))
	require.Len(t, session.permDels, 1)
}

func TestAssignUnassign(t *testing.T) {
	m, session, _ := newTestManager(t)
	ctx := context.Background()

	session.members["staff-1"] = &discordgo.Member{
		User:        &discordgo.User{ID: "staff-1"},
		Permissions: discordgo.PermissionManageServer,
	}

	ticket, err := m.CreateTicket(ctx, testGuildID, "owner-1", "")
	require.NoError(t, err)

	got, err := m.Assign(ctx, testGuildID, ticket.ChannelID, "staff-1")
	require.NoError(t, err)
	require.True(t, got.IsAssigned("staff-1"))

	// Claiming twice keeps a single entry.
	got, err = m.Assign(ctx, testGuildID, ticket.ChannelID, "staff-1")
	require.NoError(t, err)
	require.Len(t, got.AssignedStaff, 1)

	got, err = m.Unassign(ctx, testGuildID, ticket.ChannelID, "staff-1")
	require.NoError(t, err)
	require.False(t, got.IsAssigned("staff-1"))
}

func TestAssignValidatesTarget(t *testing.T) {
	m, session, store := newTestManager(t)
	ctx := context.Background()

	guild := entities.NewGuild(testGuildID)
	guild.Ticketing.StaffRoleID = "staff-role"
	require.NoError(t, store.Guilds.SaveGuild(ctx, guild))

	session.members["staff-1"] = &discordgo.Member{
		User:  &discordgo.User{ID: "staff-1"},
		Roles: []string{"staff-role"},
	}

	ticket, err := m.CreateTicket(ctx, testGuildID, "owner-1", "")
	require.NoError(t, err)
	permSets := len(session.permSets)

	// A member without the staff role or manage-server is rejected before any grant.
	_, err = m.Assign(ctx, testGuildID, ticket.ChannelID, "random-user")
	require.ErrorIs(t, err, ErrTargetNotStaff)
	require.Len(t, session.permSets, permSets)

	saved, err := m.GetTicket(ctx, testGuildID, ticket.ChannelID)
	require.NoError(t, err)
	require.False(t, saved.IsAssigned("random-user"))

	// The role holder goes through.
	got, err := m.Assign(ctx, testGuildID, ticket.ChannelID, "staff-1")
	require.NoError(t, err)
	require.True(t, got.IsAssigned("staff-1"))
	require.Len(t, session.permSets, permSets+1)
}

func TestMemberIsStaff(t *testing.T) {
	guild := entities.NewGuild(testGuildID)
	guild.Ticketing.StaffRoleID = "staff-role"

	tests := []struct {
		name   string
		member *discordgo.Member
		want   bool
	}{
		{name: "nil member", member: nil, want: false},
		{name: "plain member", member: &discordgo.Member{}, want: false},
		{name: "staff role", member: &discordgo.Member{Roles: []string{"staff-role"}}, want: true},
		{name: "manage server", member: &discordgo.Member{Permissions: discordgo.PermissionManageServer}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, MemberIsStaff(tt.member, guild))
		})
	}

	// Without a configured role only manage-server counts.
	guild.Ticketing.StaffRoleID = ""
	require.False(t, MemberIsStaff(&discordgo.Member{Roles: []string{"staff-role"}}, guild))
}

func TestCanManageTicket(t *testing.T) {
	guild := entities.NewGuild(testGuildID)
	ticket := &entities.Ticket{OwnerID: "owner-1", AssignedStaff: []string{"staff-1"}}

	tests := []struct {
		name   string
		member *discordgo.Member
		want   bool
	}{
		{name: "owner", member: &discordgo.Member{User: &discordgo.User{ID: "owner-1"}}, want: true},
		{name: "assigned staff", member: &discordgo.Member{User: &discordgo.User{ID: "staff-1"}}, want: true},
		{name: "manage server", member: &discordgo.Member{User: &discordgo.User{ID: "admin-1"}, Permissions: discordgo.PermissionManageServer}, want: true},
		{name: "bystander", member: &discordgo.Member{User: &discordgo.User{ID: "rando-1"}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CanManageTicket(tt.member, guild, ticket))
		})
	}
}
