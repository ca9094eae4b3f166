package ticketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/concord/pkg/custom"
	"github.com/Jacobbrewer1/concord/pkg/dataaccess"
	"github.com/Jacobbrewer1/concord/pkg/entities"
	"github.com/Jacobbrewer1/concord/pkg/logging"
	"github.com/Jacobbrewer1/concord/pkg/notify"
	"github.com/bwmarrin/discordgo"
)

// DeleteDelay is how long a closed ticket channel lingers before deletion. The timer is
// fire and forget; a restart inside the window leaves the channel behind.
const DeleteDelay = 10 * time.Second

var (
	// ErrNotATicket is returned when the channel has no ticket record, or the record
	// belongs to a different guild.
	ErrNotATicket = errors.New("channel is not a ticket")

	// ErrAlreadyClosed is returned when the ticket is already closed.
	ErrAlreadyClosed = errors.New("ticket is already closed")

	// ErrNoBotUser is returned when the bot's own identity cannot be resolved; without
	// it the permission overwrites cannot be constructed.
	ErrNoBotUser = errors.New("bot user is not resolvable")

	// ErrTargetNotStaff is returned when the member being assigned does not qualify
	// as staff for the guild.
	ErrTargetNotStaff = errors.New("target member is not staff")
)

// Discord is the slice of the chat platform the ticket manager needs. *discordgo.Session
// satisfies it.
type Discord interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelPermissionSet(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64, options ...discordgo.RequestOption) error
	ChannelPermissionDelete(channelID, targetID string, options ...discordgo.RequestOption) error
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
}

// Manager owns the ticket lifecycle: channel creation with access-control overwrites,
// the staff workflow, and closure with delayed channel deletion.
type Manager struct {
	// l is the logger.
	l *slog.Logger

	// session is the discord session.
	session Discord

	// guilds and tickets are the backing stores.
	guilds  dataaccess.GuildDal
	tickets dataaccess.TicketDal

	// sink receives event notices.
	sink *notify.Sink

	// botUser resolves the bot's own user. Resolvable only after login.
	botUser func() *discordgo.User

	// deleteDelay is how long closed channels linger. Overridable in tests.
	deleteDelay time.Duration
}

// NewManager creates a new ticket manager.
func NewManager(l *slog.Logger, session Discord, guilds dataaccess.GuildDal, tickets dataaccess.TicketDal, sink *notify.Sink, botUser func() *discordgo.User) *Manager {
	return &Manager{
		l:           l.With(slog.String("component", "ticketing")),
		session:     session,
		guilds:      guilds,
		tickets:     tickets,
		sink:        sink,
		botUser:     botUser,
		deleteDelay: DeleteDelay,
	}
}

// guildSettings loads the guild record, creating it with defaults on first access.
func (m *Manager) guildSettings(ctx context.Context, guildID string) (*entities.Guild, error) {
	guild, err := m.guilds.GetGuildByID(ctx, guildID)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return entities.NewGuild(guildID), nil
		}
		return nil, fmt.Errorf("error getting guild: %w", err)
	}
	return guild, nil
}

// ensureCategory resolves the ticket category, creating it when missing. A failure here
// is non-fatal; the ticket is created without a parent category.
func (m *Manager) ensureCategory(ctx context.Context, guild *entities.Guild) string {
	if guild.Ticketing.CategoryID != "" {
		if _, err := m.session.Channel(guild.Ticketing.CategoryID); err == nil {
			return guild.Ticketing.CategoryID
		}
	}

	category, err := m.session.GuildChannelCreateComplex(guild.ID, discordgo.GuildChannelCreateData{
		Name: "Tickets",
		Type: discordgo.ChannelTypeGuildCategory,
	})
	if err != nil {
		m.l.Warn("Error creating ticket category, proceeding without one",
			slog.String(logging.KeyGuild, guild.ID),
			slog.String(logging.KeyError, err.Error()),
		)
		return ""
	}

	guild.Ticketing.CategoryID = category.ID
	if err := m.guilds.SaveGuild(ctx, guild); err != nil {
		m.l.Warn("Error saving guild after category creation",
			slog.String(logging.KeyGuild, guild.ID),
			slog.String(logging.KeyError, err.Error()),
		)
	}
	return category.ID
}

// CreateTicket opens a new ticket for the owner: allocates the next ticket number,
// creates the private channel with its permission overwrites, persists the record and
// posts the welcome embed.
//
// The ticket counter is consumed before the channel create call, so numbers are never
// reused even when creation fails afterwards.
func (m *Manager) CreateTicket(ctx context.Context, guildID, ownerID, reason string) (*entities.Ticket, error) {
	bot := m.botUser()
	if bot == nil {
		return nil, ErrNoBotUser
	}

	guild, err := m.guildSettings(ctx, guildID)
	if err != nil {
		return nil, err
	}

	categoryID := m.ensureCategory(ctx, guild)

	// Allocate the ticket number.
	guild.Ticketing.Counter++
	if err := m.guilds.SaveGuild(ctx, guild); err != nil {
		return nil, fmt.Errorf("error saving guild counter: %w", err)
	}

	ticket := &entities.Ticket{
		ID:        guild.Ticketing.Counter,
		GuildID:   guildID,
		OwnerID:   ownerID,
		Status:    entities.TicketStatusOpen,
		CreatedAt: custom.Now(),
	}

	overwrites := []*discordgo.PermissionOverwrite{
		// Deny @everyone from seeing the ticket.
		{
			ID:   guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		// The owner of the ticket can see and use the ticket.
		{
			ID:    ownerID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: memberTicketPermissions,
		},
		// The bot manages the channel.
		{
			ID:    bot.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: botTicketPermissions,
		},
	}
	if guild.Ticketing.StaffRoleID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    guild.Ticketing.StaffRoleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: memberTicketPermissions,
		})
	}

	channel, err := m.session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:                 ticket.Name(),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("Support ticket for <@%s>", ownerID),
		PermissionOverwrites: overwrites,
		ParentID:             categoryID,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating ticket channel: %w", err)
	}

	ticket.ChannelID = channel.ID
	if err := m.tickets.SaveTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("error saving ticket: %w", err)
	}

	// Welcome message is best effort; the ticket stands even if it fails.
	if _, err := m.session.ChannelMessageSendComplex(channel.ID, welcomeMessage(ticket, guild, reason)); err != nil {
		m.l.Warn("Error sending ticket welcome message",
			slog.String(logging.KeyChannel, channel.ID),
			slog.String(logging.KeyError, err.Error()),
		)
	}

	m.sink.Post(ctx, guildID, "Ticket opened",
		fmt.Sprintf("%s opened by <@%s> in <#%s>", ticket.Name(), ownerID, channel.ID))

	return ticket, nil
}

// CloseTicket closes the ticket backing the channel and schedules the channel deletion.
func (m *Manager) CloseTicket(ctx context.Context, guildID, channelID, closedBy string) (*entities.Ticket, error) {
	ticket, err := m.tickets.GetTicketByChannel(ctx, channelID)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return nil, ErrNotATicket
		}
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}

	if ticket.GuildID != guildID {
		return nil, ErrNotATicket
	}
	if ticket.Status == entities.TicketStatusClosed {
		return nil, ErrAlreadyClosed
	}

	ticket.Status = entities.TicketStatusClosed
	ticket.ClosedAt = custom.Now()
	ticket.ClosedBy = closedBy
	if err := m.tickets.SaveTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("error saving ticket: %w", err)
	}

	if _, err := m.session.ChannelMessageSend(channelID,
		fmt.Sprintf("Ticket closed by <@%s>. This channel will be deleted in %d seconds.", closedBy, int(m.deleteDelay.Seconds()))); err != nil {
		m.l.Warn("Error sending closing notice",
			slog.String(logging.KeyChannel, channelID),
			slog.String(logging.KeyError, err.Error()),
		)
	}

	m.sink.Post(ctx, guildID, "Ticket closed",
		fmt.Sprintf("%s closed by <@%s>", ticket.Name(), closedBy))

	// Fire and forget; the deletion is not persisted and cannot be cancelled.
	time.AfterFunc(m.deleteDelay, func() {
		if _, err := m.session.ChannelDelete(channelID); err != nil {
			m.l.Warn("Error deleting closed ticket channel",
				slog.String(logging.KeyChannel, channelID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	})

	return ticket, nil
}

// ticketForChannel loads the ticket record for a channel within a guild.
func (m *Manager) ticketForChannel(ctx context.Context, guildID, channelID string) (*entities.Ticket, error) {
	ticket, err := m.tickets.GetTicketByChannel(ctx, channelID)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return nil, ErrNotATicket
		}
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}
	if ticket.GuildID != guildID {
		return nil, ErrNotATicket
	}
	return ticket, nil
}

// GetTicket returns the ticket backing the channel.
func (m *Manager) GetTicket(ctx context.Context, guildID, channelID string) (*entities.Ticket, error) {
	return m.ticketForChannel(ctx, guildID, channelID)
}

// AddUser grants a user access to the ticket channel and records them on the ticket.
// The overwrite edit is best effort; the recorded set can drift from the channel when
// the edit fails.
func (m *Manager) AddUser(ctx context.Context, guildID, channelID, userID string) (*entities.Ticket, error) {
	ticket, err := m.ticketForChannel(ctx, guildID, channelID)
	if err != nil {
		return nil, err
	}

	if err := m.session.ChannelPermissionSet(channelID, userID, discordgo.PermissionOverwriteTypeMember, memberTicketPermissions, 0); err != nil {
		m.l.Warn("Error granting channel access",
			slog.String(logging.KeyChannel, channelID),
			slog.String(logging.KeyUser, userID),
			slog.String(logging.KeyError, err.Error()),
		)
	}

	if !ticket.HasAddedUser(userID) {
		ticket.AddedUsers = append(ticket.AddedUsers, userID)
	}
	if err := m.tickets.SaveTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("error saving ticket: %w", err)
	}
	return ticket, nil
}

// RemoveUser revokes a user's access and removes them from the added-user and
// assigned-staff sets.
func (m *Manager) RemoveUser(ctx context.Context, guildID, channelID, userID string) (*entities.Ticket, error) {
	ticket, err := m.ticketForChannel(ctx, guildID, channelID)
	if err != nil {
		return nil, err
	}

	if err := m.session.ChannelPermissionDelete(channelID, userID); err != nil {
		m.l.Warn("Error revoking channel access",
			slog.String(logging.KeyChannel, channelID),
			slog.String(logging.KeyUser, userID),
			slog.String(logging.KeyError, err.Error()),
		)
	}

	ticket.AddedUsers = removeID(ticket.AddedUsers, userID)
	ticket.AssignedStaff = removeID(ticket.AssignedStaff, userID)
	if err := m.tickets.SaveTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("error saving ticket: %w", err)
	}
	return ticket, nil
}

// Assign puts a staff member on the ticket and grants them channel access. The target
// must qualify as staff for the guild.
func (m *Manager) Assign(ctx context.Context, guildID, channelID, staffID string) (*entities.Ticket, error) {
	ticket, err := m.ticketForChannel(ctx, guildID, channelID)
	if err != nil {
		return nil, err
	}

	guild, err := m.guildSettings(ctx, guildID)
	if err != nil {
		return nil, err
	}
	target, err := m.session.GuildMember(guildID, staffID)
	if err != nil {
		return nil, fmt.Errorf("error resolving member %s: %w", staffID, err)
	}
	if !MemberIsStaff(target, guild) {
		return nil, ErrTargetNotStaff
	}

	if err := m.session.ChannelPermissionSet(channelID, staffID, discordgo.PermissionOverwriteTypeMember, memberTicketPermissions, 0); err != nil {
		m.l.Warn("Error granting channel access",
			slog.String(logging.KeyChannel, channelID),
			slog.String(logging.KeyUser, staffID),
			slog.String(logging.KeyError, err.Error()),
		)
	}

	if !ticket.IsAssigned(staffID) {
		ticket.AssignedStaff = append(ticket.AssignedStaff, staffID)
	}
	if err := m.tickets.SaveTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("error saving ticket: %w", err)
	}
	return ticket, nil
}

// Unassign takes a staff member off the ticket and revokes their channel access.
func (m *Manager) Unassign(ctx context.Context, guildID, channelID, staffID string) (*entities.Ticket, error) {
	ticket, err := m.ticketForChannel(ctx, guildID, channelID)
	if err != nil {
		return nil, err
	}

	if err := m.session.ChannelPermissionDelete(channelID, staffID); err != nil {
		m.l.Warn("Error revoking channel access",
			slog.String(logging.KeyChannel, channelID),
			slog.String(logging.KeyUser, staffID),
			slog.String(logging.KeyError, err.Error()),
		)
	}

	ticket.AssignedStaff = removeID(ticket.AssignedStaff, staffID)
	if err := m.tickets.SaveTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("error saving ticket: %w", err)
	}
	return ticket, nil
}

// MemberIsStaff reports whether the member holds the configured staff role or the
// guild-wide manage-server permission.
func MemberIsStaff(member *discordgo.Member, guild *entities.Guild) bool {
	if member == nil {
		return false
	}
	if member.Permissions&discordgo.PermissionManageServer == discordgo.PermissionManageServer {
		return true
	}
	if guild.Ticketing.StaffRoleID == "" {
		return false
	}
	for _, role := range member.Roles {
		if role == guild.Ticketing.StaffRoleID {
			return true
		}
	}
	return false
}

// CanManageTicket reports whether the member may close or transcript the ticket: staff,
// manage-server, the ticket owner, or assigned staff.
func CanManageTicket(member *discordgo.Member, guild *entities.Guild, ticket *entities.Ticket) bool {
	if member == nil {
		return false
	}
	if MemberIsStaff(member, guild) {
		return true
	}
	if member.User != nil && member.User.ID == ticket.OwnerID {
		return true
	}
	return member.User != nil && ticket.IsAssigned(member.User.ID)
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

const (
	// memberTicketPermissions is granted to the owner, added users and the staff role.
	memberTicketPermissions = discordgo.PermissionViewChannel |
		discordgo.PermissionSendMessages |
		discordgo.PermissionReadMessageHistory |
		discordgo.PermissionAttachFiles

	// botTicketPermissions is granted to the bot itself.
	botTicketPermissions = discordgo.PermissionViewChannel |
		discordgo.PermissionSendMessages |
		discordgo.PermissionManageChannels |
		discordgo.PermissionReadMessageHistory |
		discordgo.PermissionManageMessages
)

func welcomeMessage(ticket *entities.Ticket, guild *entities.Guild, reason string) *discordgo.MessageSend {
	content := fmt.Sprintf("<@%s>", ticket.OwnerID)
	if guild.Ticketing.StaffRoleID != "" {
		content += fmt.Sprintf(" <@&%s>", guild.Ticketing.StaffRoleID)
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Ticket %s", ticket.Name()),
		Description: "Thanks for opening a ticket. Staff will be with you shortly.\n" +
			"Please provide any additional info you deem relevant to help us answer faster.",
		Color: 0x00FF00,
	}
	if reason != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Reason",
			Value: reason,
		})
	}

	return &discordgo.MessageSend{
		Content: content,
		Embed:   embed,
	}
}
