package main

import (
	"context"
	"fmt"

	"github.com/Jacobbrewer1/concord/pkg/custom"
	"github.com/Jacobbrewer1/concord/pkg/entities"
	"github.com/Jacobbrewer1/concord/pkg/messages"
	"github.com/bwmarrin/discordgo"
)

// Custom IDs for the panel buttons.
const (
	PanelTicketButtonID     = "panel_ticket"
	PanelBugReportButtonID  = "panel_bug_report"
	PanelBugBoardButtonID   = "panel_bug_board"
	PanelMyVouchesButtonID  = "panel_my_vouches"
	PanelTopVouchesButtonID = "panel_top_vouches"
)

func pingHandler(a IApp, i *discordgo.InteractionCreate) error {
	return respondEphemeral(a, i, "Pong!")
}

func settingsHandler(a IApp, i *discordgo.InteractionCreate) error {
	if !memberIsElevated(i) {
		return respondEphemeral(a, i, messages.ErrNotElevated)
	}

	ctx := context.Background()
	guild, err := guildSettings(a, ctx, i.GuildID)
	if err != nil {
		return fmt.Errorf("error getting guild settings: %w", err)
	}

	embed := &discordgo.MessageEmbed{
		Title: "Server settings",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Log channel", Value: channelRef(guild.LogChannelID), Inline: true},
			{Name: "Ticket staff role", Value: roleRef(guild.Ticketing.StaffRoleID), Inline: true},
			{Name: "Ticket category", Value: channelRef(guild.Ticketing.CategoryID), Inline: true},
			{Name: "Bug input channel", Value: channelRef(guild.Bugs.InputChannelID), Inline: true},
			{Name: "Bug board channel", Value: channelRef(guild.Bugs.BoardChannelID), Inline: true},
			{Name: "Bug updates channel", Value: channelRef(guild.Bugs.UpdatesChannelID), Inline: true},
			{Name: "Tickets opened", Value: fmt.Sprintf("%d", guild.Ticketing.Counter), Inline: true},
			{Name: "Bugs reported", Value: fmt.Sprintf("%d", guild.Bugs.Counter), Inline: true},
			{Name: "Vouches given", Value: fmt.Sprintf("%d", guild.VouchCounter), Inline: true},
		},
	}
	return respondEphemeralEmbed(a, i, embed)
}

func channelRef(id string) string {
	if id == "" {
		return "not set"
	}
	return "<#" + id + ">"
}

func roleRef(id string) string {
	if id == "" {
		return "not set"
	}
	return "<@&" + id + ">"
}

func setLogChannelHandler(a IApp, i *discordgo.InteractionCreate) error {
	if !memberIsElevated(i) {
		return respondEphemeral(a, i, messages.ErrNotElevated)
	}

	opts := optionMap(i.ApplicationCommandData().Options)
	channel := opts["channel"].ChannelValue(a.Session())
	if channel == nil || channel.Type != discordgo.ChannelTypeGuildText {
		return respondEphemeral(a, i, messages.ErrTextChannelRequired)
	}

	ctx := context.Background()
	guild, err := guildSettings(a, ctx, i.GuildID)
	if err != nil {
		return fmt.Errorf("error getting guild settings: %w", err)
	}

	guild.LogChannelID = channel.ID
	if err := saveGuild(a, ctx, guild); err != nil {
		return err
	}
	return respondEphemeral(a, i, fmt.Sprintf("Log channel set to <#%s>.", channel.ID))
}

func setTicketStaffRoleHandler(a IApp, i *discordgo.InteractionCreate) error {
	if !memberIsElevated(i) {
		return respondEphemeral(a, i, messages.ErrNotElevated)
	}

	opts := optionMap(i.ApplicationCommandData().Options)
	role := opts["role"].RoleValue(a.Session(), i.GuildID)
	if role == nil {
		return respondEphemeral(a, i, "That role could not be resolved.")
	}

	ctx := context.Background()
	guild, err := guildSettings(a, ctx, i.GuildID)
	if err != nil {
		return fmt.Errorf("error getting guild settings: %w", err)
	}

	guild.Ticketing.StaffRoleID = role.ID
	if err := saveGuild(a, ctx, guild); err != nil {
		return err
	}
	return respondEphemeral(a, i, fmt.Sprintf("Ticket staff role set to <@&%s>.", role.ID))
}

func clearTicketStaffRoleHandler(a IApp, i *discordgo.InteractionCreate) error {
	if !memberIsElevated(i) {
		return respondEphemeral(a, i, messages.ErrNotElevated)
	}

	ctx := context.Background()
	guild, err := guildSettings(a, ctx, i.GuildID)
	if err != nil {
		return fmt.Errorf("error getting guild settings: %w", err)
	}

	guild.Ticketing.StaffRoleID = ""
	if err := saveGuild(a, ctx, guild); err != nil {
		return err
	}
	return respondEphemeral(a, i, "Ticket staff role cleared. Ticket handling now requires the manage server permission.")
}

func setBugChannelsHandler(a IApp, i *discordgo.InteractionCreate) error {
	if !memberIsElevated(i) {
		return respondEphemeral(a, i, messages.ErrNotElevated)
	}

	opts := optionMap(i.ApplicationCommandData().Options)

	input := opts["input"].ChannelValue(a.Session())
	board := opts["board"].ChannelValue(a.Session())
	if input == nil || input.Type != discordgo.ChannelTypeGuildText ||
		board == nil || board.Type != discordgo.ChannelTypeGuildText {
		return respondEphemeral(a, i, messages.ErrTextChannelRequired)
	}

	updatesID := board.ID
	if opt, ok := opts["updates"]; ok {
		updates := opt.ChannelValue(a.Session())
		if updates == nil || updates.Type != discordgo.ChannelTypeGuildText {
			return respondEphemeral(a, i, messages.ErrTextChannelRequired)
		}
		updatesID = updates.ID
	}

	ctx := context.Background()
	guild, err := guildSettings(a, ctx, i.GuildID)
	if err != nil {
		return fmt.Errorf("error getting guild settings: %w", err)
	}

	guild.Bugs.InputChannelID = input.ID
	guild.Bugs.BoardChannelID = board.ID
	guild.Bugs.UpdatesChannelID = updatesID
	// The old board message lives in whatever channel it was posted to; force a repost.
	guild.Bugs.BoardMessageID = ""
	if err := saveGuild(a, ctx, guild); err != nil {
		return err
	}

	if err := a.Bugs().RefreshBoard(ctx, i.GuildID); err != nil {
		a.Log().Warn("Error refreshing bug board after channel change")
	}

	return respondEphemeral(a, i, fmt.Sprintf("Bug channels set. Input <#%s>, board <#%s>, updates <#%s>.", input.ID, board.ID, updatesID))
}

// panelHandler posts (or reposts) the button panel into the channel the command ran in.
// Only one panel per guild is tracked; an old panel message is deleted when resolvable.
func panelHandler(a IApp, i *discordgo.InteractionCreate) error {
	if !memberIsElevated(i) {
		return respondEphemeral(a, i, messages.ErrNotElevated)
	}

	ctx := context.Background()
	guild, err := guildSettings(a, ctx, i.GuildID)
	if err != nil {
		return fmt.Errorf("error getting guild settings: %w", err)
	}

	// Reuse the stored panel message when it still resolves in this channel.
	if guild.PanelMessageID != "" && guild.PanelChannelID == i.ChannelID {
		if _, err := a.Session().ChannelMessage(guild.PanelChannelID, guild.PanelMessageID); err == nil {
			panel := panelMessage()
			edit := discordgo.NewMessageEdit(guild.PanelChannelID, guild.PanelMessageID)
			edit.Embeds = panel.Embeds
			edit.Components = panel.Components
			if _, err := a.Session().ChannelMessageEditComplex(edit); err != nil {
				return fmt.Errorf("error updating panel message: %w", err)
			}
			return respondEphemeral(a, i, "Panel refreshed.")
		}
	}

	if guild.PanelMessageID != "" {
		// Best effort: the old message may already be gone.
		if err := a.Session().ChannelMessageDelete(guild.PanelChannelID, guild.PanelMessageID); err != nil {
			a.Log().Debug("Old panel message could not be deleted")
		}
	}

	msg, err := a.Session().ChannelMessageSendComplex(i.ChannelID, panelMessage())
	if err != nil {
		return fmt.Errorf("error sending panel message: %w", err)
	}

	guild.PanelChannelID = i.ChannelID
	guild.PanelMessageID = msg.ID
	if err := saveGuild(a, ctx, guild); err != nil {
		return err
	}

	return respondEphemeral(a, i, "Panel posted.")
}

func panelMessage() *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "Community hub",
				Description: "Use the buttons below to open a ticket, report a bug, or look at vouches.",
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "🎫 Open ticket",
						Style:    discordgo.PrimaryButton,
						CustomID: PanelTicketButtonID,
					},
					discordgo.Button{
						Label:    "🐛 Report bug",
						Style:    discordgo.DangerButton,
						CustomID: PanelBugReportButtonID,
					},
					discordgo.Button{
						Label:    "📋 Bug board",
						Style:    discordgo.SecondaryButton,
						CustomID: PanelBugBoardButtonID,
					},
				},
			},
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "🤝 My vouches",
						Style:    discordgo.SecondaryButton,
						CustomID: PanelMyVouchesButtonID,
					},
					discordgo.Button{
						Label:    "🏆 Top vouches",
						Style:    discordgo.SecondaryButton,
						CustomID: PanelTopVouchesButtonID,
					},
				},
			},
		},
	}
}

func saveGuild(a IApp, ctx context.Context, guild *entities.Guild) error {
	guild.UpdatedAt = custom.Now()
	if err := a.Store().Guilds.SaveGuild(ctx, guild); err != nil {
		return fmt.Errorf("error saving guild: %w", err)
	}
	return nil
}
