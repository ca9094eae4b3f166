package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/concord/pkg/entities"
	"github.com/Jacobbrewer1/concord/pkg/messages"
	"github.com/Jacobbrewer1/concord/pkg/ticketing"
	"github.com/bwmarrin/discordgo"
)

func ticketCmdHandler(a IApp, i *discordgo.InteractionCreate) error {
	sub, opts := subCommand(i)
	switch sub {
	case "create":
		reason := ""
		if opt, ok := optionMap(opts)["reason"]; ok {
			reason = opt.StringValue()
		}
		return openTicket(a, i, reason)
	case "close":
		return closeTicket(a, i)
	case "info":
		return ticketInfo(a, i)
	case "add":
		return ticketAddUser(a, i, opts)
	case "remove":
		return ticketRemoveUser(a, i, opts)
	case "claim":
		return ticketClaim(a, i)
	case "assign":
		return ticketAssign(a, i, opts)
	case "unassign":
		return ticketUnassign(a, i, opts)
	case "transcript":
		return ticketTranscript(a, i, opts)
	default:
		return fmt.Errorf("unknown ticket sub command %q", sub)
	}
}

// panelTicketButtonHandler opens a ticket from the panel button.
func panelTicketButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	return openTicket(a, i, "")
}

func openTicket(a IApp, i *discordgo.InteractionCreate, reason string) error {
	if i.Member == nil || i.Member.User == nil {
		return respondEphemeral(a, i, messages.ErrUserErrorProcessing)
	}

	ticket, err := a.Tickets().CreateTicket(context.Background(), i.GuildID, i.Member.User.ID, reason)
	if err != nil {
		return fmt.Errorf("error creating ticket: %w", err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("Your ticket is ready: <#%s>", ticket.ChannelID))
}

func closeTicket(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	guild, ticket, err := ticketInChannel(a, ctx, i)
	if err != nil {
		if errors.Is(err, ticketing.ErrNotATicket) {
			return respondEphemeral(a, i, messages.ErrNotATicket)
		}
		return err
	}
	if !ticketing.CanManageTicket(i.Member, guild, ticket) {
		return respondEphemeral(a, i, messages.ErrNotStaff)
	}

	if _, err := a.Tickets().CloseTicket(ctx, i.GuildID, i.ChannelID, i.Member.User.ID); err != nil {
		if errors.Is(err, ticketing.ErrAlreadyClosed) {
			return respondEphemeral(a, i, "This ticket is already closed.")
		}
		return fmt.Errorf("error closing ticket: %w", err)
	}

	return respondPublic(a, i, fmt.Sprintf("Ticket closed by %s.", i.Member.User.Mention()))
}

func ticketInfo(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	_, ticket, err := ticketInChannel(a, ctx, i)
	if err != nil {
		if errors.Is(err, ticketing.ErrNotATicket) {
			return respondEphemeral(a, i, messages.ErrNotATicket)
		}
		return err
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Ticket #%04d", ticket.ID),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Owner", Value: "<@" + ticket.OwnerID + ">", Inline: true},
			{Name: "Status", Value: string(ticket.Status), Inline: true},
			{Name: "Opened", Value: ticket.CreatedAt.String(), Inline: true},
			{Name: "Assigned staff", Value: mentionList(ticket.AssignedStaff), Inline: true},
			{Name: "Added users", Value: mentionList(ticket.AddedUsers), Inline: true},
		},
	}
	if ticket.Status == entities.TicketStatusClosed {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Closed", Value: ticket.ClosedAt.String(), Inline: true},
			&discordgo.MessageEmbedField{Name: "Closed by", Value: "<@" + ticket.ClosedBy + ">", Inline: true},
		)
	}
	return respondEphemeralEmbed(a, i, embed)
}

func ticketAddUser(a IApp, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	guild, _, err := ticketInChannel(a, ctx, i)
	if err != nil {
		if errors.Is(err, ticketing.ErrNotATicket) {
			return respondEphemeral(a, i, messages.ErrNotATicket)
		}
		return err
	}
	if !ticketing.MemberIsStaff(i.Member, guild) {
		return respondEphemeral(a, i, messages.ErrNotStaff)
	}

	user := optionMap(opts)["user"].UserValue(a.Session())
	if _, err := a.Tickets().AddUser(ctx, i.GuildID, i.ChannelID, user.ID); err != nil {
		return fmt.Errorf("error adding user to ticket: %w", err)
	}
	return respondPublic(a, i, fmt.Sprintf("%s has been added to the ticket.", user.Mention()))
}

func ticketRemoveUser(a IApp, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	guild, _, err := ticketInChannel(a, ctx, i)
	if err != nil {
		if errors.Is(err, ticketing.ErrNotATicket) {
			return respondEphemeral(a, i, messages.ErrNotATicket)
		}
		return err
	}
	if !ticketing.MemberIsStaff(i.Member, guild) {
		return respondEphemeral(a, i, messages.ErrNotStaff)
	}

	user := optionMap(opts)["user"].UserValue(a.Session())
	if _, err := a.Tickets().RemoveUser(ctx, i.GuildID, i.ChannelID, user.ID); err != nil {
		return fmt.Errorf("error removing user from ticket: %w", err)
	}
	return respondPublic(a, i, fmt.Sprintf("%s has been removed from the ticket.", user.Mention()))
}

func ticketClaim(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	guild, _, err := ticketInChannel(a, ctx, i)
	if err != nil {
		if errors.Is(err, ticketing.ErrNotATicket) {
			return respondEphemeral(a, i, messages.ErrNotATicket)
		}
		return err
	}
	if !ticketing.MemberIsStaff(i.Member, guild) {
		return respondEphemeral(a, i, messages.ErrNotStaff)
	}

	if _, err := a.Tickets().Assign(ctx, i.GuildID, i.ChannelID, i.Member.User.ID); err != nil {
		return fmt.Errorf("error claiming ticket: %w", err)
	}
	return respondPublic(a, i, fmt.Sprintf("%s has claimed this ticket.", i.Member.User.Mention()))
}

func ticketAssign(a IApp, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	guild, _, err := ticketInChannel(a, ctx, i)
	if err != nil {
		if errors.Is(err, ticketing.ErrNotATicket) {
			return respondEphemeral(a, i, messages.ErrNotATicket)
		}
		return err
	}
	if !ticketing.MemberIsStaff(i.Member, guild) {
		return respondEphemeral(a, i, messages.ErrNotStaff)
	}

	user := optionMap(opts)["user"].UserValue(a.Session())
	if _, err := a.Tickets().Assign(ctx, i.GuildID, i.ChannelID, user.ID); err != nil {
		if errors.Is(err, ticketing.ErrTargetNotStaff) {
			return respondEphemeral(a, i, fmt.Sprintf("%s does not qualify as ticket staff.", user.Mention()))
		}
		return fmt.Errorf("error assigning ticket: %w", err)
	}
	return respondPublic(a, i, fmt.Sprintf("%s has been assigned to this ticket.", user.Mention()))
}

func ticketUnassign(a IApp, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	guild, _, err := ticketInChannel(a, ctx, i)
	if err != nil {
		if errors.Is(err, ticketing.ErrNotATicket) {
			return respondEphemeral(a, i, messages.ErrNotATicket)
		}
		return err
	}
	if !ticketing.MemberIsStaff(i.Member, guild) {
		return respondEphemeral(a, i, messages.ErrNotStaff)
	}

	user := optionMap(opts)["user"].UserValue(a.Session())
	if _, err := a.Tickets().Unassign(ctx, i.GuildID, i.ChannelID, user.ID); err != nil {
		return fmt.Errorf("error unassigning ticket: %w", err)
	}
	return respondPublic(a, i, fmt.Sprintf("%s has been unassigned from this ticket.", user.Mention()))
}

func ticketTranscript(a IApp, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	guild, ticket, err := ticketInChannel(a, ctx, i)
	if err != nil {
		if errors.Is(err, ticketing.ErrNotATicket) {
			return respondEphemeral(a, i, messages.ErrNotATicket)
		}
		return err
	}
	if !ticketing.CanManageTicket(i.Member, guild, ticket) {
		return respondEphemeral(a, i, messages.ErrNotStaff)
	}

	limit := 100
	if opt, ok := optionMap(opts)["limit"]; ok {
		limit = int(opt.IntValue())
	}

	transcript := a.Tickets().Transcript(i.ChannelID, limit)

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("Transcript for ticket #%04d.", ticket.ID),
			Flags:   discordgo.MessageFlagsEphemeral,
			Files: []*discordgo.File{
				{
					Name:        fmt.Sprintf("%s-transcript.txt", ticket.Name()),
					ContentType: "text/plain",
					Reader:      bytes.NewReader([]byte(transcript)),
				},
			},
		},
	})
}

// ticketInChannel resolves the guild settings and the ticket backing the channel the
// interaction ran in.
func ticketInChannel(a IApp, ctx context.Context, i *discordgo.InteractionCreate) (*entities.Guild, *entities.Ticket, error) {
	guild, err := guildSettings(a, ctx, i.GuildID)
	if err != nil {
		return nil, nil, err
	}
	ticket, err := a.Tickets().GetTicket(ctx, i.GuildID, i.ChannelID)
	if err != nil {
		return nil, nil, err
	}
	return guild, ticket, nil
}

func mentionList(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	mentions := make([]string, 0, len(ids))
	for _, id := range ids {
		mentions = append(mentions, "<@"+id+">")
	}
	return strings.Join(mentions, " ")
}
