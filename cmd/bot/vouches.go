package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/concord/pkg/vouching"
	"github.com/bwmarrin/discordgo"
)

// topVouchesLimit is how many members the ranking shows.
const topVouchesLimit = 10

func vouchHandler(a IApp, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options)

	user := opts["user"].UserValue(a.Session())
	if user.ID == i.Member.User.ID {
		return respondEphemeral(a, i, "You cannot vouch for yourself.")
	}
	if user.Bot {
		return respondEphemeral(a, i, "Bots do not need vouches.")
	}

	message := ""
	if opt, ok := opts["message"]; ok {
		message = opt.StringValue()
	}

	vouch, err := a.Vouches().AddVouch(context.Background(), i.GuildID, i.Member.User.ID, user.ID, message)
	if err != nil {
		return fmt.Errorf("error adding vouch: %w", err)
	}

	content := fmt.Sprintf("%s vouched for %s! (vouch **#%d**)", i.Member.User.Mention(), user.Mention(), vouch.ID)
	if vouch.Message != "" {
		content += "\n> " + vouch.Message
	}
	return respondPublic(a, i, content)
}

func checkVouchHandler(a IApp, i *discordgo.InteractionCreate) error {
	userID := i.Member.User.ID
	if opt, ok := optionMap(i.ApplicationCommandData().Options)["user"]; ok {
		userID = opt.UserValue(a.Session()).ID
	}
	return respondVouchStats(a, i, userID)
}

func panelMyVouchesButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	return respondVouchStats(a, i, i.Member.User.ID)
}

func respondVouchStats(a IApp, i *discordgo.InteractionCreate, userID string) error {
	stats, err := a.Vouches().GetVouchStats(context.Background(), i.GuildID, userID)
	if err != nil {
		return fmt.Errorf("error getting vouch stats: %w", err)
	}

	embed := &discordgo.MessageEmbed{
		Title: "Vouches",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Member", Value: "<@" + userID + ">", Inline: true},
			{Name: "Received", Value: fmt.Sprintf("%d", len(stats.Received)), Inline: true},
			{Name: "Given", Value: fmt.Sprintf("%d", len(stats.Given)), Inline: true},
		},
	}

	if len(stats.Received) > 0 {
		// The most recent few endorsements, newest last.
		recent := stats.Received
		if len(recent) > 5 {
			recent = recent[len(recent)-5:]
		}
		var b strings.Builder
		for _, vouch := range recent {
			fmt.Fprintf(&b, "**#%d** from <@%s>", vouch.ID, vouch.VoucherID)
			if vouch.Message != "" {
				fmt.Fprintf(&b, ": %s", truncateText(vouch.Message, 120))
			}
			b.WriteString("\n")
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Recent", Value: b.String(),
		})
	}

	return respondEphemeralEmbed(a, i, embed)
}

func topVouchesHandler(a IApp, i *discordgo.InteractionCreate) error {
	return respondTopVouches(a, i)
}

func panelTopVouchesButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	return respondTopVouches(a, i)
}

func respondTopVouches(a IApp, i *discordgo.InteractionCreate) error {
	entries, err := a.Vouches().TopVouched(context.Background(), i.GuildID, topVouchesLimit)
	if err != nil {
		return fmt.Errorf("error getting top vouches: %w", err)
	}
	if len(entries) == 0 {
		return respondEphemeral(a, i, "Nobody has been vouched for yet.")
	}

	var b strings.Builder
	b.WriteString("**🏆 Most vouched members**\n")
	for idx, entry := range entries {
		fmt.Fprintf(&b, "%d. <@%s> — %d\n", idx+1, entry.UserID, entry.Count)
	}
	return respondEphemeral(a, i, b.String())
}

func vouchRemoveHandler(a IApp, i *discordgo.InteractionCreate) error {
	id := int(optionMap(i.ApplicationCommandData().Options)["id"].IntValue())

	err := a.Vouches().RemoveVouchByID(context.Background(), i.GuildID, id, i.Member.User.ID, memberIsElevated(i))
	if err != nil {
		switch {
		case errors.Is(err, vouching.ErrUnknownVouch):
			return respondEphemeral(a, i, fmt.Sprintf("No vouch **#%d** exists here.", id))
		case errors.Is(err, vouching.ErrNotVoucher):
			return respondEphemeral(a, i, "Only the original voucher (or **Manage Server**) can remove that vouch.")
		}
		return fmt.Errorf("error removing vouch: %w", err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("Vouch **#%d** removed.", id))
}
