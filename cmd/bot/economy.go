package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Jacobbrewer1/concord/pkg/economy"
	"github.com/bwmarrin/discordgo"
)

// leaderboardLimit is how many members the level ranking shows.
const leaderboardLimit = 10

func dailyHandler(a IApp, i *discordgo.InteractionCreate) error {
	res, err := a.Economy().ClaimDaily(context.Background(), i.GuildID, i.Member.User.ID)
	if err != nil {
		return fmt.Errorf("error claiming daily reward: %w", err)
	}

	if !res.OK {
		return respondEphemeral(a, i, fmt.Sprintf("You already claimed today. Come back in **%s**.", formatRemaining(res.Remaining)))
	}
	return respondEphemeral(a, i, fmt.Sprintf("You claimed **%d** coins! Balance: **%d**.", res.Reward, res.Balance))
}

// formatRemaining renders a cooldown as hours, minutes and seconds, dropping the
// leading units that are zero.
func formatRemaining(d time.Duration) string {
	if d < time.Second {
		d = time.Second
	}
	d = d.Round(time.Second)

	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

func balanceHandler(a IApp, i *discordgo.InteractionCreate) error {
	userID := i.Member.User.ID
	if opt, ok := optionMap(i.ApplicationCommandData().Options)["user"]; ok {
		userID = opt.UserValue(a.Session()).ID
	}

	progress, err := a.Economy().GetProgress(context.Background(), i.GuildID, userID)
	if err != nil {
		return fmt.Errorf("error getting progress: %w", err)
	}
	return respondEphemeral(a, i, fmt.Sprintf("<@%s> has **%d** coins.", userID, progress.Coins))
}

func payHandler(a IApp, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options)
	user := opts["user"].UserValue(a.Session())
	amount := int(opts["amount"].IntValue())

	err := a.Economy().TransferBalance(context.Background(), i.GuildID, i.Member.User.ID, user.ID, amount)
	if err != nil {
		switch {
		case errors.Is(err, economy.ErrInvalidAmount):
			return respondEphemeral(a, i, "The amount must be a positive number.")
		case errors.Is(err, economy.ErrSelfTransfer):
			return respondEphemeral(a, i, "You cannot pay yourself.")
		case errors.Is(err, economy.ErrInsufficientFunds):
			return respondEphemeral(a, i, "You do not have enough coins for that.")
		}
		return fmt.Errorf("error transferring balance: %w", err)
	}

	return respondPublic(a, i, fmt.Sprintf("%s paid %s **%d** coins.", i.Member.User.Mention(), user.Mention(), amount))
}

func rankHandler(a IApp, i *discordgo.InteractionCreate) error {
	userID := i.Member.User.ID
	if opt, ok := optionMap(i.ApplicationCommandData().Options)["user"]; ok {
		userID = opt.UserValue(a.Session()).ID
	}

	progress, err := a.Economy().GetProgress(context.Background(), i.GuildID, userID)
	if err != nil {
		return fmt.Errorf("error getting progress: %w", err)
	}

	embed := &discordgo.MessageEmbed{
		Title: "Rank",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Member", Value: "<@" + userID + ">", Inline: true},
			{Name: "Level", Value: fmt.Sprintf("%d", progress.Level), Inline: true},
			{Name: "XP", Value: fmt.Sprintf("%d / %d", progress.XP, economy.XPForNext(progress.Level)), Inline: true},
		},
	}
	return respondEphemeralEmbed(a, i, embed)
}

func leaderboardHandler(a IApp, i *discordgo.InteractionCreate) error {
	entries, err := a.Economy().ListProgress(context.Background(), i.GuildID)
	if err != nil {
		return fmt.Errorf("error listing progress: %w", err)
	}
	if len(entries) == 0 {
		return respondEphemeral(a, i, "Nobody has earned any XP yet.")
	}

	// Highest level first, XP within the level as the tiebreak.
	sort.SliceStable(entries, func(x, y int) bool {
		if entries[x].Level != entries[y].Level {
			return entries[x].Level > entries[y].Level
		}
		return entries[x].XP > entries[y].XP
	})
	if len(entries) > leaderboardLimit {
		entries = entries[:leaderboardLimit]
	}

	var b strings.Builder
	b.WriteString("**🏆 Level leaderboard**\n")
	for idx, entry := range entries {
		fmt.Fprintf(&b, "%d. <@%s> — level %d (%d XP)\n", idx+1, entry.UserID, entry.Level, entry.XP)
	}
	return respondEphemeral(a, i, b.String())
}
