package main

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const (
	// purgeMinAmount and purgeMaxAmount bound a single purge. The upper bound is the
	// bulk-delete endpoint's own limit.
	purgeMinAmount = 1
	purgeMaxAmount = 100
)

func purgeHandler(a IApp, i *discordgo.InteractionCreate) error {
	if !memberHasPermission(i, discordgo.PermissionManageMessages) {
		return respondEphemeral(a, i, "You need the **Manage Messages** permission to do that.")
	}

	amount := int(optionMap(i.ApplicationCommandData().Options)["amount"].IntValue())
	if amount < purgeMinAmount || amount > purgeMaxAmount {
		return respondEphemeral(a, i, fmt.Sprintf("The amount must be between %d and %d.", purgeMinAmount, purgeMaxAmount))
	}

	msgs, err := a.Session().ChannelMessages(i.ChannelID, amount, "", "", "")
	if err != nil {
		return fmt.Errorf("error fetching messages to purge: %w", err)
	}
	if len(msgs) == 0 {
		return respondEphemeral(a, i, "There is nothing to delete.")
	}

	ids := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		ids = append(ids, msg.ID)
	}
	if err := a.Session().ChannelMessagesBulkDelete(i.ChannelID, ids); err != nil {
		return fmt.Errorf("error bulk deleting messages: %w", err)
	}

	a.Sink().Post(context.Background(), i.GuildID, "Messages purged",
		fmt.Sprintf("<@%s> deleted %d message(s) in <#%s>.", i.Member.User.ID, len(ids), i.ChannelID))

	return respondEphemeral(a, i, fmt.Sprintf("Deleted **%d** message(s).", len(ids)))
}

func kickHandler(a IApp, i *discordgo.InteractionCreate) error {
	if !memberHasPermission(i, discordgo.PermissionKickMembers) {
		return respondEphemeral(a, i, "You need the **Kick Members** permission to do that.")
	}

	opts := optionMap(i.ApplicationCommandData().Options)
	user := opts["user"].UserValue(a.Session())
	reason := ""
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}

	if err := a.Session().GuildMemberDeleteWithReason(i.GuildID, user.ID, reason); err != nil {
		return fmt.Errorf("error kicking member: %w", err)
	}

	a.Sink().Post(context.Background(), i.GuildID, "Member kicked",
		moderationNotice(user.ID, i.Member.User.ID, reason))

	return respondPublic(a, i, fmt.Sprintf("%s has been kicked.", user.Mention()))
}

func banHandler(a IApp, i *discordgo.InteractionCreate) error {
	if !memberHasPermission(i, discordgo.PermissionBanMembers) {
		return respondEphemeral(a, i, "You need the **Ban Members** permission to do that.")
	}

	opts := optionMap(i.ApplicationCommandData().Options)
	user := opts["user"].UserValue(a.Session())
	reason := ""
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}

	if err := a.Session().GuildBanCreateWithReason(i.GuildID, user.ID, reason, 0); err != nil {
		return fmt.Errorf("error banning member: %w", err)
	}

	a.Sink().Post(context.Background(), i.GuildID, "Member banned",
		moderationNotice(user.ID, i.Member.User.ID, reason))

	return respondPublic(a, i, fmt.Sprintf("%s has been banned.", user.Mention()))
}

func moderationNotice(targetID, actorID, reason string) string {
	notice := fmt.Sprintf("<@%s> by <@%s>.", targetID, actorID)
	if reason != "" {
		notice += " Reason: " + reason
	}
	return notice
}
