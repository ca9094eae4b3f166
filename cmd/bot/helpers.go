package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/concord/pkg/dataaccess"
	"github.com/Jacobbrewer1/concord/pkg/entities"
	"github.com/Jacobbrewer1/concord/pkg/messages"
	"github.com/bwmarrin/discordgo"
)

func respondError(a IApp, i *discordgo.InteractionCreate) error {
	return respondEphemeral(a, i, messages.ErrUserErrorProcessing)
}

func respondEphemeral(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func respondEphemeralEmbed(a IApp, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

func respondPublic(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

// hasRole reports whether the member holds the role.
func hasRole(member *discordgo.Member, roleID string) bool {
	if member == nil || roleID == "" {
		return false
	}
	for _, r := range member.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}

// memberIsElevated reports whether the interaction member holds the guild-wide
// manage-server permission, the staff fallback for every gated operation.
func memberIsElevated(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionManageServer == discordgo.PermissionManageServer
}

// memberHasPermission reports whether the interaction member holds the permission bit.
func memberHasPermission(i *discordgo.InteractionCreate, permission int64) bool {
	return i.Member != nil && i.Member.Permissions&permission == permission
}

// guildSettings loads the guild configuration, defaulting it on first access.
func guildSettings(a IApp, ctx context.Context, guildID string) (*entities.Guild, error) {
	guild, err := a.Store().Guilds.GetGuildByID(ctx, guildID)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return entities.NewGuild(guildID), nil
		}
		return nil, fmt.Errorf("error getting guild: %w", err)
	}
	return guild, nil
}

// subCommand returns the invoked sub command and its options.
func subCommand(i *discordgo.InteractionCreate) (string, []*discordgo.ApplicationCommandInteractionDataOption) {
	opts := i.ApplicationCommandData().Options
	if len(opts) == 0 || opts[0].Type != discordgo.ApplicationCommandOptionSubCommand {
		return "", opts
	}
	return opts[0].Name, opts[0].Options
}

// optionMap indexes options by name.
func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

// modalValue extracts a text input value from a modal submission.
func modalValue(data discordgo.ModalSubmitInteractionData, customID string) string {
	for _, comp := range data.Components {
		row, ok := comp.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			input, ok := inner.(*discordgo.TextInput)
			if !ok {
				continue
			}
			if input.CustomID == customID {
				return input.Value
			}
		}
	}
	return ""
}

// truncateText cuts s down to max runes for embed fields.
func truncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// customIDArg returns the argument carried after ":" in a component or modal custom ID.
func customIDArg(customID string) string {
	for idx := 0; idx < len(customID); idx++ {
		if customID[idx] == ':' {
			return customID[idx+1:]
		}
	}
	return ""
}
