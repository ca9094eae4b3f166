package main

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

func TestControllerKey(t *testing.T) {
	tests := []struct {
		name string
		i    *discordgo.InteractionCreate
		want string
	}{
		{
			name: "slash command",
			i: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
				Type: discordgo.InteractionApplicationCommand,
				Data: discordgo.ApplicationCommandInteractionData{Name: "ping"},
			}},
			want: "ping",
		},
		{
			name: "component without argument",
			i: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
				Type: discordgo.InteractionMessageComponent,
				Data: discordgo.MessageComponentInteractionData{CustomID: PanelTicketButtonID},
			}},
			want: PanelTicketButtonID,
		},
		{
			name: "component with argument",
			i: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
				Type: discordgo.InteractionMessageComponent,
				Data: discordgo.MessageComponentInteractionData{CustomID: BoardQuickSetButtonID + ":RESOLVED"},
			}},
			want: BoardQuickSetButtonID,
		},
		{
			name: "modal with argument",
			i: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
				Type: discordgo.InteractionModalSubmit,
				Data: discordgo.ModalSubmitInteractionData{CustomID: BugStatusModalID + ":WAITING"},
			}},
			want: BugStatusModalID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, controllerKey(tt.i))
		})
	}
}

func TestCustomIDArg(t *testing.T) {
	require.Equal(t, "RESOLVED", customIDArg("bug_quickset:RESOLVED"))
	require.Equal(t, "a:b", customIDArg("key:a:b"))
	require.Equal(t, "", customIDArg("no_argument"))
}

func TestHasRole(t *testing.T) {
	member := &discordgo.Member{Roles: []string{"role-1", "role-2"}}
	require.True(t, hasRole(member, "role-2"))
	require.False(t, hasRole(member, "role-3"))
	require.False(t, hasRole(member, ""))
	require.False(t, hasRole(nil, "role-1"))
}

func TestMemberIsElevated(t *testing.T) {
	elevated := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{Permissions: discordgo.PermissionManageServer},
	}}
	require.True(t, memberIsElevated(elevated))

	plain := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{},
	}}
	require.False(t, memberIsElevated(plain))

	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}
	require.False(t, memberIsElevated(dm))
}

func TestModalValue(t *testing.T) {
	data := discordgo.ModalSubmitInteractionData{
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					&discordgo.TextInput{CustomID: "title", Value: "broken login"},
				},
			},
			&discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					&discordgo.TextInput{CustomID: "description", Value: "cannot sign in"},
				},
			},
		},
	}

	require.Equal(t, "broken login", modalValue(data, "title"))
	require.Equal(t, "cannot sign in", modalValue(data, "description"))
	require.Equal(t, "", modalValue(data, "missing"))
}

func TestTruncateText(t *testing.T) {
	require.Equal(t, "short", truncateText("short", 10))
	require.Equal(t, "long…", truncateText("longer", 5))
}
