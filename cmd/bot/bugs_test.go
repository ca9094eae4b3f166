package main

import (
	"testing"

	"github.com/Jacobbrewer1/concord/pkg/messages"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

func TestParseBugID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "12", want: 12},
		{raw: " #7 ", want: 7},
		{raw: "0", wantErr: true},
		{raw: "-3", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseBugID(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseAssignee(t *testing.T) {
	require.Nil(t, parseAssignee(""))
	require.Nil(t, parseAssignee("  "))

	cleared := parseAssignee("-")
	require.NotNil(t, cleared)
	require.Equal(t, "", *cleared)

	plain := parseAssignee("123456789")
	require.NotNil(t, plain)
	require.Equal(t, "123456789", *plain)

	mention := parseAssignee("<@!123456789>")
	require.NotNil(t, mention)
	require.Equal(t, "123456789", *mention)
}

func TestBugModalSubmitRequiresElevation(t *testing.T) {
	a, rt := newTestApp(t)

	// The member lost manage-server between opening the modal and submitting it.
	member := &discordgo.Member{User: &discordgo.User{ID: "user-1"}}

	tests := []struct {
		name     string
		handler  commandProcessor
		customID string
	}{
		{name: "status", handler: bugStatusModalHandler, customID: BugStatusModalID + ":RESOLVED"},
		{name: "comment", handler: bugCommentModalHandler, customID: BugCommentModalID},
		{name: "reopen", handler: bugReopenModalHandler, customID: BugReopenModalID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(rt.bodies)
			i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
				ID:      "interaction-1",
				Token:   "interaction-token",
				Type:    discordgo.InteractionModalSubmit,
				GuildID: "guild-1",
				Member:  member,
				Data:    discordgo.ModalSubmitInteractionData{CustomID: tt.customID},
			}}

			require.NoError(t, tt.handler(a, i))
			require.Len(t, rt.bodies, before+1)
			require.Contains(t, rt.bodies[before], messages.ErrNotElevated)
		})
	}
}
