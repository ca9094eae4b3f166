package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/Jacobbrewer1/concord/pkg/dataaccess"
	"github.com/Jacobbrewer1/concord/pkg/messages"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

// recordingTransport answers every REST call the session makes with 204 No Content and
// keeps the request bodies for inspection.
type recordingTransport struct {
	mu     sync.Mutex
	bodies []string
}

func (rt *recordingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	var body string
	if r.Body != nil {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		body = string(b)
	}

	rt.mu.Lock()
	rt.bodies = append(rt.bodies, body)
	rt.mu.Unlock()

	return &http.Response{
		StatusCode: http.StatusNoContent,
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Header:     make(http.Header),
	}, nil
}

func newTestApp(t *testing.T) (*App, *recordingTransport) {
	t.Helper()

	s, err := discordgo.New("Bot test-token")
	require.NoError(t, err, "Failed to create session")

	rt := new(recordingTransport)
	s.Client.Transport = rt

	a := NewApp(slog.New(slog.NewJSONHandler(io.Discard, nil)), nil)
	a.s = s
	a.store = dataaccess.NewInMemoryStore()
	return a, rt
}

func slashInteraction(name string, member *discordgo.Member, guildID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:      "interaction-1",
		Token:   "interaction-token",
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: guildID,
		Member:  member,
		Data:    discordgo.ApplicationCommandInteractionData{Name: name},
	}}
}

func TestInteractionHandlerGuildOnly(t *testing.T) {
	a, rt := newTestApp(t)
	handler := interactionHandler(a, slashControllers, componentControllers, modalControllers)

	// A DM interaction carries no member; it must be turned away, not crash.
	i := slashInteraction("daily", nil, "")

	require.NotPanics(t, func() { handler(nil, i) })
	require.Len(t, rt.bodies, 1)
	require.Contains(t, rt.bodies[0], messages.ErrGuildOnly)
}

func TestInteractionHandlerRecovers(t *testing.T) {
	a, rt := newTestApp(t)
	commands := map[string]commandProcessor{
		"boom": func(IApp, *discordgo.InteractionCreate) error { panic("boom") },
	}
	handler := interactionHandler(a, commands, nil, nil)

	member := &discordgo.Member{User: &discordgo.User{ID: "user-1"}}

	require.NotPanics(t, func() { handler(nil, slashInteraction("boom", member, "guild-1")) })
	require.Len(t, rt.bodies, 1)
	require.Contains(t, rt.bodies[0], messages.ErrUserErrorProcessing)
}
