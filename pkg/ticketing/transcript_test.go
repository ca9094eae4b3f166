package ticketing

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

// historyMessage builds a fake message n seconds after the epoch.
func historyMessage(id int, author, content string) *discordgo.Message {
	return &discordgo.Message{
		ID:        fmt.Sprintf("hist-%d", id),
		Author:    &discordgo.User{Username: author},
		Content:   content,
		Timestamp: time.Unix(int64(id), 0).UTC(),
	}
}

func TestTranscript_AscendingOrder(t *testing.T) {
	m, session, _ := newTestManager(t)

	// Newest first, as the history endpoint serves them.
	session.history = []*discordgo.Message{
		historyMessage(3, "alice", "third"),
		historyMessage(2, "bob", "second"),
		historyMessage(1, "alice", "first"),
	}

	got := m.Transcript("chan-1", 50)
	lines := strings.Split(strings.TrimSpace(got), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "alice: first")
	require.Contains(t, lines[1], "bob: second")
	require.Contains(t, lines[2], "alice: third")

	// RFC3339 timestamps.
	require.True(t, strings.HasPrefix(lines[0], "[1970-01-01T00:00:01Z]"))
}

func TestTranscript_Paged(t *testing.T) {
	m, session, _ := newTestManager(t)

	// More than one page of history, newest first.
	for id := 150; id >= 1; id-- {
		session.history = append(session.history, historyMessage(id, "alice", fmt.Sprintf("message %d", id)))
	}

	got := m.Transcript("chan-1", 150)
	lines := strings.Split(strings.TrimSpace(got), "\n")
	require.Len(t, lines, 150)
	require.Contains(t, lines[0], "message 1")
	require.Contains(t, lines[149], "message 150")
}

func TestTranscript_ClampsLimit(t *testing.T) {
	m, session, _ := newTestManager(t)

	for id := 20; id >= 1; id-- {
		session.history = append(session.history, historyMessage(id, "alice", "hello"))
	}

	// A limit below the floor is raised to it.
	got := m.Transcript("chan-1", 1)
	lines := strings.Split(strings.TrimSpace(got), "\n")
	require.Len(t, lines, 10)
}

func TestTranscript_Attachments(t *testing.T) {
	m, session, _ := newTestManager(t)

	msg := historyMessage(1, "alice", "see attached")
	msg.Attachments = []*discordgo.MessageAttachment{
		{URL: "https://cdn.example/one.png"},
		{URL: "https://cdn.example/two.png"},
	}
	session.history = []*discordgo.Message{msg}

	got := m.Transcript("chan-1", 50)
	require.Contains(t, got, "alice: see attached")
	require.Contains(t, got, "    attachment: https://cdn.example/one.png")
	require.Contains(t, got, "    attachment: https://cdn.example/two.png")
}

func TestTranscript_EmptyChannel(t *testing.T) {
	m, _, _ := newTestManager(t)
	require.Equal(t, "No messages in this channel.", m.Transcript("chan-1", 50))
}
