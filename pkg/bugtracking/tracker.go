package bugtracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Jacobbrewer1/concord/pkg/custom"
	"github.com/Jacobbrewer1/concord/pkg/dataaccess"
	"github.com/Jacobbrewer1/concord/pkg/entities"
	"github.com/bwmarrin/discordgo"
)

const (
	// MaxTitleLen and MaxDescriptionLen bound bug titles and descriptions.
	MaxTitleLen       = 100
	MaxDescriptionLen = 900

	// MaxCommentLen bounds a single comment.
	MaxCommentLen = 900
)

var (
	// ErrUnknownBug is returned when the bug ID does not exist for the guild. Callers
	// render it as a user-facing message; no record is created or mutated.
	ErrUnknownBug = errors.New("unknown bug id")

	// ErrInvalidStatus is returned for a status outside the enumerated set.
	ErrInvalidStatus = errors.New("invalid bug status")
)

// Discord is the slice of the chat platform the bug tracker needs. *discordgo.Session
// satisfies it.
type Discord interface {
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// SourceRef references the message a bug was ingested from.
type SourceRef struct {
	ChannelID string
	MessageID string
}

// Tracker owns the bug lifecycle and the board message.
type Tracker struct {
	// l is the logger.
	l *slog.Logger

	// session is the discord session.
	session Discord

	// guilds and bugs are the backing stores.
	guilds dataaccess.GuildDal
	bugs   dataaccess.BugDal
}

// NewTracker creates a new bug tracker.
func NewTracker(l *slog.Logger, session Discord, guilds dataaccess.GuildDal, bugs dataaccess.BugDal) *Tracker {
	return &Tracker{
		l:       l.With(slog.String("component", "bugtracking")),
		session: session,
		guilds:  guilds,
		bugs:    bugs,
	}
}

func (t *Tracker) guildSettings(ctx context.Context, guildID string) (*entities.Guild, error) {
	guild, err := t.guilds.GetGuildByID(ctx, guildID)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return entities.NewGuild(guildID), nil
		}
		return nil, fmt.Errorf("error getting guild: %w", err)
	}
	return guild, nil
}

// Truncate cuts s down to max runes.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// CreateBug records a new bug report with the next sequential ID for the guild. Empty
// titles and descriptions fall back to placeholders; both are truncated to their limits.
func (t *Tracker) CreateBug(ctx context.Context, guildID, reporterID, title, description string, source *SourceRef) (*entities.Bug, error) {
	guild, err := t.guildSettings(ctx, guildID)
	if err != nil {
		return nil, err
	}

	guild.Bugs.Counter++
	if err := t.guilds.SaveGuild(ctx, guild); err != nil {
		return nil, fmt.Errorf("error saving guild counter: %w", err)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = "(untitled report)"
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = "(no description)"
	}

	bug := &entities.Bug{
		ID:          guild.Bugs.Counter,
		GuildID:     guildID,
		ReporterID:  reporterID,
		Title:       Truncate(title, MaxTitleLen),
		Description: Truncate(description, MaxDescriptionLen),
		Status:      entities.BugStatusOpen,
		CreatedAt:   custom.Now(),
		UpdatedAt:   custom.Now(),
	}
	if source != nil {
		bug.SourceChannelID = source.ChannelID
		bug.SourceMessageID = source.MessageID
	}

	if err := t.bugs.SaveBug(ctx, bug); err != nil {
		return nil, fmt.Errorf("error saving bug: %w", err)
	}
	return bug, nil
}

func (t *Tracker) getBug(ctx context.Context, guildID string, id int) (*entities.Bug, error) {
	bug, err := t.bugs.GetBug(ctx, guildID, id)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return nil, ErrUnknownBug
		}
		return nil, fmt.Errorf("error getting bug: %w", err)
	}
	return bug, nil
}

// GetBug returns the bug with the given ID.
func (t *Tracker) GetBug(ctx context.Context, guildID string, id int) (*entities.Bug, error) {
	return t.getBug(ctx, guildID, id)
}

// ListBugs returns all bugs for the guild, ascending by ID.
func (t *Tracker) ListBugs(ctx context.Context, guildID string) ([]*entities.Bug, error) {
	return t.bugs.ListBugs(ctx, guildID)
}

// SearchBugs returns bugs whose title or description contains the query,
// case-insensitively.
func (t *Tracker) SearchBugs(ctx context.Context, guildID, query string) ([]*entities.Bug, error) {
	bugs, err := t.bugs.ListBugs(ctx, guildID)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var out []*entities.Bug
	for _, bug := range bugs {
		if strings.Contains(strings.ToLower(bug.Title), query) ||
			strings.Contains(strings.ToLower(bug.Description), query) {
			out = append(out, bug)
		}
	}
	return out, nil
}

// SetStatus transitions the bug to the given status. Any status-to-status transition is
// permitted. The assignee is a tri-state: nil leaves it unchanged, a pointer to the
// empty string clears it, any other pointer sets it. The note replaces the last note
// only when non-empty.
func (t *Tracker) SetStatus(ctx context.Context, guildID string, id int, status entities.BugStatus, assignee *string, note string) (*entities.Bug, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	bug, err := t.getBug(ctx, guildID, id)
	if err != nil {
		return nil, err
	}

	bug.Status = status
	bug.UpdatedAt = custom.Now()
	if assignee != nil {
		bug.AssigneeID = *assignee
	}
	if note != "" {
		bug.LastNote = Truncate(note, MaxCommentLen)
	}

	if err := t.bugs.SaveBug(ctx, bug); err != nil {
		return nil, fmt.Errorf("error saving bug: %w", err)
	}
	return bug, nil
}

// AddComment appends a comment to the bug.
func (t *Tracker) AddComment(ctx context.Context, guildID string, id int, authorID, text string) (*entities.Bug, error) {
	bug, err := t.getBug(ctx, guildID, id)
	if err != nil {
		return nil, err
	}

	bug.Comments = append(bug.Comments, entities.BugComment{
		AuthorID:  authorID,
		Text:      Truncate(text, MaxCommentLen),
		CreatedAt: custom.Now(),
	})
	bug.UpdatedAt = custom.Now()

	if err := t.bugs.SaveBug(ctx, bug); err != nil {
		return nil, fmt.Errorf("error saving bug: %w", err)
	}
	return bug, nil
}

// Reopen forces the bug back to OPEN from any status.
func (t *Tracker) Reopen(ctx context.Context, guildID string, id int, note string) (*entities.Bug, error) {
	bug, err := t.getBug(ctx, guildID, id)
	if err != nil {
		return nil, err
	}

	bug.Status = entities.BugStatusOpen
	bug.UpdatedAt = custom.Now()
	if note != "" {
		bug.LastNote = Truncate(note, MaxCommentLen)
	}

	if err := t.bugs.SaveBug(ctx, bug); err != nil {
		return nil, fmt.Errorf("error saving bug: %w", err)
	}
	return bug, nil
}
