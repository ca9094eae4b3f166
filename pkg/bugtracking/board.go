package bugtracking

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Jacobbrewer1/concord/pkg/entities"
	"github.com/Jacobbrewer1/concord/pkg/logging"
	"github.com/bwmarrin/discordgo"
)

// boardSize is how many bugs the board shows, most recent first.
const boardSize = 20

// Custom IDs for the board message buttons. The quick-set ID carries the target status
// after the ":" separator.
const (
	BoardRefreshButtonID  = "bug_refresh"
	BoardViewButtonID     = "bug_view"
	BoardCommentButtonID  = "bug_comment"
	BoardReopenButtonID   = "bug_reopen"
	BoardQuickSetButtonID = "bug_quickset"
)

// BoardComponents builds the button rows attached to the board message: the workflow
// row, then a quick-set button per non-open status.
func BoardComponents() []discordgo.MessageComponent {
	quickSet := make([]discordgo.MessageComponent, 0, len(entities.BugStatuses)-1)
	for _, status := range entities.BugStatuses {
		if status == entities.BugStatusOpen {
			continue
		}
		quickSet = append(quickSet, discordgo.Button{
			Label:    status.Emoji() + " " + string(status),
			Style:    discordgo.SecondaryButton,
			CustomID: BoardQuickSetButtonID + ":" + string(status),
		})
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "🔄 Refresh",
					Style:    discordgo.PrimaryButton,
					CustomID: BoardRefreshButtonID,
				},
				discordgo.Button{
					Label:    "🔍 View",
					Style:    discordgo.SecondaryButton,
					CustomID: BoardViewButtonID,
				},
				discordgo.Button{
					Label:    "💬 Comment",
					Style:    discordgo.SecondaryButton,
					CustomID: BoardCommentButtonID,
				},
				discordgo.Button{
					Label:    "♻️ Reopen",
					Style:    discordgo.SecondaryButton,
					CustomID: BoardReopenButtonID,
				},
			},
		},
		discordgo.ActionsRow{Components: quickSet},
	}
}

// RenderBoard renders the board content from the current bug list. It is a pure
// function of its input, so repeated refreshes with an unchanged store produce
// byte-identical output.
func RenderBoard(bugs []*entities.Bug) string {
	var open, resolved int
	for _, bug := range bugs {
		if bug.Status == entities.BugStatusResolved {
			resolved++
		} else {
			open++
		}
	}

	var b strings.Builder
	b.WriteString("**\U0001F41B Bug Board**\n")
	fmt.Fprintf(&b, "Open: **%d** | Resolved: **%d** | Total: **%d**\n\n", open, resolved, len(bugs))

	if len(bugs) == 0 {
		b.WriteString("No bugs reported yet.")
		return b.String()
	}

	// Most recent first.
	sorted := append([]*entities.Bug(nil), bugs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })
	if len(sorted) > boardSize {
		sorted = sorted[:boardSize]
	}

	for _, bug := range sorted {
		fmt.Fprintf(&b, "%s **#%d** %s — `%s`", bug.Status.Emoji(), bug.ID, Truncate(bug.Title, 60), bug.Status)
		if bug.AssigneeID != "" {
			fmt.Fprintf(&b, " · assigned to <@%s>", bug.AssigneeID)
		}
		if link := bug.Permalink(); link != "" {
			fmt.Fprintf(&b, " · [source](%s)", link)
		} else {
			b.WriteString(" · no source")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RefreshBoard reconciles the board message for the guild: the stored message is edited
// in place when it still resolves, otherwise a new one is posted and its reference
// persisted. Every refresh fully replaces the content; concurrent refreshes are not
// coordinated and the last edit wins.
func (t *Tracker) RefreshBoard(ctx context.Context, guildID string) error {
	guild, err := t.guildSettings(ctx, guildID)
	if err != nil {
		return err
	}

	if guild.Bugs.BoardChannelID == "" {
		return nil
	}

	bugs, err := t.bugs.ListBugs(ctx, guildID)
	if err != nil {
		return fmt.Errorf("error listing bugs: %w", err)
	}

	content := RenderBoard(bugs)

	if guild.Bugs.BoardMessageID != "" {
		if _, err := t.session.ChannelMessage(guild.Bugs.BoardChannelID, guild.Bugs.BoardMessageID); err == nil {
			edit := discordgo.NewMessageEdit(guild.Bugs.BoardChannelID, guild.Bugs.BoardMessageID)
			edit.Content = &content
			edit.Components = BoardComponents()
			if _, err := t.session.ChannelMessageEditComplex(edit); err != nil {
				return fmt.Errorf("error editing board message: %w", err)
			}
			return nil
		}
		// The stored message is gone; fall through and post a fresh one.
		t.l.Warn("Stored board message no longer resolves, reposting",
			slog.String(logging.KeyGuild, guildID),
			slog.String(logging.KeyChannel, guild.Bugs.BoardChannelID),
		)
	}

	msg, err := t.session.ChannelMessageSendComplex(guild.Bugs.BoardChannelID, &discordgo.MessageSend{
		Content:    content,
		Components: BoardComponents(),
	})
	if err != nil {
		return fmt.Errorf("error posting board message: %w", err)
	}

	guild.Bugs.BoardMessageID = msg.ID
	if err := t.guilds.SaveGuild(ctx, guild); err != nil {
		return fmt.Errorf("error saving board message reference: %w", err)
	}
	return nil
}
