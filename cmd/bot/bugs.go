package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Jacobbrewer1/concord/pkg/bugtracking"
	"github.com/Jacobbrewer1/concord/pkg/entities"
	"github.com/Jacobbrewer1/concord/pkg/messages"
	"github.com/bwmarrin/discordgo"
)

// Board buttons are built alongside the board message itself, so their custom IDs live
// with the tracker.
const (
	BoardRefreshButtonID  = bugtracking.BoardRefreshButtonID
	BoardViewButtonID     = bugtracking.BoardViewButtonID
	BoardCommentButtonID  = bugtracking.BoardCommentButtonID
	BoardReopenButtonID   = bugtracking.BoardReopenButtonID
	BoardQuickSetButtonID = bugtracking.BoardQuickSetButtonID
)

// Custom IDs for the bug modals. The status modal carries the target status after ":".
const (
	BugReportModalID  = "bug_report_modal"
	BugStatusModalID  = "bug_status_modal"
	BugCommentModalID = "bug_comment_modal"
	BugReopenModalID  = "bug_reopen_modal"
	BugViewModalID    = "bug_view_modal"
)

func bugCmdHandler(a IApp, i *discordgo.InteractionCreate) error {
	sub, opts := subCommand(i)
	switch sub {
	case "board":
		return bugBoardRefresh(a, i)
	case "view":
		id := int(optionMap(opts)["id"].IntValue())
		return bugView(a, i, id)
	case "list":
		return bugList(a, i)
	case "search":
		return bugSearch(a, i, optionMap(opts)["query"].StringValue())
	case "status":
		return bugStatus(a, i, opts)
	case "comment":
		return bugComment(a, i, opts)
	case "reopen":
		return bugReopen(a, i, opts)
	default:
		return fmt.Errorf("unknown bug sub command %q", sub)
	}
}

func bugBoardRefresh(a IApp, i *discordgo.InteractionCreate) error {
	if !memberIsElevated(i) {
		return respondEphemeral(a, i, messages.ErrNotElevated)
	}

	ctx := context.Background()
	guild, err := guildSettings(a, ctx, i.GuildID)
	if err != nil {
		return fmt.Errorf("error getting guild settings: %w", err)
	}
	if guild.Bugs.BoardChannelID == "" {
		return respondEphemeral(a, i, "No bug board channel is configured. Use `/set-bug-channels` first.")
	}

	if err := a.Bugs().RefreshBoard(ctx, i.GuildID); err != nil {
		return fmt.Errorf("error refreshing bug board: %w", err)
	}
	return respondEphemeral(a, i, fmt.Sprintf("Board refreshed in <#%s>.", guild.Bugs.BoardChannelID))
}

func bugView(a IApp, i *discordgo.InteractionCreate, id int) error {
	bug, err := a.Bugs().GetBug(context.Background(), i.GuildID, id)
	if err != nil {
		if errors.Is(err, bugtracking.ErrUnknownBug) {
			return respondEphemeral(a, i, fmt.Sprintf("No bug **#%d** exists here.", id))
		}
		return fmt.Errorf("error getting bug: %w", err)
	}
	return respondEphemeralEmbed(a, i, bugEmbed(bug))
}

func bugList(a IApp, i *discordgo.InteractionCreate) error {
	bugs, err := a.Bugs().ListBugs(context.Background(), i.GuildID)
	if err != nil {
		return fmt.Errorf("error listing bugs: %w", err)
	}
	return respondEphemeral(a, i, bugtracking.RenderBoard(bugs))
}

func bugSearch(a IApp, i *discordgo.InteractionCreate, query string) error {
	bugs, err := a.Bugs().SearchBugs(context.Background(), i.GuildID, query)
	if err != nil {
		return fmt.Errorf("error searching bugs: %w", err)
	}
	if len(bugs) == 0 {
		return respondEphemeral(a, i, fmt.Sprintf("No bugs match `%s`.", bugtracking.Truncate(query, 60)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%d** bug(s) match `%s`:\n", len(bugs), bugtracking.Truncate(query, 60))
	for _, bug := range bugs {
		fmt.Fprintf(&b, "%s **#%d** %s — `%s`\n", bug.Status.Emoji(), bug.ID, bugtracking.Truncate(bug.Title, 60), bug.Status)
	}
	return respondEphemeral(a, i, b.String())
}

func bugStatus(a IApp, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	if !memberIsElevated(i) {
		return respondEphemeral(a, i, messages.ErrNotElevated)
	}

	om := optionMap(opts)
	id := int(om["id"].IntValue())
	status := entities.BugStatus(om["status"].StringValue())

	var assignee *string
	if opt, ok := om["assign"]; ok {
		user := opt.UserValue(a.Session())
		assignee = &user.ID
	}
	note := ""
	if opt, ok := om["note"]; ok {
		note = opt.StringValue()
	}

	return applyBugStatus(a, i, id, status, assignee, note)
}

// applyBugStatus runs the shared tail of the slash and modal status flows: the state
// change, the announcement, and the board refresh.
func applyBugStatus(a IApp, i *discordgo.InteractionCreate, id int, status entities.BugStatus, assignee *string, note string) error {
	ctx := context.Background()

	bug, err := a.Bugs().SetStatus(ctx, i.GuildID, id, status, assignee, note)
	if err != nil {
		switch {
		case errors.Is(err, bugtracking.ErrUnknownBug):
			return respondEphemeral(a, i, fmt.Sprintf("No bug **#%d** exists here.", id))
		case errors.Is(err, bugtracking.ErrInvalidStatus):
			return respondEphemeral(a, i, fmt.Sprintf("`%s` is not a valid status.", status))
		}
		return fmt.Errorf("error setting bug status: %w", err)
	}

	a.Bugs().AnnounceUpdate(ctx, i.GuildID, bug, i.Member.User.ID, note)
	if err := a.Bugs().RefreshBoard(ctx, i.GuildID); err != nil {
		a.Log().Warn("Error refreshing bug board after status change")
	}

	return respondEphemeral(a, i, fmt.Sprintf("Bug **#%d** is now `%s`.", bug.ID, bug.Status))
}

func bugComment(a IApp, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	if !memberIsElevated(i) {
		return respondEphemeral(a, i, messages.ErrNotElevated)
	}

	om := optionMap(opts)
	return applyBugComment(a, i, int(om["id"].IntValue()), om["text"].StringValue())
}

func applyBugComment(a IApp, i *discordgo.InteractionCreate, id int, text string) error {
	bug, err := a.Bugs().AddComment(context.Background(), i.GuildID, id, i.Member.User.ID, text)
	if err != nil {
		if errors.Is(err, bugtracking.ErrUnknownBug) {
			return respondEphemeral(a, i, fmt.Sprintf("No bug **#%d** exists here.", id))
		}
		return fmt.Errorf("error commenting on bug: %w", err)
	}
	return respondEphemeral(a, i, fmt.Sprintf("Comment added to bug **#%d** (%d total).", bug.ID, len(bug.Comments)))
}

func bugReopen(a IApp, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	if !memberIsElevated(i) {
		return respondEphemeral(a, i, messages.ErrNotElevated)
	}

	om := optionMap(opts)
	note := ""
	if opt, ok := om["note"]; ok {
		note = opt.StringValue()
	}
	return applyBugReopen(a, i, int(om["id"].IntValue()), note)
}

func applyBugReopen(a IApp, i *discordgo.InteractionCreate, id int, note string) error {
	ctx := context.Background()

	bug, err := a.Bugs().Reopen(ctx, i.GuildID, id, note)
	if err != nil {
		if errors.Is(err, bugtracking.ErrUnknownBug) {
			return respondEphemeral(a, i, fmt.Sprintf("No bug **#%d** exists here.", id))
		}
		return fmt.Errorf("error reopening bug: %w", err)
	}

	a.Bugs().AnnounceUpdate(ctx, i.GuildID, bug, i.Member.User.ID, note)
	if err := a.Bugs().RefreshBoard(ctx, i.GuildID); err != nil {
		a.Log().Warn("Error refreshing bug board after reopen")
	}

	return respondEphemeral(a, i, fmt.Sprintf("Bug **#%d** reopened.", bug.ID))
}

// Panel buttons.

func panelBugReportButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: BugReportModalID,
			Title:    "Report a bug",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:  "title",
							Label:     "Title",
							Style:     discordgo.TextInputShort,
							Required:  true,
							MaxLength: bugtracking.MaxTitleLen,
						},
					},
				},
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:    "description",
							Label:       "What happened?",
							Style:       discordgo.TextInputParagraph,
							Placeholder: "Steps to reproduce, what you expected, what you got.",
							Required:    true,
							MaxLength:   bugtracking.MaxDescriptionLen,
						},
					},
				},
			},
		},
	})
}

func bugReportModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	data := i.ModalSubmitData()

	bug, err := a.Bugs().CreateBug(ctx, i.GuildID, i.Member.User.ID,
		modalValue(data, "title"), modalValue(data, "description"), nil)
	if err != nil {
		return fmt.Errorf("error creating bug: %w", err)
	}

	if err := a.Bugs().RefreshBoard(ctx, i.GuildID); err != nil {
		a.Log().Warn("Error refreshing bug board after report")
	}

	return respondEphemeral(a, i, fmt.Sprintf("Thanks! Tracked as bug **#%d**.", bug.ID))
}

func panelBugBoardButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	guild, err := guildSettings(a, ctx, i.GuildID)
	if err != nil {
		return fmt.Errorf("error getting guild settings: %w", err)
	}
	if guild.Bugs.BoardChannelID == "" {
		return respondEphemeral(a, i, "No bug board channel is configured yet.")
	}
	return respondEphemeral(a, i, fmt.Sprintf("The bug board lives in <#%s>.", guild.Bugs.BoardChannelID))
}

// Board buttons.

func boardRefreshButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	return bugBoardRefresh(a, i)
}

func boardQuickSetButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	if !memberIsElevated(i) {
		return respondEphemeral(a, i, messages.ErrNotElevated)
	}

	status := entities.BugStatus(customIDArg(i.MessageComponentData().CustomID))
	if !status.Valid() {
		return fmt.Errorf("quick set button carries invalid status %q", status)
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: BugStatusModalID + ":" + string(status),
			Title:    fmt.Sprintf("Mark bug as %s", status),
			Components: []discordgo.MessageComponent{
				bugIDInputRow(),
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:    "assignee",
							Label:       "Assignee",
							Style:       discordgo.TextInputShort,
							Placeholder: "User ID or @mention, \"-\" to clear, empty to keep",
						},
					},
				},
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:  "note",
							Label:     "Note",
							Style:     discordgo.TextInputParagraph,
							MaxLength: bugtracking.MaxCommentLen,
						},
					},
				},
			},
		},
	})
}

func bugStatusModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	// Permissions may have changed between the button press and the submit.
	if !memberIsElevated(i) {
		return respondEphemeral(a, i, messages.ErrNotElevated)
	}

	data := i.ModalSubmitData()

	status := entities.BugStatus(customIDArg(data.CustomID))
	id, err := parseBugID(modalValue(data, "id"))
	if err != nil {
		return respondEphemeral(a, i, "That is not a valid bug ID.")
	}

	return applyBugStatus(a, i, id, status, parseAssignee(modalValue(data, "assignee")), strings.TrimSpace(modalValue(data, "note")))
}

func boardCommentButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	if !memberIsElevated(i) {
		return respondEphemeral(a, i, messages.ErrNotElevated)
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: BugCommentModalID,
			Title:    "Comment on a bug",
			Components: []discordgo.MessageComponent{
				bugIDInputRow(),
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:  "text",
							Label:     "Comment",
							Style:     discordgo.TextInputParagraph,
							Required:  true,
							MaxLength: bugtracking.MaxCommentLen,
						},
					},
				},
			},
		},
	})
}

func bugCommentModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	if !memberIsElevated(i) {
		return respondEphemeral(a, i, messages.ErrNotElevated)
	}

	data := i.ModalSubmitData()

	id, err := parseBugID(modalValue(data, "id"))
	if err != nil {
		return respondEphemeral(a, i, "That is not a valid bug ID.")
	}
	return applyBugComment(a, i, id, modalValue(data, "text"))
}

func boardReopenButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	if !memberIsElevated(i) {
		return respondEphemeral(a, i, messages.ErrNotElevated)
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: BugReopenModalID,
			Title:    "Reopen a bug",
			Components: []discordgo.MessageComponent{
				bugIDInputRow(),
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:  "note",
							Label:     "Why is it coming back?",
							Style:     discordgo.TextInputParagraph,
							MaxLength: bugtracking.MaxCommentLen,
						},
					},
				},
			},
		},
	})
}

func bugReopenModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	if !memberIsElevated(i) {
		return respondEphemeral(a, i, messages.ErrNotElevated)
	}

	data := i.ModalSubmitData()

	id, err := parseBugID(modalValue(data, "id"))
	if err != nil {
		return respondEphemeral(a, i, "That is not a valid bug ID.")
	}
	return applyBugReopen(a, i, id, strings.TrimSpace(modalValue(data, "note")))
}

func boardViewButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   BugViewModalID,
			Title:      "View a bug",
			Components: []discordgo.MessageComponent{bugIDInputRow()},
		},
	})
}

func bugViewModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	id, err := parseBugID(modalValue(i.ModalSubmitData(), "id"))
	if err != nil {
		return respondEphemeral(a, i, "That is not a valid bug ID.")
	}
	return bugView(a, i, id)
}

func bugIDInputRow() discordgo.ActionsRow {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    "id",
				Label:       "Bug ID",
				Style:       discordgo.TextInputShort,
				Placeholder: "The number from the board, without the #",
				Required:    true,
				MaxLength:   10,
			},
		},
	}
}

func bugEmbed(bug *entities.Bug) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s Bug #%d: %s", bug.Status.Emoji(), bug.ID, bug.Title),
		Description: bug.Description,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Status", Value: string(bug.Status), Inline: true},
			{Name: "Reporter", Value: "<@" + bug.ReporterID + ">", Inline: true},
		},
	}
	if bug.AssigneeID != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Assignee", Value: "<@" + bug.AssigneeID + ">", Inline: true,
		})
	}
	if bug.LastNote != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Last note", Value: bug.LastNote,
		})
	}
	if link := bug.Permalink(); link != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Source", Value: link,
		})
	}
	if n := len(bug.Comments); n > 0 {
		// The most recent few; full history stays in the record.
		var b strings.Builder
		start := n - 3
		if start < 0 {
			start = 0
		}
		for _, comment := range bug.Comments[start:] {
			fmt.Fprintf(&b, "<@%s>: %s\n", comment.AuthorID, bugtracking.Truncate(comment.Text, 200))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("Comments (%d)", n), Value: b.String(),
		})
	}
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Reported %s · Updated %s", bug.CreatedAt.String(), bug.UpdatedAt.String()),
	}
	return embed
}

// parseBugID parses a user-supplied bug ID, tolerating a leading "#".
func parseBugID(raw string) (int, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "#")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid bug id %q", raw)
	}
	return id, nil
}

// parseAssignee maps the free-text assignee input onto the tri-state assignment value:
// empty keeps the current assignee, "-" clears it, anything else is a user reference.
func parseAssignee(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if raw == "-" {
		cleared := ""
		return &cleared
	}
	id := strings.Trim(raw, "<@!>")
	return &id
}
