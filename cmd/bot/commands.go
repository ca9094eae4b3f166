package main

import (
	"fmt"

	"github.com/Jacobbrewer1/concord/cmd/bot/config"
	"github.com/Jacobbrewer1/concord/pkg/entities"
	"github.com/bwmarrin/discordgo"
)

var allCommands = []*discordgo.ApplicationCommand{
	pingCmd,
	settingsCmd,
	setLogChannelCmd,
	setTicketStaffRoleCmd,
	clearTicketStaffRoleCmd,
	setBugChannelsCmd,
	panelCmd,
	ticketCmd,
	vouchCmd,
	checkVouchCmd,
	topVouchesCmd,
	vouchRemoveCmd,
	bugCmd,
	purgeCmd,
	dailyCmd,
	balanceCmd,
	payCmd,
	rankCmd,
	leaderboardCmd,
	kickCmd,
	banCmd,
}

// slashControllers routes slash commands by name.
var slashControllers = map[string]commandProcessor{
	pingCmd.Name:                 pingHandler,
	settingsCmd.Name:             settingsHandler,
	setLogChannelCmd.Name:        setLogChannelHandler,
	setTicketStaffRoleCmd.Name:   setTicketStaffRoleHandler,
	clearTicketStaffRoleCmd.Name: clearTicketStaffRoleHandler,
	setBugChannelsCmd.Name:       setBugChannelsHandler,
	panelCmd.Name:                panelHandler,
	ticketCmd.Name:               ticketCmdHandler,
	vouchCmd.Name:                vouchHandler,
	checkVouchCmd.Name:           checkVouchHandler,
	topVouchesCmd.Name:           topVouchesHandler,
	vouchRemoveCmd.Name:          vouchRemoveHandler,
	bugCmd.Name:                  bugCmdHandler,
	purgeCmd.Name:                purgeHandler,
	dailyCmd.Name:                dailyHandler,
	balanceCmd.Name:              balanceHandler,
	payCmd.Name:                  payHandler,
	rankCmd.Name:                 rankHandler,
	leaderboardCmd.Name:          leaderboardHandler,
	kickCmd.Name:                 kickHandler,
	banCmd.Name:                  banHandler,
}

// componentControllers routes button clicks by custom ID prefix.
var componentControllers = map[string]commandProcessor{
	PanelTicketButtonID:     panelTicketButtonHandler,
	PanelBugReportButtonID:  panelBugReportButtonHandler,
	PanelBugBoardButtonID:   panelBugBoardButtonHandler,
	PanelMyVouchesButtonID:  panelMyVouchesButtonHandler,
	PanelTopVouchesButtonID: panelTopVouchesButtonHandler,
	BoardRefreshButtonID:    boardRefreshButtonHandler,
	BoardQuickSetButtonID:   boardQuickSetButtonHandler,
	BoardCommentButtonID:    boardCommentButtonHandler,
	BoardReopenButtonID:     boardReopenButtonHandler,
	BoardViewButtonID:       boardViewButtonHandler,
}

// modalControllers routes modal submissions by custom ID prefix.
var modalControllers = map[string]commandProcessor{
	BugReportModalID:  bugReportModalHandler,
	BugStatusModalID:  bugStatusModalHandler,
	BugCommentModalID: bugCommentModalHandler,
	BugReopenModalID:  bugReopenModalHandler,
	BugViewModalID:    bugViewModalHandler,
}

func (a *App) registerSlashCommands() error {
	// Every command operates on a guild, so none are offered in DMs.
	dmPermission := false
	for _, cmd := range allCommands {
		cmd.DMPermission = &dmPermission
	}

	// Guild-scoped when a guild restriction is configured, global otherwise.
	if _, err := a.s.ApplicationCommandBulkOverwrite(config.ApplicationId, config.GuildId, allCommands); err != nil {
		return fmt.Errorf("error registering slash commands: %w", err)
	}
	return nil
}

func (a *App) unregisterSlashCommands() error {
	if _, err := a.s.ApplicationCommandBulkOverwrite(config.ApplicationId, config.GuildId, []*discordgo.ApplicationCommand{}); err != nil {
		return fmt.Errorf("error unregistering slash commands: %w", err)
	}
	return nil
}

var (
	pingCmd = &discordgo.ApplicationCommand{
		Name:        "ping",
		Type:        discordgo.ChatApplicationCommand,
		Description: "Check that the bot is alive.",
	}

	settingsCmd = &discordgo.ApplicationCommand{
		Name:        "settings",
		Type:        discordgo.ChatApplicationCommand,
		Description: "Show the current configuration for this server.",
	}

	setLogChannelCmd = &discordgo.ApplicationCommand{
		Name:        "set-log-channel",
		Type:        discordgo.ChatApplicationCommand,
		Description: "Set the channel that event notices are posted to.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "channel",
				Type:        discordgo.ApplicationCommandOptionChannel,
				Description: "The channel to post event notices to.",
				Required:    true,
			},
		},
	}

	setTicketStaffRoleCmd = &discordgo.ApplicationCommand{
		Name:        "set-ticket-staff-role",
		Type:        discordgo.ChatApplicationCommand,
		Description: "Set the role that handles tickets.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "role",
				Type:        discordgo.ApplicationCommandOptionRole,
				Description: "The role that handles tickets.",
				Required:    true,
			},
		},
	}

	clearTicketStaffRoleCmd = &discordgo.ApplicationCommand{
		Name:        "clear-ticket-staff-role",
		Type:        discordgo.ChatApplicationCommand,
		Description: "Clear the ticket staff role.",
	}

	setBugChannelsCmd = &discordgo.ApplicationCommand{
		Name:        "set-bug-channels",
		Type:        discordgo.ChatApplicationCommand,
		Description: "Configure the bug tracking channels.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "input",
				Type:        discordgo.ApplicationCommandOptionChannel,
				Description: "Messages in this channel become bug reports.",
				Required:    true,
			},
			{
				Name:        "board",
				Type:        discordgo.ApplicationCommandOptionChannel,
				Description: "The channel holding the bug board message.",
				Required:    true,
			},
			{
				Name:        "updates",
				Type:        discordgo.ApplicationCommandOptionChannel,
				Description: "The channel for status change notices. Defaults to the board channel.",
			},
		},
	}

	panelCmd = &discordgo.ApplicationCommand{
		Name:        "panel",
		Type:        discordgo.ChatApplicationCommand,
		Description: "Post the button panel in this channel.",
	}

	ticketCmd = &discordgo.ApplicationCommand{
		Name:        "ticket",
		Type:        discordgo.ChatApplicationCommand,
		Description: "This is the command for controlling tickets.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "create",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Open a new support ticket.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "reason",
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "What the ticket is about.",
					},
				},
			},
			{
				Name:        "close",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Close the ticket for the channel that the command was executed in.",
			},
			{
				Name:        "info",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Show the ticket for the channel that the command was executed in.",
			},
			{
				Name:        "add",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Grant a user access to this ticket.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "user",
						Type:        discordgo.ApplicationCommandOptionUser,
						Description: "The user to add.",
						Required:    true,
					},
				},
			},
			{
				Name:        "remove",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Revoke a user's access to this ticket.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "user",
						Type:        discordgo.ApplicationCommandOptionUser,
						Description: "The user to remove.",
						Required:    true,
					},
				},
			},
			{
				Name:        "claim",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Claim this ticket for yourself.",
			},
			{
				Name:        "assign",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Assign a staff member to this ticket.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "user",
						Type:        discordgo.ApplicationCommandOptionUser,
						Description: "The staff member to assign.",
						Required:    true,
					},
				},
			},
			{
				Name:        "unassign",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Take a staff member off this ticket.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "user",
						Type:        discordgo.ApplicationCommandOptionUser,
						Description: "The staff member to unassign.",
						Required:    true,
					},
				},
			},
			{
				Name:        "transcript",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Export the ticket conversation as a text file.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "limit",
						Type:        discordgo.ApplicationCommandOptionInteger,
						Description: "How many messages to export (10-200).",
					},
				},
			},
		},
	}

	vouchCmd = &discordgo.ApplicationCommand{
		Name:        "vouch",
		Type:        discordgo.ChatApplicationCommand,
		Description: "Vouch for another member.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "user",
				Type:        discordgo.ApplicationCommandOptionUser,
				Description: "The member to vouch for.",
				Required:    true,
			},
			{
				Name:        "message",
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "Why you are vouching for them.",
			},
		},
	}

	checkVouchCmd = &discordgo.ApplicationCommand{
		Name:        "checkvouch",
		Type:        discordgo.ChatApplicationCommand,
		Description: "Show the vouches a member has received and given.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "user",
				Type:        discordgo.ApplicationCommandOptionUser,
				Description: "The member to check. Defaults to you.",
			},
		},
	}

	topVouchesCmd = &discordgo.ApplicationCommand{
		Name:        "topvouches",
		Type:        discordgo.ChatApplicationCommand,
		Description: "Show the most vouched members.",
	}

	vouchRemoveCmd = &discordgo.ApplicationCommand{
		Name:        "vouchremove",
		Type:        discordgo.ChatApplicationCommand,
		Description: "Remove a vouch by its ID.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "id",
				Type:        discordgo.ApplicationCommandOptionInteger,
				Description: "The ID of the vouch to remove.",
				Required:    true,
			},
		},
	}

	bugCmd = &discordgo.ApplicationCommand{
		Name:        "bug",
		Type:        discordgo.ChatApplicationCommand,
		Description: "This is the command for the bug tracker.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "board",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Force a refresh of the bug board.",
			},
			{
				Name:        "view",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "View a bug by its ID.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "id",
						Type:        discordgo.ApplicationCommandOptionInteger,
						Description: "The bug ID.",
						Required:    true,
					},
				},
			},
			{
				Name:        "list",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "List the most recent bugs.",
			},
			{
				Name:        "search",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Search bugs by title and description.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "query",
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "The text to search for.",
						Required:    true,
					},
				},
			},
			{
				Name:        "status",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Set the status of a bug.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "id",
						Type:        discordgo.ApplicationCommandOptionInteger,
						Description: "The bug ID.",
						Required:    true,
					},
					{
						Name:        "status",
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "The new status.",
						Required:    true,
						Choices:     bugStatusChoices(),
					},
					{
						Name:        "assign",
						Type:        discordgo.ApplicationCommandOptionUser,
						Description: "Assign the bug to this user.",
					},
					{
						Name:        "note",
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "A note to attach to the change.",
					},
				},
			},
			{
				Name:        "comment",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Comment on a bug.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "id",
						Type:        discordgo.ApplicationCommandOptionInteger,
						Description: "The bug ID.",
						Required:    true,
					},
					{
						Name:        "text",
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "The comment text.",
						Required:    true,
					},
				},
			},
			{
				Name:        "reopen",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Reopen a bug.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "id",
						Type:        discordgo.ApplicationCommandOptionInteger,
						Description: "The bug ID.",
						Required:    true,
					},
					{
						Name:        "note",
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "Why the bug is being reopened.",
					},
				},
			},
		},
	}

	purgeCmd = &discordgo.ApplicationCommand{
		Name:        "purge",
		Type:        discordgo.ChatApplicationCommand,
		Description: "Bulk delete recent messages in this channel.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "amount",
				Type:        discordgo.ApplicationCommandOptionInteger,
				Description: "How many messages to delete (1-100).",
				Required:    true,
			},
		},
	}

	dailyCmd = &discordgo.ApplicationCommand{
		Name:        "daily",
		Type:        discordgo.ChatApplicationCommand,
		Description: "Claim your daily coins.",
	}

	balanceCmd = &discordgo.ApplicationCommand{
		Name:        "balance",
		Type:        discordgo.ChatApplicationCommand,
		Description: "Show a member's coin balance.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "user",
				Type:        discordgo.ApplicationCommandOptionUser,
				Description: "The member to check. Defaults to you.",
			},
		},
	}

	payCmd = &discordgo.ApplicationCommand{
		Name:        "pay",
		Type:        discordgo.ChatApplicationCommand,
		Description: "Transfer coins to another member.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "user",
				Type:        discordgo.ApplicationCommandOptionUser,
				Description: "The member to pay.",
				Required:    true,
			},
			{
				Name:        "amount",
				Type:        discordgo.ApplicationCommandOptionInteger,
				Description: "How many coins to transfer.",
				Required:    true,
			},
		},
	}

	rankCmd = &discordgo.ApplicationCommand{
		Name:        "rank",
		Type:        discordgo.ChatApplicationCommand,
		Description: "Show a member's level and XP.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "user",
				Type:        discordgo.ApplicationCommandOptionUser,
				Description: "The member to check. Defaults to you.",
			},
		},
	}

	leaderboardCmd = &discordgo.ApplicationCommand{
		Name:        "leaderboard",
		Type:        discordgo.ChatApplicationCommand,
		Description: "Show the top members by level.",
	}

	kickCmd = &discordgo.ApplicationCommand{
		Name:        "kick",
		Type:        discordgo.ChatApplicationCommand,
		Description: "Kick a member from the server.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "user",
				Type:        discordgo.ApplicationCommandOptionUser,
				Description: "The member to kick.",
				Required:    true,
			},
			{
				Name:        "reason",
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "Why they are being kicked.",
			},
		},
	}

	banCmd = &discordgo.ApplicationCommand{
		Name:        "ban",
		Type:        discordgo.ChatApplicationCommand,
		Description: "Ban a member from the server.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "user",
				Type:        discordgo.ApplicationCommandOptionUser,
				Description: "The member to ban.",
				Required:    true,
			},
			{
				Name:        "reason",
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "Why they are being banned.",
			},
		},
	}
)

func bugStatusChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(entities.BugStatuses))
	for _, status := range entities.BugStatuses {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  string(status),
			Value: string(status),
		})
	}
	return choices
}
