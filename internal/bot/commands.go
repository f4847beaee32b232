package bot

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/scidept/sentinel/internal/database/types"
)

// commands returns every guild command the bot registers on startup.
func commands() []discord.ApplicationCommandCreate {
	return []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{
			Name:        "log",
			Description: "Log a completed task with proof and type.",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "task_type",
					Description: "The type of task you completed",
					Required:    true,
					Choices:     taskTypeChoices(),
				},
				discord.ApplicationCommandOptionAttachment{
					Name:        "proof",
					Description: "Screenshot or other proof of the task",
					Required:    true,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "viewtest",
			Description: "View a specific Cross-Testing or Anomaly Testing log by number.",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "test_type",
					Description: "The numbered test type",
					Required:    true,
					Choices:     testTypeChoices(),
				},
				discord.ApplicationCommandOptionInt{
					Name:        "number",
					Description: "The test number to view",
					Required:    true,
					MinValue:    intPtr(1),
					MaxValue:    intPtr(10000),
				},
				discord.ApplicationCommandOptionUser{
					Name:        "member",
					Description: "Member to view; defaults to you",
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "mytasks",
			Description: "Check your weekly tasks and time.",
		},
		discord.SlashCommandCreate{
			Name:        "viewtasks",
			Description: "Show a member's task totals by type (all-time).",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "member",
					Description: "Member to view; defaults to you",
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "addtask",
			Description: "(Mgmt) Add tasks to a member's history and weekly totals.",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "member",
					Description: "Member to credit",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "task_type",
					Description: "The type of task to add",
					Required:    true,
					Choices:     taskTypeChoices(),
				},
				discord.ApplicationCommandOptionInt{
					Name:        "count",
					Description: "How many to add",
					MinValue:    intPtr(1),
					MaxValue:    intPtr(100),
				},
				discord.ApplicationCommandOptionString{
					Name:        "comments",
					Description: "Comments stored on each added log",
				},
				discord.ApplicationCommandOptionAttachment{
					Name:        "proof",
					Description: "Optional proof attached to each added log",
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "leaderboard",
			Description: "Displays the weekly leaderboard (tasks + on-site minutes).",
		},
		discord.SlashCommandCreate{
			Name:        "removelastlog",
			Description: "(Mgmt) Removes the last logged weekly task for a member.",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "member",
					Description: "Member whose newest weekly log is removed",
					Required:    true,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "welcome",
			Description: "Sends the official Scientific Department welcome message.",
		},
		discord.SlashCommandCreate{
			Name:        "strikes",
			Description: "Manage and view disciplinary strikes.",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionSubCommand{
					Name:        "add",
					Description: "(Mgmt) Add a strike to a member.",
					Options: []discord.ApplicationCommandOption{
						discord.ApplicationCommandOptionUser{
							Name:        "member",
							Description: "Member to strike",
							Required:    true,
						},
						discord.ApplicationCommandOptionString{
							Name:        "reason",
							Description: "Why the strike is issued",
							Required:    true,
						},
					},
				},
				discord.ApplicationCommandOptionSubCommand{
					Name:        "remove",
					Description: "(Mgmt) Remove active strikes, earliest expiring first.",
					Options: []discord.ApplicationCommandOption{
						discord.ApplicationCommandOptionUser{
							Name:        "member",
							Description: "Member to clear strikes from",
							Required:    true,
						},
						discord.ApplicationCommandOptionInt{
							Name:        "count",
							Description: "How many strikes to remove",
							MinValue:    intPtr(1),
							MaxValue:    intPtr(10),
						},
					},
				},
				discord.ApplicationCommandOptionSubCommand{
					Name:        "view",
					Description: "View a member's active and total strikes.",
					Options: []discord.ApplicationCommandOption{
						discord.ApplicationCommandOptionUser{
							Name:        "member",
							Description: "Member to view; defaults to you",
						},
					},
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "orientationview",
			Description: "View a member's orientation status.",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "member",
					Description: "Member to view; defaults to you",
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "passedorientation",
			Description: "(Mgmt) Mark a member as having passed orientation.",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "member",
					Description: "Member who passed",
					Required:    true,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "extendorientation",
			Description: "(Mgmt) Extend a member's orientation deadline by N days.",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "member",
					Description: "Member whose deadline moves",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "days",
					Description: "Days to add to the current deadline",
					Required:    true,
					MinValue:    intPtr(1),
					MaxValue:    intPtr(60),
				},
				discord.ApplicationCommandOptionString{
					Name:        "reason",
					Description: "Why the deadline is extended",
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "activityexcuse",
			Description: "(Mgmt) Set or clear a weekly activity excuse (no strikes for that week).",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionSubCommand{
					Name:        "set",
					Description: "Excuse a week from strike issuance.",
					Options: []discord.ApplicationCommandOption{
						discord.ApplicationCommandOptionString{
							Name:        "reason",
							Description: "Why the week is excused",
							Required:    true,
						},
						discord.ApplicationCommandOptionString{
							Name:        "week",
							Description: "ISO week like 2025-W39; default = current week",
						},
					},
				},
				discord.ApplicationCommandOptionSubCommand{
					Name:        "clear",
					Description: "Clear a week's excuse.",
					Options: []discord.ApplicationCommandOption{
						discord.ApplicationCommandOptionString{
							Name:        "week",
							Description: "ISO week like 2025-W39; default = current week",
						},
					},
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "verify",
			Description: "Link your Roblox account to the bot.",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "roblox_username",
					Description: "Your Roblox username",
					Required:    true,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "announce",
			Description: "Open a form to send an announcement.",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "color",
					Description: "Embed color; defaults to blue",
					Choices:     announceColorChoices(),
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "rank",
			Description: "(Rank Manager) Set a member's Roblox/Discord rank to a group role.",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "member",
					Description: "Member to rank",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:         "group_role",
					Description:  "Group role name",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
	}
}

func taskTypeChoices() []discord.ApplicationCommandOptionChoiceString {
	choices := make([]discord.ApplicationCommandOptionChoiceString, len(types.TaskTypes))
	for i, taskType := range types.TaskTypes {
		choices[i] = discord.ApplicationCommandOptionChoiceString{Name: taskType, Value: taskType}
	}

	return choices
}

func testTypeChoices() []discord.ApplicationCommandOptionChoiceString {
	choices := make([]discord.ApplicationCommandOptionChoiceString, 0, len(types.NumberedTaskTypes))

	for _, taskType := range types.TaskTypes {
		if types.IsNumberedTaskType(taskType) {
			choices = append(choices, discord.ApplicationCommandOptionChoiceString{Name: taskType, Value: taskType})
		}
	}

	return choices
}

func announceColorChoices() []discord.ApplicationCommandOptionChoiceString {
	choices := make([]discord.ApplicationCommandOptionChoiceString, 0, len(announceColorNames))
	for _, name := range announceColorNames {
		choices = append(choices, discord.ApplicationCommandOptionChoiceString{Name: name.label, Value: name.value})
	}

	return choices
}

func intPtr(v int) *int {
	return &v
}
