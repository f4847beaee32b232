package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/scidept/sentinel/internal/database/types"
	msg "github.com/scidept/sentinel/internal/discord"
)

const (
	taskLogModalID         = "task-log-comments"
	taskLogCommentsInputID = "comments"

	colorGold = 0xF1C40F
)

// handleLog stores the submission half of /log and opens the comments modal.
func (b *Bot) handleLog(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) error {
	taskType := data.String("task_type")
	proof := data.Attachment("proof")

	userID, _ := invoker(event)
	b.pending.put(userID, taskType, proof.URL)

	modal := discord.NewModalCreateBuilder().
		SetCustomID(taskLogModalID).
		SetTitle("Add Comments (optional)").
		AddActionRow(
			discord.NewTextInput(taskLogCommentsInputID, discord.TextInputStyleParagraph, "Comments").
				WithRequired(false).
				WithMaxLength(1000).
				WithPlaceholder("Any additional comments?"),
		).
		Build()

	return event.Modal(modal)
}

// handleLogModal completes a /log submission once the comments arrive.
func (b *Bot) handleLogModal(ctx context.Context, event *events.ModalSubmitInteractionCreate) error {
	user := event.User()
	userID := uint64(user.ID)

	name := user.EffectiveName()
	if member := event.Member(); member != nil {
		name = member.EffectiveName()
	}

	entry, ok := b.pending.take(userID)
	if !ok {
		return reply(event, "Your task submission expired. Please run /log again.")
	}

	comments := event.Data.Text(taskLogCommentsInputID)
	if comments == "" {
		comments = "No comments"
	}

	log, weekly, err := b.db.Service().Activity().LogTask(ctx, userID, entry.taskType, entry.proofURL, comments)
	if err != nil {
		return err
	}

	suffix := ""
	if log.SequenceNo != nil {
		suffix = fmt.Sprintf(" #%d", *log.SequenceNo)
	}

	b.notifier.TaskLogEmbed(discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("✅ Task Logged — %s%s", entry.taskType, suffix)).
		SetDescription(fmt.Sprintf("**Task Type:** %s%s\n\n**Comments:**\n%s", entry.taskType, suffix, comments)).
		SetColor(msg.ColorSuccess).
		SetAuthor(name, "", user.EffectiveAvatarURL()).
		SetImage(entry.proofURL).
		SetFooter(fmt.Sprintf("Member ID: %d", userID), "").
		SetTimestamp(time.Now()).
		Build())

	b.notifier.LogAction("Task Logged",
		fmt.Sprintf("User: <@%d>\nType: **%s%s**", userID, entry.taskType, suffix))

	return reply(event, fmt.Sprintf(
		"Your task has been logged! You have completed %d task(s) this week.", weekly))
}

// handleViewTest shows one numbered test submission.
func (b *Bot) handleViewTest(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData,
) error {
	testType := data.String("test_type")
	number := data.Int("number")
	targetID, targetName, _ := targetOrSelf(event, data)

	log, err := b.db.Model().TaskLog().GetBySequence(ctx, targetID, testType, number)
	if err != nil {
		return err
	}

	if log == nil {
		maxSeq, err := b.db.Model().TaskLog().MaxSequence(ctx, targetID, testType)
		if err != nil {
			return err
		}

		if maxSeq == 0 {
			return reply(event, fmt.Sprintf("No **%s** logs found for %s.", testType, targetName))
		}

		return reply(event, fmt.Sprintf("%s has **%d** %s. Number **%d** doesn't exist.",
			targetName, maxSeq, types.PluralTaskName(testType), number))
	}

	comments := log.Comments
	if comments == "" {
		comments = "—"
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("%s #%d — %s", testType, number, targetName)).
		SetDescription(fmt.Sprintf("**Member:** <@%d>\n**Logged:** %s\n**Comments:** %s",
			targetID, formatUTC(log.LoggedAt), comments)).
		SetColor(msg.ColorInfo).
		SetTimestamp(time.Now())

	if log.ProofURL != "" {
		embed.SetImage(log.ProofURL)
	}

	return replyEmbed(event, embed.Build())
}

// handleMyTasks shows the invoker's weekly progress and active strikes.
func (b *Bot) handleMyTasks(ctx context.Context, event *events.ApplicationCommandInteractionCreate) error {
	memberID, _ := invoker(event)

	tasks, err := b.db.Model().Activity().TasksCompleted(ctx, memberID)
	if err != nil {
		return err
	}

	seconds, err := b.db.Model().Activity().TimeSpentSeconds(ctx, memberID)
	if err != nil {
		return err
	}

	active, err := b.db.Model().Strike().ActiveCount(ctx, memberID, time.Now().UTC())
	if err != nil {
		return err
	}

	return reply(event, fmt.Sprintf(
		"You have **%d/%d** tasks and **%d/%d** mins. Active strikes: **%d/%d**.",
		tasks, b.cfg.Requirements.WeeklyTasks,
		seconds/60, b.cfg.Requirements.WeeklyMinutes,
		active, types.StrikeThreshold))
}

// handleViewTasks shows a member's all-time totals per task type.
func (b *Bot) handleViewTasks(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData,
) error {
	targetID, targetName, other := targetOrSelf(event, data)

	counts, err := b.db.Model().TaskLog().TotalsByType(ctx, targetID)
	if err != nil {
		return err
	}

	if len(counts) == 0 {
		return reply(event, fmt.Sprintf("No tasks found for %s.", targetName))
	}

	total, err := b.db.Model().TaskLog().Total(ctx, targetID)
	if err != nil {
		return err
	}

	requesterID, _ := invoker(event)
	b.notifier.LogAction("Viewed Tasks",
		fmt.Sprintf("Requester: <@%d>\nTarget: %s", requesterID, targetLabel(targetID, other)))

	return replyEmbed(event, discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("🗂️ Task Totals for %s", targetName)).
		SetDescription(formatTotals(counts, true)).
		SetColor(msg.ColorInfo).
		SetFooter(fmt.Sprintf("Total tasks: %d", total), "").
		SetTimestamp(time.Now()).
		Build())
}

// handleAddTask credits a member with a batch of tasks.
func (b *Bot) handleAddTask(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData,
) error {
	if ok, err := b.requireRole(event, b.cfg.Discord.ManagementRoleID); !ok {
		return err
	}

	memberID, _ := memberOption(data, "member")
	taskType := data.String("task_type")

	count := 1
	if v, ok := data.OptInt("count"); ok {
		count = v
	}

	comments := "Added by management"
	if v, ok := data.OptString("comments"); ok && v != "" {
		comments = v
	}

	var proofURL string
	if att, ok := data.OptAttachment("proof"); ok {
		proofURL = att.URL
	}

	startSeq, _, err := b.db.Service().Activity().AddTaskBatch(ctx, memberID, taskType, proofURL, comments, count)
	if err != nil {
		return err
	}

	counts, err := b.db.Model().TaskLog().TotalsByType(ctx, memberID)
	if err != nil {
		return err
	}

	suffix := sequenceSuffix(startSeq, count)

	requesterID, _ := invoker(event)
	b.notifier.LogAction("Tasks Added",
		fmt.Sprintf("By: <@%d>\nMember: <@%d>\nType: **%s** × %d%s",
			requesterID, memberID, taskType, count, suffix))

	embed := discord.NewEmbedBuilder().
		SetTitle("✅ Tasks Added").
		SetDescription(fmt.Sprintf("Added **%d× %s%s** to <@%d>.\n\n**Now totals:**\n%s",
			count, taskType, suffix, memberID, formatTotals(counts, false))).
		SetColor(msg.ColorSuccess).
		SetTimestamp(time.Now())

	if proofURL != "" {
		embed.SetImage(proofURL)
	}

	return replyEmbed(event, embed.Build())
}

// handleLeaderboard shows the weekly top members. Visible to the channel.
func (b *Bot) handleLeaderboard(ctx context.Context, event *events.ApplicationCommandInteractionCreate) error {
	tasks, err := b.db.Model().Activity().TaskCounts(ctx)
	if err != nil {
		return err
	}

	times, err := b.db.Model().Activity().TimeCounts(ctx)
	if err != nil {
		return err
	}

	if len(tasks) == 0 && len(times) == 0 {
		return reply(event, "No activity logged this week.")
	}

	guildID := snowflake.ID(b.cfg.Discord.GuildID)
	nameOf := func(id uint64) string {
		if member, ok := b.client.Caches().Member(guildID, snowflake.ID(id)); ok {
			return member.EffectiveName()
		}

		return fmt.Sprintf("Unknown (%d)", id)
	}

	requesterID, _ := invoker(event)
	b.notifier.LogAction("Viewed Leaderboard", fmt.Sprintf("Requester: <@%d>", requesterID))

	return event.CreateMessage(discord.NewMessageCreateBuilder().
		SetEmbeds(discord.NewEmbedBuilder().
			SetTitle("🏆 Weekly Leaderboard").
			SetDescription(formatLeaderboard(buildLeaderboard(tasks, times, nameOf))).
			SetColor(colorGold).
			SetTimestamp(time.Now()).
			Build()).
		Build())
}

// handleRemoveLastLog undoes a member's newest weekly submission.
func (b *Bot) handleRemoveLastLog(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData,
) error {
	if ok, err := b.requireRole(event, b.cfg.Discord.ManagementRoleID); !ok {
		return err
	}

	memberID, memberName := memberOption(data, "member")

	removed, err := b.db.Service().Activity().RemoveLastLog(ctx, memberID)
	if err != nil {
		return err
	}

	if removed == nil {
		return reply(event, fmt.Sprintf("%s has no weekly tasks logged.", memberName))
	}

	remaining, err := b.db.Model().Activity().TasksCompleted(ctx, memberID)
	if err != nil {
		return err
	}

	suffix := ""
	if types.IsNumberedTaskType(removed.TaskType) && removed.SequenceNo != nil {
		suffix = fmt.Sprintf(" #%d", *removed.SequenceNo)
	}

	requesterID, _ := invoker(event)
	b.notifier.LogAction("Removed Last Weekly Task",
		fmt.Sprintf("By: <@%d>\nMember: <@%d>\nRemoved: **%s%s**",
			requesterID, memberID, removed.TaskType, suffix))

	return reply(event, fmt.Sprintf(
		"Removed last weekly task for <@%d>: '%s%s'. They now have %d tasks.",
		memberID, removed.TaskType, suffix, remaining))
}
