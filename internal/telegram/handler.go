package telegram

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/Vamsee295/telegram-bot/internal/models"
	"github.com/Vamsee295/telegram-bot/internal/scheduler"
	"github.com/Vamsee295/telegram-bot/internal/services"
)

type UpdateHandler struct {
	client    *Client
	state     *StateManager
	roster    *services.RosterService
	deadlines *services.DeadlineService
	schedules *services.ScheduleService
	sched     *scheduler.Scheduler
}

func NewUpdateHandler(
	client *Client,
	state *StateManager,
	roster *services.RosterService,
	deadlines *services.DeadlineService,
	schedules *services.ScheduleService,
	sched *scheduler.Scheduler,
) *UpdateHandler {
	return &UpdateHandler{
		client:    client,
		state:     state,
		roster:    roster,
		deadlines: deadlines,
		schedules: schedules,
		sched:     sched,
	}
}

func (h *UpdateHandler) Handle(upd Update) {
	if upd.CallbackQuery != nil {
		h.handleCallback(upd.CallbackQuery)
		return
	}
	if upd.Message != nil {
		h.handleMessage(upd.Message)
	}
}

func (h *UpdateHandler) handleMessage(msg *Message) {
	if msg.From == nil {
		return
	}
	chatID := msg.Chat.ID
	key := SessionKey{ChatID: chatID, UserID: msg.From.ID}

	if isGroup(msg.Chat.Type) && !msg.From.IsBot {
		if err := h.roster.AutoRegister(msg.From.ID, msg.From.FirstName); err != nil {
			log.Printf("[Handler] auto-register %d: %v", msg.From.ID, err)
		}
	}

	cmd, args := parseCommand(msg.Text)
	switch cmd {
	case "start":
		h.cmdStart(chatID)
	case "help":
		h.cmdHelp(chatID)
	case "mention", "tagall":
		h.cmdMention(msg, args)
	case "status":
		h.cmdStatus(msg)
	case "deadline":
		h.cmdDeadline(msg, args)
	case "schedule":
		h.cmdSchedule(msg, args)
	case "cancel":
		h.cmdCancel(key)
	case "":
		if h.state.Get(key).State == StateAwaitingFile {
			h.onDeadlineFile(msg, key)
		}
	}
}

func (h *UpdateHandler) cmdStart(chatID int64) {
	h.reply(chatID,
		"📚 *Study Group Management Bot*\n\n"+
			"Welcome! This bot helps manage study materials and deadlines.\n\n"+
			"Use /help to see all available commands.\n\n"+
			"💡 You're automatically registered when you send any message!")
}

func (h *UpdateHandler) cmdHelp(chatID int64) {
	h.reply(chatID,
		"📚 *Study Group Bot Commands*\n\n"+
			"🔔 /mention - Notify all registered students (admin only)\n"+
			"   Example: `/mention Important announcement`\n\n"+
			"📎 /deadline <title> - Post study material & track completion\n"+
			"   • `/deadline Assignment 1` - Start posting a deadline\n"+
			"   • `/deadline status` - View completion stats\n"+
			"   • `/deadline remind` - Remind pending students\n\n"+
			"⏰ /schedule YYYY-MM-DD HH:MM <message> - Schedule reminder\n"+
			"   Example: `/schedule 2026-02-15 09:00 Class today!`\n"+
			"   ⚠️ Time is in IST (Indian Standard Time)\n\n"+
			"📊 /status - Show group statistics\n"+
			"ℹ️ /help - Show this message\n\n"+
			"💡 *Auto-Registration*\n"+
			"All members are automatically registered when they send any message in the group!\n\n"+
			"👨‍💼 *Admin Commands*\n"+
			"Commands marked 'admin only' require group admin privileges.")
}

func (h *UpdateHandler) cmdMention(msg *Message, args []string) {
	chatID := msg.Chat.ID

	if !isGroup(msg.Chat.Type) {
		h.reply(chatID, "⚠️ This command only works in groups.")
		return
	}
	if !h.isAdmin(chatID, msg.From.ID) {
		h.reply(chatID, "❌ Only admins can use /mention")
		return
	}

	members := h.roster.ResolveAll()
	if len(members) == 0 {
		h.reply(chatID,
			"⚠️ No members registered yet!\n\n"+
				"Members are auto-registered when they send any message in the group.")
		return
	}

	mentions := services.MentionList(members)
	if len(args) > 0 {
		h.reply(chatID, fmt.Sprintf("📢 *Notification*\n\n%s\n\n%s", strings.Join(args, " "), mentions))
	} else {
		h.reply(chatID, fmt.Sprintf("📢 *Mention All*\n\n%s", mentions))
	}

	// Drop the command message for a cleaner chat; losing it is fine.
	h.client.DeleteMessage(chatID, msg.MessageID)
}

func (h *UpdateHandler) cmdStatus(msg *Message) {
	chatID := msg.Chat.ID
	if !h.isAdmin(chatID, msg.From.ID) {
		h.reply(chatID, "❌ Only admins can use /status")
		return
	}

	memberCount := h.roster.Count()
	deadlineCount, _ := h.deadlines.Count()

	text := "📊 *Group Statistics*\n\n"
	text += fmt.Sprintf("👥 Total Members: *%d*\n", memberCount)
	text += fmt.Sprintf("📎 Total Deadlines: *%d*\n", deadlineCount)

	if latest, err := h.deadlines.Latest(); err == nil {
		text += fmt.Sprintf("📌 Latest Deadline: *%s*\n", latest.Title)
		text += fmt.Sprintf("   Posted: %s\n", latest.CreatedAt.Format("2006-01-02 15:04"))
	} else {
		text += "📌 Latest Deadline: *None*\n"
	}

	h.reply(chatID, text)
}

func (h *UpdateHandler) cmdDeadline(msg *Message, args []string) {
	chatID := msg.Chat.ID
	if !h.isAdmin(chatID, msg.From.ID) {
		h.reply(chatID, "❌ Only admins can use /deadline")
		return
	}

	if len(args) == 0 {
		h.reply(chatID,
			"📎 *Deadline Command Usage*\n\n"+
				"`/deadline <title>` - Post study material\n"+
				"`/deadline status` - View completion stats\n"+
				"`/deadline remind` - Remind pending students")
		return
	}

	switch strings.ToLower(args[0]) {
	case "status":
		h.deadlineStatus(chatID)
	case "remind":
		h.deadlineRemind(chatID)
	default:
		title := strings.Join(args, " ")
		key := SessionKey{ChatID: chatID, UserID: msg.From.ID}
		h.state.Set(key, &SessionState{State: StateAwaitingFile, DeadlineTitle: title})
		h.reply(chatID, fmt.Sprintf(
			"📎 *Creating Deadline: %s*\n\nPlease send the study material file (PDF, image, document, etc.)",
			title))
	}
}

// onDeadlineFile consumes the next message of an awaiting-file session.
// Anything without a usable attachment keeps the session open.
func (h *UpdateHandler) onDeadlineFile(msg *Message, key SessionKey) {
	chatID := msg.Chat.ID

	fileID, fileKind := extractFile(msg)
	if fileKind == "" {
		h.reply(chatID, "⚠️ Please send a valid file (document, photo, or video)")
		return
	}

	title := h.state.Get(key).DeadlineTitle
	if title == "" {
		title = "Study Material"
	}

	deadline, err := h.deadlines.Create(title, chatID, fileID, fileKind)
	if err != nil {
		log.Printf("[Handler] create deadline: %v", err)
		h.reply(chatID, "❌ Error posting deadline")
		h.state.Clear(key)
		return
	}

	caption := fmt.Sprintf("📌 *Deadline: %s*\n\nClick button when completed.", title)
	keyboard := CompletionKeyboard(deadline.DeadlineID)

	var messageID int64
	switch fileKind {
	case models.FileKindDocument:
		messageID, err = h.client.SendDocument(chatID, fileID, caption, "Markdown", keyboard)
	case models.FileKindPhoto:
		messageID, err = h.client.SendPhoto(chatID, fileID, caption, "Markdown", keyboard)
	case models.FileKindVideo:
		messageID, err = h.client.SendVideo(chatID, fileID, caption, "Markdown", keyboard)
	}
	if err == nil {
		err = h.deadlines.SetMessageID(deadline.DeadlineID, messageID)
	}
	if err != nil {
		// The deadline row stays behind with message_id 0.
		log.Printf("[Handler] post deadline %d: %v", deadline.DeadlineID, err)
		h.reply(chatID, fmt.Sprintf("❌ Error posting deadline: %v", err))
		h.state.Clear(key)
		return
	}

	h.reply(chatID, "✅ Deadline posted successfully!")
	h.state.Clear(key)
}

func (h *UpdateHandler) deadlineStatus(chatID int64) {
	statuses, err := h.deadlines.Statuses()
	if err != nil {
		log.Printf("[Handler] deadline status: %v", err)
		h.reply(chatID, "❌ Error loading deadline status")
		return
	}
	if len(statuses) == 0 {
		h.reply(chatID, "📎 No deadlines posted yet.")
		return
	}

	total := int64(h.roster.Count())
	text := "📊 *Deadline Status*\n\n"
	for _, s := range statuses {
		text += fmt.Sprintf("📌 *%s*\n", s.Title)
		text += fmt.Sprintf("   ✅ Completed: %d\n", s.CompletedCount)
		text += fmt.Sprintf("   ⏳ Pending: %d\n\n", total-s.CompletedCount)
	}

	h.reply(chatID, text)
}

func (h *UpdateHandler) deadlineRemind(chatID int64) {
	latest, err := h.deadlines.Latest()
	if err != nil {
		h.reply(chatID, "📎 No deadlines posted yet.")
		return
	}

	completed, err := h.deadlines.CompletedUserIDs(latest.DeadlineID)
	if err != nil {
		log.Printf("[Handler] remind: %v", err)
		h.reply(chatID, "❌ Error loading completions")
		return
	}

	var pending []services.RosterEntry
	for _, member := range h.roster.ResolveAll() {
		if !completed[member.UserID] {
			pending = append(pending, member)
		}
	}

	if len(pending) == 0 {
		h.reply(chatID, fmt.Sprintf("✅ Everyone has completed: *%s*", latest.Title))
		return
	}

	h.reply(chatID, fmt.Sprintf("⏰ *Reminder: %s*\n\nPending students (%d):\n%s",
		latest.Title, len(pending), services.MentionList(pending)))
}

func (h *UpdateHandler) cmdSchedule(msg *Message, args []string) {
	chatID := msg.Chat.ID
	if !h.isAdmin(chatID, msg.From.ID) {
		h.reply(chatID, "❌ Only admins can use /schedule")
		return
	}

	if len(args) < 3 {
		h.reply(chatID,
			"⏰ *Schedule Command Usage*\n\n"+
				"`/schedule YYYY-MM-DD HH:MM <message>`\n\n"+
				"*Example:*\n"+
				"`/schedule 2026-02-15 09:00 Class starting soon!`\n\n"+
				"⚠️ Time is in IST (Indian Standard Time)")
		return
	}

	runTime, err := time.ParseInLocation("2006-01-02 15:04", args[0]+" "+args[1], time.Local)
	if err != nil {
		h.reply(chatID,
			"❌ Invalid date/time format!\n\n"+
				"Use: `YYYY-MM-DD HH:MM`\n"+
				"Example: `2026-02-15 09:00`")
		return
	}

	message := strings.Join(args[2:], " ")
	schedule, err := h.schedules.Create(runTime, message)
	if errors.Is(err, services.ErrPastRunTime) {
		h.reply(chatID, "⚠️ Scheduled time must be in the future!")
		return
	}
	if err != nil {
		log.Printf("[Handler] create schedule: %v", err)
		h.reply(chatID, "❌ Error scheduling reminder")
		return
	}

	h.sched.Arm(schedule.ScheduleID, runTime, chatID)

	h.reply(chatID, fmt.Sprintf(
		"✅ *Reminder Scheduled*\n\n📅 Date: %s\n🕐 Time: %s IST\n💬 Message: %s",
		args[0], args[1], message))
}

func (h *UpdateHandler) cmdCancel(key SessionKey) {
	h.state.Clear(key)
	h.reply(key.ChatID, "❌ Deadline creation cancelled.")
}

func (h *UpdateHandler) handleCallback(cb *CallbackQuery) {
	idStr, ok := strings.CutPrefix(cb.Data, "complete_")
	if !ok {
		h.client.AnswerCallbackQuery(cb.ID, "Unknown action", true)
		return
	}
	deadlineID, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		h.client.AnswerCallbackQuery(cb.ID, "Unknown action", true)
		return
	}

	already, err := h.deadlines.Complete(uint(deadlineID), cb.From.ID)
	if err != nil {
		log.Printf("[Handler] record completion: %v", err)
		h.client.AnswerCallbackQuery(cb.ID, "❌ Error recording completion", true)
		return
	}
	if already {
		h.client.AnswerCallbackQuery(cb.ID, "✅ You already marked this as completed!", true)
		return
	}

	count, err := h.deadlines.CompletionCount(uint(deadlineID))
	if err != nil {
		log.Printf("[Handler] completion count: %v", err)
		h.client.AnswerCallbackQuery(cb.ID, "❌ Error recording completion", true)
		return
	}
	total := h.roster.Count()

	if deadline, err := h.deadlines.Get(uint(deadlineID)); err == nil {
		caption := fmt.Sprintf(
			"📌 *Deadline: %s*\n\nClick button when completed.\n\n✅ Completed: *%d / %d*",
			deadline.Title, count, total)
		if err := h.client.EditMessageCaption(deadline.ChatID, deadline.MessageID,
			caption, "Markdown", CompletionKeyboard(deadline.DeadlineID)); err != nil {
			log.Printf("[Handler] edit caption for deadline %d: %v", deadline.DeadlineID, err)
		}
	}

	h.client.AnswerCallbackQuery(cb.ID,
		fmt.Sprintf("✅ Marked as completed! (%d/%d)", count, total), true)
}

func (h *UpdateHandler) reply(chatID int64, text string) {
	if _, err := h.client.SendMessage(chatID, text, "Markdown", nil); err != nil {
		log.Printf("[Handler] send to %d: %v", chatID, err)
	}
}

func (h *UpdateHandler) isAdmin(chatID, userID int64) bool {
	member, err := h.client.GetChatMember(chatID, userID)
	if err != nil {
		log.Printf("[Handler] admin check for %d: %v", userID, err)
		return false
	}
	return member.Status == "administrator" || member.Status == "creator"
}

func isGroup(chatType string) bool {
	return chatType == "group" || chatType == "supergroup"
}

func parseCommand(text string) (string, []string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", nil
	}
	fields := strings.Fields(text)
	cmd := strings.Split(fields[0], "@")[0]
	return strings.TrimPrefix(cmd, "/"), fields[1:]
}

// extractFile picks the single attachment a deadline accepts. For photos
// Telegram sends several sizes; the highest-resolution one wins.
func extractFile(msg *Message) (fileID, fileKind string) {
	switch {
	case msg.Document != nil:
		return msg.Document.FileID, models.FileKindDocument
	case len(msg.Photo) > 0:
		best := msg.Photo[0]
		for _, p := range msg.Photo[1:] {
			if p.Width*p.Height > best.Width*best.Height {
				best = p
			}
		}
		return best.FileID, models.FileKindPhoto
	case msg.Video != nil:
		return msg.Video.FileID, models.FileKindVideo
	}
	return "", ""
}
