package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"starsbot/models"
)

func (b *Bot) handleAdminCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	userID := cb.From.ID
	if !b.isAdmin(userID) {
		log.WithField("userID", userID).Warn("Non-admin pressed an admin button")
		return
	}

	chatID := cb.Message.Chat.ID
	data := cb.Data

	switch {
	case data == cbAdminPanel:
		b.editMenu(chatID, cb.Message.MessageID, "👑 Admin panel", adminKeyboard())
	case data == cbAdminStats:
		b.showAdminStats(ctx, chatID, cb.Message.MessageID)
	case data == cbAdminPending:
		b.showPendingWithdrawals(ctx, chatID)
	case data == cbAdminSponsor:
		b.setPendingAdmin(adminInputSponsor)
		b.sendText(chatID, "📢 Send the sponsor as:\nName | @channel | https://t.me/channel")
	case data == cbAdminCast:
		b.setPendingAdmin(adminInputBroadcast)
		b.sendText(chatID, "📣 Send the broadcast text:")
	case strings.HasPrefix(data, "approve_"):
		b.resolveWithdrawal(ctx, chatID, strings.TrimPrefix(data, "approve_"), models.WithdrawalStatusApproved)
	case strings.HasPrefix(data, "reject_"):
		b.resolveWithdrawal(ctx, chatID, strings.TrimPrefix(data, "reject_"), models.WithdrawalStatusRejected)
	}
}

func (b *Bot) showAdminStats(ctx context.Context, chatID int64, messageID int) {
	stats, err := b.statsService.GetGlobalStats(ctx)
	if err != nil {
		b.sendText(chatID, renderError(err))
		return
	}

	text := fmt.Sprintf(`📊 Platform statistics

👥 Users: %d
💰 Total balance: %s STAR
🎰 Total wagered: %s STAR
💸 Pending withdrawals: %d
📈 Total income: %s STAR`,
		stats.TotalUsers,
		formatStars(stats.TotalBalance),
		formatStars(stats.TotalWagered),
		stats.PendingWithdrawals,
		formatStars(stats.TotalIncome))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(backRow(cbAdminPanel))
	b.editMenu(chatID, messageID, text, keyboard)
}

func (b *Bot) showPendingWithdrawals(ctx context.Context, chatID int64) {
	pending := models.WithdrawalStatusPending
	withdrawals, err := b.withdrawalService.ListWithdrawals(ctx, &pending)
	if err != nil {
		b.sendText(chatID, renderError(err))
		return
	}

	if len(withdrawals) == 0 {
		b.sendText(chatID, "✨ No pending withdrawals")
		return
	}

	for _, w := range withdrawals {
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("💸 #%d @%s\n%s STAR, requested %s",
			w.ID, w.Username, formatStars(w.Amount), w.CreatedAt.Format("02.01.2006 15:04")))
		msg.ReplyMarkup = withdrawalReviewKeyboard(w.ID)
		b.send(msg)
	}
}

func (b *Bot) resolveWithdrawal(ctx context.Context, chatID int64, idText string, status models.WithdrawalStatus) {
	withdrawalID, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		return
	}

	if err := b.withdrawalService.UpdateStatus(ctx, withdrawalID, status); err != nil {
		b.sendText(chatID, renderError(err))
		return
	}

	verdict := "✅ approved"
	if status == models.WithdrawalStatusRejected {
		verdict = "❌ rejected, amount refunded"
	}
	b.sendText(chatID, fmt.Sprintf("Withdrawal #%d %s", withdrawalID, verdict))
}

func (b *Bot) handleAdminInput(ctx context.Context, msg *tgbotapi.Message, state adminInput) {
	switch state {
	case adminInputSponsor:
		b.handleSponsorInput(ctx, msg)
	case adminInputBroadcast:
		b.handleBroadcastInput(ctx, msg)
	}
}

func (b *Bot) handleSponsorInput(ctx context.Context, msg *tgbotapi.Message) {
	parts := strings.Split(msg.Text, "|")
	if len(parts) != 3 {
		b.sendText(msg.Chat.ID, "⚠️ Expected: Name | @channel | https://t.me/channel")
		return
	}

	name := strings.TrimSpace(parts[0])
	channelID := strings.TrimSpace(parts[1])
	url := strings.TrimSpace(parts[2])

	sponsor, err := b.sponsorService.AddSponsor(ctx, name, channelID, url)
	if err != nil {
		b.sendText(msg.Chat.ID, renderError(err))
		return
	}

	b.sendText(msg.Chat.ID, fmt.Sprintf("✅ Sponsor #%d %s added", sponsor.ID, sponsor.ChannelName))
}

func (b *Bot) handleBroadcastInput(ctx context.Context, msg *tgbotapi.Message) {
	ids, err := b.statsService.ListUserIDs(ctx)
	if err != nil {
		b.sendText(msg.Chat.ID, renderError(err))
		return
	}

	sent := 0
	for _, id := range ids {
		if _, err := b.api.Send(tgbotapi.NewMessage(id, msg.Text)); err != nil {
			// Users who blocked the bot are expected; keep going.
			log.WithError(err).WithField("userID", id).Debug("Broadcast delivery failed")
			continue
		}
		sent++
	}

	b.sendText(msg.Chat.ID, fmt.Sprintf("📣 Broadcast delivered to %d of %d users", sent, len(ids)))
}
