package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.From.IsBot {
		return
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.handleStart(ctx, msg)
		case "help":
			b.handleHelp(msg)
		case "balance":
			b.handleBalance(ctx, msg)
		default:
			b.sendText(msg.Chat.ID, "🤔 Unknown command, try /help")
		}
		return
	}

	if b.isAdmin(msg.From.ID) {
		if state := b.takePendingAdmin(); state != adminInputNone {
			b.handleAdminInput(ctx, msg, state)
			return
		}
	}

	// Any other text is treated as a bet amount for the active session.
	b.handleBetInput(ctx, msg)
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	username := msg.From.UserName
	if username == "" {
		username = strings.TrimSpace(msg.From.FirstName)
	}

	// The deep-link payload carries the inviter's id.
	var referrerID *int64
	if payload := msg.CommandArguments(); payload != "" {
		if id, err := strconv.ParseInt(strings.TrimSpace(payload), 10, 64); err == nil && id > 0 {
			referrerID = &id
		}
	}

	user, created, err := b.userService.AdmitUser(ctx, userID, username, referrerID)
	if err != nil {
		log.WithError(err).WithField("userID", userID).Error("Failed to admit user")
		b.sendText(msg.Chat.ID, renderError(err))
		return
	}

	if created && user.ReferrerID != nil {
		b.sendText(msg.Chat.ID, fmt.Sprintf("🎁 Welcome bonus! You got %s STAR for joining via a referral link", formatStars(b.cfg.RefereeBonus)))
	}

	if blocked := b.showSponsorsIfBlocked(ctx, msg.Chat.ID, userID); blocked {
		return
	}

	b.showMainMenu(msg.Chat.ID, userID, fmt.Sprintf("🐵 Welcome, %s!\n💰 Balance: %s STAR", user.Username, formatStars(user.Balance)))
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) {
	b.sendText(msg.Chat.ID, `🐵 Star machine:

/start - open the main menu
/balance - your STAR balance
/help - this message

🎯 Click every hour to earn stars
🎮 Bet them on games
👥 Invite friends for bonuses
💸 Withdraw once you have enough`)
}

func (b *Bot) handleBalance(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.userService.GetUser(ctx, msg.From.ID)
	if err != nil {
		b.sendText(msg.Chat.ID, renderError(err))
		return
	}
	b.sendText(msg.Chat.ID, fmt.Sprintf("💰 Your balance: %s STAR", formatStars(user.Balance)))
}

func (b *Bot) handleBetInput(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID

	sess, ok := b.gameService.ActiveSession(userID)
	if !ok {
		b.sendText(msg.Chat.ID, "ℹ️ Use /start to open the menu")
		return
	}

	result, err := b.gameService.SubmitBet(ctx, userID, msg.Text)
	if err != nil {
		// Validation failures keep the session; the user just retypes.
		b.sendText(msg.Chat.ID, renderError(err))
		return
	}

	text := result.Outcome.Detail
	switch {
	case result.Outcome.Won && result.Net > 0:
		text += fmt.Sprintf("\n\n🎉 You won %s STAR!", formatStars(result.Net))
	case result.Outcome.Won:
		// A jackpot payout can come in under the ticket spend.
		text += fmt.Sprintf("\n\n🎟 Paid out %s STAR", formatStars(result.Outcome.Payout))
	default:
		text += fmt.Sprintf("\n\n💔 You lost %s STAR", formatStars(result.Bet))
	}
	text += fmt.Sprintf("\n💰 Balance: %s STAR", formatStars(result.NewBalance))

	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ReplyMarkup = playAgainKeyboard(sess.Game)
	b.send(reply)
}

// showMainMenu sends the main menu as a fresh message.
func (b *Bot) showMainMenu(chatID, userID int64, text string) {
	if text == "" {
		text = "🐵 Main menu"
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = mainMenuKeyboard(b.isAdmin(userID))
	b.send(msg)
}

// showSponsorsIfBlocked renders the sponsor gate when it is closed. Reports
// whether the user was blocked.
func (b *Bot) showSponsorsIfBlocked(ctx context.Context, chatID, userID int64) bool {
	ok, err := b.sponsorService.CheckAccess(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("userID", userID).Error("Failed to check sponsor access")
		return false
	}
	if ok {
		return false
	}

	statuses, err := b.sponsorService.ListWithStatus(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Failed to list sponsors")
		return false
	}

	msg := tgbotapi.NewMessage(chatID, "📢 Subscribe to our sponsors to unlock the bot:")
	msg.ReplyMarkup = sponsorsKeyboard(statuses)
	b.send(msg)
	return true
}
