package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"starsbot/games"
	"starsbot/service"
)

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Telegram wants every callback acknowledged or the button spinner hangs.
	defer func() {
		if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			log.WithError(err).Debug("Failed to answer callback query")
		}
	}()

	if cb.Message == nil || cb.From == nil {
		return
	}

	userID := cb.From.ID
	chatID := cb.Message.Chat.ID
	data := cb.Data

	// The gate applies to everything except the confirm button itself.
	if data != cbCheckSubs {
		if blocked := b.showSponsorsIfBlocked(ctx, chatID, userID); blocked {
			return
		}
	}

	switch {
	case data == cbMainMenu:
		b.gameService.CancelSession(userID)
		b.editMenu(chatID, cb.Message.MessageID, "🐵 Main menu", mainMenuKeyboard(b.isAdmin(userID)))
	case data == cbEarn:
		b.showEarn(chatID, cb.Message.MessageID)
	case data == cbClick:
		b.handleClick(ctx, chatID, userID)
	case data == cbPlayGames:
		b.gameService.CancelSession(userID)
		b.editMenu(chatID, cb.Message.MessageID, "🎮 Pick a game:", gamesKeyboard(b.cfg.Games))
	case strings.HasPrefix(data, "game_"):
		b.showGame(chatID, cb.Message.MessageID, userID, games.Type(strings.TrimPrefix(data, "game_")))
	case data == cbFlipHeads:
		b.openSession(chatID, userID, games.TypeFlip, service.FlipChoiceHeads)
	case data == cbFlipTails:
		b.openSession(chatID, userID, games.TypeFlip, service.FlipChoiceTails)
	case strings.HasPrefix(data, "dice_"):
		if guess, err := strconv.Atoi(strings.TrimPrefix(data, "dice_")); err == nil {
			b.openSession(chatID, userID, games.TypeDice, guess)
		}
	case data == cbWithdrawMenu:
		b.editMenu(chatID, cb.Message.MessageID, "💸 Pick a withdrawal amount:", withdrawKeyboard(b.cfg.WithdrawalTiers))
	case strings.HasPrefix(data, "withdraw_"):
		if amount, err := strconv.ParseInt(strings.TrimPrefix(data, "withdraw_"), 10, 64); err == nil {
			b.handleWithdraw(ctx, chatID, userID, amount)
		}
	case data == cbProfile:
		b.showProfile(ctx, chatID, cb.Message.MessageID, userID)
	case data == cbHistory:
		b.showHistory(ctx, chatID, cb.Message.MessageID, userID)
	case data == cbReferral:
		b.showReferral(ctx, chatID, cb.Message.MessageID, userID)
	case data == cbCheckSubs:
		b.handleCheckSubscriptions(ctx, chatID, userID)
	case data == cbAdminPanel, data == cbAdminStats, data == cbAdminPending,
		data == cbAdminSponsor, data == cbAdminCast,
		strings.HasPrefix(data, "approve_"), strings.HasPrefix(data, "reject_"):
		b.handleAdminCallback(ctx, cb)
	default:
		log.WithField("data", data).Debug("Unknown callback")
	}
}

func (b *Bot) editMenu(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard)
	b.send(edit)
}

func (b *Bot) showEarn(chatID int64, messageID int) {
	text := fmt.Sprintf("🐵 Earn stars:\n\n🎯 Every click gives %s STAR, once an hour\n👥 Invited friends bring you %d%% of their clicks",
		formatStars(b.cfg.ClickReward), b.cfg.ClickReferralPercent)
	b.editMenu(chatID, messageID, text, earnKeyboard(b.cfg.ClickReward))
}

func (b *Bot) handleClick(ctx context.Context, chatID, userID int64) {
	result, err := b.userService.Click(ctx, userID)
	if err != nil {
		b.sendText(chatID, renderError(err))
		return
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🎯 +%s STAR!\n💰 Balance: %s STAR\n⏰ Next click in %s",
		formatStars(result.Reward), formatStars(result.NewBalance), formatDuration(b.cfg.ClickCooldown)))
	msg.ReplyMarkup = earnKeyboard(b.cfg.ClickReward)
	b.send(msg)
}

func (b *Bot) showGame(chatID int64, messageID int, userID int64, game games.Type) {
	cfg := b.cfg.Games
	minBet := formatStars(cfg.MinBet(game))

	switch game {
	case games.TypeFlip:
		b.gameService.CancelSession(userID)
		b.editMenu(chatID, messageID,
			fmt.Sprintf("%s\n\nPick a side. Min bet %s STAR.", cfg.Name(game), minBet), flipKeyboard())
	case games.TypeDice:
		b.gameService.CancelSession(userID)
		b.editMenu(chatID, messageID,
			fmt.Sprintf("%s\n\nGuess the roll. A hit pays x%.0f. Min bet %s STAR.",
				cfg.Name(game), cfg.Dice.Multiplier, minBet), diceKeyboard())
	case games.TypeCrash, games.TypeSlot, games.TypeJackpot:
		if err := b.gameService.SelectGame(userID, game, 0); err != nil {
			b.sendText(chatID, renderError(err))
			return
		}
		b.editMenu(chatID, messageID,
			fmt.Sprintf("%s\n\nType your bet in STAR (min %s):", cfg.Name(game), minBet),
			betPromptKeyboard(game))
	default:
		b.sendText(chatID, renderError(service.ErrInvalidInput))
	}
}

// openSession records the game choice and prompts for the bet amount.
func (b *Bot) openSession(chatID, userID int64, game games.Type, choice int) {
	if err := b.gameService.SelectGame(userID, game, choice); err != nil {
		b.sendText(chatID, renderError(err))
		return
	}

	minBet := formatStars(b.cfg.Games.MinBet(game))
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Type your bet in STAR (min %s):", minBet))
	msg.ReplyMarkup = betPromptKeyboard(game)
	b.send(msg)
}

func (b *Bot) handleWithdraw(ctx context.Context, chatID, userID, amount int64) {
	withdrawal, err := b.withdrawalService.RequestWithdrawal(ctx, userID, amount)
	if err != nil {
		b.sendText(chatID, renderError(err))
		return
	}

	b.sendText(chatID, fmt.Sprintf("✅ Withdrawal request #%d for %s STAR accepted. The admin will review it shortly.",
		withdrawal.ID, formatStars(withdrawal.Amount)))
}

func (b *Bot) showProfile(ctx context.Context, chatID int64, messageID int, userID int64) {
	profile, err := b.userService.GetProfile(ctx, userID)
	if err != nil {
		b.sendText(chatID, renderError(err))
		return
	}

	user := profile.User
	clickLine := "now!"
	if profile.NextClickIn > 0 {
		clickLine = "in " + formatDuration(profile.NextClickIn)
	}

	winRate := 0.0
	if user.GamesPlayed > 0 {
		winRate = float64(user.GamesWon) / float64(user.GamesPlayed) * 100
	}

	text := fmt.Sprintf(`📊 Profile

💰 Balance: %s STAR
🎯 Next click: %s
👥 Referrals: %d (%d active)

🎮 Games played: %d
🏆 Won: %d (%.0f%%)
💵 Total wagered: %s STAR`,
		formatStars(user.Balance), clickLine,
		profile.Referrals.Total, profile.Referrals.Active,
		user.GamesPlayed, user.GamesWon, winRate,
		formatStars(user.TotalWagered))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📜 History", cbHistory)),
		backRow(cbMainMenu),
	)
	b.editMenu(chatID, messageID, text, keyboard)
}

func (b *Bot) showHistory(ctx context.Context, chatID int64, messageID int, userID int64) {
	txs, err := b.statsService.RecentTransactions(ctx, userID, 10)
	if err != nil {
		b.sendText(chatID, renderError(err))
		return
	}

	var sb strings.Builder
	sb.WriteString("📜 Recent transactions:\n")
	if len(txs) == 0 {
		sb.WriteString("\nNothing yet. Go click something!")
	}
	for _, tx := range txs {
		sign := "+"
		if tx.Amount < 0 {
			sign = ""
		}
		fmt.Fprintf(&sb, "\n%s  %s%s STAR  %s",
			tx.CreatedAt.Format("02.01 15:04"), sign, formatStars(tx.Amount), tx.Description)
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(backRow(cbProfile))
	b.editMenu(chatID, messageID, sb.String(), keyboard)
}

func (b *Bot) showReferral(ctx context.Context, chatID int64, messageID int, userID int64) {
	profile, err := b.userService.GetProfile(ctx, userID)
	if err != nil {
		b.sendText(chatID, renderError(err))
		return
	}

	text := fmt.Sprintf(`👥 Referral program

Share your link:
%s

🎁 You get %s STAR per friend, they get %s STAR
💸 Plus %d%% of every click they make

Invited so far: %d (%d active)`,
		referralLink(b.api.Self.UserName, userID),
		formatStars(b.cfg.ReferrerBonus), formatStars(b.cfg.RefereeBonus),
		b.cfg.ClickReferralPercent,
		profile.Referrals.Total, profile.Referrals.Active)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(backRow(cbMainMenu))
	b.editMenu(chatID, messageID, text, keyboard)
}

func (b *Bot) handleCheckSubscriptions(ctx context.Context, chatID, userID int64) {
	if err := b.sponsorService.ConfirmAll(ctx, userID); err != nil {
		log.WithError(err).WithField("userID", userID).Error("Failed to confirm subscriptions")
		b.sendText(chatID, renderError(err))
		return
	}
	b.showMainMenu(chatID, userID, "✅ Thanks! The bot is unlocked.")
}
