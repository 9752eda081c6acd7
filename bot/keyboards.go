package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"starsbot/games"
	"starsbot/models"
)

// Callback data values. Game and tier callbacks carry a suffix
// ("game_flip", "withdraw_1500").
const (
	cbMainMenu     = "main_menu"
	cbEarn         = "earn"
	cbClick        = "click"
	cbPlayGames    = "play_games"
	cbProfile      = "profile"
	cbHistory      = "history"
	cbReferral     = "referral"
	cbWithdrawMenu = "withdraw_menu"
	cbCheckSubs    = "check_subscriptions"
	cbFlipHeads    = "flip_heads"
	cbFlipTails    = "flip_tails"
	cbAdminPanel   = "admin_panel"
	cbAdminStats   = "admin_stats"
	cbAdminPending = "admin_withdrawals"
	cbAdminSponsor = "admin_add_sponsor"
	cbAdminCast    = "admin_broadcast"
)

func backRow(target string) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ Back", target),
	)
}

func mainMenuKeyboard(isAdmin bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🐵 Earn stars", cbEarn)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🎮 Play games", cbPlayGames)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📊 Profile", cbProfile)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("👥 Referral program", cbReferral)),
	}
	if isAdmin {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👑 Admin panel", cbAdminPanel)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func earnKeyboard(clickReward int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("🎯 Click (+%s STAR)", formatStars(clickReward)), cbClick)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💸 Withdraw", cbWithdrawMenu)),
		backRow(cbMainMenu),
	)
}

func gamesKeyboard(cfg games.Config) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(games.All)+1)
	for _, t := range games.All {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(cfg.Name(t), "game_"+string(t))))
	}
	rows = append(rows, backRow(cbMainMenu))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func flipKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🍌 Banana", cbFlipHeads)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🐵 Monkey", cbFlipTails)),
		backRow(cbPlayGames),
	)
}

func diceKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("1️⃣", "dice_1"),
			tgbotapi.NewInlineKeyboardButtonData("2️⃣", "dice_2"),
			tgbotapi.NewInlineKeyboardButtonData("3️⃣", "dice_3"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("4️⃣", "dice_4"),
			tgbotapi.NewInlineKeyboardButtonData("5️⃣", "dice_5"),
			tgbotapi.NewInlineKeyboardButtonData("6️⃣", "dice_6"),
		),
		backRow(cbPlayGames),
	)
}

func betPromptKeyboard(game games.Type) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Cancel", "game_"+string(game))),
	)
}

func playAgainKeyboard(game games.Type) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Play again", "game_"+string(game))),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎮 All games", cbPlayGames)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🐵 Main menu", cbMainMenu)),
	)
}

func withdrawKeyboard(tiers []int64) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(tiers)+1)
	for _, tier := range tiers {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s STAR", formatStars(tier)),
				fmt.Sprintf("withdraw_%d", tier))))
	}
	rows = append(rows, backRow(cbEarn))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func sponsorsKeyboard(statuses []*models.SponsorStatus) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(statuses)+1)
	for _, st := range statuses {
		mark := "📢"
		if st.Subscribed {
			mark = "✅"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(
				fmt.Sprintf("%s %s", mark, st.ChannelName), st.ChannelURL)))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✅ I subscribed", cbCheckSubs)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Statistics", cbAdminStats)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💸 Pending withdrawals", cbAdminPending)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📢 Add sponsor", cbAdminSponsor)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📣 Broadcast", cbAdminCast)),
		backRow(cbMainMenu),
	)
}

func withdrawalReviewKeyboard(withdrawalID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", fmt.Sprintf("approve_%d", withdrawalID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", fmt.Sprintf("reject_%d", withdrawalID)),
		),
	)
}

func referralLink(botUsername string, userID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%d", botUsername, userID)
}
