package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"starsbot/config"
	"starsbot/events"
	"starsbot/service"
)

// adminInput tracks what free-form text the admin panel is waiting for.
type adminInput int

const (
	adminInputNone adminInput = iota
	adminInputSponsor
	adminInputBroadcast
)

type Bot struct {
	cfg               *config.Config
	api               *tgbotapi.BotAPI
	userService       service.UserService
	gameService       service.GameService
	sponsorService    service.SponsorService
	withdrawalService service.WithdrawalService
	statsService      service.StatsService
	eventBus          *events.Bus

	mu           sync.Mutex
	pendingAdmin adminInput
}

func New(cfg *config.Config, userService service.UserService, gameService service.GameService, sponsorService service.SponsorService, withdrawalService service.WithdrawalService, statsService service.StatsService, eventBus *events.Bus) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("error creating telegram session: %w", err)
	}

	bot := &Bot{
		cfg:               cfg,
		api:               api,
		userService:       userService,
		gameService:       gameService,
		sponsorService:    sponsorService,
		withdrawalService: withdrawalService,
		statsService:      statsService,
		eventBus:          eventBus,
	}

	// New withdrawal requests go straight to the admin with review buttons.
	eventBus.Subscribe(events.EventTypeWithdrawalRequested, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.WithdrawalRequestedEvent); ok {
			bot.notifyWithdrawalRequested(e)
		}
	})

	log.WithField("username", api.Self.UserName).Info("Telegram bot authorized")
	return bot, nil
}

// Run consumes updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	// Old bet sessions are swept in the background.
	go b.sessionCleanup(ctx)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.dispatch(ctx, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Recovered from panic in update handler")
		}
	}()

	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) sessionCleanup(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.gameService.SweepSessions()
		}
	}
}

func (b *Bot) notifyWithdrawalRequested(e events.WithdrawalRequestedEvent) {
	text := fmt.Sprintf("💸 Withdrawal request #%d\nUser: %d\nAmount: %s STAR",
		e.WithdrawalID, e.UserID, formatStars(e.Amount))
	msg := tgbotapi.NewMessage(b.cfg.AdminID, text)
	msg.ReplyMarkup = withdrawalReviewKeyboard(e.WithdrawalID)
	b.send(msg)
}

func (b *Bot) isAdmin(userID int64) bool {
	return userID == b.cfg.AdminID
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		log.WithError(err).Error("Failed to send message")
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) setPendingAdmin(state adminInput) {
	b.mu.Lock()
	b.pendingAdmin = state
	b.mu.Unlock()
}

func (b *Bot) takePendingAdmin() adminInput {
	b.mu.Lock()
	defer b.mu.Unlock()
	state := b.pendingAdmin
	b.pendingAdmin = adminInputNone
	return state
}
