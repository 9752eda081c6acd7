package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"starsbot/games"
	"starsbot/models"
)

// Flip choice values carried in a session.
const (
	FlipChoiceHeads = 0
	FlipChoiceTails = 1
)

const sessionTTL = time.Hour

// gameService implements the GameService interface
type gameService struct {
	uowFactory UnitOfWorkFactory
	engine     *games.Engine
	sessions   *sessionStore
}

// NewGameService creates a new game service around the given engine. The
// engine's randomness source is the only nondeterminism in bet resolution.
func NewGameService(uowFactory UnitOfWorkFactory, engine *games.Engine) GameService {
	return &gameService{
		uowFactory: uowFactory,
		engine:     engine,
		sessions:   newSessionStore(sessionTTL),
	}
}

// SelectGame opens a bet session, silently replacing any previous one.
func (s *gameService) SelectGame(userID int64, game games.Type, choice int) error {
	switch game {
	case games.TypeFlip:
		if choice != FlipChoiceHeads && choice != FlipChoiceTails {
			return ErrInvalidInput
		}
	case games.TypeDice:
		if choice < 1 || choice > s.engine.Config().Dice.Sides {
			return ErrInvalidInput
		}
	case games.TypeCrash, games.TypeSlot, games.TypeJackpot:
		choice = 0
	default:
		return ErrInvalidInput
	}

	s.sessions.put(&GameSession{
		UserID:    userID,
		Game:      game,
		Choice:    choice,
		CreatedAt: time.Now(),
	})
	return nil
}

// CancelSession discards the user's session without side effects.
func (s *gameService) CancelSession(userID int64) {
	s.sessions.delete(userID)
}

// ActiveSession returns the user's current session, if any.
func (s *gameService) ActiveSession(userID int64) (*GameSession, bool) {
	return s.sessions.get(userID)
}

// SubmitBet resolves the session's game against the typed bet amount. The
// session is kept through validation failures so the user can retype, and is
// cleared once the bet resolves. The game outcome is computed in full before
// any mutating call, so a persistence failure can never leave a resolved bet
// half-recorded.
func (s *gameService) SubmitBet(ctx context.Context, userID int64, input string) (*PlayResult, error) {
	sess, ok := s.sessions.get(userID)
	if !ok {
		return nil, ErrNoActiveSession
	}

	bet, err := parseBetAmount(input)
	if err != nil {
		return nil, err
	}
	if minBet := s.engine.Config().MinBet(sess.Game); bet < minBet {
		return nil, &BelowMinimumBetError{Min: minBet}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Balance < bet {
		return nil, ErrInsufficientFunds
	}

	outcome, err := s.play(sess, bet)
	if err != nil {
		return nil, err
	}

	var net int64
	var txType models.TransactionType
	var desc string
	gameName := s.engine.Config().Name(sess.Game)
	if outcome.Won {
		net = outcome.Payout - bet
		txType = models.TransactionTypeGameWin
		desc = fmt.Sprintf("%s win", gameName)
	} else {
		net = -bet
		txType = models.TransactionTypeGameLose
		desc = fmt.Sprintf("%s loss", gameName)
	}

	newBalance, err := ApplyBalanceDelta(ctx, uow, userID, net, txType, desc)
	if err != nil {
		return nil, fmt.Errorf("failed to settle bet: %w", err)
	}
	if err := uow.UserRepository().UpdateGameStats(ctx, userID, bet, outcome.Won); err != nil {
		return nil, fmt.Errorf("failed to update game stats: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.sessions.delete(userID)

	return &PlayResult{
		Game:       sess.Game,
		Bet:        bet,
		Outcome:    outcome,
		Net:        net,
		NewBalance: newBalance,
	}, nil
}

func (s *gameService) play(sess *GameSession, bet int64) (*games.Outcome, error) {
	switch sess.Game {
	case games.TypeFlip:
		choice := games.FlipHeads
		if sess.Choice == FlipChoiceTails {
			choice = games.FlipTails
		}
		return s.engine.Flip(bet, choice), nil
	case games.TypeCrash:
		return s.engine.Crash(bet), nil
	case games.TypeSlot:
		return s.engine.Slot(bet), nil
	case games.TypeDice:
		return s.engine.Dice(bet, sess.Choice)
	case games.TypeJackpot:
		return s.engine.Jackpot(bet), nil
	default:
		return nil, ErrInvalidInput
	}
}

// parseBetAmount converts typed STAR text ("1", "2.5") to minor units.
func parseBetAmount(input string) (int64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return 0, ErrInvalidInput
	}
	return int64(math.Round(value * 100)), nil
}

// SweepSessions drops expired sessions; exported for a periodic caller.
func (s *gameService) SweepSessions() {
	s.sessions.sweep()
}
