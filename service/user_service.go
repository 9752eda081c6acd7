package service

import (
	"context"
	"fmt"
	"time"

	"starsbot/config"
	"starsbot/events"

	"starsbot/models"
)

// userService implements the UserService interface
type userService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory) UserService {
	return &userService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// AdmitUser creates the user on first contact. An existing id returns the
// stored user untouched, so signup bonuses can never be paid twice. A
// self-referral or unknown referrer id is silently dropped.
func (s *userService) AdmitUser(ctx context.Context, userID int64, username string, referrerID *int64) (*models.User, bool, error) {
	cfg := config.Get()

	if username == "" {
		username = fmt.Sprintf("user_%d", userID)
	}
	if referrerID != nil && *referrerID == userID {
		referrerID = nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	if referrerID != nil {
		// Lock the referrer so the bonus below cannot race with their other
		// balance movement; a referrer that does not exist is ignored.
		referrer, err := uow.UserRepository().GetForUpdate(ctx, *referrerID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to look up referrer %d: %w", *referrerID, err)
		}
		if referrer == nil {
			referrerID = nil
		}
	}

	user, err := uow.UserRepository().Create(ctx, userID, username, referrerID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create user %d: %w", userID, err)
	}

	if referrerID != nil {
		if _, err := ApplyBalanceDelta(ctx, uow, *referrerID, cfg.ReferrerBonus,
			models.TransactionTypeReferralBonus, fmt.Sprintf("Invited %s", username)); err != nil {
			return nil, false, fmt.Errorf("failed to pay referrer bonus: %w", err)
		}
		newBalance, err := ApplyBalanceDelta(ctx, uow, userID, cfg.RefereeBonus,
			models.TransactionTypeReferralBonus, "Signed up via referral link")
		if err != nil {
			return nil, false, fmt.Errorf("failed to pay signup bonus: %w", err)
		}
		user.Balance = newBalance
	}

	uow.EventBus().Publish(events.UserRegisteredEvent{
		UserID:     userID,
		Username:   username,
		ReferrerID: referrerID,
	})

	if err := uow.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, true, nil
}

// GetUser retrieves a user, failing with ErrUserNotFound if absent
func (s *userService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Click grants the periodic reward. The clicking user's row (and the
// referrer's, when present) is locked in ascending id order for the whole
// operation, so concurrent clicks serialize per user and the reward, the
// cooldown stamp and the referral income commit or roll back together.
func (s *userService) Click(ctx context.Context, userID int64) (*ClickResult, error) {
	cfg := config.Get()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Peek at the row to learn the referrer, then take locks in id order.
	peek, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	if peek == nil {
		return nil, ErrUserNotFound
	}

	lockIDs := []int64{userID}
	if peek.ReferrerID != nil {
		lockIDs = append(lockIDs, *peek.ReferrerID)
	}
	locked, err := lockUsers(ctx, uow.UserRepository(), lockIDs...)
	if err != nil {
		return nil, err
	}
	user := locked[userID]

	now := s.now()
	if user.LastClick != nil {
		elapsed := now.Sub(*user.LastClick)
		if elapsed < cfg.ClickCooldown {
			return nil, &CooldownError{Remaining: cfg.ClickCooldown - elapsed}
		}
	}

	newBalance, err := ApplyBalanceDelta(ctx, uow, userID, cfg.ClickReward,
		models.TransactionTypeClick, "Click reward")
	if err != nil {
		return nil, fmt.Errorf("failed to apply click reward: %w", err)
	}
	if err := uow.UserRepository().SetLastClick(ctx, userID, now); err != nil {
		return nil, fmt.Errorf("failed to record click time: %w", err)
	}

	if user.ReferrerID != nil {
		income := cfg.ClickReward * int64(cfg.ClickReferralPercent) / 100
		if income > 0 {
			if _, err := ApplyBalanceDelta(ctx, uow, *user.ReferrerID, income,
				models.TransactionTypeReferralIncome,
				fmt.Sprintf("%d%% of a click by %s", cfg.ClickReferralPercent, user.Username)); err != nil {
				return nil, fmt.Errorf("failed to pay referral income: %w", err)
			}
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &ClickResult{
		Reward:      cfg.ClickReward,
		NewBalance:  newBalance,
		NextClickAt: now.Add(cfg.ClickCooldown),
	}, nil
}

// GetProfile returns the user together with referral stats and the time left
// until the next click, read in one consistent snapshot.
func (s *userService) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	cfg := config.Get()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	refs, err := uow.UserRepository().ReferralStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get referral stats for user %d: %w", userID, err)
	}

	var nextClickIn time.Duration
	if user.LastClick != nil {
		if elapsed := s.now().Sub(*user.LastClick); elapsed < cfg.ClickCooldown {
			nextClickIn = cfg.ClickCooldown - elapsed
		}
	}

	return &Profile{
		User:        user,
		Referrals:   refs,
		NextClickIn: nextClickIn,
	}, nil
}
