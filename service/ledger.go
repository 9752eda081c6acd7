package service

import (
	"context"
	"fmt"

	"starsbot/events"
	"starsbot/models"
)

// ApplyBalanceDelta is the single entry point for all balance movement. It
// adds the signed amount to the user's balance and appends the matching
// ledger transaction inside the unit of work's database transaction, so the
// two are durable together or not at all. A negative amount that would drive
// the balance below zero fails with ErrInsufficientFunds and changes nothing.
// Returns the balance after the change.
func ApplyBalanceDelta(ctx context.Context, uow UnitOfWork, userID int64, amount int64, txType models.TransactionType, description string) (int64, error) {
	var newBalance int64
	var err error

	switch {
	case amount > 0:
		newBalance, err = uow.UserRepository().AddBalance(ctx, userID, amount)
	case amount < 0:
		newBalance, err = uow.UserRepository().DeductBalance(ctx, userID, -amount)
	default:
		// A zero delta still gets its ledger entry (e.g. a jackpot win that
		// exactly returns the stake).
		user, getErr := uow.UserRepository().GetByID(ctx, userID)
		if getErr != nil {
			err = getErr
		} else if user == nil {
			err = ErrUserNotFound
		} else {
			newBalance = user.Balance
		}
	}
	if err != nil {
		return 0, err
	}

	tx := &models.Transaction{
		UserID:      userID,
		Amount:      amount,
		Type:        txType,
		Description: description,
	}
	if err := uow.TransactionRepository().Append(ctx, tx); err != nil {
		return 0, fmt.Errorf("failed to append ledger transaction: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          userID,
		ChangeAmount:    amount,
		NewBalance:      newBalance,
		TransactionType: txType,
	})

	return newBalance, nil
}

// lockUsers acquires row locks for the given user ids in ascending id order,
// so flows that touch two users (click income, signup bonuses) can never
// deadlock against each other. Returns the locked rows keyed by id; a missing
// user fails with ErrUserNotFound.
func lockUsers(ctx context.Context, repo UserRepository, ids ...int64) (map[int64]*models.User, error) {
	ordered := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			ordered = append(ordered, id)
		}
	}
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j] < ordered[j-1]; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	locked := make(map[int64]*models.User, len(ordered))
	for _, id := range ordered {
		user, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to lock user %d: %w", id, err)
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		locked[id] = user
	}
	return locked, nil
}
