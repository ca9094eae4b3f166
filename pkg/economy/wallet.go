package economy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jacobbrewer1/concord/pkg/custom"
)

const (
	// DailyRewardMin and DailyRewardMax bound the daily coin claim.
	DailyRewardMin = 250
	DailyRewardMax = 500

	// DailyCooldown is the gap between successful daily claims.
	DailyCooldown = 24 * time.Hour
)

var (
	// ErrInvalidAmount is returned for transfers of a non-positive amount.
	ErrInvalidAmount = errors.New("transfer amount must be positive")

	// ErrInsufficientFunds is returned when the source balance cannot cover the
	// transfer. Neither balance is changed.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSelfTransfer is returned for transfers to oneself.
	ErrSelfTransfer = errors.New("cannot transfer to yourself")
)

// ClaimResult reports the outcome of a daily claim.
type ClaimResult struct {
	// OK is whether the claim succeeded.
	OK bool

	// Reward is the coins granted on success.
	Reward int

	// Remaining is how long until the next claim is allowed, when the claim failed.
	Remaining time.Duration

	// Balance is the coin balance after the claim.
	Balance int
}

// ClaimDaily grants the daily reward once per 24 hours.
func (s *Service) ClaimDaily(ctx context.Context, guildID, userID string) (*ClaimResult, error) {
	record, err := s.progress(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !record.LastDaily.IsZero() {
		elapsed := now.Sub(record.LastDaily.Time())
		if elapsed < DailyCooldown {
			return &ClaimResult{
				OK:        false,
				Remaining: DailyCooldown - elapsed,
				Balance:   record.Coins,
			}, nil
		}
	}

	reward := s.roll(DailyRewardMin, DailyRewardMax)
	record.Coins += reward
	record.LastDaily = custom.Datetime(now)

	if err := s.store.SaveProgress(ctx, record); err != nil {
		return nil, fmt.Errorf("error saving progress: %w", err)
	}

	return &ClaimResult{
		OK:      true,
		Reward:  reward,
		Balance: record.Coins,
	}, nil
}

// TransferBalance moves coins between two users in the same guild. The debit and
// credit are applied together; a failed validation leaves both balances unchanged.
func (s *Service) TransferBalance(ctx context.Context, guildID, fromID, toID string, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if fromID == toID {
		return ErrSelfTransfer
	}

	from, err := s.progress(ctx, guildID, fromID)
	if err != nil {
		return err
	}
	if from.Coins < amount {
		return ErrInsufficientFunds
	}

	to, err := s.progress(ctx, guildID, toID)
	if err != nil {
		return err
	}

	from.Coins -= amount
	to.Coins += amount

	if err := s.store.SaveProgress(ctx, from); err != nil {
		return fmt.Errorf("error saving sender progress: %w", err)
	}
	if err := s.store.SaveProgress(ctx, to); err != nil {
		// Roll the debit back so no coins vanish.
		from.Coins += amount
		if rbErr := s.store.SaveProgress(ctx, from); rbErr != nil {
			return fmt.Errorf("error saving recipient progress (rollback also failed: %v): %w", rbErr, err)
		}
		return fmt.Errorf("error saving recipient progress: %w", err)
	}
	return nil
}
