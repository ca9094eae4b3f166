package economy

import (
	"context"
	"testing"
	"time"

	"github.com/Jacobbrewer1/concord/pkg/entities"
	"github.com/stretchr/testify/require"
)

func progressRecord(xp, coins int) *entities.UserProgress {
	return &entities.UserProgress{GuildID: testGuildID, UserID: testUserID, XP: xp, Coins: coins}
}

func TestClaimDaily(t *testing.T) {
	s, _ := newTestService(t)
	s.roll = func(min, max int) int { return 300 }

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	ctx := context.Background()

	res, err := s.ClaimDaily(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	require.True(t, res.OK)
	require.Equal(t, 300, res.Reward)
	require.Equal(t, 300, res.Balance)

	// A second claim inside the window fails and reports the wait.
	s.now = func() time.Time { return base.Add(time.Hour) }
	res, err = s.ClaimDaily(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	require.False(t, res.OK)
	require.Equal(t, 23*time.Hour, res.Remaining)
	require.Equal(t, 300, res.Balance)

	// Once the window passes the claim succeeds again.
	s.now = func() time.Time { return base.Add(25 * time.Hour) }
	res, err = s.ClaimDaily(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	require.True(t, res.OK)
	require.Equal(t, 600, res.Balance)
}

func TestTransferBalance(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.Progress.SaveProgress(ctx, progressRecord(0, 500)))

	require.NoError(t, s.TransferBalance(ctx, testGuildID, testUserID, "user-2", 200))

	from, err := s.GetProgress(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	require.Equal(t, 300, from.Coins)

	to, err := s.GetProgress(ctx, testGuildID, "user-2")
	require.NoError(t, err)
	require.Equal(t, 200, to.Coins)
}

func TestTransferBalance_Validation(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.Progress.SaveProgress(ctx, progressRecord(0, 100)))

	tests := []struct {
		name    string
		toID    string
		amount  int
		wantErr error
	}{
		{name: "zero amount", toID: "user-2", amount: 0, wantErr: ErrInvalidAmount},
		{name: "negative amount", toID: "user-2", amount: -5, wantErr: ErrInvalidAmount},
		{name: "self transfer", toID: testUserID, amount: 10, wantErr: ErrSelfTransfer},
		{name: "insufficient funds", toID: "user-2", amount: 101, wantErr: ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.TransferBalance(ctx, testGuildID, testUserID, tt.toID, tt.amount)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	// No failed attempt moved any coins.
	from, err := s.GetProgress(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	require.Equal(t, 100, from.Coins)

	to, err := s.GetProgress(ctx, testGuildID, "user-2")
	require.NoError(t, err)
	require.Zero(t, to.Coins)
}
