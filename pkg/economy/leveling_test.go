package economy

import (
	"context"
	"testing"

	"github.com/Jacobbrewer1/concord/pkg/dataaccess"
	"github.com/Jacobbrewer1/concord/pkg/logging"
	"github.com/stretchr/testify/require"
)

const (
	testGuildID = "guild-1"
	testUserID  = "user-1"
)

func newTestService(t *testing.T) (*Service, *dataaccess.Store) {
	t.Helper()

	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	store := dataaccess.NewInMemoryStore()
	return NewService(l, store.Progress), store
}

func TestXPForNext(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{level: 0, want: 100},
		{level: 1, want: 155},
		{level: 5, want: 475},
		{level: 10, want: 1100},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, XPForNext(tt.level), "level %d", tt.level)
	}
}

func TestGrantMessageXP(t *testing.T) {
	s, _ := newTestService(t)
	s.roll = func(min, max int) int { return 20 }

	res, err := s.GrantMessageXP(context.Background(), testGuildID, testUserID)
	require.NoError(t, err)
	require.Equal(t, 20, res.Granted)
	require.Equal(t, 0, res.LevelsGained)
	require.Equal(t, 20, res.Progress.XP)
	require.Equal(t, 0, res.Progress.Level)
}

func TestGrantMessageXP_Cooldown(t *testing.T) {
	s, _ := newTestService(t)
	s.roll = func(min, max int) int { return 20 }
	ctx := context.Background()

	first, err := s.GrantMessageXP(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	require.Equal(t, 20, first.Granted)

	// Back-to-back messages grant nothing.
	second, err := s.GrantMessageXP(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	require.Zero(t, second.Granted)
	require.Equal(t, 20, second.Progress.XP)

	// Another user is on their own cooldown.
	other, err := s.GrantMessageXP(ctx, testGuildID, "user-2")
	require.NoError(t, err)
	require.Equal(t, 20, other.Granted)
}

func TestGrantMessageXP_LevelUp(t *testing.T) {
	s, store := newTestService(t)
	s.roll = func(min, max int) int { return 25 }
	ctx := context.Background()

	// Sit just below the level 0 threshold.
	require.NoError(t, store.Progress.SaveProgress(ctx, progressRecord(90, 0)))

	res, err := s.GrantMessageXP(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	require.Equal(t, 1, res.LevelsGained)
	require.Equal(t, 1, res.Progress.Level)
	require.Equal(t, 15, res.Progress.XP)
}

func TestGrantMessageXP_MultiLevelJump(t *testing.T) {
	s, store := newTestService(t)
	// The roll is injected, so a single grant can cross several thresholds.
	s.roll = func(min, max int) int { return 300 }
	ctx := context.Background()

	require.NoError(t, store.Progress.SaveProgress(ctx, progressRecord(0, 0)))

	res, err := s.GrantMessageXP(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	require.Equal(t, 2, res.LevelsGained)
	require.Equal(t, 2, res.Progress.Level)

	// 300 - 100 (level 0) - 155 (level 1) = 45 left inside level 2.
	require.Equal(t, 45, res.Progress.XP)
	require.Less(t, res.Progress.XP, XPForNext(res.Progress.Level))
}
