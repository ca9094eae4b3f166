package economy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Jacobbrewer1/concord/pkg/dataaccess"
	"github.com/Jacobbrewer1/concord/pkg/entities"
	"golang.org/x/time/rate"
)

const (
	// MessageXPMin and MessageXPMax bound the XP rolled for an eligible message.
	MessageXPMin = 15
	MessageXPMax = 25

	// MessageCooldown is the per-user gap between XP-eligible messages.
	MessageCooldown = 60 * time.Second
)

// XPForNext returns the XP threshold to advance from the given level.
func XPForNext(level int) int {
	return 5*level*level + 50*level + 100
}

// GrantResult reports the outcome of an XP grant.
type GrantResult struct {
	// Granted is the XP awarded. Zero when the message was on cooldown.
	Granted int

	// LevelsGained is how many levels the grant crossed. A single large grant can cross
	// more than one threshold.
	LevelsGained int

	// Progress is the record after the grant.
	Progress *entities.UserProgress
}

// progress loads the record for a user, creating it lazily.
func (s *Service) progress(ctx context.Context, guildID, userID string) (*entities.UserProgress, error) {
	record, err := s.store.GetProgress(ctx, guildID, userID)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return &entities.UserProgress{GuildID: guildID, UserID: userID}, nil
		}
		return nil, fmt.Errorf("error getting progress: %w", err)
	}
	return record, nil
}

// limiterKey identifies a per-guild, per-user cooldown limiter.
type limiterKey struct {
	guildID string
	userID  string
}

type cooldowns struct {
	mu       sync.Mutex
	limiters map[limiterKey]*rate.Limiter
}

// allow reports whether the user is off cooldown, consuming the token when they are.
// The first message always passes: a fresh limiter starts with a full burst.
func (c *cooldowns) allow(guildID, userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := limiterKey{guildID: guildID, userID: userID}
	lim, ok := c.limiters[key]
	if !ok {
		lim = rate.NewLimiter(rate.Every(MessageCooldown), 1)
		c.limiters[key] = lim
	}
	return lim.Allow()
}

// GrantMessageXP awards XP for an eligible message and normalizes the level. Messages
// inside the cooldown window grant nothing. After the grant, XP is always strictly less
// than the threshold for the resulting level.
func (s *Service) GrantMessageXP(ctx context.Context, guildID, userID string) (*GrantResult, error) {
	record, err := s.progress(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}

	if !s.cooldowns.allow(guildID, userID) {
		return &GrantResult{Progress: record}, nil
	}

	granted := s.roll(MessageXPMin, MessageXPMax)
	record.XP += granted

	// A single grant can cross several thresholds.
	levels := 0
	for record.XP >= XPForNext(record.Level) {
		record.XP -= XPForNext(record.Level)
		record.Level++
		levels++
	}

	if err := s.store.SaveProgress(ctx, record); err != nil {
		return nil, fmt.Errorf("error saving progress: %w", err)
	}

	return &GrantResult{
		Granted:      granted,
		LevelsGained: levels,
		Progress:     record,
	}, nil
}

// GetProgress returns the record for a user, lazily created.
func (s *Service) GetProgress(ctx context.Context, guildID, userID string) (*entities.UserProgress, error) {
	return s.progress(ctx, guildID, userID)
}

// ListProgress returns every progress record for the guild.
func (s *Service) ListProgress(ctx context.Context, guildID string) ([]*entities.UserProgress, error) {
	return s.store.ListProgress(ctx, guildID)
}
