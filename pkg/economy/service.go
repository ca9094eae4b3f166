package economy

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/Jacobbrewer1/concord/pkg/dataaccess"
	"golang.org/x/time/rate"
)

// Service owns XP, levels and the coin economy for all guilds.
type Service struct {
	// l is the logger.
	l *slog.Logger

	// store is the backing progress store.
	store dataaccess.ProgressDal

	// cooldowns holds the per-user message XP limiters.
	cooldowns *cooldowns

	// now and roll are indirected for tests.
	now  func() time.Time
	roll func(min, max int) int
}

// NewService creates a new economy service.
func NewService(l *slog.Logger, store dataaccess.ProgressDal) *Service {
	return &Service{
		l:     l.With(slog.String("component", "economy")),
		store: store,
		cooldowns: &cooldowns{
			limiters: make(map[limiterKey]*rate.Limiter),
		},
		now: func() time.Time { return time.Now().UTC() },
		roll: func(min, max int) int {
			return min + rand.Intn(max-min+1)
		},
	}
}
