package vouching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Jacobbrewer1/concord/pkg/custom"
	"github.com/Jacobbrewer1/concord/pkg/dataaccess"
	"github.com/Jacobbrewer1/concord/pkg/entities"
)

// MaxMessageLen bounds the endorsement text.
const MaxMessageLen = 900

var (
	// ErrUnknownVouch is returned when the vouch ID does not exist for the guild.
	ErrUnknownVouch = errors.New("unknown vouch id")

	// ErrNotVoucher is returned when removal is attempted by someone other than the
	// original voucher without elevated permission.
	ErrNotVoucher = errors.New("only the original voucher may remove this vouch")
)

// Ledger is the append-only vouch list with point deletion. Self-targeting is not
// enforced here; the command layer rejects it before the ledger is reached.
type Ledger struct {
	// l is the logger.
	l *slog.Logger

	// guilds and vouches are the backing stores.
	guilds  dataaccess.GuildDal
	vouches dataaccess.VouchDal
}

// NewLedger creates a new vouch ledger.
func NewLedger(l *slog.Logger, guilds dataaccess.GuildDal, vouches dataaccess.VouchDal) *Ledger {
	return &Ledger{
		l:       l.With(slog.String("component", "vouching")),
		guilds:  guilds,
		vouches: vouches,
	}
}

// AddVouch records an endorsement and returns it with its allocated ID.
func (v *Ledger) AddVouch(ctx context.Context, guildID, voucherID, vouchedID, message string) (*entities.Vouch, error) {
	guild, err := v.guilds.GetGuildByID(ctx, guildID)
	if err != nil {
		if !errors.Is(err, dataaccess.ErrNotFound) {
			return nil, fmt.Errorf("error getting guild: %w", err)
		}
		guild = entities.NewGuild(guildID)
	}

	guild.VouchCounter++
	if err := v.guilds.SaveGuild(ctx, guild); err != nil {
		return nil, fmt.Errorf("error saving guild counter: %w", err)
	}

	if len([]rune(message)) > MaxMessageLen {
		message = string([]rune(message)[:MaxMessageLen])
	}

	vouch := &entities.Vouch{
		ID:        guild.VouchCounter,
		GuildID:   guildID,
		VoucherID: voucherID,
		VouchedID: vouchedID,
		Message:   message,
		CreatedAt: custom.Now(),
	}
	if err := v.vouches.SaveVouch(ctx, vouch); err != nil {
		return nil, fmt.Errorf("error saving vouch: %w", err)
	}
	return vouch, nil
}

// RemoveVouchByID deletes a vouch. Only the original voucher may remove it, unless the
// caller is elevated.
func (v *Ledger) RemoveVouchByID(ctx context.Context, guildID string, id int, removerID string, elevated bool) error {
	vouch, err := v.vouches.GetVouch(ctx, guildID, id)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return ErrUnknownVouch
		}
		return fmt.Errorf("error getting vouch: %w", err)
	}

	if vouch.VoucherID != removerID && !elevated {
		return ErrNotVoucher
	}

	if err := v.vouches.DeleteVouch(ctx, guildID, id); err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return ErrUnknownVouch
		}
		return fmt.Errorf("error deleting vouch: %w", err)
	}
	return nil
}

// Stats partitions a user's vouches into received and given.
type Stats struct {
	Received []*entities.Vouch
	Given    []*entities.Vouch
}

// GetVouchStats returns the received/given partitions for a user.
func (v *Ledger) GetVouchStats(ctx context.Context, guildID, userID string) (*Stats, error) {
	vouches, err := v.vouches.ListVouches(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("error listing vouches: %w", err)
	}

	stats := new(Stats)
	for _, vouch := range vouches {
		if vouch.VouchedID == userID {
			stats.Received = append(stats.Received, vouch)
		}
		if vouch.VoucherID == userID {
			stats.Given = append(stats.Given, vouch)
		}
	}
	return stats, nil
}

// RankEntry is one row of the top-vouched ranking.
type RankEntry struct {
	UserID string
	Count  int
}

// TopVouched aggregates vouch counts per recipient, descending by count. Ties keep the
// insertion order of the aggregation pass.
func (v *Ledger) TopVouched(ctx context.Context, guildID string, limit int) ([]RankEntry, error) {
	vouches, err := v.vouches.ListVouches(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("error listing vouches: %w", err)
	}

	counts := make(map[string]int)
	var order []string
	for _, vouch := range vouches {
		if _, seen := counts[vouch.VouchedID]; !seen {
			order = append(order, vouch.VouchedID)
		}
		counts[vouch.VouchedID]++
	}

	entries := make([]RankEntry, 0, len(order))
	for _, userID := range order {
		entries = append(entries, RankEntry{UserID: userID, Count: counts[userID]})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Count > entries[j].Count })

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
