package dataaccess

import (
	"context"
	"sort"
	"sync"

	"github.com/Jacobbrewer1/concord/pkg/custom"
	"github.com/Jacobbrewer1/concord/pkg/entities"
)

// The in-memory DALs back the store when no database is configured, and keep unit tests
// free of process-wide state. Records are copied on the way in and out, so callers never
// share memory with the store.

type inMemoryGuildDal struct {
	mu     sync.Mutex
	guilds map[string]*entities.Guild
}

// NewInMemoryGuildDal creates a map-backed guild data access layer.
func NewInMemoryGuildDal() GuildDal {
	return &inMemoryGuildDal{
		guilds: make(map[string]*entities.Guild),
	}
}

func (g *inMemoryGuildDal) SaveGuild(_ context.Context, guild *entities.Guild) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	guild.UpdatedAt = custom.Now()
	cp := *guild
	g.guilds[guild.ID] = &cp
	return nil
}

func (g *inMemoryGuildDal) GetGuildByID(_ context.Context, id string) (*entities.Guild, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	guild, ok := g.guilds[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *guild
	return &cp, nil
}

type inMemoryTicketDal struct {
	mu      sync.Mutex
	tickets map[string]*entities.Ticket
}

// NewInMemoryTicketDal creates a map-backed ticket data access layer.
func NewInMemoryTicketDal() TicketDal {
	return &inMemoryTicketDal{
		tickets: make(map[string]*entities.Ticket),
	}
}

func (d *inMemoryTicketDal) SaveTicket(_ context.Context, ticket *entities.Ticket) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	cp := *ticket
	cp.AssignedStaff = append([]string(nil), ticket.AssignedStaff...)
	cp.AddedUsers = append([]string(nil), ticket.AddedUsers...)
	d.tickets[ticket.ChannelID] = &cp
	return nil
}

func (d *inMemoryTicketDal) GetTicketByChannel(_ context.Context, channelID string) (*entities.Ticket, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ticket, ok := d.tickets[channelID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *ticket
	cp.AssignedStaff = append([]string(nil), ticket.AssignedStaff...)
	cp.AddedUsers = append([]string(nil), ticket.AddedUsers...)
	return &cp, nil
}

type bugKey struct {
	guildID string
	id      int
}

type inMemoryBugDal struct {
	mu   sync.Mutex
	bugs map[bugKey]*entities.Bug
}

// NewInMemoryBugDal creates a map-backed bug data access layer.
func NewInMemoryBugDal() BugDal {
	return &inMemoryBugDal{
		bugs: make(map[bugKey]*entities.Bug),
	}
}

func copyBug(bug *entities.Bug) *entities.Bug {
	cp := *bug
	cp.Comments = append([]entities.BugComment(nil), bug.Comments...)
	return &cp
}

func (d *inMemoryBugDal) SaveBug(_ context.Context, bug *entities.Bug) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.bugs[bugKey{guildID: bug.GuildID, id: bug.ID}] = copyBug(bug)
	return nil
}

func (d *inMemoryBugDal) GetBug(_ context.Context, guildID string, id int) (*entities.Bug, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	bug, ok := d.bugs[bugKey{guildID: guildID, id: id}]
	if !ok {
		return nil, ErrNotFound
	}
	return copyBug(bug), nil
}

func (d *inMemoryBugDal) ListBugs(_ context.Context, guildID string) ([]*entities.Bug, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var bugs []*entities.Bug
	for key, bug := range d.bugs {
		if key.guildID != guildID {
			continue
		}
		bugs = append(bugs, copyBug(bug))
	}
	sort.Slice(bugs, func(i, j int) bool { return bugs[i].ID < bugs[j].ID })
	return bugs, nil
}

type vouchKey struct {
	guildID string
	id      int
}

type inMemoryVouchDal struct {
	mu      sync.Mutex
	vouches map[vouchKey]*entities.Vouch
}

// NewInMemoryVouchDal creates a map-backed vouch data access layer.
func NewInMemoryVouchDal() VouchDal {
	return &inMemoryVouchDal{
		vouches: make(map[vouchKey]*entities.Vouch),
	}
}

func (d *inMemoryVouchDal) SaveVouch(_ context.Context, vouch *entities.Vouch) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	cp := *vouch
	d.vouches[vouchKey{guildID: vouch.GuildID, id: vouch.ID}] = &cp
	return nil
}

func (d *inMemoryVouchDal) GetVouch(_ context.Context, guildID string, id int) (*entities.Vouch, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	vouch, ok := d.vouches[vouchKey{guildID: guildID, id: id}]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *vouch
	return &cp, nil
}

func (d *inMemoryVouchDal) DeleteVouch(_ context.Context, guildID string, id int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := vouchKey{guildID: guildID, id: id}
	if _, ok := d.vouches[key]; !ok {
		return ErrNotFound
	}
	delete(d.vouches, key)
	return nil
}

func (d *inMemoryVouchDal) ListVouches(_ context.Context, guildID string) ([]*entities.Vouch, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var vouches []*entities.Vouch
	for key, vouch := range d.vouches {
		if key.guildID != guildID {
			continue
		}
		cp := *vouch
		vouches = append(vouches, &cp)
	}
	sort.Slice(vouches, func(i, j int) bool { return vouches[i].ID < vouches[j].ID })
	return vouches, nil
}

type progressKey struct {
	guildID string
	userID  string
}

type inMemoryProgressDal struct {
	mu      sync.Mutex
	records map[progressKey]*entities.UserProgress
}

// NewInMemoryProgressDal creates a map-backed progress data access layer.
func NewInMemoryProgressDal() ProgressDal {
	return &inMemoryProgressDal{
		records: make(map[progressKey]*entities.UserProgress),
	}
}

func (d *inMemoryProgressDal) SaveProgress(_ context.Context, progress *entities.UserProgress) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	cp := *progress
	d.records[progressKey{guildID: progress.GuildID, userID: progress.UserID}] = &cp
	return nil
}

func (d *inMemoryProgressDal) GetProgress(_ context.Context, guildID, userID string) (*entities.UserProgress, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	progress, ok := d.records[progressKey{guildID: guildID, userID: userID}]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *progress
	return &cp, nil
}

func (d *inMemoryProgressDal) ListProgress(_ context.Context, guildID string) ([]*entities.UserProgress, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var records []*entities.UserProgress
	for key, progress := range d.records {
		if key.guildID != guildID {
			continue
		}
		cp := *progress
		records = append(records, &cp)
	}
	return records, nil
}
