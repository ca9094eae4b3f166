package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/concord/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/concord/pkg/entities"
	"github.com/Jacobbrewer1/concord/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	bugDalName     = "bug_dal"
	bugsCollection = "bugs"
)

type mongoBugDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewBugDal creates a new Mongo-backed bug data access layer.
func NewBugDal(l *slog.Logger) BugDal {
	l = l.With(slog.String(logging.KeyDal, bugDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &mongoBugDal{
		l:      l,
		client: MongoDB,
	}
}

func (d *mongoBugDal) SaveBug(ctx context.Context, bug *entities.Bug) error {
	collection := d.client.Database(mongoDatabase).Collection(bugsCollection)

	monitoring.MongoTotalRequests.WithLabelValues(bugDalName, "save_bug", mongoDatabase, bugsCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(bugDalName, "save_bug", mongoDatabase, bugsCollection))
	defer t.ObserveDuration()

	opts := options.Update().SetUpsert(true)
	if _, err := collection.UpdateOne(ctx, bson.M{"guild_id": bug.GuildID, "id": bug.ID}, bson.M{"$set": bug}, opts); err != nil {
		return fmt.Errorf("error updating bug: %w", err)
	}
	return nil
}

func (d *mongoBugDal) GetBug(ctx context.Context, guildID string, id int) (*entities.Bug, error) {
	collection := d.client.Database(mongoDatabase).Collection(bugsCollection)

	monitoring.MongoTotalRequests.WithLabelValues(bugDalName, "get_bug", mongoDatabase, bugsCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(bugDalName, "get_bug", mongoDatabase, bugsCollection))
	defer t.ObserveDuration()

	bug := new(entities.Bug)
	if err := collection.FindOne(ctx, bson.M{"guild_id": guildID, "id": id}).Decode(bug); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting bug: %w", err)
	}
	return bug, nil
}

func (d *mongoBugDal) ListBugs(ctx context.Context, guildID string) ([]*entities.Bug, error) {
	collection := d.client.Database(mongoDatabase).Collection(bugsCollection)

	monitoring.MongoTotalRequests.WithLabelValues(bugDalName, "list_bugs", mongoDatabase, bugsCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(bugDalName, "list_bugs", mongoDatabase, bugsCollection))
	defer t.ObserveDuration()

	opts := options.Find().SetSort(bson.M{"id": 1})
	cur, err := collection.Find(ctx, bson.M{"guild_id": guildID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing bugs: %w", err)
	}

	var bugs []*entities.Bug
	if err := cur.All(ctx, &bugs); err != nil {
		return nil, fmt.Errorf("error decoding bugs: %w", err)
	}
	return bugs, nil
}
