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
	progressDalName    = "progress_dal"
	progressCollection = "progress"
)

type mongoProgressDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewProgressDal creates a new Mongo-backed progress data access layer.
func NewProgressDal(l *slog.Logger) ProgressDal {
	l = l.With(slog.String(logging.KeyDal, progressDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &mongoProgressDal{
		l:      l,
		client: MongoDB,
	}
}

func (d *mongoProgressDal) SaveProgress(ctx context.Context, progress *entities.UserProgress) error {
	collection := d.client.Database(mongoDatabase).Collection(progressCollection)

	monitoring.MongoTotalRequests.WithLabelValues(progressDalName, "save_progress", mongoDatabase, progressCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(progressDalName, "save_progress", mongoDatabase, progressCollection))
	defer t.ObserveDuration()

	opts := options.Update().SetUpsert(true)
	if _, err := collection.UpdateOne(ctx, bson.M{"guild_id": progress.GuildID, "user_id": progress.UserID}, bson.M{"$set": progress}, opts); err != nil {
		return fmt.Errorf("error updating progress: %w", err)
	}
	return nil
}

func (d *mongoProgressDal) GetProgress(ctx context.Context, guildID, userID string) (*entities.UserProgress, error) {
	collection := d.client.Database(mongoDatabase).Collection(progressCollection)

	monitoring.MongoTotalRequests.WithLabelValues(progressDalName, "get_progress", mongoDatabase, progressCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(progressDalName, "get_progress", mongoDatabase, progressCollection))
	defer t.ObserveDuration()

	progress := new(entities.UserProgress)
	if err := collection.FindOne(ctx, bson.M{"guild_id": guildID, "user_id": userID}).Decode(progress); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting progress: %w", err)
	}
	return progress, nil
}

func (d *mongoProgressDal) ListProgress(ctx context.Context, guildID string) ([]*entities.UserProgress, error) {
	collection := d.client.Database(mongoDatabase).Collection(progressCollection)

	monitoring.MongoTotalRequests.WithLabelValues(progressDalName, "list_progress", mongoDatabase, progressCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(progressDalName, "list_progress", mongoDatabase, progressCollection))
	defer t.ObserveDuration()

	cur, err := collection.Find(ctx, bson.M{"guild_id": guildID})
	if err != nil {
		return nil, fmt.Errorf("error listing progress: %w", err)
	}

	var records []*entities.UserProgress
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("error decoding progress: %w", err)
	}
	return records, nil
}
