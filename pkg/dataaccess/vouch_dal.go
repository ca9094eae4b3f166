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
	vouchDalName      = "vouch_dal"
	vouchesCollection = "vouches"
)

type mongoVouchDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewVouchDal creates a new Mongo-backed vouch data access layer.
func NewVouchDal(l *slog.Logger) VouchDal {
	l = l.With(slog.String(logging.KeyDal, vouchDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &mongoVouchDal{
		l:      l,
		client: MongoDB,
	}
}

func (d *mongoVouchDal) SaveVouch(ctx context.Context, vouch *entities.Vouch) error {
	collection := d.client.Database(mongoDatabase).Collection(vouchesCollection)

	monitoring.MongoTotalRequests.WithLabelValues(vouchDalName, "save_vouch", mongoDatabase, vouchesCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(vouchDalName, "save_vouch", mongoDatabase, vouchesCollection))
	defer t.ObserveDuration()

	opts := options.Update().SetUpsert(true)
	if _, err := collection.UpdateOne(ctx, bson.M{"guild_id": vouch.GuildID, "id": vouch.ID}, bson.M{"$set": vouch}, opts); err != nil {
		return fmt.Errorf("error updating vouch: %w", err)
	}
	return nil
}

func (d *mongoVouchDal) GetVouch(ctx context.Context, guildID string, id int) (*entities.Vouch, error) {
	collection := d.client.Database(mongoDatabase).Collection(vouchesCollection)

	monitoring.MongoTotalRequests.WithLabelValues(vouchDalName, "get_vouch", mongoDatabase, vouchesCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(vouchDalName, "get_vouch", mongoDatabase, vouchesCollection))
	defer t.ObserveDuration()

	vouch := new(entities.Vouch)
	if err := collection.FindOne(ctx, bson.M{"guild_id": guildID, "id": id}).Decode(vouch); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting vouch: %w", err)
	}
	return vouch, nil
}

func (d *mongoVouchDal) DeleteVouch(ctx context.Context, guildID string, id int) error {
	collection := d.client.Database(mongoDatabase).Collection(vouchesCollection)

	monitoring.MongoTotalRequests.WithLabelValues(vouchDalName, "delete_vouch", mongoDatabase, vouchesCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(vouchDalName, "delete_vouch", mongoDatabase, vouchesCollection))
	defer t.ObserveDuration()

	res, err := collection.DeleteOne(ctx, bson.M{"guild_id": guildID, "id": id})
	if err != nil {
		return fmt.Errorf("error deleting vouch: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *mongoVouchDal) ListVouches(ctx context.Context, guildID string) ([]*entities.Vouch, error) {
	collection := d.client.Database(mongoDatabase).Collection(vouchesCollection)

	monitoring.MongoTotalRequests.WithLabelValues(vouchDalName, "list_vouches", mongoDatabase, vouchesCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(vouchDalName, "list_vouches", mongoDatabase, vouchesCollection))
	defer t.ObserveDuration()

	opts := options.Find().SetSort(bson.M{"id": 1})
	cur, err := collection.Find(ctx, bson.M{"guild_id": guildID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing vouches: %w", err)
	}

	var vouches []*entities.Vouch
	if err := cur.All(ctx, &vouches); err != nil {
		return nil, fmt.Errorf("error decoding vouches: %w", err)
	}
	return vouches, nil
}
