package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/concord/pkg/custom"
	"github.com/Jacobbrewer1/concord/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/concord/pkg/entities"
	"github.com/Jacobbrewer1/concord/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	guildDalName     = "guild_dal"
	guildsCollection = "guilds"
)

type mongoGuildDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewGuildDal creates a new Mongo-backed guild data access layer.
func NewGuildDal(l *slog.Logger) GuildDal {
	l = l.With(slog.String(logging.KeyDal, guildDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &mongoGuildDal{
		l:      l,
		client: MongoDB,
	}
}

func (g *mongoGuildDal) SaveGuild(ctx context.Context, guild *entities.Guild) error {
	collection := g.client.Database(mongoDatabase).Collection(guildsCollection)

	monitoring.MongoTotalRequests.WithLabelValues(guildDalName, "save_guild", mongoDatabase, guildsCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(guildDalName, "save_guild", mongoDatabase, guildsCollection))
	defer t.ObserveDuration()

	guild.UpdatedAt = custom.Now()

	opts := options.Update().SetUpsert(true)
	if _, err := collection.UpdateOne(ctx, bson.M{"id": guild.ID}, bson.M{"$set": guild}, opts); err != nil {
		return fmt.Errorf("error updating guild: %w", err)
	}
	return nil
}

func (g *mongoGuildDal) GetGuildByID(ctx context.Context, id string) (*entities.Guild, error) {
	collection := g.client.Database(mongoDatabase).Collection(guildsCollection)

	monitoring.MongoTotalRequests.WithLabelValues(guildDalName, "get_guild_by_id", mongoDatabase, guildsCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(guildDalName, "get_guild_by_id", mongoDatabase, guildsCollection))
	defer t.ObserveDuration()

	guild := new(entities.Guild)
	if err := collection.FindOne(ctx, bson.M{"id": id}).Decode(guild); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting guild: %w", err)
	}
	return guild, nil
}
