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
	ticketDalName     = "ticket_dal"
	ticketsCollection = "tickets"
)

type mongoTicketDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewTicketDal creates a new Mongo-backed ticket data access layer.
func NewTicketDal(l *slog.Logger) TicketDal {
	l = l.With(slog.String(logging.KeyDal, ticketDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &mongoTicketDal{
		l:      l,
		client: MongoDB,
	}
}

func (d *mongoTicketDal) SaveTicket(ctx context.Context, ticket *entities.Ticket) error {
	collection := d.client.Database(mongoDatabase).Collection(ticketsCollection)

	monitoring.MongoTotalRequests.WithLabelValues(ticketDalName, "save_ticket", mongoDatabase, ticketsCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketDalName, "save_ticket", mongoDatabase, ticketsCollection))
	defer t.ObserveDuration()

	opts := options.Update().SetUpsert(true)
	if _, err := collection.UpdateOne(ctx, bson.M{"channel_id": ticket.ChannelID}, bson.M{"$set": ticket}, opts); err != nil {
		return fmt.Errorf("error updating ticket: %w", err)
	}
	return nil
}

func (d *mongoTicketDal) GetTicketByChannel(ctx context.Context, channelID string) (*entities.Ticket, error) {
	collection := d.client.Database(mongoDatabase).Collection(ticketsCollection)

	monitoring.MongoTotalRequests.WithLabelValues(ticketDalName, "get_ticket_by_channel", mongoDatabase, ticketsCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketDalName, "get_ticket_by_channel", mongoDatabase, ticketsCollection))
	defer t.ObserveDuration()

	ticket := new(entities.Ticket)
	if err := collection.FindOne(ctx, bson.M{"channel_id": channelID}).Decode(ticket); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}
	return ticket, nil
}
