package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes settlement events to a topic keyed by payment id.
type Publisher struct {
	w messageWriter
}

// NewPublisher returns Publisher writing to topic on brokers.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
	}
}

// PublishSettlement writes the event. Events of one payment always land in the same partition.
func (p *Publisher) PublishSettlement(ctx context.Context, e domain.SettlementEvent) error {
	msg, err := encodeSettlement(e)
	if err != nil {
		return err
	}

	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing settlement event %s: %w", e.PaymentID, err)
	}

	zerolog.Ctx(ctx).Debug().Str("payment_id", e.PaymentID.String()).Msg("settlement event published")

	return nil
}

// Close flushes pending writes and releases the connection.
func (p *Publisher) Close() error {
	return p.w.Close()
}
