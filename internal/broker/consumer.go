package broker

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler processes one settlement event.
type Handler func(ctx context.Context, e domain.SettlementEvent) error

// Consumer reads settlement events as a member of a consumer group.
type Consumer struct {
	r            messageReader
	retryDelay   time.Duration
	restartDelay time.Duration
}

// NewConsumer returns Consumer reading topic on brokers in group.
func NewConsumer(brokers []string, topic, group string) *Consumer {
	return &Consumer{
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  group,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6,
			MaxWait:  time.Second,
		}),
		retryDelay:   time.Second,
		restartDelay: 5 * time.Second,
	}
}

// Serve runs the consumer until ctx is done, restarting it after fetch or commit failures.
func (c *Consumer) Serve(ctx context.Context, handler Handler) {
	l := zerolog.Ctx(ctx)

	for {
		err := c.Run(ctx, handler)
		if ctx.Err() != nil {
			return
		}

		if err == nil {
			// The reader was closed underneath us.
			l.Warn().Msg("settlement consumer stopped")
			return
		}

		l.Warn().Err(err).Dur("restart_in", c.restartDelay).Msg("restarting settlement consumer")

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.restartDelay):
		}
	}
}

// Run hands every event to handler until ctx is done.
//
// An offset is committed only after handler succeeded, so events are delivered at least once.
// A failing event is retried in place. Undecodable messages are logged and committed.
func (c *Consumer) Run(ctx context.Context, handler Handler) error {
	l := zerolog.Ctx(ctx).With().Str("component", "settlement_consumer").Logger()
	ctx = l.WithContext(ctx)

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}

			l.Error().Err(err).Msg("fetching message")

			return err
		}

		ml := l.With().Int("partition", m.Partition).Int64("offset", m.Offset).Logger()

		e, err := decodeSettlement(m)
		if err != nil {
			ml.Warn().Err(err).Msg("skipping undecodable message")
		} else if !c.handle(ml.WithContext(ctx), handler, e) {
			return nil
		}

		if err := c.r.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}

			ml.Error().Err(err).Msg("committing message")

			return err
		}
	}
}

// handle retries handler until it succeeds. It reports false if ctx ended first.
func (c *Consumer) handle(ctx context.Context, handler Handler, e domain.SettlementEvent) bool {
	l := zerolog.Ctx(ctx)

	for {
		err := handler(ctx, e)
		if err == nil {
			return true
		}

		l.Error().Err(err).Str("payment_id", e.PaymentID.String()).Msg("handling settlement event")

		select {
		case <-ctx.Done():
			return false
		case <-time.After(c.retryDelay):
		}
	}
}

// Close leaves the consumer group.
func (c *Consumer) Close() error {
	return c.r.Close()
}
