// Package broker publishes and consumes settlement events over Kafka.
package broker

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	headerEventType = "event-type"
	eventSettlement = "payment.settled"
)

func encodeSettlement(e domain.SettlementEvent) (kafka.Message, error) {
	value, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encoding settlement event: %w", err)
	}

	return kafka.Message{
		Key:   []byte(e.PaymentID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: headerEventType, Value: []byte(eventSettlement)},
		},
		Time: e.Timestamp,
	}, nil
}

func decodeSettlement(m kafka.Message) (domain.SettlementEvent, error) {
	var e domain.SettlementEvent

	if err := json.Unmarshal(m.Value, &e); err != nil {
		return e, fmt.Errorf("decoding settlement event: %w", err)
	}

	if e.PaymentID == uuid.Nil {
		return e, errors.New("decoding settlement event: missing payment id")
	}

	return e, nil
}
