package broker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testEvent() domain.SettlementEvent {
	return domain.SettlementEvent{
		PaymentID:         uuid.New(),
		SenderAccountID:   uuid.New(),
		ReceiverAccountID: uuid.NullUUID{UUID: uuid.New(), Valid: true},
		SenderOwner:       "alice",
		ReceiverOwner:     "bob",
		Type:              domain.BankTransfer,
		Amount:            decimal.RequireFromString("40"),
		Currency:          "USD",
		ConvertedAmount:   decimal.RequireFromString("36"),
		ReceiverCurrency:  "EUR",
		Status:            domain.StatusCompleted,
		Timestamp:         time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC),
	}
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestPublishSettlement(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{w: w}
	e := testEvent()

	require.NoError(t, p.PublishSettlement(context.Background(), e))
	require.Len(t, w.msgs, 1)
	require.Equal(t, e.PaymentID.String(), string(w.msgs[0].Key))
	require.Equal(t, eventSettlement, string(w.msgs[0].Headers[0].Value))

	got, err := decodeSettlement(w.msgs[0])
	require.NoError(t, err)

	equateDecimal := cmp.Comparer(func(x, y decimal.Decimal) bool { return x.Equal(y) })
	if diff := cmp.Diff(e, got, equateDecimal); diff != "" {
		t.Errorf("decodeSettlement() returned unexpected difference (-want +got):\n%s", diff)
	}

	w.err = errors.New("leader not available")
	require.ErrorIs(t, p.PublishSettlement(context.Background(), e), w.err)
}

type fakeReader struct {
	mu        sync.Mutex
	fetchErrs []error
	queue     []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.fetchErrs) > 0 {
		err := r.fetchErrs[0]
		r.fetchErrs = r.fetchErrs[1:]
		r.mu.Unlock()
		return kafka.Message{}, err
	}

	if len(r.queue) == 0 {
		r.mu.Unlock()
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}

	m := r.queue[0]
	r.queue = r.queue[1:]
	r.mu.Unlock()

	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}

	return nil
}

func (r *fakeReader) Close() error { return nil }

func TestConsumerRun(t *testing.T) {
	e1, e2 := testEvent(), testEvent()

	m1, err := encodeSettlement(e1)
	require.NoError(t, err)
	m1.Offset = 1

	poison := kafka.Message{Offset: 2, Value: []byte("{not json")}

	m3, err := encodeSettlement(e2)
	require.NoError(t, err)
	m3.Offset = 3

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &fakeReader{queue: []kafka.Message{m1, poison, m3}, cancel: cancel}
	c := &Consumer{r: r, retryDelay: time.Millisecond}

	var (
		handled  []uuid.UUID
		failures int
	)

	err = c.Run(ctx, func(_ context.Context, e domain.SettlementEvent) error {
		// First delivery of the second event fails and must be retried before committing.
		if e.PaymentID == e2.PaymentID && failures == 0 {
			failures++
			return errors.New("db unavailable")
		}

		handled = append(handled, e.PaymentID)

		return nil
	})
	require.NoError(t, err)

	require.Equal(t, []uuid.UUID{e1.PaymentID, e2.PaymentID}, handled)
	require.Equal(t, 1, failures)
	require.Equal(t, []int64{1, 2, 3}, r.committed)
}

func TestConsumerStopsWhileRetrying(t *testing.T) {
	m, err := encodeSettlement(testEvent())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	r := &fakeReader{queue: []kafka.Message{m}, cancel: cancel}
	c := &Consumer{r: r, retryDelay: 5 * time.Millisecond}

	calls := 0
	err = c.Run(ctx, func(context.Context, domain.SettlementEvent) error {
		calls++
		if calls == 3 {
			cancel()
		}
		return errors.New("still failing")
	})
	require.NoError(t, err)
	require.Empty(t, r.committed)
}

func TestConsumerServeRestartsAfterFetchErrors(t *testing.T) {
	e := testEvent()

	m, err := encodeSettlement(e)
	require.NoError(t, err)
	m.Offset = 7

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &fakeReader{
		fetchErrs: []error{errors.New("broker unreachable"), errors.New("group rebalance")},
		queue:     []kafka.Message{m},
		cancel:    cancel,
	}
	c := &Consumer{r: r, retryDelay: time.Millisecond, restartDelay: time.Millisecond}

	var handled []uuid.UUID

	c.Serve(ctx, func(_ context.Context, got domain.SettlementEvent) error {
		handled = append(handled, got.PaymentID)
		return nil
	})

	require.Equal(t, []uuid.UUID{e.PaymentID}, handled)
	require.Equal(t, []int64{7}, r.committed)
	require.Empty(t, r.fetchErrs)
}

func TestConsumerServeStopsDuringRestartDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	r := &fakeReader{fetchErrs: []error{errors.New("broker unreachable")}, cancel: cancel}
	c := &Consumer{r: r, retryDelay: time.Millisecond, restartDelay: time.Hour}

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Serve(ctx, func(context.Context, domain.SettlementEvent) error { return nil })
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after ctx was cancelled")
	}
}

func TestDecodeSettlementRequiresPaymentID(t *testing.T) {
	_, err := decodeSettlement(kafka.Message{Value: []byte(`{"sender_owner":"alice"}`)})
	require.Error(t, err)
}
