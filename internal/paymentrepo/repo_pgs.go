// Package paymentrepo manages repository layer of payments.
package paymentrepo

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/go-petr/pet-bank-payments/internal/accountrepo"
	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/pkg/dbpkg"
	"github.com/go-petr/pet-bank-payments/pkg/errorspkg"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates payment repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn dbpkg.TxBeginner
}

// NewTxRepoPGS returns payment RepoPGS bound to an open transaction. It cannot Settle.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns payment RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const paymentColumns = `id, sender_account_id, receiver_account_id, receiver_bank, receiver_iban, card_id,
	type, category, amount, currency, converted_amount, receiver_currency, exchange_rate,
	status, failure_reason, description, created_at`

func scanPayment(row interface{ Scan(...any) error }) (domain.Payment, error) {
	var p domain.Payment

	err := row.Scan(
		&p.ID,
		&p.SenderAccountID,
		&p.ReceiverAccountID,
		&p.ReceiverBank,
		&p.ReceiverIBAN,
		&p.CardID,
		&p.Type,
		&p.Category,
		&p.Amount,
		&p.Currency,
		&p.ConvertedAmount,
		&p.ReceiverCurrency,
		&p.ExchangeRate,
		&p.Status,
		&p.FailureReason,
		&p.Description,
		&p.CreatedAt,
	)

	return p, err
}

const createQuery = `
INSERT INTO
    payments (id, sender_account_id, receiver_account_id, receiver_bank, receiver_iban, card_id,
	type, category, amount, currency, converted_amount, receiver_currency, exchange_rate,
	status, failure_reason, description)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
RETURNING ` + paymentColumns

// Create stores the payment and then returns it.
func (r *RepoPGS) Create(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		p.ID,
		p.SenderAccountID,
		p.ReceiverAccountID,
		p.ReceiverBank,
		p.ReceiverIBAN,
		p.CardID,
		p.Type,
		p.Category,
		p.Amount,
		p.Currency,
		p.ConvertedAmount,
		p.ReceiverCurrency,
		p.ExchangeRate,
		p.Status,
		p.FailureReason,
		p.Description,
	)

	got, err := scanPayment(row)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, payment %v)", p.ID)

		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Constraint {
			case "payments_sender_account_id_fkey", "payments_receiver_account_id_fkey":
				return got, domain.ErrAccountNotFound
			case "payments_card_id_fkey":
				return got, domain.ErrCardNotFound
			case "payments_amount_check":
				return got, domain.ErrNegativeAmount
			}
		}

		return got, errorspkg.ErrInternal
	}

	return got, nil
}

const getQuery = `
SELECT ` + paymentColumns + `
FROM payments
WHERE id = $1
`

// Get returns the payment with the given id.
func (r *RepoPGS) Get(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	l := zerolog.Ctx(ctx)

	p, err := scanPayment(r.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, domain.ErrPaymentNotFound
		}

		l.Error().Err(err).Send()

		return p, errorspkg.ErrInternal
	}

	return p, nil
}

const listByAccountQuery = `
SELECT ` + paymentColumns + `
FROM payments
WHERE sender_account_id = $1 OR receiver_account_id = $1
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3
`

// ListByAccount returns payments sent or received by the account, newest first.
func (r *RepoPGS) ListByAccount(ctx context.Context, arg domain.ListPaymentsParams) ([]domain.Payment, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByAccountQuery, arg.AccountID, arg.Limit, arg.Offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Payment{}

	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, p)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

// Settle applies all balance changes and stores the payment within a single transaction.
//
// Every change is a compare-and-swap on the account version. If any account was modified
// since it was read the whole transaction is rolled back with domain.ErrConcurrentModification.
func (r *RepoPGS) Settle(ctx context.Context, arg domain.SettleParams) (domain.SettleResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.SettleResult

	if r.conn == nil {
		l.Error().Msg("Settle called on a transaction bound repo")
		return result, errorspkg.ErrInternal
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Send()
		}
	}()

	accountRepo := accountrepo.NewRepoPGS(tx)

	// To avoid deadlocks execute statements in consistent id order
	changes := make([]domain.BalanceChange, len(arg.Changes))
	copy(changes, arg.Changes)
	sort.Slice(changes, func(i, j int) bool {
		return bytes.Compare(changes[i].AccountID[:], changes[j].AccountID[:]) < 0
	})

	for _, change := range changes {
		account, err := accountRepo.ApplyBalanceChange(ctx, change)
		if err != nil {
			return result, err
		}

		result.Accounts = append(result.Accounts, account)
	}

	result.Payment, err = NewTxRepoPGS(tx).Create(ctx, arg.Payment)
	if err != nil {
		return result, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	return result, nil
}
