// Package messagerepo manages repository layer of messages.
package messagerepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/pkg/dbpkg"
	"github.com/go-petr/pet-bank-payments/pkg/errorspkg"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates message repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns message RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const messageColumns = `id, payment_id, sender, recipient, content, is_read, created_at`

func scanMessage(row interface{ Scan(...any) error }) (domain.Message, error) {
	var m domain.Message

	err := row.Scan(
		&m.ID,
		&m.PaymentID,
		&m.Sender,
		&m.Recipient,
		&m.Content,
		&m.Read,
		&m.CreatedAt,
	)

	return m, err
}

const createQuery = `
INSERT INTO
    messages (id, payment_id, sender, recipient, content)
VALUES
    ($1, $2, $3, $4, $5)
ON CONFLICT (payment_id) DO NOTHING
RETURNING ` + messageColumns

// Create stores the message. A second message for the same payment yields domain.ErrMessageExists.
func (r *RepoPGS) Create(ctx context.Context, m domain.Message) (domain.Message, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, m.ID, m.PaymentID, m.Sender, m.Recipient, m.Content)

	got, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return got, domain.ErrMessageExists
		}

		l.Error().Err(err).Msgf("Create(ctx, payment %v)", m.PaymentID)

		return got, errorspkg.ErrInternal
	}

	return got, nil
}

const listQuery = `
SELECT ` + messageColumns + `
FROM messages
WHERE recipient = $1
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3
`

// List returns messages of the recipient, newest first.
func (r *RepoPGS) List(ctx context.Context, arg domain.ListMessagesParams) ([]domain.Message, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, arg.Recipient, arg.Limit, arg.Offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Message{}

	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, m)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const markReadQuery = `
UPDATE messages
SET is_read = true
WHERE id = $1 AND recipient = $2
RETURNING ` + messageColumns

// MarkRead flags the recipient's message as read.
func (r *RepoPGS) MarkRead(ctx context.Context, id uuid.UUID, recipient string) (domain.Message, error) {
	l := zerolog.Ctx(ctx)

	m, err := scanMessage(r.db.QueryRowContext(ctx, markReadQuery, id, recipient))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return m, domain.ErrMessageNotFound
		}

		l.Error().Err(err).Send()

		return m, errorspkg.ErrInternal
	}

	return m, nil
}
