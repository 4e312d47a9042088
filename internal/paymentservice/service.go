// Package paymentservice orchestrates validation, authorization, conversion and settlement of payments.
package paymentservice

import (
	"context"
	"errors"
	"time"

	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/internal/paymentstrategy"
	"github.com/go-petr/pet-bank-payments/pkg/currencypkg"
	"github.com/go-petr/pet-bank-payments/pkg/errorspkg"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AccountRepo provides account lookups needed by payment service.
//
//go:generate mockgen -source service.go -destination service_mock.go -package paymentservice
type AccountRepo interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Account, error)
}

// PaymentRepo provides data access layer interface needed by payment service.
type PaymentRepo interface {
	Create(ctx context.Context, p domain.Payment) (domain.Payment, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Payment, error)
	ListByAccount(ctx context.Context, arg domain.ListPaymentsParams) ([]domain.Payment, error)
	Settle(ctx context.Context, arg domain.SettleParams) (domain.SettleResult, error)
}

// Converter converts amounts between currencies.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, decimal.Decimal, error)
}

// Strategies resolves the authorization strategy of a payment type.
type Strategies interface {
	Resolve(t domain.PaymentType) (paymentstrategy.Process, error)
}

// Publisher emits settlement events.
type Publisher interface {
	PublishSettlement(ctx context.Context, event domain.SettlementEvent) error
}

// Config tunes locking, retrying and publishing.
type Config struct {
	LockTimeout    time.Duration
	PublishTimeout time.Duration
	SettleRetries  int
}

// Service facilitates payment service layer logic.
type Service struct {
	accounts   AccountRepo
	payments   PaymentRepo
	converter  Converter
	strategies Strategies
	publisher  Publisher
	locker     *Locker
	config     Config
	now        func() time.Time
}

// New returns payment Service.
func New(accounts AccountRepo, payments PaymentRepo, converter Converter, strategies Strategies,
	publisher Publisher, locker *Locker, config Config) *Service {
	return &Service{
		accounts:   accounts,
		payments:   payments,
		converter:  converter,
		strategies: strategies,
		publisher:  publisher,
		locker:     locker,
		config:     config,
		now:        time.Now,
	}
}

// attempt collects what is known about a payment while it is being processed.
type attempt struct {
	req      domain.PaymentRequest
	amount   decimal.Decimal
	sender   domain.Account
	receiver *domain.Account
	approval paymentstrategy.Approval

	receiverCurrency string
	converted        decimal.Decimal
	rate             decimal.Decimal
}

func (a *attempt) payment(status domain.FinancialStatus) domain.Payment {
	p := domain.Payment{
		ID:               uuid.New(),
		SenderAccountID:  a.sender.ID,
		ReceiverBank:     a.req.ReceiverBank,
		ReceiverIBAN:     a.req.ReceiverIBAN,
		CardID:           a.req.CardID,
		Type:             a.req.Type,
		Category:         a.req.Category,
		Amount:           a.amount,
		Currency:         a.sender.Currency,
		ConvertedAmount:  a.converted,
		ReceiverCurrency: a.receiverCurrency,
		ExchangeRate:     a.rate,
		Status:           status,
		Description:      a.req.Description,
	}

	if a.receiver != nil {
		p.ReceiverAccountID = uuid.NullUUID{UUID: a.receiver.ID, Valid: true}
		p.ReceiverBank = a.receiver.BankName
		p.ReceiverIBAN = a.receiver.IBAN
	}

	return p
}

// ProcessPayment validates the request, authorizes it with the strategy of its type
// before any account is read, converts the amount into the receiver currency and settles it.
//
// Validation failures leave no trace. Once the payment became billable, rate, funds and
// contention failures are recorded as a failed payment before the error is returned.
func (s *Service) ProcessPayment(ctx context.Context, principal domain.Principal, req domain.PaymentRequest) (domain.PaymentResult, error) {
	l := zerolog.Ctx(ctx)

	a, err := s.validate(ctx, principal, req)
	if err != nil {
		l.Info().Err(err).Msg("payment rejected")
		return domain.PaymentResult{}, err
	}

	a.receiverCurrency = a.sender.Currency
	if a.receiver != nil {
		a.receiverCurrency = a.receiver.Currency
	}

	a.converted, a.rate, err = s.converter.Convert(ctx, a.amount, a.sender.Currency, a.receiverCurrency)
	if err != nil {
		if errors.Is(err, domain.ErrRateUnavailable) {
			return domain.PaymentResult{}, s.fail(ctx, a, err)
		}

		return domain.PaymentResult{}, err
	}

	settled, err := s.settle(ctx, a)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) || errors.Is(err, domain.ErrConcurrentModification) {
			return domain.PaymentResult{}, s.fail(ctx, a, err)
		}

		return domain.PaymentResult{}, err
	}

	result := domain.PaymentResult{Payment: settled.Payment, SenderAccount: a.sender}
	for i := range settled.Accounts {
		acc := settled.Accounts[i]

		switch {
		case acc.ID == a.sender.ID:
			result.SenderAccount = acc
		case a.receiver != nil && acc.ID == a.receiver.ID:
			result.ReceiverAccount = &acc
		}
	}

	s.publish(ctx, a, result)

	l.Info().
		Str("payment_id", result.Payment.ID.String()).
		Str("amount", a.amount.String()).
		Str("currency", a.sender.Currency).
		Msg("payment completed")

	return result, nil
}

func (s *Service) validate(ctx context.Context, principal domain.Principal, req domain.PaymentRequest) (*attempt, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, domain.ErrInvalidAmount
	}

	if !amount.IsPositive() {
		return nil, domain.ErrNegativeAmount
	}

	// Balances are kept in whole cents.
	if !amount.Equal(amount.Truncate(2)) {
		return nil, domain.ErrInvalidAmount
	}

	process, err := s.strategies.Resolve(req.Type)
	if err != nil {
		return nil, err
	}

	if req.Category == "" {
		req.Category = domain.CategoryOther
	}

	if !req.Category.IsValid() {
		return nil, domain.ErrCategoryNotPermitted
	}

	if req.ReceiverAccountID.Valid && req.ReceiverAccountID.UUID == req.SenderAccountID {
		return nil, domain.ErrSameAccount
	}

	// Authorization needs the request only, so a rejected card never reaches the accounts.
	approval, err := process.Execute(ctx, paymentstrategy.PaymentContext{Request: req})
	if err != nil {
		return nil, err
	}

	sender, err := s.accounts.Get(ctx, req.SenderAccountID)
	if err != nil {
		return nil, err
	}

	if sender.Owner != principal.Username {
		return nil, domain.ErrInvalidOwner
	}

	if !sender.IsActive() {
		return nil, domain.ErrAccountBlocked
	}

	if req.Currency != "" && !currencypkg.IsSupportedCurrency(req.Currency) {
		return nil, domain.ErrUnsupportedCurrency
	}

	if req.Currency != "" && req.Currency != sender.Currency {
		return nil, domain.ErrCurrencyMismatch
	}

	a := &attempt{req: req, amount: amount, sender: sender, approval: approval}

	if req.ReceiverAccountID.Valid {
		receiver, err := s.accounts.Get(ctx, req.ReceiverAccountID.UUID)
		if err != nil {
			return nil, err
		}

		if !receiver.IsActive() {
			return nil, domain.ErrAccountBlocked
		}

		a.receiver = &receiver
	}

	return a, nil
}

// settle moves the money under the account locks, retrying compare-and-swap conflicts.
func (s *Service) settle(ctx context.Context, a *attempt) (domain.SettleResult, error) {
	l := zerolog.Ctx(ctx)

	ids := []uuid.UUID{a.sender.ID}
	if a.receiver != nil {
		ids = append(ids, a.receiver.ID)
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.config.LockTimeout)
	defer cancel()

	unlock, err := s.locker.Lock(lockCtx, ids...)
	if err != nil {
		l.Warn().Err(err).Msg("account lock not acquired")
		return domain.SettleResult{}, domain.ErrConcurrentModification
	}
	defer unlock()

	for try := 0; try <= s.config.SettleRetries; try++ {
		if err := s.reload(ctx, a); err != nil {
			return domain.SettleResult{}, err
		}

		if a.sender.Balance.LessThan(a.amount) {
			return domain.SettleResult{}, domain.ErrInsufficientFunds
		}

		arg := domain.SettleParams{
			Payment: a.payment(domain.StatusCompleted),
			Changes: []domain.BalanceChange{
				{AccountID: a.sender.ID, ExpectedVersion: a.sender.Version, Delta: a.amount.Neg()},
			},
		}

		if a.receiver != nil {
			arg.Changes = append(arg.Changes, domain.BalanceChange{
				AccountID:       a.receiver.ID,
				ExpectedVersion: a.receiver.Version,
				Delta:           a.converted,
			})
		}

		result, err := s.payments.Settle(ctx, arg)
		if err == nil {
			return result, nil
		}

		if !errors.Is(err, domain.ErrConcurrentModification) {
			return domain.SettleResult{}, err
		}

		l.Info().Int("try", try+1).Msg("concurrent balance change, retrying settlement")
	}

	return domain.SettleResult{}, domain.ErrConcurrentModification
}

func (s *Service) reload(ctx context.Context, a *attempt) error {
	sender, err := s.accounts.Get(ctx, a.sender.ID)
	if err != nil {
		return err
	}

	if !sender.IsActive() {
		return domain.ErrAccountBlocked
	}

	a.sender = sender

	if a.receiver == nil {
		return nil
	}

	receiver, err := s.accounts.Get(ctx, a.receiver.ID)
	if err != nil {
		return err
	}

	if !receiver.IsActive() {
		return domain.ErrAccountBlocked
	}

	a.receiver = &receiver

	return nil
}

// fail records a failed payment for the attempt and returns cause.
func (s *Service) fail(ctx context.Context, a *attempt, cause error) error {
	l := zerolog.Ctx(ctx)

	p := a.payment(domain.StatusFailed)
	p.FailureReason = errorspkg.Code(cause)

	if _, err := s.payments.Create(ctx, p); err != nil {
		l.Error().Err(err).Str("payment_id", p.ID.String()).Msg("recording failed payment")
	}

	l.Info().Err(cause).Str("payment_id", p.ID.String()).Msg("payment failed")

	return cause
}

func (s *Service) publish(ctx context.Context, a *attempt, result domain.PaymentResult) {
	l := zerolog.Ctx(ctx)

	event := domain.SettlementEvent{
		PaymentID:         result.Payment.ID,
		SenderAccountID:   result.Payment.SenderAccountID,
		ReceiverAccountID: result.Payment.ReceiverAccountID,
		SenderOwner:       a.sender.Owner,
		ReceiverBank:      result.Payment.ReceiverBank,
		Type:              result.Payment.Type,
		Amount:            result.Payment.Amount,
		Currency:          result.Payment.Currency,
		ConvertedAmount:   result.Payment.ConvertedAmount,
		ReceiverCurrency:  result.Payment.ReceiverCurrency,
		Status:            result.Payment.Status,
		Timestamp:         s.now().UTC(),
	}

	if a.receiver != nil {
		event.ReceiverOwner = a.receiver.Owner
	}

	// The payment is committed, so the event outlives a cancelled request.
	pubCtx, cancel := context.WithTimeout(l.WithContext(context.Background()), s.config.PublishTimeout)
	defer cancel()

	if err := s.publisher.PublishSettlement(pubCtx, event); err != nil {
		l.Error().Err(err).Str("payment_id", event.PaymentID.String()).Msg("publishing settlement event")
	}
}

// Get returns the payment if the principal owns its sender or receiver account.
func (s *Service) Get(ctx context.Context, principal domain.Principal, id uuid.UUID) (domain.Payment, error) {
	p, err := s.payments.Get(ctx, id)
	if err != nil {
		return domain.Payment{}, err
	}

	ok, err := s.owns(ctx, principal, p.SenderAccountID)
	if err != nil {
		return domain.Payment{}, err
	}

	if !ok && p.ReceiverAccountID.Valid {
		ok, err = s.owns(ctx, principal, p.ReceiverAccountID.UUID)
		if err != nil {
			return domain.Payment{}, err
		}
	}

	if !ok {
		return domain.Payment{}, domain.ErrPaymentNotFound
	}

	return p, nil
}

func (s *Service) owns(ctx context.Context, principal domain.Principal, accountID uuid.UUID) (bool, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return account.Owner == principal.Username, nil
}

// ListByAccount returns a page of payments of the principal's account.
func (s *Service) ListByAccount(ctx context.Context, principal domain.Principal, accountID uuid.UUID, pageSize, pageID int32) ([]domain.Payment, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if account.Owner != principal.Username {
		return nil, domain.ErrInvalidOwner
	}

	return s.payments.ListByAccount(ctx, domain.ListPaymentsParams{
		AccountID: accountID,
		Limit:     pageSize,
		Offset:    (pageID - 1) * pageSize,
	})
}
