package paymentstrategy

import (
	"context"
	"testing"
	"time"

	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/pkg/configpkg"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

func TestResolve(t *testing.T) {
	f := NewFactory(nil, nil, time.Now)

	p, err := f.Resolve(domain.CardPayment)
	require.NoError(t, err)
	require.IsType(t, &CardPayment{}, p)

	p, err = f.Resolve(domain.BankTransfer)
	require.NoError(t, err)
	require.IsType(t, &BankTransferPayment{}, p)

	_, err = f.Resolve(domain.PaymentType("CRYPTO"))
	require.ErrorIs(t, err, domain.ErrUnsupportedPaymentType)
}

func TestCardPaymentExecute(t *testing.T) {
	sender := domain.Account{ID: uuid.New()}
	receiver := &domain.Account{ID: uuid.New()}

	validCard := func() domain.Card {
		return domain.Card{
			ID:        uuid.New(),
			AccountID: sender.ID,
			Category:  domain.CardCredit,
			Status:    domain.CardActive,
			ExpiresAt: time.Date(2027, time.January, 31, 0, 0, 0, 0, time.UTC),
		}
	}

	testCases := []struct {
		name     string
		card     func() domain.Card
		noCard   bool
		receiver *domain.Account
		category domain.PurchaseCategory
		repoErr  error
		wantErr  error
	}{
		{
			name:     "OK",
			card:     validCard,
			receiver: receiver,
			category: domain.CategoryGroceries,
		},
		{
			name:     "NoCardID",
			noCard:   true,
			receiver: receiver,
			category: domain.CategoryGroceries,
			wantErr:  domain.ErrCardNotFound,
		},
		{
			name:     "NoReceiver",
			card:     validCard,
			category: domain.CategoryGroceries,
			wantErr:  domain.ErrAccountNotFound,
		},
		{
			name:     "UnknownCard",
			card:     validCard,
			receiver: receiver,
			category: domain.CategoryGroceries,
			repoErr:  domain.ErrCardNotFound,
			wantErr:  domain.ErrCardNotFound,
		},
		{
			name: "ForeignCard",
			card: func() domain.Card {
				c := validCard()
				c.AccountID = uuid.New()
				return c
			},
			receiver: receiver,
			category: domain.CategoryGroceries,
			wantErr:  domain.ErrCardNotFound,
		},
		{
			name: "ExpiredBeforeStatus",
			card: func() domain.Card {
				c := validCard()
				c.ExpiresAt = testNow.AddDate(0, 0, -1)
				c.Status = domain.CardBlocked
				return c
			},
			receiver: receiver,
			category: domain.CategoryGroceries,
			wantErr:  domain.ErrCardExpired,
		},
		{
			name: "Blocked",
			card: func() domain.Card {
				c := validCard()
				c.Status = domain.CardBlocked
				return c
			},
			receiver: receiver,
			category: domain.CategoryCash,
			wantErr:  domain.ErrCardInactive,
		},
		{
			name:     "CreditCardCash",
			card:     validCard,
			receiver: receiver,
			category: domain.CategoryCash,
			wantErr:  domain.ErrCategoryNotPermitted,
		},
		{
			name: "DebitCardCash",
			card: func() domain.Card {
				c := validCard()
				c.Category = domain.CardDebit
				return c
			},
			receiver: receiver,
			category: domain.CategoryCash,
		},
		{
			name: "ExpiresToday",
			card: func() domain.Card {
				c := validCard()
				c.ExpiresAt = time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC)
				return c
			},
			receiver: receiver,
			category: domain.CategoryCafe,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			cards := NewMockCardRepo(ctrl)
			f := NewFactory(cards, nil, func() time.Time { return testNow })

			req := domain.PaymentRequest{
				SenderAccountID: sender.ID,
				Type:            domain.CardPayment,
				Category:        tc.category,
			}
			if tc.receiver != nil {
				req.ReceiverAccountID = uuid.NullUUID{UUID: tc.receiver.ID, Valid: true}
			}

			var card domain.Card
			if !tc.noCard {
				card = tc.card()
				req.CardID = uuid.NullUUID{UUID: card.ID, Valid: true}
			}

			switch {
			case tc.noCard || tc.receiver == nil:
				cards.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			case tc.repoErr != nil:
				cards.EXPECT().Get(gomock.Any(), card.ID).Times(1).Return(domain.Card{}, tc.repoErr)
			default:
				cards.EXPECT().Get(gomock.Any(), card.ID).Times(1).Return(card, nil)
			}

			p, err := f.Resolve(domain.CardPayment)
			require.NoError(t, err)

			approval, err := p.Execute(context.Background(), PaymentContext{Request: req})
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, approval.Card)
			require.Equal(t, card.ID, approval.Card.ID)
			require.False(t, approval.External)
		})
	}
}

func TestBankTransferExecute(t *testing.T) {
	receiver := &domain.Account{ID: uuid.New()}

	testCases := []struct {
		name         string
		receiver     *domain.Account
		bank         string
		iban         string
		wantExternal bool
		wantErr      error
	}{
		{
			name:     "Internal",
			receiver: receiver,
		},
		{
			name:         "SupportedBank",
			bank:         "Fio Banka",
			iban:         "CZ6508000000192000145399",
			wantExternal: true,
		},
		{
			name:         "SupportedBankCaseInsensitive",
			bank:         "  monobank ",
			iban:         "UA213223130000026007233566001",
			wantExternal: true,
		},
		{
			name:    "UnsupportedBank",
			bank:    "Bank of Nowhere",
			iban:    "XX00",
			wantErr: domain.ErrUnsupportedBank,
		},
		{
			name:    "NoReceiver",
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:    "BankWithoutIBAN",
			bank:    "Fio Banka",
			wantErr: domain.ErrAccountNotFound,
		},
	}

	p := NewBankTransferPayment(configpkg.DefaultSupportedBanks)

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := domain.PaymentRequest{
				Type:         domain.BankTransfer,
				ReceiverBank: tc.bank,
				ReceiverIBAN: tc.iban,
			}
			if tc.receiver != nil {
				req.ReceiverAccountID = uuid.NullUUID{UUID: tc.receiver.ID, Valid: true}
			}

			approval, err := p.Execute(context.Background(), PaymentContext{Request: req})
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.wantExternal, approval.External)
			require.Nil(t, approval.Card)
		})
	}
}
