package cardservice

import (
	"context"
	"testing"
	"time"

	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/pkg/errorspkg"
	"github.com/go-petr/pet-bank-payments/pkg/financegen"
	"github.com/go-petr/pet-bank-payments/pkg/passpkg"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestIssue(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	account := domain.Account{ID: uuid.New(), Owner: "alice"}

	testCases := []struct {
		name       string
		owner      string
		cardType   domain.CardType
		buildStubs func(t *testing.T, accounts *MockAccountRepo, repo *MockRepo)
		wantType   domain.CardType
		wantErr    error
	}{
		{
			name:  "OK",
			owner: account.Owner,
			buildStubs: func(t *testing.T, accounts *MockAccountRepo, repo *MockRepo) {
				accounts.EXPECT().Get(gomock.Any(), account.ID).Times(1).Return(account, nil)
				repo.EXPECT().
					Create(gomock.Any(), gomock.AssignableToTypeOf(domain.CreateCardParams{})).
					Times(1).
					DoAndReturn(func(_ context.Context, arg domain.CreateCardParams) (domain.Card, error) {
						require.Len(t, arg.Number, 16)
						require.Len(t, arg.CVV, 3)
						require.True(t, arg.ExpiresAt.After(arg.StartDate))
						require.False(t, arg.StartDate.After(now.AddDate(1, 0, 0)))

						return domain.Card{
							ID:        arg.ID,
							AccountID: arg.AccountID,
							PINHash:   arg.PINHash,
							Category:  arg.Category,
							Type:      arg.Type,
						}, nil
					})
			},
			wantType: domain.CardVisa,
		},
		{
			name:     "Mastercard",
			owner:    account.Owner,
			cardType: domain.CardMastercard,
			buildStubs: func(t *testing.T, accounts *MockAccountRepo, repo *MockRepo) {
				accounts.EXPECT().Get(gomock.Any(), account.ID).Times(1).Return(account, nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(1).
					DoAndReturn(func(_ context.Context, arg domain.CreateCardParams) (domain.Card, error) {
						return domain.Card{PINHash: arg.PINHash, Type: arg.Type}, nil
					})
			},
			wantType: domain.CardMastercard,
		},
		{
			name:  "ForeignAccount",
			owner: "mallory",
			buildStubs: func(t *testing.T, accounts *MockAccountRepo, repo *MockRepo) {
				accounts.EXPECT().Get(gomock.Any(), account.ID).Times(1).Return(account, nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrInvalidOwner,
		},
		{
			name:  "AccountNotFound",
			owner: account.Owner,
			buildStubs: func(t *testing.T, accounts *MockAccountRepo, repo *MockRepo) {
				accounts.EXPECT().Get(gomock.Any(), account.ID).Times(1).Return(domain.Account{}, domain.ErrAccountNotFound)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:  "RepoInternalError",
			owner: account.Owner,
			buildStubs: func(t *testing.T, accounts *MockAccountRepo, repo *MockRepo) {
				accounts.EXPECT().Get(gomock.Any(), account.ID).Times(1).Return(account, nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(1).Return(domain.Card{}, errorspkg.ErrInternal)
			},
			wantErr: errorspkg.ErrInternal,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			accounts := NewMockAccountRepo(ctrl)
			repo := NewMockRepo(ctrl)
			tc.buildStubs(t, accounts, repo)

			s := New(repo, accounts, financegen.New(func() time.Time { return now }))

			card, pin, err := s.Issue(context.Background(), tc.owner, account.ID, domain.CardDebit, tc.cardType)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Empty(t, pin)
				return
			}

			require.NoError(t, err)
			require.Len(t, pin, 4)
			require.Equal(t, tc.wantType, card.Type)
			require.NoError(t, passpkg.Check(pin, card.PINHash))
		})
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	accounts := NewMockAccountRepo(ctrl)
	repo := NewMockRepo(ctrl)
	account := domain.Account{ID: uuid.New(), Owner: "alice"}

	accounts.EXPECT().Get(gomock.Any(), account.ID).Times(2).Return(account, nil)
	repo.EXPECT().ListByAccount(gomock.Any(), account.ID).Times(1).Return([]domain.Card{{AccountID: account.ID}}, nil)

	s := New(repo, accounts, financegen.New(nil))

	got, err := s.List(context.Background(), "alice", account.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = s.List(context.Background(), "mallory", account.ID)
	require.ErrorIs(t, err, domain.ErrInvalidOwner)
}

func TestSetStatus(t *testing.T) {
	t.Parallel()

	account := domain.Account{ID: uuid.New(), Owner: "alice"}
	cardID := uuid.New()

	testCases := []struct {
		name       string
		owner      string
		buildStubs func(accounts *MockAccountRepo, repo *MockRepo)
		wantErr    error
	}{
		{
			name:  "Block",
			owner: account.Owner,
			buildStubs: func(accounts *MockAccountRepo, repo *MockRepo) {
				accounts.EXPECT().Get(gomock.Any(), account.ID).Times(1).Return(account, nil)
				repo.EXPECT().UpdateStatus(gomock.Any(), account.ID, cardID, domain.CardBlocked).Times(1).
					Return(domain.Card{ID: cardID, AccountID: account.ID, Status: domain.CardBlocked}, nil)
			},
		},
		{
			name:  "ForeignAccount",
			owner: "mallory",
			buildStubs: func(accounts *MockAccountRepo, repo *MockRepo) {
				accounts.EXPECT().Get(gomock.Any(), account.ID).Times(1).Return(account, nil)
				repo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrInvalidOwner,
		},
		{
			name:  "CardOfAnotherAccount",
			owner: account.Owner,
			buildStubs: func(accounts *MockAccountRepo, repo *MockRepo) {
				accounts.EXPECT().Get(gomock.Any(), account.ID).Times(1).Return(account, nil)
				repo.EXPECT().UpdateStatus(gomock.Any(), account.ID, cardID, domain.CardBlocked).Times(1).
					Return(domain.Card{}, domain.ErrCardNotFound)
			},
			wantErr: domain.ErrCardNotFound,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			accounts := NewMockAccountRepo(ctrl)
			repo := NewMockRepo(ctrl)
			tc.buildStubs(accounts, repo)

			got, err := New(repo, accounts, financegen.New(nil)).
				SetStatus(context.Background(), tc.owner, account.ID, cardID, domain.CardBlocked)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Equal(t, domain.Card{}, got)
				return
			}

			require.NoError(t, err)
			require.Equal(t, domain.CardBlocked, got.Status)
		})
	}
}
