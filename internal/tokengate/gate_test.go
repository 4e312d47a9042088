package tokengate

import (
	"context"
	"testing"
	"time"

	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/pkg/errorspkg"
	"github.com/go-petr/pet-bank-payments/pkg/randompkg"
	"github.com/go-petr/pet-bank-payments/pkg/tokenpkg"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func newMaker(t *testing.T) tokenpkg.Maker {
	t.Helper()

	maker, err := tokenpkg.NewPasetoMaker(randompkg.String(32))
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker() failed: %v", err)
	}

	return maker
}

func TestIssue(t *testing.T) {
	t.Parallel()

	maker := newMaker(t)
	username := randompkg.Owner()

	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)

	repo.EXPECT().
		Create(gomock.Any(), gomock.AssignableToTypeOf(domain.AccessToken{})).
		Times(1).
		DoAndReturn(func(_ context.Context, at domain.AccessToken) (domain.AccessToken, error) {
			return at, nil
		})

	token, at, err := New(maker, repo, time.Minute, nil).Issue(context.Background(), username)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	payload, err := maker.VerifyToken(token)
	require.NoError(t, err)

	want := domain.AccessToken{
		ID:        payload.ID,
		Owner:     username,
		Token:     token,
		IssuedAt:  payload.IssuedAt,
		ExpiresAt: payload.ExpiredAt,
	}
	if diff := cmp.Diff(want, at, cmpopts.EquateApproxTime(time.Second)); diff != "" {
		t.Errorf("Issue() returned unexpected diff: %s", diff)
	}
}

func TestVerify(t *testing.T) {
	t.Parallel()

	maker := newMaker(t)
	username := randompkg.Owner()

	token, payload, err := maker.CreateToken(username, time.Minute)
	require.NoError(t, err)

	expired, _, err := maker.CreateToken(username, -time.Minute)
	require.NoError(t, err)

	record := domain.AccessToken{
		ID:        payload.ID,
		Owner:     username,
		Token:     token,
		IssuedAt:  payload.IssuedAt,
		ExpiresAt: payload.ExpiredAt,
	}

	testCases := []struct {
		name       string
		token      string
		now        func() time.Time
		buildStubs func(repo *MockRepo)
		want       domain.Principal
		wantErr    error
	}{
		{
			name:  "OK",
			token: token,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().GetByToken(gomock.Any(), token).Times(1).Return(record, nil)
			},
			want: domain.Principal{Username: username, TokenID: payload.ID},
		},
		{
			name:  "Malformed",
			token: "invalid",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().GetByToken(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrTokenInvalid,
		},
		{
			name:  "ExpiredSignature",
			token: expired,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().GetByToken(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrTokenExpired,
		},
		{
			name:  "NotIssued",
			token: token,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().GetByToken(gomock.Any(), token).Times(1).Return(domain.AccessToken{}, domain.ErrTokenInvalid)
			},
			wantErr: domain.ErrTokenInvalid,
		},
		{
			name:  "Revoked",
			token: token,
			buildStubs: func(repo *MockRepo) {
				r := record
				r.Revoked = true
				repo.EXPECT().GetByToken(gomock.Any(), token).Times(1).Return(r, nil)
			},
			wantErr: domain.ErrTokenRevoked,
		},
		{
			name:  "RecordExpired",
			token: token,
			now:   func() time.Time { return payload.ExpiredAt },
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().GetByToken(gomock.Any(), token).Times(1).Return(record, nil)
			},
			wantErr: domain.ErrTokenExpired,
		},
		{
			name:  "ForeignOwner",
			token: token,
			buildStubs: func(repo *MockRepo) {
				r := record
				r.Owner = "mallory"
				repo.EXPECT().GetByToken(gomock.Any(), token).Times(1).Return(r, nil)
			},
			wantErr: domain.ErrTokenInvalid,
		},
		{
			name:  "RepoInternalError",
			token: token,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().GetByToken(gomock.Any(), token).Times(1).Return(domain.AccessToken{}, errorspkg.ErrInternal)
			},
			wantErr: errorspkg.ErrInternal,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			repo := NewMockRepo(ctrl)
			tc.buildStubs(repo)

			got, err := New(maker, repo, time.Minute, tc.now).Verify(context.Background(), tc.token)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestRevoke(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)

	repo.EXPECT().Revoke(gomock.Any(), "known").Times(1).Return(nil)
	repo.EXPECT().Revoke(gomock.Any(), "unknown").Times(1).Return(domain.ErrTokenInvalid)

	g := New(newMaker(t), repo, time.Minute, nil)

	require.NoError(t, g.Revoke(context.Background(), "known"))
	require.ErrorIs(t, g.Revoke(context.Background(), "unknown"), domain.ErrTokenInvalid)
}
