package carddelivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/internal/middleware"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestIssue(t *testing.T) {
	principal := domain.Principal{Username: "alice"}
	accountID := uuid.New()
	card := domain.Card{ID: uuid.New(), AccountID: accountID, Category: domain.CardCredit, Type: domain.CardVisa}

	testCases := []struct {
		name           string
		accountID      string
		body           gin.H
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantPIN        string
	}{
		{
			name:      "OK",
			accountID: accountID.String(),
			body:      gin.H{"category": "credit"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Issue(gomock.Any(), "alice", accountID, domain.CardCredit, domain.CardType("")).
					Times(1).
					Return(card, "1234", nil)
			},
			wantStatusCode: http.StatusCreated,
			wantPIN:        "1234",
		},
		{
			name:      "UnknownCategory",
			accountID: accountID.String(),
			body:      gin.H{"category": "gold"},
			buildStubs: func(service *MockService) {
				service.EXPECT().Issue(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:      "ForeignAccount",
			accountID: accountID.String(),
			body:      gin.H{"category": "debit", "type": "MASTERCARD"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Issue(gomock.Any(), "alice", accountID, domain.CardDebit, domain.CardMastercard).
					Times(1).
					Return(domain.Card{}, "", domain.ErrInvalidOwner)
			},
			wantStatusCode: http.StatusForbidden,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			service := NewMockService(ctrl)
			tc.buildStubs(service)

			verifier := middleware.NewMockVerifier(ctrl)
			verifier.EXPECT().Verify(gomock.Any(), "token").AnyTimes().Return(principal, nil)

			h := NewHandler(service)
			server := gin.New()
			server.POST("/accounts/:id/cards", middleware.AuthMiddleware(verifier), h.Issue)

			body, err := json.Marshal(tc.body)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/accounts/"+tc.accountID+"/cards", bytes.NewReader(body))
			middleware.AddAuthorization(req, middleware.AuthTypeBearer, "token")

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatusCode, recorder.Code)

			if tc.wantPIN == "" {
				return
			}

			var res struct {
				Data issuedCard `json:"data"`
			}
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&res))
			require.Equal(t, tc.wantPIN, res.Data.PIN)
			require.Equal(t, card.ID, res.Data.Card.ID)
		})
	}
}

func TestList(t *testing.T) {
	principal := domain.Principal{Username: "alice"}
	accountID := uuid.New()

	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	service.EXPECT().List(gomock.Any(), "alice", accountID).Times(1).Return([]domain.Card{{AccountID: accountID}}, nil)

	verifier := middleware.NewMockVerifier(ctrl)
	verifier.EXPECT().Verify(gomock.Any(), "token").Times(1).Return(principal, nil)

	h := NewHandler(service)
	server := gin.New()
	server.GET("/accounts/:id/cards", middleware.AuthMiddleware(verifier), h.List)

	req := httptest.NewRequest(http.MethodGet, "/accounts/"+accountID.String()+"/cards", nil)
	middleware.AddAuthorization(req, middleware.AuthTypeBearer, "token")

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var res struct {
		Data dataCards `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&res))
	require.Len(t, res.Data.Cards, 1)
}

func TestSetStatus(t *testing.T) {
	principal := domain.Principal{Username: "alice"}
	accountID := uuid.New()
	cardID := uuid.New()

	testCases := []struct {
		name           string
		cardID         string
		body           gin.H
		buildStubs     func(service *MockService)
		wantStatusCode int
	}{
		{
			name:   "Unblock",
			cardID: cardID.String(),
			body:   gin.H{"status": "active"},
			buildStubs: func(service *MockService) {
				service.EXPECT().SetStatus(gomock.Any(), "alice", accountID, cardID, domain.CardActive).Times(1).
					Return(domain.Card{ID: cardID, AccountID: accountID, Status: domain.CardActive}, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:   "InvalidCardID",
			cardID: "42",
			body:   gin.H{"status": "blocked"},
			buildStubs: func(service *MockService) {
				service.EXPECT().SetStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:   "CardNotFound",
			cardID: cardID.String(),
			body:   gin.H{"status": "blocked"},
			buildStubs: func(service *MockService) {
				service.EXPECT().SetStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(1).
					Return(domain.Card{}, domain.ErrCardNotFound)
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			service := NewMockService(ctrl)
			tc.buildStubs(service)

			verifier := middleware.NewMockVerifier(ctrl)
			verifier.EXPECT().Verify(gomock.Any(), "token").AnyTimes().Return(principal, nil)

			h := NewHandler(service)
			server := gin.New()
			server.PATCH("/accounts/:id/cards/:card_id/status", middleware.AuthMiddleware(verifier), h.SetStatus)

			body, err := json.Marshal(tc.body)
			require.NoError(t, err)

			url := "/accounts/" + accountID.String() + "/cards/" + tc.cardID + "/status"
			req := httptest.NewRequest(http.MethodPatch, url, bytes.NewReader(body))
			middleware.AddAuthorization(req, middleware.AuthTypeBearer, "token")

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatusCode, recorder.Code)

			if tc.wantStatusCode == http.StatusOK {
				var res struct {
					Data dataCard `json:"data"`
				}
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&res))
				require.Equal(t, domain.CardActive, res.Data.Card.Status)
			}
		})
	}
}
