package messagedelivery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/internal/middleware"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, ctrl *gomock.Controller, service Service, principal domain.Principal) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	verifier := middleware.NewMockVerifier(ctrl)
	verifier.EXPECT().Verify(gomock.Any(), "token").AnyTimes().Return(principal, nil)

	h := NewHandler(service)

	server := gin.New()
	authRoutes := server.Group("/").Use(middleware.AuthMiddleware(verifier))
	authRoutes.GET("/messages", h.List)
	authRoutes.POST("/messages/:id/read", h.MarkRead)

	return server
}

func TestList(t *testing.T) {
	principal := domain.Principal{Username: "bob"}

	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	service.EXPECT().List(gomock.Any(), principal, int32(20), int32(1)).Times(1).
		Return([]domain.Message{{ID: uuid.New(), Recipient: "bob", Sender: domain.SystemSender}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/messages?page_id=1&page_size=20", nil)
	middleware.AddAuthorization(req, middleware.AuthTypeBearer, "token")

	recorder := httptest.NewRecorder()
	newServer(t, ctrl, service, principal).ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var res struct {
		Data dataMessages `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&res))
	require.Len(t, res.Data.Messages, 1)
	require.Equal(t, domain.SystemSender, res.Data.Messages[0].Sender)
}

func TestMarkRead(t *testing.T) {
	principal := domain.Principal{Username: "bob"}
	id := uuid.New()

	testCases := []struct {
		name           string
		buildStubs     func(service *MockService)
		wantStatusCode int
	}{
		{
			name: "OK",
			buildStubs: func(service *MockService) {
				service.EXPECT().MarkRead(gomock.Any(), principal, id).Times(1).Return(domain.Message{ID: id, Read: true}, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "NotFound",
			buildStubs: func(service *MockService) {
				service.EXPECT().MarkRead(gomock.Any(), principal, id).Times(1).Return(domain.Message{}, domain.ErrMessageNotFound)
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := NewMockService(ctrl)
			tc.buildStubs(service)

			req := httptest.NewRequest(http.MethodPost, "/messages/"+id.String()+"/read", nil)
			middleware.AddAuthorization(req, middleware.AuthTypeBearer, "token")

			recorder := httptest.NewRecorder()
			newServer(t, ctrl, service, principal).ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatusCode, recorder.Code)
		})
	}
}
