package ratedelivery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/pkg/web"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rate := domain.CurrencyData{
		From:      "USD",
		To:        "EUR",
		Rate:      decimal.RequireFromString("0.9"),
		FetchedAt: time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC),
	}

	testCases := []struct {
		name           string
		path           string
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantCode       string
	}{
		{
			name: "OK",
			path: "/rates/usd/eur",
			buildStubs: func(service *MockService) {
				service.EXPECT().GetRate(gomock.Any(), "USD", "EUR").Times(1).Return(rate, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "Unavailable",
			path: "/rates/USD/PLN",
			buildStubs: func(service *MockService) {
				service.EXPECT().GetRate(gomock.Any(), "USD", "PLN").Times(1).Return(domain.CurrencyData{}, domain.ErrRateUnavailable)
			},
			wantStatusCode: http.StatusServiceUnavailable,
			wantCode:       domain.ErrRateUnavailable.Code,
		},
		{
			name: "UnsupportedCurrency",
			path: "/rates/USD/RUB",
			buildStubs: func(service *MockService) {
				service.EXPECT().GetRate(gomock.Any(), "USD", "RUB").Times(1).Return(domain.CurrencyData{}, domain.ErrUnsupportedCurrency)
			},
			wantStatusCode: http.StatusBadRequest,
			wantCode:       domain.ErrUnsupportedCurrency.Code,
		},
		{
			name: "BadCode",
			path: "/rates/DOLLAR/EUR",
			buildStubs: func(service *MockService) {
				service.EXPECT().GetRate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantCode:       web.ErrInvalidRequest.Code,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			service := NewMockService(ctrl)
			tc.buildStubs(service)

			h := NewHandler(service)
			server := gin.New()
			server.GET("/rates/:from/:to", h.Get)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, tc.path, nil))

			require.Equal(t, tc.wantStatusCode, recorder.Code)

			var res struct {
				Data  *data          `json:"data"`
				Error *web.JSONError `json:"error"`
			}
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&res))

			if tc.wantCode != "" {
				require.NotNil(t, res.Error)
				require.Equal(t, tc.wantCode, res.Error.Code)
				return
			}

			require.True(t, rate.Rate.Equal(res.Data.Rate.Rate))
			require.Equal(t, "EUR", res.Data.Rate.To)
		})
	}
}
