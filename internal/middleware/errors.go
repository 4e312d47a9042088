package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/pkg/errorspkg"
	"github.com/go-petr/pet-bank-payments/pkg/web"
	"github.com/rs/zerolog"
)

// StatusCode maps an error to the HTTP status it is reported with.
func StatusCode(err error) int {
	switch errorspkg.Code(err) {
	case domain.ErrAccountNotFound.Code,
		domain.ErrCardNotFound.Code,
		domain.ErrPaymentNotFound.Code,
		domain.ErrMessageNotFound.Code:
		return http.StatusNotFound
	case domain.ErrInvalidOwner.Code:
		return http.StatusForbidden
	case domain.ErrTokenInvalid.Code,
		domain.ErrTokenExpired.Code,
		domain.ErrTokenRevoked.Code:
		return http.StatusUnauthorized
	case domain.ErrInsufficientFunds.Code,
		domain.ErrAccountBlocked.Code,
		domain.ErrCardInactive.Code,
		domain.ErrCardExpired.Code,
		domain.ErrCategoryNotPermitted.Code:
		return http.StatusUnprocessableEntity
	case domain.ErrConcurrentModification.Code:
		return http.StatusConflict
	case domain.ErrRateUnavailable.Code:
		return http.StatusServiceUnavailable
	case domain.ErrUnsupportedPaymentType.Code,
		domain.ErrUnsupportedBank.Code,
		domain.ErrUnsupportedCurrency.Code,
		domain.ErrInvalidAmount.Code,
		domain.ErrNegativeAmount.Code,
		domain.ErrSameAccount.Code,
		domain.ErrCurrencyMismatch.Code,
		web.ErrInvalidRequest.Code:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err with its mapped status.
func RespondError(gctx *gin.Context, err error) {
	status := StatusCode(err)
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(gctx.Request.Context()).Error().Err(err).Send()
	}

	gctx.JSON(status, web.Error(err))
}

// RespondInvalid reports a request that failed binding.
func RespondInvalid(gctx *gin.Context, err error) {
	zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()
	gctx.JSON(http.StatusBadRequest, web.ValidationError(err))
}
