// Package ratedelivery exposes exchange rates over http.
package ratedelivery

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/internal/middleware"
	"github.com/go-petr/pet-bank-payments/pkg/web"
)

// Service provides service layer interface needed by rate delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ratedelivery
type Service interface {
	GetRate(ctx context.Context, from, to string) (domain.CurrencyData, error)
}

// Handler facilitates rate delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns rate handler.
func NewHandler(s Service) Handler {
	return Handler{service: s}
}

type getRequest struct {
	From string `uri:"from" binding:"required,len=3"`
	To   string `uri:"to" binding:"required,len=3"`
}

type data struct {
	Rate domain.CurrencyData `json:"rate"`
}

// Get handles http request to get the current rate of a currency pair.
func (h *Handler) Get(gctx *gin.Context) {
	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		middleware.RespondInvalid(gctx, err)
		return
	}

	rate, err := h.service.GetRate(gctx.Request.Context(), strings.ToUpper(req.From), strings.ToUpper(req.To))
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{rate}})
}
