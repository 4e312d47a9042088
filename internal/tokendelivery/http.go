// Package tokendelivery manages delivery layer of access tokens.
package tokendelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-bank-payments/internal/middleware"
)

// Service provides token operations needed by token delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package tokendelivery
type Service interface {
	Revoke(ctx context.Context, token string) error
}

// Handler facilitates token delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns token handler.
func NewHandler(s Service) Handler {
	return Handler{service: s}
}

// RevokeCurrent revokes the token the request was authenticated with.
func (h *Handler) RevokeCurrent(gctx *gin.Context) {
	if err := h.service.Revoke(gctx.Request.Context(), middleware.BearerToken(gctx)); err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.Status(http.StatusNoContent)
}
