// Package carddelivery manages delivery layer of cards.
package carddelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/internal/middleware"
	"github.com/go-petr/pet-bank-payments/pkg/web"
	"github.com/google/uuid"
)

// Service provides service layer interface needed by card delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package carddelivery
type Service interface {
	Issue(ctx context.Context, owner string, accountID uuid.UUID, category domain.CardCategory, cardType domain.CardType) (domain.Card, string, error)
	List(ctx context.Context, owner string, accountID uuid.UUID) ([]domain.Card, error)
	SetStatus(ctx context.Context, owner string, accountID, cardID uuid.UUID, status domain.CardStatus) (domain.Card, error)
}

// Handler facilitates card delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns card handler.
func NewHandler(s Service) Handler {
	return Handler{service: s}
}

type accountURI struct {
	AccountID string `uri:"id" binding:"required,uuid"`
}

type issueRequest struct {
	Category string `json:"category" binding:"required,oneof=debit credit"`
	Type     string `json:"type" binding:"omitempty,oneof=VISA MASTERCARD"`
}

// issuedCard exposes the card secrets exactly once, on issuance.
type issuedCard struct {
	Card domain.Card `json:"card"`
	CVV  string      `json:"cvv"`
	PIN  string      `json:"pin"`
}

// Issue handles http request to issue a card for an account.
func (h *Handler) Issue(gctx *gin.Context) {
	var uri accountURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		middleware.RespondInvalid(gctx, err)
		return
	}

	var req issueRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondInvalid(gctx, err)
		return
	}

	principal := middleware.Principal(gctx)

	card, pin, err := h.service.Issue(gctx.Request.Context(), principal.Username, uuid.MustParse(uri.AccountID),
		domain.CardCategory(req.Category), domain.CardType(req.Type))
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: issuedCard{Card: card, CVV: card.CVV, PIN: pin}})
}

type dataCards struct {
	Cards []domain.Card `json:"cards"`
}

// List handles http request to list cards of an account.
func (h *Handler) List(gctx *gin.Context) {
	var uri accountURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		middleware.RespondInvalid(gctx, err)
		return
	}

	principal := middleware.Principal(gctx)

	cards, err := h.service.List(gctx.Request.Context(), principal.Username, uuid.MustParse(uri.AccountID))
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataCards{cards}})
}

type cardURI struct {
	AccountID string `uri:"id" binding:"required,uuid"`
	CardID    string `uri:"card_id" binding:"required,uuid"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required,oneof=active blocked"`
}

type dataCard struct {
	Card domain.Card `json:"card"`
}

// SetStatus handles http request to block or unblock a card.
func (h *Handler) SetStatus(gctx *gin.Context) {
	var uri cardURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		middleware.RespondInvalid(gctx, err)
		return
	}

	var req statusRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondInvalid(gctx, err)
		return
	}

	principal := middleware.Principal(gctx)

	card, err := h.service.SetStatus(gctx.Request.Context(), principal.Username,
		uuid.MustParse(uri.AccountID), uuid.MustParse(uri.CardID), domain.CardStatus(req.Status))
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataCard{card}})
}
