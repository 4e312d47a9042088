// Package paymentdelivery manages delivery layer of payments.
package paymentdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/internal/middleware"
	"github.com/go-petr/pet-bank-payments/pkg/web"
	"github.com/google/uuid"
)

// Service provides service layer interface needed by payment delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package paymentdelivery
type Service interface {
	ProcessPayment(ctx context.Context, principal domain.Principal, req domain.PaymentRequest) (domain.PaymentResult, error)
	Get(ctx context.Context, principal domain.Principal, id uuid.UUID) (domain.Payment, error)
	ListByAccount(ctx context.Context, principal domain.Principal, accountID uuid.UUID, pageSize, pageID int32) ([]domain.Payment, error)
}

// Handler facilitates payment delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns payment handler.
func NewHandler(s Service) Handler {
	return Handler{service: s}
}

type createRequest struct {
	SenderAccountID   string `json:"sender_account_id" binding:"required,uuid"`
	ReceiverAccountID string `json:"receiver_account_id" binding:"omitempty,uuid"`
	ReceiverBank      string `json:"receiver_bank" binding:"max=64"`
	ReceiverIBAN      string `json:"receiver_iban" binding:"max=34"`
	CardID            string `json:"card_id" binding:"omitempty,uuid"`
	Amount            string `json:"amount" binding:"required"`
	Currency          string `json:"currency" binding:"omitempty,currency"`
	Type              string `json:"type" binding:"required,paymenttype"`
	Category          string `json:"category"`
	Description       string `json:"description" binding:"max=255"`
}

func optionalUUID(s string) uuid.NullUUID {
	if s == "" {
		return uuid.NullUUID{}
	}

	return uuid.NullUUID{UUID: uuid.MustParse(s), Valid: true}
}

func (r createRequest) toDomain() domain.PaymentRequest {
	return domain.PaymentRequest{
		SenderAccountID:   uuid.MustParse(r.SenderAccountID),
		ReceiverAccountID: optionalUUID(r.ReceiverAccountID),
		ReceiverBank:      r.ReceiverBank,
		ReceiverIBAN:      r.ReceiverIBAN,
		CardID:            optionalUUID(r.CardID),
		Amount:            r.Amount,
		Currency:          r.Currency,
		Type:              domain.PaymentType(r.Type),
		Category:          domain.PurchaseCategory(r.Category),
		Description:       r.Description,
	}
}

// Create handles http request to make a payment.
func (h *Handler) Create(gctx *gin.Context) {
	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondInvalid(gctx, err)
		return
	}

	result, err := h.service.ProcessPayment(gctx.Request.Context(), middleware.Principal(gctx), req.toDomain())
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: result})
}

type idURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type data struct {
	Payment domain.Payment `json:"payment"`
}

// Get handles http request to get a payment.
func (h *Handler) Get(gctx *gin.Context) {
	var uri idURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		middleware.RespondInvalid(gctx, err)
		return
	}

	payment, err := h.service.Get(gctx.Request.Context(), middleware.Principal(gctx), uuid.MustParse(uri.ID))
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{payment}})
}

type listRequest struct {
	PageID   int32 `form:"page_id" binding:"required,min=1"`
	PageSize int32 `form:"page_size" binding:"required,min=1,max=100"`
}

type dataPayments struct {
	Payments []domain.Payment `json:"payments"`
}

// ListByAccount handles http request to list payments of an account.
func (h *Handler) ListByAccount(gctx *gin.Context) {
	var uri idURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		middleware.RespondInvalid(gctx, err)
		return
	}

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		middleware.RespondInvalid(gctx, err)
		return
	}

	payments, err := h.service.ListByAccount(gctx.Request.Context(), middleware.Principal(gctx),
		uuid.MustParse(uri.ID), req.PageSize, req.PageID)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataPayments{payments}})
}
