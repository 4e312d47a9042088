// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/internal/middleware"
	"github.com/go-petr/pet-bank-payments/pkg/web"
	"github.com/google/uuid"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Create(ctx context.Context, owner, currency string) (domain.Account, error)
	Get(ctx context.Context, owner string, id uuid.UUID) (domain.Account, error)
	List(ctx context.Context, owner string, pageSize, pageID int32) ([]domain.Account, error)
	SetStatus(ctx context.Context, owner string, id uuid.UUID, status domain.AccountStatus) (domain.Account, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) Handler {
	return Handler{service: as}
}

type data struct {
	Account domain.Account `json:"account"`
}

type createRequest struct {
	Currency string `json:"currency" binding:"required,currency"`
}

// Create handles http request to open an account.
func (h *Handler) Create(gctx *gin.Context) {
	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondInvalid(gctx, err)
		return
	}

	principal := middleware.Principal(gctx)

	account, err := h.service.Create(gctx.Request.Context(), principal.Username, req.Currency)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: data{account}})
}

type getRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// Get handles http request to get account.
func (h *Handler) Get(gctx *gin.Context) {
	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		middleware.RespondInvalid(gctx, err)
		return
	}

	principal := middleware.Principal(gctx)

	account, err := h.service.Get(gctx.Request.Context(), principal.Username, uuid.MustParse(req.ID))
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{account}})
}

type listRequest struct {
	PageID   int32 `form:"page_id" binding:"required,min=1"`
	PageSize int32 `form:"page_size" binding:"required,min=1,max=100"`
}

type dataAccounts struct {
	Accounts []domain.Account `json:"accounts"`
}

// List handles http request to list accounts.
func (h *Handler) List(gctx *gin.Context) {
	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		middleware.RespondInvalid(gctx, err)
		return
	}

	principal := middleware.Principal(gctx)

	accounts, err := h.service.List(gctx.Request.Context(), principal.Username, req.PageSize, req.PageID)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataAccounts{accounts}})
}

type statusRequest struct {
	Status string `json:"status" binding:"required,oneof=active blocked"`
}

// SetStatus handles http request to block or unblock an account.
func (h *Handler) SetStatus(gctx *gin.Context) {
	var uri getRequest
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

	account, err := h.service.SetStatus(gctx.Request.Context(), principal.Username, uuid.MustParse(uri.ID),
		domain.AccountStatus(req.Status))
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{account}})
}
