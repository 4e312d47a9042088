// Package messagedelivery manages delivery layer of notifications.
package messagedelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/internal/middleware"
	"github.com/go-petr/pet-bank-payments/pkg/web"
	"github.com/google/uuid"
)

// Service provides service layer interface needed by message delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package messagedelivery
type Service interface {
	List(ctx context.Context, principal domain.Principal, pageSize, pageID int32) ([]domain.Message, error)
	MarkRead(ctx context.Context, principal domain.Principal, id uuid.UUID) (domain.Message, error)
}

// Handler facilitates message delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns message handler.
func NewHandler(s Service) Handler {
	return Handler{service: s}
}

type listRequest struct {
	PageID   int32 `form:"page_id" binding:"required,min=1"`
	PageSize int32 `form:"page_size" binding:"required,min=1,max=100"`
}

type dataMessages struct {
	Messages []domain.Message `json:"messages"`
}

// List handles http request to list the caller's messages.
func (h *Handler) List(gctx *gin.Context) {
	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		middleware.RespondInvalid(gctx, err)
		return
	}

	messages, err := h.service.List(gctx.Request.Context(), middleware.Principal(gctx), req.PageSize, req.PageID)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataMessages{messages}})
}

type idURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type data struct {
	Message domain.Message `json:"message"`
}

// MarkRead handles http request to flag a message as read.
func (h *Handler) MarkRead(gctx *gin.Context) {
	var uri idURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		middleware.RespondInvalid(gctx, err)
		return
	}

	m, err := h.service.MarkRead(gctx.Request.Context(), middleware.Principal(gctx), uuid.MustParse(uri.ID))
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{m}})
}
