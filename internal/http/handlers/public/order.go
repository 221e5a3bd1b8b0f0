package public

import (
	"errors"
	"strconv"

	"github.com/magazine-next/internal/http/handlers/shared"
	"github.com/magazine-next/internal/http/response"
	"github.com/magazine-next/internal/repository"
	"github.com/magazine-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest is the subscribe intent payload.
type CreateOrderRequest struct {
	PlanID       uint   `json:"plan_id" binding:"required"`
	Months       int    `json:"months" binding:"required"`
	MagazineID   *uint  `json:"magazine_id"`
	ReaderID     *uint  `json:"reader_id"`
	DeliveryMode string `json:"delivery_mode"`
	AddressID    *uint  `json:"address_id"`
	CouponCode   string `json:"coupon_code"`
}

// CreateOrder creates a pending subscription order and returns the payment URI.
func (h *Handler) CreateOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}

	summary, err := h.OrderService.CreateOrder(service.CreateOrderParams{
		UserID:       userID,
		PlanID:       req.PlanID,
		Months:       req.Months,
		MagazineID:   req.MagazineID,
		ReaderID:     req.ReaderID,
		DeliveryMode: req.DeliveryMode,
		AddressID:    req.AddressID,
		CouponCode:   req.CouponCode,
	})
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}
	response.Success(c, summary)
}

// ListMyOrders lists the caller's subscription orders.
func (h *Handler) ListMyOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListOrders(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "order_list_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, shared.BuildPagination(page, pageSize, total))
}

// GetMyOrder fetches one of the caller's orders.
func (h *Handler) GetMyOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	order, err := h.OrderService.GetOrderForUser(uint(orderID), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "order_not_found", nil)
		case errors.Is(err, service.ErrForbidden):
			respondError(c, response.CodeForbidden, "forbidden", nil)
		default:
			respondError(c, response.CodeInternal, "order_fetch_failed", err)
		}
		return
	}
	response.Success(c, order)
}

// AttachProofRequest references an uploaded payment screenshot.
type AttachProofRequest struct {
	FileKey string `json:"file_key"`
	URL     string `json:"url"`
}

// AttachProof links a payment proof to a pending order.
func (h *Handler) AttachProof(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	var req AttachProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}

	proof, err := h.OrderService.AttachProof(uint(orderID), userID, req.FileKey, req.URL)
	if err != nil {
		respondProofAttachError(c, err)
		return
	}
	response.Success(c, proof)
}

// CreateEditionOrderRequest is the single-issue purchase payload.
type CreateEditionOrderRequest struct {
	EditionID uint `json:"edition_id"`
}

// CreateEditionOrder creates a pending single-issue order.
func (h *Handler) CreateEditionOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateEditionOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}

	summary, err := h.OrderService.CreateEditionOrder(userID, req.EditionID)
	if err != nil {
		respondEditionOrderError(c, err)
		return
	}
	response.Success(c, summary)
}

// ListMyEditionOrders lists the caller's single-issue orders.
func (h *Handler) ListMyEditionOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListEditionOrders(repository.EditionOrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "order_list_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, shared.BuildPagination(page, pageSize, total))
}

// AttachEditionProof links a payment proof to a pending single-issue order.
func (h *Handler) AttachEditionProof(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	var req AttachProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}

	proof, err := h.OrderService.AttachEditionProof(uint(orderID), userID, req.FileKey, req.URL)
	if err != nil {
		respondProofAttachError(c, err)
		return
	}
	response.Success(c, proof)
}

// UploadProof stores a payment screenshot and returns its key.
func (h *Handler) UploadProof(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	result, err := h.UploadService.SaveFile(c.Request.Context(), file, "proof")
	if err != nil {
		if errors.Is(err, service.ErrInvalidUpload) {
			respondError(c, response.CodeBadRequest, "invalid_upload", nil)
			return
		}
		respondError(c, response.CodeInternal, "upload_failed", err)
		return
	}
	response.Success(c, result)
}
