package admin

import (
	"strconv"

	"github.com/magazine-next/internal/http/handlers/shared"
	"github.com/magazine-next/internal/http/response"
	"github.com/magazine-next/internal/repository"

	"github.com/gin-gonic/gin"
)

func parseUintQuery(c *gin.Context, key string) uint {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// ListOrders lists subscription orders across all accounts.
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListOrders(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   parseUintQuery(c, "user_id"),
		PlanID:   parseUintQuery(c, "plan_id"),
		Status:   c.Query("status"),
		OrderNo:  c.Query("order_no"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "order_list_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, shared.BuildPagination(page, pageSize, total))
}

// ListEditionOrders lists single-issue orders across all accounts.
func (h *Handler) ListEditionOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListEditionOrders(repository.EditionOrderListFilter{
		Page:      page,
		PageSize:  pageSize,
		UserID:    parseUintQuery(c, "user_id"),
		EditionID: parseUintQuery(c, "edition_id"),
		Status:    c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "order_list_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, shared.BuildPagination(page, pageSize, total))
}

// ListSubscriptions lists subscriptions across all accounts.
func (h *Handler) ListSubscriptions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	subs, total, err := h.SubscriptionService.List(repository.SubscriptionListFilter{
		Page:       page,
		PageSize:   pageSize,
		UserID:     parseUintQuery(c, "user_id"),
		MagazineID: parseUintQuery(c, "magazine_id"),
		PlanID:     parseUintQuery(c, "plan_id"),
		Status:     c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "subscription_list_failed", err)
		return
	}
	response.SuccessWithPage(c, subs, shared.BuildPagination(page, pageSize, total))
}

// ListPayments lists recorded payments.
func (h *Handler) ListPayments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	payments, total, err := h.PaymentRepo.List(repository.PaymentListFilter{
		Page:           page,
		PageSize:       pageSize,
		UserID:         parseUintQuery(c, "user_id"),
		SubscriptionID: parseUintQuery(c, "subscription_id"),
		Status:         c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "payment_list_failed", err)
		return
	}
	response.SuccessWithPage(c, payments, shared.BuildPagination(page, pageSize, total))
}

// ListUsers lists accounts.
func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	filter := repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	}
	if raw := c.Query("is_admin"); raw != "" {
		isAdmin := raw == "true"
		filter.IsAdmin = &isAdmin
	}

	users, total, err := h.UserRepo.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "user_list_failed", err)
		return
	}
	response.SuccessWithPage(c, users, shared.BuildPagination(page, pageSize, total))
}
