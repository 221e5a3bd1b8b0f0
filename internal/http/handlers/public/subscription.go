package public

import (
	"errors"
	"strconv"

	"github.com/magazine-next/internal/http/handlers/shared"
	"github.com/magazine-next/internal/http/response"
	"github.com/magazine-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListMySubscriptions lists the caller's subscriptions.
func (h *Handler) ListMySubscriptions(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	subs, total, err := h.SubscriptionService.ListForUser(userID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "subscription_list_failed", err)
		return
	}
	response.SuccessWithPage(c, subs, shared.BuildPagination(page, pageSize, total))
}

// GetMySubscription fetches one of the caller's subscriptions.
func (h *Handler) GetMySubscription(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	subID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || subID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	sub, err := h.SubscriptionService.GetForUser(uint(subID), userID)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			respondError(c, response.CodeForbidden, "forbidden", nil)
			return
		}
		respondError(c, response.CodeInternal, "subscription_fetch_failed", err)
		return
	}
	response.Success(c, sub)
}

// CancelMySubscription turns off renewal and marks the subscription cancelled.
func (h *Handler) CancelMySubscription(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	subID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || subID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	sub, err := h.SubscriptionService.Cancel(uint(subID), userID)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			respondError(c, response.CodeForbidden, "forbidden", nil)
			return
		}
		respondError(c, response.CodeInternal, "subscription_cancel_failed", err)
		return
	}
	response.Success(c, sub)
}

// MyDispatches lists the dispatch calendar of one of the caller's subscriptions.
func (h *Handler) MyDispatches(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	subID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || subID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	rows, err := h.SubscriptionService.DispatchesForUser(uint(subID), userID)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			respondError(c, response.CodeForbidden, "forbidden", nil)
			return
		}
		respondError(c, response.CodeInternal, "dispatch_list_failed", err)
		return
	}
	response.Success(c, rows)
}

// MyLibrary lists the editions the caller owns outright plus the
// magazines their active subscriptions cover.
func (h *Handler) MyLibrary(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	library, err := h.SubscriptionService.Library(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "library_fetch_failed", err)
		return
	}
	response.Success(c, library)
}
