package admin

import (
	"errors"
	"strconv"

	"github.com/magazine-next/internal/http/handlers/shared"
	"github.com/magazine-next/internal/http/response"
	"github.com/magazine-next/internal/repository"
	"github.com/magazine-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListDispatches lists dispatch schedule rows.
func (h *Handler) ListDispatches(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	filter := repository.DispatchListFilter{
		Page:       page,
		PageSize:   pageSize,
		Status:     c.Query("status"),
		Unassigned: c.Query("unassigned") == "true",
	}
	if raw := c.Query("subscription_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "bad_request", err)
			return
		}
		filter.SubscriptionID = uint(id)
	}

	rows, total, err := h.DispatchService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "dispatch_list_failed", err)
		return
	}
	response.SuccessWithPage(c, rows, shared.BuildPagination(page, pageSize, total))
}

// GetDispatch fetches one dispatch schedule row.
func (h *Handler) GetDispatch(c *gin.Context) {
	dispatchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || dispatchID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	row, err := h.DispatchService.Get(uint(dispatchID))
	if err != nil {
		if errors.Is(err, service.ErrDispatchNotFound) {
			respondError(c, response.CodeNotFound, "dispatch_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "dispatch_fetch_failed", err)
		return
	}
	response.Success(c, row)
}

// UpdateDispatchRequest moves a dispatch row through its lifecycle.
type UpdateDispatchRequest struct {
	Status       string `json:"status" binding:"required"`
	Courier      string `json:"courier"`
	TrackingCode string `json:"tracking_code"`
	Notes        string `json:"notes"`
}

// UpdateDispatch updates the status and shipping details of a dispatch row.
func (h *Handler) UpdateDispatch(c *gin.Context) {
	dispatchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || dispatchID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	var req UpdateDispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}

	row, err := h.DispatchService.UpdateStatus(uint(dispatchID), service.UpdateStatusParams{
		Status:       req.Status,
		Courier:      req.Courier,
		TrackingCode: req.TrackingCode,
		Notes:        req.Notes,
	})
	if err != nil {
		if errors.Is(err, service.ErrDispatchNotFound) {
			respondError(c, response.CodeNotFound, "dispatch_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "dispatch_update_failed", err)
		return
	}
	response.Success(c, row)
}

// AssignDispatchesRequest bounds one reconciliation pass.
type AssignDispatchesRequest struct {
	Limit int `json:"limit"`
}

// AssignDispatches runs the edition reconciliation pass and reports counts.
func (h *Handler) AssignDispatches(c *gin.Context) {
	var req AssignDispatchesRequest
	// body is optional
	_ = c.ShouldBindJSON(&req)
	limit := req.Limit
	if limit <= 0 && h.Config != nil {
		limit = h.Config.Dispatch.AssignBatchLimit
	}

	result, err := h.DispatchService.AssignEditions(limit)
	if err != nil {
		respondError(c, response.CodeInternal, "dispatch_assign_failed", err)
		return
	}
	response.Success(c, result)
}
