package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/magazine-next/internal/http/handlers/shared"
	"github.com/magazine-next/internal/http/response"
	"github.com/magazine-next/internal/models"
	"github.com/magazine-next/internal/repository"
	"github.com/magazine-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PlanRequest is the create/update payload.
type PlanRequest struct {
	Slug                  string `json:"slug"`
	Name                  string `json:"name" binding:"required"`
	Description           string `json:"description"`
	PriceCents            int64  `json:"price_cents" binding:"required"`
	Currency              string `json:"currency"`
	MinMonths             int    `json:"min_months"`
	MaxMonths             int    `json:"max_months"`
	DeliveryMode          string `json:"delivery_mode"`
	AutoDispatch          *bool  `json:"auto_dispatch"`
	DispatchFrequencyDays int    `json:"dispatch_frequency_days"`
	IsActive              *bool  `json:"is_active"`
	SortOrder             int    `json:"sort_order"`
}

func (r PlanRequest) toModel() *models.Plan {
	plan := &models.Plan{
		Slug:                  strings.TrimSpace(r.Slug),
		Name:                  strings.TrimSpace(r.Name),
		Description:           r.Description,
		PriceCents:            r.PriceCents,
		Currency:              r.Currency,
		MinMonths:             r.MinMonths,
		MaxMonths:             r.MaxMonths,
		DeliveryMode:          r.DeliveryMode,
		AutoDispatch:          true,
		DispatchFrequencyDays: r.DispatchFrequencyDays,
		IsActive:              true,
		SortOrder:             r.SortOrder,
	}
	if r.AutoDispatch != nil {
		plan.AutoDispatch = *r.AutoDispatch
	}
	if r.IsActive != nil {
		plan.IsActive = *r.IsActive
	}
	return plan
}

// CreatePlan creates a plan.
func (h *Handler) CreatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	plan := req.toModel()
	if err := h.PlanService.CreatePlan(plan); err != nil {
		switch {
		case errors.Is(err, service.ErrSlugTaken):
			respondError(c, response.CodeConflict, "slug_taken", nil)
		case errors.Is(err, service.ErrInvalidDeliveryMode):
			respondError(c, response.CodeBadRequest, "invalid_delivery_mode", nil)
		default:
			respondError(c, response.CodeInternal, "plan_create_failed", err)
		}
		return
	}
	response.Success(c, plan)
}

// UpdatePlan replaces a plan's settings.
func (h *Handler) UpdatePlan(c *gin.Context) {
	planID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || planID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	plan := req.toModel()
	plan.ID = uint(planID)
	if err := h.PlanService.UpdatePlan(plan); err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			respondError(c, response.CodeNotFound, "plan_not_found", nil)
		case errors.Is(err, service.ErrInvalidDeliveryMode):
			respondError(c, response.CodeBadRequest, "invalid_delivery_mode", nil)
		default:
			respondError(c, response.CodeInternal, "plan_update_failed", err)
		}
		return
	}
	response.Success(c, plan)
}

// DeletePlan removes a plan.
func (h *Handler) DeletePlan(c *gin.Context) {
	planID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || planID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	if err := h.PlanService.DeletePlan(uint(planID)); err != nil {
		respondError(c, response.CodeInternal, "plan_delete_failed", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ListAllPlans lists plans including inactive ones.
func (h *Handler) ListAllPlans(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	plans, total, err := h.PlanService.ListPlans(repository.PlanListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "plan_list_failed", err)
		return
	}
	response.SuccessWithPage(c, plans, shared.BuildPagination(page, pageSize, total))
}

// PlanPriceRequest sets a magazine-specific price override.
type PlanPriceRequest struct {
	MagazineID   uint   `json:"magazine_id" binding:"required"`
	PlanID       uint   `json:"plan_id" binding:"required"`
	DeliveryMode string `json:"delivery_mode" binding:"required"`
	PriceCents   int64  `json:"price_cents" binding:"required"`
	Currency     string `json:"currency"`
	IsActive     *bool  `json:"is_active"`
}

// SetPlanPrice creates or updates a price override.
func (h *Handler) SetPlanPrice(c *gin.Context) {
	var req PlanPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}

	price := &models.MagazinePlanPrice{
		MagazineID:   req.MagazineID,
		PlanID:       req.PlanID,
		DeliveryMode: req.DeliveryMode,
		PriceCents:   req.PriceCents,
		Currency:     req.Currency,
		IsActive:     true,
	}
	if req.IsActive != nil {
		price.IsActive = *req.IsActive
	}
	if err := h.PricingService.SetOverride(price); err != nil {
		if errors.Is(err, service.ErrInvalidDeliveryMode) {
			respondError(c, response.CodeBadRequest, "invalid_delivery_mode", nil)
			return
		}
		respondError(c, response.CodeInternal, "plan_price_set_failed", err)
		return
	}
	response.Success(c, price)
}

// DeletePlanPrice removes a price override.
func (h *Handler) DeletePlanPrice(c *gin.Context) {
	priceID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || priceID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	if err := h.PricingService.RemoveOverride(uint(priceID)); err != nil {
		respondError(c, response.CodeInternal, "plan_price_delete_failed", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ListPlanPrices lists price overrides filtered by magazine or plan.
func (h *Handler) ListPlanPrices(c *gin.Context) {
	if raw := c.Query("magazine_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			respondError(c, response.CodeBadRequest, "bad_request", err)
			return
		}
		prices, err := h.PricingService.ListOverridesByMagazine(uint(id))
		if err != nil {
			respondError(c, response.CodeInternal, "plan_price_list_failed", err)
			return
		}
		response.Success(c, prices)
		return
	}
	if raw := c.Query("plan_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			respondError(c, response.CodeBadRequest, "bad_request", err)
			return
		}
		prices, err := h.PricingService.ListOverridesByPlan(uint(id))
		if err != nil {
			respondError(c, response.CodeInternal, "plan_price_list_failed", err)
			return
		}
		response.Success(c, prices)
		return
	}
	respondError(c, response.CodeBadRequest, "bad_request", nil)
}
