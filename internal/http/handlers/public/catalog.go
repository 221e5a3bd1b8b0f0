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

// ListMagazines lists active magazines.
func (h *Handler) ListMagazines(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	magazines, total, err := h.MagazineService.ListMagazines(repository.MagazineListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("search"),
		OnlyActive: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "magazine_list_failed", err)
		return
	}
	response.SuccessWithPage(c, magazines, shared.BuildPagination(page, pageSize, total))
}

// GetMagazine fetches one magazine by slug.
func (h *Handler) GetMagazine(c *gin.Context) {
	magazine, err := h.MagazineService.GetMagazineBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrMagazineNotFound) {
			respondError(c, response.CodeNotFound, "magazine_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "magazine_fetch_failed", err)
		return
	}
	response.Success(c, magazine)
}

// ListEditions lists published editions of a magazine.
func (h *Handler) ListEditions(c *gin.Context) {
	magazine, err := h.MagazineService.GetMagazineBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrMagazineNotFound) {
			respondError(c, response.CodeNotFound, "magazine_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "magazine_fetch_failed", err)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	editions, total, err := h.MagazineService.ListEditions(repository.EditionListFilter{
		Page:          page,
		PageSize:      pageSize,
		MagazineID:    magazine.ID,
		OnlyPublished: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "edition_list_failed", err)
		return
	}
	response.SuccessWithPage(c, editions, shared.BuildPagination(page, pageSize, total))
}

// GetEdition fetches one published edition. Drafts stay invisible until
// publish, even when the id is guessed.
func (h *Handler) GetEdition(c *gin.Context) {
	editionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || editionID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	edition, err := h.MagazineService.GetEdition(uint(editionID))
	if err != nil {
		if errors.Is(err, service.ErrEditionNotFound) {
			respondError(c, response.CodeNotFound, "edition_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "edition_fetch_failed", err)
		return
	}
	if !edition.IsPublished() {
		respondError(c, response.CodeNotFound, "edition_not_found", nil)
		return
	}
	response.Success(c, edition)
}

// ListPlans lists active plans.
func (h *Handler) ListPlans(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	plans, total, err := h.PlanService.ListPlans(repository.PlanListFilter{
		Page:       page,
		PageSize:   pageSize,
		OnlyActive: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "plan_list_failed", err)
		return
	}
	response.SuccessWithPage(c, plans, shared.BuildPagination(page, pageSize, total))
}

// GetPlan fetches one plan by slug.
func (h *Handler) GetPlan(c *gin.Context) {
	plan, err := h.PlanService.GetPlanBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			respondError(c, response.CodeNotFound, "plan_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "plan_fetch_failed", err)
		return
	}
	response.Success(c, plan)
}

// QuotePrice resolves the effective per-period price of a plan, honoring
// magazine and delivery-mode overrides.
func (h *Handler) QuotePrice(c *gin.Context) {
	plan, err := h.PlanService.GetPlanBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			respondError(c, response.CodeNotFound, "plan_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "plan_fetch_failed", err)
		return
	}

	var magazineID *uint
	if raw := c.Query("magazine_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			respondError(c, response.CodeBadRequest, "bad_request", err)
			return
		}
		mid := uint(id)
		magazineID = &mid
	}
	deliveryMode := c.DefaultQuery("delivery_mode", plan.DeliveryMode)

	price, err := h.PricingService.ResolvePrice(plan, magazineID, deliveryMode)
	if err != nil {
		respondError(c, response.CodeInternal, "price_resolve_failed", err)
		return
	}
	response.Success(c, gin.H{
		"plan_id":       plan.ID,
		"delivery_mode": deliveryMode,
		"price_cents":   price.PriceCents,
		"currency":      price.Currency,
	})
}

// ValidateCouponRequest is the coupon pre-check payload.
type ValidateCouponRequest struct {
	Code       string `json:"code" binding:"required"`
	PlanID     *uint  `json:"plan_id"`
	MagazineID *uint  `json:"magazine_id"`
	Months     int    `json:"months"`
}

// ValidateCoupon checks a coupon against the caller's intended purchase and
// previews the discount.
func (h *Handler) ValidateCoupon(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}

	coupon, err := h.CouponService.Validate(req.Code, &userID, req.PlanID, req.MagazineID)
	if err != nil {
		respondWithMappedError(c, err, couponReasonErrorRules, response.CodeInternal, "coupon_validate_failed")
		return
	}

	result := gin.H{"valid": true, "coupon": coupon}
	if req.PlanID != nil && req.Months > 0 {
		plan, err := h.PlanService.GetPlan(*req.PlanID)
		if err == nil {
			price, perr := h.PricingService.ResolvePrice(plan, req.MagazineID, plan.DeliveryMode)
			if perr == nil {
				base := price.PriceCents * int64(req.Months)
				result["amount_cents"] = base
				result["final_cents"] = h.CouponService.Discount(coupon, base)
				result["currency"] = price.Currency
			}
		}
	}
	response.Success(c, result)
}
