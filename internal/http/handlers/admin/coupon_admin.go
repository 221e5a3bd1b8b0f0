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

// CouponRequest is the create/update payload.
type CouponRequest struct {
	Code          string `json:"code" binding:"required"`
	PercentOff    *int   `json:"percent_off"`
	DiscountCents *int64 `json:"discount_cents"`
	ExpiresAt     string `json:"expires_at"`
	MaxUses       *int   `json:"max_uses"`
	PerUserLimit  *int   `json:"per_user_limit"`
	PlanID        *uint  `json:"plan_id"`
	MagazineID    *uint  `json:"magazine_id"`
	IsActive      *bool  `json:"is_active"`
}

func (r CouponRequest) toModel() (*models.Coupon, error) {
	expiresAt, err := parseTimeNullable(r.ExpiresAt)
	if err != nil {
		return nil, err
	}
	coupon := &models.Coupon{
		Code:          strings.TrimSpace(r.Code),
		PercentOff:    r.PercentOff,
		DiscountCents: r.DiscountCents,
		ExpiresAt:     expiresAt,
		MaxUses:       r.MaxUses,
		PerUserLimit:  r.PerUserLimit,
		PlanID:        r.PlanID,
		MagazineID:    r.MagazineID,
		IsActive:      true,
	}
	if r.IsActive != nil {
		coupon.IsActive = *r.IsActive
	}
	return coupon, nil
}

// CreateCoupon creates a coupon.
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	coupon, err := req.toModel()
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	if err := h.CouponService.CreateCoupon(coupon); err != nil {
		if errors.Is(err, service.ErrCouponCodeTaken) {
			respondError(c, response.CodeConflict, "coupon_code_taken", nil)
			return
		}
		respondError(c, response.CodeInternal, "coupon_create_failed", err)
		return
	}
	response.Success(c, coupon)
}

// UpdateCoupon replaces a coupon's settings.
func (h *Handler) UpdateCoupon(c *gin.Context) {
	couponID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || couponID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	coupon, err := req.toModel()
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	coupon.ID = uint(couponID)
	if err := h.CouponService.UpdateCoupon(coupon); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			respondError(c, response.CodeNotFound, "coupon_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "coupon_update_failed", err)
		return
	}
	response.Success(c, coupon)
}

// DeleteCoupon removes a coupon.
func (h *Handler) DeleteCoupon(c *gin.Context) {
	couponID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || couponID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	if err := h.CouponService.DeleteCoupon(uint(couponID)); err != nil {
		respondError(c, response.CodeInternal, "coupon_delete_failed", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// GetCoupon fetches one coupon with its usage records.
func (h *Handler) GetCoupon(c *gin.Context) {
	couponID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || couponID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	coupon, err := h.CouponService.GetCoupon(uint(couponID))
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			respondError(c, response.CodeNotFound, "coupon_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "coupon_fetch_failed", err)
		return
	}
	usages, err := h.CouponService.ListUsages(coupon.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "coupon_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{"coupon": coupon, "usages": usages})
}

// ListCoupons lists coupons.
func (h *Handler) ListCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	filter := repository.CouponListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     c.Query("code"),
	}
	if raw := c.Query("is_active"); raw != "" {
		active := raw == "true"
		filter.IsActive = &active
	}

	coupons, total, err := h.CouponService.ListCoupons(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "coupon_list_failed", err)
		return
	}
	response.SuccessWithPage(c, coupons, shared.BuildPagination(page, pageSize, total))
}
