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

// MagazineRequest is the create/update payload.
type MagazineRequest struct {
	Slug        string `json:"slug"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CoverKey    string `json:"cover_key"`
	Language    string `json:"language"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   int    `json:"sort_order"`
}

func (r MagazineRequest) toModel() *models.Magazine {
	magazine := &models.Magazine{
		Slug:        strings.TrimSpace(r.Slug),
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		CoverKey:    r.CoverKey,
		Language:    r.Language,
		IsActive:    true,
		SortOrder:   r.SortOrder,
	}
	if r.IsActive != nil {
		magazine.IsActive = *r.IsActive
	}
	return magazine
}

// CreateMagazine creates a magazine.
func (h *Handler) CreateMagazine(c *gin.Context) {
	var req MagazineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	magazine := req.toModel()
	if err := h.MagazineService.CreateMagazine(magazine); err != nil {
		if errors.Is(err, service.ErrSlugTaken) {
			respondError(c, response.CodeConflict, "slug_taken", nil)
			return
		}
		respondError(c, response.CodeInternal, "magazine_create_failed", err)
		return
	}
	response.Success(c, magazine)
}

// UpdateMagazine replaces a magazine's settings.
func (h *Handler) UpdateMagazine(c *gin.Context) {
	magazineID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || magazineID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	var req MagazineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	magazine := req.toModel()
	magazine.ID = uint(magazineID)
	if err := h.MagazineService.UpdateMagazine(magazine); err != nil {
		if errors.Is(err, service.ErrMagazineNotFound) {
			respondError(c, response.CodeNotFound, "magazine_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "magazine_update_failed", err)
		return
	}
	response.Success(c, magazine)
}

// DeleteMagazine removes a magazine.
func (h *Handler) DeleteMagazine(c *gin.Context) {
	magazineID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || magazineID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	if err := h.MagazineService.DeleteMagazine(uint(magazineID)); err != nil {
		respondError(c, response.CodeInternal, "magazine_delete_failed", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ListAllMagazines lists magazines including unlisted ones.
func (h *Handler) ListAllMagazines(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	magazines, total, err := h.MagazineService.ListMagazines(repository.MagazineListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "magazine_list_failed", err)
		return
	}
	response.SuccessWithPage(c, magazines, shared.BuildPagination(page, pageSize, total))
}

// EditionRequest is the create/update payload for editions.
type EditionRequest struct {
	Title         string `json:"title" binding:"required"`
	EditionNumber int    `json:"edition_number"`
	Description   string `json:"description"`
	CoverKey      string `json:"cover_key"`
	PdfKey        string `json:"pdf_key"`
	PageCount     int    `json:"page_count"`
	PriceCents    int64  `json:"price_cents"`
	Currency      string `json:"currency"`
}

// CreateEdition adds a draft edition to a magazine.
func (h *Handler) CreateEdition(c *gin.Context) {
	magazineID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || magazineID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	var req EditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}

	edition := &models.MagazineEdition{
		MagazineID:    uint(magazineID),
		Title:         strings.TrimSpace(req.Title),
		EditionNumber: req.EditionNumber,
		Description:   req.Description,
		CoverKey:      req.CoverKey,
		PdfKey:        req.PdfKey,
		PageCount:     req.PageCount,
		PriceCents:    req.PriceCents,
		Currency:      req.Currency,
	}
	if err := h.MagazineService.CreateEdition(edition); err != nil {
		if errors.Is(err, service.ErrMagazineNotFound) {
			respondError(c, response.CodeNotFound, "magazine_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "edition_create_failed", err)
		return
	}
	response.Success(c, edition)
}

// UpdateEdition edits a draft or published edition.
func (h *Handler) UpdateEdition(c *gin.Context) {
	editionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || editionID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	var req EditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

	edition.Title = strings.TrimSpace(req.Title)
	edition.EditionNumber = req.EditionNumber
	edition.Description = req.Description
	edition.CoverKey = req.CoverKey
	edition.PdfKey = req.PdfKey
	edition.PageCount = req.PageCount
	edition.PriceCents = req.PriceCents
	if req.Currency != "" {
		edition.Currency = req.Currency
	}
	if err := h.MagazineService.UpdateEdition(edition); err != nil {
		respondError(c, response.CodeInternal, "edition_update_failed", err)
		return
	}
	response.Success(c, edition)
}

// DeleteEdition removes an edition.
func (h *Handler) DeleteEdition(c *gin.Context) {
	editionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || editionID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	if err := h.MagazineService.DeleteEdition(uint(editionID)); err != nil {
		respondError(c, response.CodeInternal, "edition_delete_failed", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// PublishEdition makes an edition visible and queues dispatch assignment.
func (h *Handler) PublishEdition(c *gin.Context) {
	editionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || editionID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	edition, err := h.MagazineService.PublishEdition(uint(editionID))
	if err != nil {
		if errors.Is(err, service.ErrEditionNotFound) {
			respondError(c, response.CodeNotFound, "edition_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "edition_publish_failed", err)
		return
	}
	response.Success(c, edition)
}

// ListAllEditions lists a magazine's editions, drafts included.
func (h *Handler) ListAllEditions(c *gin.Context) {
	magazineID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || magazineID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	editions, total, err := h.MagazineService.ListEditions(repository.EditionListFilter{
		Page:       page,
		PageSize:   pageSize,
		MagazineID: uint(magazineID),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "edition_list_failed", err)
		return
	}
	response.SuccessWithPage(c, editions, shared.BuildPagination(page, pageSize, total))
}

// Upload stores a back-office file (cover image or edition PDF).
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	scene := c.DefaultPostForm("scene", "cover")
	result, err := h.UploadService.SaveFile(c.Request.Context(), file, scene)
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
