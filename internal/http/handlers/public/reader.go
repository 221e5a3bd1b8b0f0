package public

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/magazine-next/internal/http/response"
	"github.com/magazine-next/internal/models"
	"github.com/magazine-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListReaders lists the caller's reader profiles.
func (h *Handler) ListReaders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	readers, err := h.ReaderService.ListReaders(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "reader_list_failed", err)
		return
	}
	response.Success(c, readers)
}

// ReaderRequest is the create/update payload for reader profiles.
type ReaderRequest struct {
	Name      string `json:"name" binding:"required"`
	BirthDate string `json:"birth_date"`
	Notes     string `json:"notes"`
}

// CreateReader adds a reader profile.
func (h *Handler) CreateReader(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req ReaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	birthDate, err := parseDateNullable(req.BirthDate)
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}

	reader := &models.Reader{
		UserID:    userID,
		Name:      strings.TrimSpace(req.Name),
		BirthDate: birthDate,
		Notes:     req.Notes,
	}
	if err := h.ReaderService.CreateReader(reader); err != nil {
		respondError(c, response.CodeInternal, "reader_create_failed", err)
		return
	}
	response.Success(c, reader)
}

// UpdateReader edits a reader profile the caller owns.
func (h *Handler) UpdateReader(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	readerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || readerID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	var req ReaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	birthDate, err := parseDateNullable(req.BirthDate)
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}

	reader, err := h.ReaderService.UpdateReader(uint(readerID), userID, func(r *models.Reader) {
		r.Name = strings.TrimSpace(req.Name)
		r.BirthDate = birthDate
		r.Notes = req.Notes
	})
	if err != nil {
		if errors.Is(err, service.ErrReaderNotFound) {
			respondError(c, response.CodeNotFound, "reader_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "reader_update_failed", err)
		return
	}
	response.Success(c, reader)
}

// DeleteReader removes a reader profile the caller owns.
func (h *Handler) DeleteReader(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	readerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || readerID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	if err := h.ReaderService.DeleteReader(uint(readerID), userID); err != nil {
		if errors.Is(err, service.ErrReaderNotFound) {
			respondError(c, response.CodeNotFound, "reader_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "reader_delete_failed", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ListAddresses lists the caller's shipping addresses.
func (h *Handler) ListAddresses(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	addresses, err := h.ReaderService.ListAddresses(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "address_list_failed", err)
		return
	}
	response.Success(c, addresses)
}

// AddressRequest is the create/update payload for addresses.
type AddressRequest struct {
	ReaderID   *uint  `json:"reader_id"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
	IsDefault  bool   `json:"is_default"`
}

// CreateAddress adds a shipping address.
func (h *Handler) CreateAddress(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}

	address := &models.Address{
		UserID:     userID,
		ReaderID:   req.ReaderID,
		Line1:      strings.TrimSpace(req.Line1),
		Line2:      req.Line2,
		City:       strings.TrimSpace(req.City),
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		Phone:      req.Phone,
		IsDefault:  req.IsDefault,
	}
	if err := h.ReaderService.CreateAddress(address); err != nil {
		if errors.Is(err, service.ErrReaderNotFound) {
			respondError(c, response.CodeNotFound, "reader_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "address_create_failed", err)
		return
	}
	response.Success(c, address)
}

// UpdateAddress edits a shipping address the caller owns.
func (h *Handler) UpdateAddress(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || addressID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}

	address, err := h.ReaderService.UpdateAddress(uint(addressID), userID, func(a *models.Address) {
		a.ReaderID = req.ReaderID
		a.Line1 = strings.TrimSpace(req.Line1)
		a.Line2 = req.Line2
		a.City = strings.TrimSpace(req.City)
		a.State = req.State
		a.PostalCode = req.PostalCode
		if req.Country != "" {
			a.Country = req.Country
		}
		a.Phone = req.Phone
		a.IsDefault = req.IsDefault
	})
	if err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			respondError(c, response.CodeNotFound, "address_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "address_update_failed", err)
		return
	}
	response.Success(c, address)
}

// DeleteAddress removes a shipping address the caller owns.
func (h *Handler) DeleteAddress(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || addressID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	if err := h.ReaderService.DeleteAddress(uint(addressID), userID); err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			respondError(c, response.CodeNotFound, "address_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "address_delete_failed", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func parseDateNullable(value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
