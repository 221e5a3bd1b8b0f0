package public

import (
	"strconv"

	"github.com/magazine-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// EditionContent gates digital access to an edition and hands back a
// time-limited download URL when the caller may read it.
func (h *Handler) EditionContent(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	editionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || editionID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}

	edition, err := h.AccessService.CanAccess(userID, getIsAdmin(c), uint(editionID))
	if err != nil {
		respondAccessError(c, err)
		return
	}
	if edition.PdfKey == "" {
		respondError(c, response.CodeNotFound, "edition_content_missing", nil)
		return
	}

	url, err := h.UploadService.PresignGet(c.Request.Context(), edition.PdfKey)
	if err != nil {
		respondError(c, response.CodeInternal, "content_url_failed", err)
		return
	}
	response.Success(c, gin.H{
		"edition_id": edition.ID,
		"url":        url,
		"page_count": edition.PageCount,
	})
}
