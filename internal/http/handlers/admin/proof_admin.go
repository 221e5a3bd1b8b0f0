package admin

import (
	"errors"
	"strconv"

	"github.com/magazine-next/internal/http/handlers/shared"
	"github.com/magazine-next/internal/http/response"
	"github.com/magazine-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListProofs lists payment proofs awaiting verification.
func (h *Handler) ListProofs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	proofs, total, err := h.ProofRepo.ListUnverified(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "proof_list_failed", err)
		return
	}
	response.SuccessWithPage(c, proofs, shared.BuildPagination(page, pageSize, total))
}

// ListEditionProofs lists single-issue proofs awaiting verification.
func (h *Handler) ListEditionProofs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	proofs, total, err := h.EditionProofRepo.ListUnverified(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "proof_list_failed", err)
		return
	}
	response.SuccessWithPage(c, proofs, shared.BuildPagination(page, pageSize, total))
}

// VerifyProof accepts a payment proof and activates the subscription.
func (h *Handler) VerifyProof(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	proofID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || proofID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}

	result, err := h.VerificationService.VerifyProof(uint(proofID), adminID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProofNotFound):
			respondError(c, response.CodeNotFound, "proof_not_found", nil)
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "order_not_found", nil)
		case errors.Is(err, service.ErrOrderAlreadyPaid):
			respondError(c, response.CodeBadRequest, "order_already_paid", nil)
		default:
			respondError(c, response.CodeInternal, "proof_verify_failed", err)
		}
		return
	}
	response.Success(c, result)
}

// VerifyEditionProof accepts a single-issue proof and grants the edition.
func (h *Handler) VerifyEditionProof(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	proofID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || proofID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}

	result, err := h.VerificationService.VerifyEditionProof(uint(proofID), adminID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProofNotFound):
			respondError(c, response.CodeNotFound, "proof_not_found", nil)
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "order_not_found", nil)
		case errors.Is(err, service.ErrOrderAlreadyPaid):
			respondError(c, response.CodeBadRequest, "order_already_paid", nil)
		default:
			respondError(c, response.CodeInternal, "proof_verify_failed", err)
		}
		return
	}
	response.Success(c, result)
}
