package public

import (
	"errors"

	"github.com/magazine-next/internal/http/response"
	"github.com/magazine-next/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// Register creates an account and returns a signed token.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}

	user, token, expiresAt, err := h.AuthService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			respondError(c, response.CodeConflict, "email_taken", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondError(c, response.CodeBadRequest, "weak_password", nil)
		default:
			respondError(c, response.CodeInternal, "register_failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"user":       user,
		"token":      token,
		"expires_at": expiresAt,
	})
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// Login verifies credentials and returns a signed token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}

	user, token, expiresAt, err := h.AuthService.Login(req.Email, req.Password, req.RememberMe)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, response.CodeUnauthorized, "invalid_credentials", nil)
			return
		}
		respondError(c, response.CodeInternal, "login_failed", err)
		return
	}

	response.Success(c, gin.H{
		"user":       user,
		"token":      token,
		"expires_at": expiresAt,
	})
}

// Me returns the authenticated account.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.AuthService.GetUser(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeNotFound, "user_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "user_fetch_failed", err)
		return
	}
	response.Success(c, user)
}
