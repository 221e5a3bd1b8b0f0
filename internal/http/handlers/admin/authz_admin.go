package admin

import (
	"strconv"

	handlershared "github.com/magazine-next/internal/http/handlers/shared"
	"github.com/magazine-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

type authzRolePayload struct {
	Role string `json:"role" binding:"required"`
}

type authzPolicyPayload struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

type authzSetUserRolesPayload struct {
	Roles []string `json:"roles"`
}

// GetAuthzMe returns the caller's permission snapshot.
func (h *Handler) GetAuthzMe(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	roles, err := h.AuthzService.GetUserRoles(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "authz_fetch_failed", err)
		return
	}
	policies, err := h.AuthzService.GetUserPolicies(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "authz_fetch_failed", err)
		return
	}

	response.Success(c, gin.H{
		"user_id":  adminID,
		"is_admin": handlershared.GetContextBool(c, "is_admin"),
		"roles":    roles,
		"policies": policies,
	})
}

// ListAuthzRoles lists roles.
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "authz_fetch_failed", err)
		return
	}
	response.Success(c, roles)
}

// CreateAuthzRole creates a role.
func (h *Handler) CreateAuthzRole(c *gin.Context) {
	var req authzRolePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	role, err := h.AuthzService.EnsureRole(req.Role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	response.Success(c, gin.H{"role": role})
}

// DeleteAuthzRole removes a role and its policies.
func (h *Handler) DeleteAuthzRole(c *gin.Context) {
	var req authzRolePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	if err := h.AuthzService.DeleteRole(req.Role); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// GrantAuthzPolicy grants a role an allow rule.
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	response.Success(c, gin.H{"granted": true})
}

// RevokeAuthzPolicy revokes an allow rule from a role.
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	response.Success(c, gin.H{"revoked": true})
}

// GetAuthzRolePolicies lists a role's allow rules.
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role := c.Param("role")
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	response.Success(c, policies)
}

// SetAuthzUserRoles replaces the role set of an account.
func (h *Handler) SetAuthzUserRoles(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || userID == 0 {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	var req authzSetUserRolesPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	if err := h.AuthzService.SetUserRoles(uint(userID), req.Roles); err != nil {
		respondError(c, response.CodeBadRequest, "bad_request", err)
		return
	}
	roles, err := h.AuthzService.GetUserRoles(uint(userID))
	if err != nil {
		respondError(c, response.CodeInternal, "authz_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{"user_id": userID, "roles": roles})
}
