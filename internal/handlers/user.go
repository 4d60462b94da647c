package handlers

import (
	"net/http"
	"strings"

	"github.com/Crapteep/automation-hub/internal/auth"
	"github.com/Crapteep/automation-hub/internal/dto"
	"github.com/Crapteep/automation-hub/internal/repo"
	"github.com/Crapteep/automation-hub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// UserHandler handles the /users surface: self-service routes under
// /users/me and the superuser-only administration routes.
type UserHandler struct {
	users *service.UserService
	log   *logrus.Logger
}

// NewUserHandler returns a new UserHandler.
func NewUserHandler(users *service.UserService, log *logrus.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// Me handles GET /users/me.
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// UpdateMe handles PATCH /users/me. The patch may not touch is_active or
// is_superuser; the service strips them for self-service callers.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	var req dto.UpdateCurrentUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := service.UserPatch{Username: req.Username, Email: req.Email}
	updated, err := h.users.Update(c.Request.Context(), user.ID, patch, true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(updated))
}

// DeactivateMe handles DELETE /users/me: the account is soft-disabled, not
// removed.
func (h *UserHandler) DeactivateMe(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	if err := h.users.Deactivate(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ChangeMyPassword handles POST /users/me/change-password.
func (h *UserHandler) ChangeMyPassword(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.users.ChangePassword(c.Request.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// Create handles POST /users (superuser only).
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.users.Create(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// List handles GET /users (superuser only).
func (h *UserHandler) List(c *gin.Context) {
	var q dto.ListUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := q.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	users, err := h.users.List(c.Request.Context(), repo.Filter{
		Search:      q.Search,
		IsActive:    q.IsActive,
		IsSuperuser: q.IsSuperuser,
		SortBy:      q.SortBy,
		SortOrder:   q.SortOrder,
		Skip:        q.Skip,
		Limit:       q.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": dto.NewUserResponses(users)})
}

// GetByID handles GET /users/:id (superuser only).
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := pathUserID(c)
	if !ok {
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// UpdateByAdmin handles PATCH /users/:id (superuser only). Admin patches may
// set is_active and is_superuser, which makes this the one path that can
// reactivate a deactivated account.
func (h *UserHandler) UpdateByAdmin(c *gin.Context) {
	id, ok := pathUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateUserByAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := service.UserPatch{
		Username:    req.Username,
		Email:       req.Email,
		IsActive:    req.IsActive,
		IsSuperuser: req.IsSuperuser,
	}
	updated, err := h.users.Update(c.Request.Context(), id, patch, false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(updated))
}

// Delete handles DELETE /users/:id?reason= (superuser only).
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathUserID(c)
	if !ok {
		return
	}
	reason := strings.TrimSpace(c.Query("reason"))
	if reason == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reason query parameter is required"})
		return
	}
	if err := h.users.Delete(c.Request.Context(), id, reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func pathUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return uuid.Nil, false
	}
	return id, true
}
