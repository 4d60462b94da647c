package handlers

import (
	"errors"
	"net/http"

	dom "github.com/Crapteep/automation-hub/internal/domain"
	"github.com/Crapteep/automation-hub/internal/dto"
	"github.com/Crapteep/automation-hub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles login and the not-yet-implemented auth flows.
type AuthHandler struct {
	authSvc *service.AuthService
	log     *logrus.Logger
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(authSvc *service.AuthService, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, log: log}
}

// Login handles POST /login/access-token. It accepts the OAuth2 password
// form (username field carries the email) and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authSvc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, dom.ErrInvalidCredentials) && !errors.Is(err, dom.ErrInactiveUser) {
			h.log.WithError(err).Error("login failed")
		}
		respondError(c, err)
		return
	}

	token, err := h.authSvc.IssueAccessToken(user.ID)
	if err != nil {
		h.log.WithError(err).Error("issue access token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.NewTokenResponse(token))
}

// The upstream service exposes these routes but has never implemented them.
// They answer 501 so clients get an honest signal instead of a silent null.

func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "not implemented"})
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "not implemented"})
}

func (h *AuthHandler) VerifyLogin(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "not implemented"})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "not implemented"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "not implemented"})
}
