package handlers

import (
	"errors"
	"net/http"

	dom "github.com/Crapteep/automation-hub/internal/domain"

	"github.com/gin-gonic/gin"
)

// statusTable is the single place domain error kinds become HTTP statuses.
// Handlers stay free of status logic and services stay free of HTTP.
var statusTable = []struct {
	err    error
	status int
}{
	{dom.ErrInvalidUserData, http.StatusBadRequest},
	{dom.ErrUserAlreadyExists, http.StatusConflict},
	{dom.ErrEmailTaken, http.StatusConflict},
	{dom.ErrUsernameTaken, http.StatusConflict},
	{dom.ErrUserNotFound, http.StatusNotFound},
	{dom.ErrNoUsersFound, http.StatusNotFound},
	{dom.ErrUserInactive, http.StatusBadRequest},
	{dom.ErrInactiveUser, http.StatusBadRequest},
	{dom.ErrInvalidCredentials, http.StatusUnauthorized},
	{dom.ErrInvalidPassword, http.StatusBadRequest},
	{dom.ErrPasswordReuse, http.StatusBadRequest},
	{dom.ErrNoPermission, http.StatusForbidden},
}

// respondError writes the status and message for a service error. Anything
// outside the domain taxonomy is surfaced as an opaque 500; the wrapped
// details stay in the server log, never on the wire.
func respondError(c *gin.Context, err error) {
	for _, entry := range statusTable {
		if errors.Is(err, entry.err) {
			c.JSON(entry.status, gin.H{"error": entry.err.Error()})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
