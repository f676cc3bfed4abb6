package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rubenatello/dignov2/internal/db"
	"github.com/rubenatello/dignov2/internal/service"
)

// ListUsers returns every account, for the admin surface.
func (a *API) ListUsers(c *gin.Context) {
	users, err := a.users.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]gin.H, 0, len(users))
	for i := range users {
		items = append(items, userJSON(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"results": items})
}

// SetUserRole updates a user's role; the role-group mirror moves with it.
func (a *API) SetUserRole(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload struct {
		Role string `json:"role" binding:"required"`
	}
	if !bindJSON(c, &payload, "role is required") {
		return
	}

	user, err := a.users.SetRole(id, db.Role(payload.Role))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrInvalidRole):
			respondFieldErrors(c, service.FieldErrors{"role": "must be subscriber, writer or editor"})
		default:
			a.log.Error().Err(err).Uint("user_id", id).Msg("failed to set role")
			respondError(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, userJSON(user))
}
