package handler

import (
	"errors"
	"net/http"

	"github.com/avdeyev/contacts-service/internal/dto"
	"github.com/avdeyev/contacts-service/internal/repository"
	"github.com/avdeyev/contacts-service/internal/service"
	"github.com/avdeyev/contacts-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// respondError maps a business failure onto an HTTP status. Every failure
// kind the services produce is expected; anything unrecognized is a 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	label := "Internal server error"

	switch {
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
		label = "Not found"
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, repository.ErrDuplicatePhone):
		status = http.StatusConflict
		label = "Conflict"
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, utils.ErrTokenExpired),
		errors.Is(err, utils.ErrTokenInvalid):
		status = http.StatusUnauthorized
		label = "Unauthorized"
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrWeakPassword):
		status = http.StatusBadRequest
		label = "Bad request"
	}

	c.JSON(status, dto.ErrorResponse{
		Error:   label,
		Message: err.Error(),
	})
}
