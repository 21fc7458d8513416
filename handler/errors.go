// Package handler provides HTTP handlers for the HullZero API.
package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"hullzero/server/core/models"

	"github.com/gin-gonic/gin"
)

// respondError maps domain error kinds to HTTP statuses.
func respondError(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	if errors.Is(err, sql.ErrNoRows) {
		status = http.StatusNotFound
	} else {
		switch models.KindOf(err) {
		case models.KindInvalidInput:
			status = http.StatusBadRequest
		case models.KindInsufficientHistory:
			status = http.StatusUnprocessableEntity
		case models.KindUpstreamUnavailable:
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, gin.H{
		"error":  message,
		"detail": err.Error(),
	})
}
