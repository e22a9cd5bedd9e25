package handler

import (
	"errors"
	"net/http"

	"github.com/edumorph/edumorph/internal/domain"
	"github.com/gin-gonic/gin"
)

// respondOK writes the success envelope shared by every endpoint.
func respondOK(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// respondError maps domain errors onto HTTP statuses: invalid input is 400,
// missing records are 404, unreadable sources are 422, everything else is 500.
func respondError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	var extractionErr *domain.ExtractionError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &extractionErr):
		status = http.StatusUnprocessableEntity
	}

	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

// respondNotFound writes a 404 with an entity-specific message.
func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "error": message})
}

// respondBadRequest writes a 400 with the given message.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}
