package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"office_climate/internal/repository"
	"office_climate/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errSchemaNotFound  = "Schema not found"
	errDuplicateSchema = "Schema with this name already exists"
	errInvalidID       = "Invalid id"
	errInternal        = "internal error"
	errInvalidBodyPref = "invalid body: "
)

// errBadRequest wraps boundary-level parse failures so they map to 400.
func errBadRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", service.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// statusFor maps service and repository errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInvalidTimeRange):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrSchemaNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicateSchemaName):
		return http.StatusConflict
	case errors.Is(err, service.ErrWeatherUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"error": ...}. Only 5xx responses are logged and
// their details are hidden from the client.
func (h *Handler) writeError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	code := statusFor(err)
	msg := err.Error()
	switch code {
	case http.StatusNotFound:
		msg = errSchemaNotFound
	case http.StatusConflict:
		msg = errDuplicateSchema
	case http.StatusBadGateway:
		msg = service.ErrWeatherUnavailable.Error()
	}
	if code >= http.StatusInternalServerError {
		if h.log != nil {
			fields := append([]interface{}{"err", err}, kv...)
			h.log.Errorw(logKey, fields...)
		}
		if code == http.StatusInternalServerError {
			msg = errInternal
		}
	}
	c.JSON(code, gin.H{"error": msg})
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidID})
		return 0, false
	}
	return id, true
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}
