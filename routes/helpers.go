package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"servicehub-server/services"
	"servicehub-server/utils"
)

// respondError maps service-layer errors to HTTP responses
func respondError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not found",
			"message": message,
		})
	case errors.Is(err, services.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Not authorized",
			"message": message,
		})
	case errors.Is(err, services.ErrInvalidState), errors.Is(err, services.ErrInvalidOperation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": errDetail(err, message),
		})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Conflict",
			"message": errDetail(err, message),
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Invalid credentials",
			"message": message,
		})
	default:
		utils.GetLogger().Error("internal error",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": message,
		})
	}
}

// errDetail prefers the wrapped error context over the generic fallback
func errDetail(err error, fallback string) string {
	switch err {
	case services.ErrInvalidState, services.ErrInvalidOperation, services.ErrConflict:
		return fallback
	}
	return err.Error()
}

// parsePagination reads page and limit query params with sane bounds
func parsePagination(c *gin.Context) (page, limit int) {
	page = 1
	limit = 10

	if p, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && l > 0 && l <= 50 {
		limit = l
	}
	return page, limit
}

// parseIDParam parses a numeric path parameter
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid ID",
			"message": "The " + name + " parameter must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}
