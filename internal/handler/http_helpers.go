package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rubenatello/dignov2/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func respondFieldErrors(c *gin.Context, errs service.FieldErrors) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
}

// respondServiceError maps a service error onto the HTTP taxonomy: field
// errors become 400s, anything else an opaque 500. The narrow not-found and
// validation sentinels are matched at the call sites that expect them.
func respondServiceError(c *gin.Context, err error) {
	if fieldErrs, ok := err.(service.FieldErrors); ok {
		respondFieldErrors(c, fieldErrs)
		return
	}
	respondError(c, http.StatusInternalServerError, "internal server error")
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseBoolQuery(c *gin.Context, key string) bool {
	raw := strings.TrimSpace(c.Query(key))
	return raw == "true" || raw == "1"
}
