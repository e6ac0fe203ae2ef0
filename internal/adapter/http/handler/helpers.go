package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Listing limits
const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// ParseLimit reads the limit query parameter, falling back to DefaultLimit
// for missing or invalid values and capping at MaxLimit.
func ParseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return limit
}
