package helpers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
)

// ParseIDParam reads a positive integer path parameter such as :id
func ParseIDParam(c *gin.Context, name string) (int64, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(fmt.Sprintf("%s must be a positive integer", name))
	}
	return id, nil
}

// ParseIntQuery reads an optional integer query parameter, returning def when it is absent
func ParseIntQuery(c *gin.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(fmt.Sprintf("%s must be an integer", name))
	}
	return v, nil
}
