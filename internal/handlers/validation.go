package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "coursesite/pkg/errors"
	"coursesite/pkg/response"
	appValidator "coursesite/pkg/validator"
)

// bindAndValidate binds the JSON payload into dest and runs struct validation
// rules. When validation fails, an error response is written and false returned.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest("invalid JSON payload"))
		return false
	}

	if err := appValidator.ValidateStruct(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest(formatValidationError(err)))
		return false
	}

	return true
}

func formatValidationError(err error) string {
	if err == nil {
		return "invalid request payload"
	}

	if ve, ok := err.(appValidator.ValidationErrors); ok && len(ve) > 0 {
		parts := make([]string, len(ve))
		for i, fe := range ve {
			if fe.Param != "" {
				parts[i] = fe.Field + " failed on " + fe.Tag + "=" + fe.Param
			} else {
				parts[i] = fe.Field + " failed on " + fe.Tag
			}
		}
		return strings.Join(parts, "; ")
	}

	return err.Error()
}

// parseIDParam extracts a numeric path parameter, writing a 400 response and
// returning false when it is malformed.
func parseIDParam(c *gin.Context, name, message string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.Error(c, appErrors.NewBadRequest(message))
		return 0, false
	}
	return uint(id), true
}
