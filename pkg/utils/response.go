package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "agri-transport-monitor/pkg/errors"
)

// Response is the envelope for all JSON responses.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Kind    string      `json:"kind,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Success: false,
		Message: message,
	})
}

// AppErrorResponse maps the error taxonomy to HTTP status codes. Internal
// errors are reported with a generic message so nothing leaks to callers.
func AppErrorResponse(c *gin.Context, err error) {
	kind := appErrors.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case appErrors.KindValidation:
		status = http.StatusBadRequest
	case appErrors.KindNotFound:
		status = http.StatusNotFound
	case appErrors.KindConflict:
		status = http.StatusConflict
	case appErrors.KindPermission:
		status = http.StatusForbidden
	}

	message := err.Error()
	if kind == appErrors.KindInternal {
		message = "Internal server error"
	}

	c.JSON(status, Response{
		Success: false,
		Kind:    string(kind),
		Message: message,
	})
}
