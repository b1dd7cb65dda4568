package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

var businessStatus = map[string]int{
	"invalid_transition":          http.StatusConflict,
	"invalid_status":              http.StatusBadRequest,
	"rejected":                    http.StatusConflict,
	"staff_assignment_required":   http.StatusConflict,
	"completion_required":         http.StatusConflict,
	"completion_record_exists":    http.StatusConflict,
	"in_flight":                   http.StatusConflict,
	"read_only":                   http.StatusConflict,
	"forbidden":                   http.StatusForbidden,
	"appointment_not_found":       http.StatusNotFound,
	"completion_record_not_found": http.StatusNotFound,
	"staff_not_found":             http.StatusNotFound,
	"product_not_found":           http.StatusNotFound,
	"product_unavailable":         http.StatusBadRequest,
	"duplicate_product":           http.StatusBadRequest,
	"line_not_found":              http.StatusBadRequest,
}

// FromError writes the response matching err's place in the taxonomy.
func FromError(c *gin.Context, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, HTTPError{
			Code:    "validation_error",
			Message: ve.Message,
			Field:   ve.Field,
		})
		return
	}

	if code, ok := BusinessCode(err); ok {
		status, known := businessStatus[code]
		if !known {
			status = http.StatusBadRequest
		}
		Write(c, status, code, code)
		return
	}

	var pe *PersistError
	if errors.As(err, &pe) {
		Internal(c, "persist_failure", pe.Error())
		return
	}

	Internal(c, "internal_error", err.Error())
}
