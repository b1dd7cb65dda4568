package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rishangit/s-ams-sub002/internal/httperr"
)

// appointmentID parses the :id path parameter and writes a 400 when it is
// not a positive integer.
func appointmentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "invalid appointment id")
		return 0, false
	}
	return uint(id), true
}
