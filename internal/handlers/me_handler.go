package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/rishangit/s-ams-sub002/internal/domain/appointment"
	"github.com/rishangit/s-ams-sub002/internal/httperr"
	"github.com/rishangit/s-ams-sub002/internal/middleware"
	"github.com/rishangit/s-ams-sub002/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

// GetMe returns the stored user plus the role it is acting under, which may
// be lower than the stored one.
func (h *MeHandler) GetMe(c *gin.Context) {
	rc := middleware.RoleContext(c)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Company").
		First(&user, rc.UserID).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "user not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":        userBody(&user),
		"company":     user.Company,
		"active_role": rc.Role,
		"columns":     domain.VisibleColumns(rc.Role),
	})
}
