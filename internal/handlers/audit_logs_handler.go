package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rishangit/s-ams-sub002/internal/audit"
	domain "github.com/rishangit/s-ams-sub002/internal/domain/appointment"
	"github.com/rishangit/s-ams-sub002/internal/httperr"
	"github.com/rishangit/s-ams-sub002/internal/httpresp"
	"github.com/rishangit/s-ams-sub002/internal/middleware"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs *audit.Logger
}

func NewAuditLogsHandler(logs *audit.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs}
}

// List is open to admins (every company) and owners (their own company).
func (h *AuditLogsHandler) List(c *gin.Context) {
	rc := middleware.RoleContext(c)

	f := audit.Filter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
	}

	switch rc.Role {
	case domain.RoleAdmin:
		if v, err := strconv.ParseUint(c.Query("company_id"), 10, 64); err == nil {
			f.CompanyID = uint(v)
		}
	case domain.RoleOwner:
		f.CompanyID = rc.CompanyID
	default:
		httperr.FromError(c, domain.ErrForbidden)
		return
	}

	if v, err := strconv.ParseUint(c.Query("entity_id"), 10, 64); err == nil {
		id := uint(v)
		f.EntityID = &id
	}

	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		f.From = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		end := to.Add(24 * time.Hour)
		f.To = &end
	}

	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(audit.DefaultPageSize)))

	f.Normalize()

	logs, total, err := h.logs.List(c.Request.Context(), f)
	if err != nil {
		httperr.Internal(c, "audit_list_failed", err.Error())
		return
	}

	httpresp.Page(c, logs, total, f.Page, f.Limit)
}
