package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/rishangit/s-ams-sub002/internal/domain/appointment"
	"github.com/rishangit/s-ams-sub002/internal/httperr"
	"github.com/rishangit/s-ams-sub002/internal/httpresp"
	"github.com/rishangit/s-ams-sub002/internal/middleware"
	"github.com/rishangit/s-ams-sub002/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	list   *appointment.ListAppointments
	repo   domain.Repository
	change *appointment.ChangeStatus
	adv    *appointment.AdvanceStatus
	assign *appointment.AssignStaff
	del    *appointment.DeleteAppointment
}

func NewAppointmentHandler(
	list *appointment.ListAppointments,
	repo domain.Repository,
	change *appointment.ChangeStatus,
	adv *appointment.AdvanceStatus,
	assign *appointment.AssignStaff,
	del *appointment.DeleteAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		list:   list,
		repo:   repo,
		change: change,
		adv:    adv,
		assign: assign,
		del:    del,
	}
}

// ======================================================
// REQUESTS
// ======================================================

// ChangeStatusRequest accepts the status as its number or its name. Pending
// is 0, so a missing status is detected with a nil check.
type ChangeStatusRequest struct {
	Status any `json:"status"`
}

type AssignStaffRequest struct {
	StaffID uint `json:"staff_id" binding:"required"`
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	rc := middleware.RoleContext(c)

	items, err := h.list.Execute(c.Request.Context(), rc)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointments": items,
		"columns":      domain.VisibleColumns(rc.Role),
	})
}

// ======================================================
// ACTIONS
// ======================================================

func (h *AppointmentHandler) Actions(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}
	rc := middleware.RoleContext(c)

	ap, err := h.repo.GetAppointment(c.Request.Context(), rc, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointment_id": ap.ID,
		"actions":        domain.GetActions(rc.Role, ap),
	})
}

func (h *AppointmentHandler) Columns(c *gin.Context) {
	rc := middleware.RoleContext(c)
	c.JSON(http.StatusOK, gin.H{
		"role":    rc.Role,
		"columns": domain.VisibleColumns(rc.Role),
	})
}

// ======================================================
// ADVANCE
// ======================================================

func (h *AppointmentHandler) Advance(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	out, err := h.adv.Execute(c.Request.Context(), middleware.RoleContext(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// ======================================================
// CHANGE STATUS
// ======================================================

func (h *AppointmentHandler) ChangeStatus(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == nil {
		httperr.BadRequest(c, "invalid_request", "status is required")
		return
	}

	to, err := domain.ParseStatus(fmt.Sprint(req.Status))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	rc := middleware.RoleContext(c)
	ap, err := h.change.Execute(c.Request.Context(), rc, id, to)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointment_id": ap.ID,
		"status":         ap.Status,
		"status_name":    domain.Status(ap.Status).String(),
	})
}

// ======================================================
// ASSIGN STAFF
// ======================================================

func (h *AppointmentHandler) AssignStaff(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req AssignStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "staff_id is required")
		return
	}

	ap, err := h.assign.Execute(c.Request.Context(), middleware.RoleContext(c), id, req.StaffID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointment_id": ap.ID,
		"staff_id":       ap.StaffID,
		"status":         ap.Status,
		"status_name":    domain.Status(ap.Status).String(),
	})
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	if err := h.del.Execute(c.Request.Context(), middleware.RoleContext(c), id); err != nil {
		httperr.FromError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// STAFF
// ======================================================

// Staff lists the active staff an appointment of the caller's company can be
// assigned to.
func (h *AppointmentHandler) Staff(c *gin.Context) {
	rc := middleware.RoleContext(c)
	if !domain.CanAdvance(rc.Role) {
		httperr.FromError(c, domain.ErrForbidden)
		return
	}

	staff, err := h.repo.ListActiveStaff(c.Request.Context(), rc.CompanyID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_staff", err.Error())
		return
	}

	httpresp.List(c, staff)
}
