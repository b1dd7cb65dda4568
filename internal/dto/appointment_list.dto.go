package dto

import (
	domain "github.com/rishangit/s-ams-sub002/internal/domain/appointment"
	"github.com/rishangit/s-ams-sub002/internal/models"
)

// AppointmentListDTO is the read projection handed to presentation callers.
// Name and price fields come from persistence and are never derived here.
type AppointmentListDTO struct {
	ID uint `json:"id"`

	UserID       uint    `json:"user_id"`
	UserName     string  `json:"user_name"`
	CompanyID    uint    `json:"company_id"`
	CompanyName  string  `json:"company_name"`
	ServiceID    uint    `json:"service_id"`
	ServiceName  string  `json:"service_name"`
	ServicePrice float64 `json:"service_price"`
	StaffID      *uint   `json:"staff_id"`
	StaffName    string  `json:"staff_name"`

	Date        string `json:"date"`
	Time        string `json:"time"`
	Status      int    `json:"status"`
	StatusName  string `json:"status_name"`
	StatusColor string `json:"status_color"`
	Notes       string `json:"notes"`

	Actions []domain.Action `json:"actions"`
}

func NewAppointmentListDTO(ap *models.Appointment, role domain.Role) AppointmentListDTO {
	status := domain.Status(ap.Status)

	out := AppointmentListDTO{
		ID:           ap.ID,
		UserID:       ap.UserID,
		UserName:     ap.User.Name,
		CompanyID:    ap.CompanyID,
		CompanyName:  ap.Company.Name,
		ServiceID:    ap.ServiceID,
		ServiceName:  ap.Service.Name,
		ServicePrice: ap.Service.Price,
		StaffID:      ap.StaffID,
		Date:         ap.Date,
		Time:         ap.Time,
		Status:       ap.Status,
		StatusName:   status.String(),
		StatusColor:  status.Color(),
		Notes:        ap.Notes,
		Actions:      domain.GetActions(role, ap),
	}
	if ap.Staff != nil {
		out.StaffName = ap.Staff.Name
	}
	return out
}
