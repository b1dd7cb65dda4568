package appointment

import (
	"context"

	domain "github.com/rishangit/s-ams-sub002/internal/domain/appointment"
	"github.com/rishangit/s-ams-sub002/internal/dto"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(
	repo domain.Repository,
) *ListAppointments {
	return &ListAppointments{
		repo: repo,
	}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	rc domain.RoleContext,
) ([]dto.AppointmentListDTO, error) {

	appointments, err := uc.repo.ListAppointments(ctx, rc)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for i := range appointments {
		out = append(out, dto.NewAppointmentListDTO(&appointments[i], rc.Role))
	}

	return out, nil
}
