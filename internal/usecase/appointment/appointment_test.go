package appointment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/rishangit/s-ams-sub002/internal/domain/appointment"
	"github.com/rishangit/s-ams-sub002/internal/domain/completion"
	"github.com/rishangit/s-ams-sub002/internal/httperr"
	"github.com/rishangit/s-ams-sub002/internal/inflight"
	"github.com/rishangit/s-ams-sub002/internal/models"
)

// fakeRepo serves one appointment and records every mutating call.
type fakeRepo struct {
	ap        *models.Appointment
	staff     []models.Staff
	changeErr error

	statusCalls []domain.Status
	assignCalls []uint
	deleteCalls int
}

func (f *fakeRepo) ListAppointments(context.Context, domain.RoleContext) ([]models.Appointment, error) {
	return []models.Appointment{*f.ap}, nil
}

func (f *fakeRepo) GetAppointment(_ context.Context, _ domain.RoleContext, id uint) (*models.Appointment, error) {
	if f.ap == nil || f.ap.ID != id {
		return nil, domain.ErrAppointmentNotFound
	}
	cp := *f.ap
	return &cp, nil
}

func (f *fakeRepo) RequestStatusChange(_ context.Context, id uint, to domain.Status) (*models.Appointment, error) {
	f.statusCalls = append(f.statusCalls, to)
	if f.changeErr != nil {
		return nil, f.changeErr
	}
	f.ap.Status = int(to)
	cp := *f.ap
	return &cp, nil
}

func (f *fakeRepo) AssignStaff(_ context.Context, id uint, staffID uint) (*models.Appointment, error) {
	f.assignCalls = append(f.assignCalls, staffID)
	if f.changeErr != nil {
		return nil, f.changeErr
	}
	f.ap.Status = int(domain.StatusConfirmed)
	f.ap.StaffID = &staffID
	cp := *f.ap
	return &cp, nil
}

func (f *fakeRepo) RequestDelete(context.Context, uint) error {
	f.deleteCalls++
	return f.changeErr
}

func (f *fakeRepo) ListActiveStaff(context.Context, uint) ([]models.Staff, error) {
	return f.staff, nil
}

type fakeOpener struct {
	calls int
}

func (f *fakeOpener) Execute(_ context.Context, _ domain.RoleContext, _ uint, edit bool) (*completion.Workflow, error) {
	f.calls++
	ap := &models.Appointment{ID: 1, Status: int(domain.StatusConfirmed)}
	return completion.Open(ap, nil, edit, nil, nil)
}

var (
	asOwner = domain.RoleContext{Role: domain.RoleOwner, UserID: 2, CompanyID: 1}
	asAdmin = domain.RoleContext{Role: domain.RoleAdmin, UserID: 1}
	asStaff = domain.RoleContext{Role: domain.RoleStaff, UserID: 3, CompanyID: 1}
	asUser  = domain.RoleContext{Role: domain.RoleUser, UserID: 4}
)

func newRepo(status domain.Status) *fakeRepo {
	return &fakeRepo{
		ap:    &models.Appointment{ID: 1, CompanyID: 1, UserID: 4, Status: int(status)},
		staff: []models.Staff{{ID: 7, CompanyID: 1, Name: "Bea", Active: true}},
	}
}

func newChange(repo *fakeRepo) *ChangeStatus {
	return NewChangeStatus(repo, inflight.NewLocalGuard(), nil, nil)
}

// ===============================
// ChangeStatus
// ===============================

func TestChangeStatusRejectsInvalidTransitionBeforePersistence(t *testing.T) {
	cases := []struct {
		from, to domain.Status
	}{
		{domain.StatusCompleted, domain.StatusPending},
		{domain.StatusCancelled, domain.StatusConfirmed},
		{domain.StatusPending, domain.StatusCompleted},
		{domain.StatusConfirmed, domain.StatusPending},
	}

	for _, tc := range cases {
		repo := newRepo(tc.from)
		_, err := newChange(repo).Execute(context.Background(), asAdmin, 1, tc.to)

		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s -> %s", tc.from, tc.to)
		assert.Empty(t, repo.statusCalls)
		assert.Equal(t, int(tc.from), repo.ap.Status)
	}
}

func TestChangeStatusRejectsUndefinedStatus(t *testing.T) {
	repo := newRepo(domain.StatusPending)
	_, err := newChange(repo).Execute(context.Background(), asAdmin, 1, domain.Status(9))
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.Empty(t, repo.statusCalls)
}

func TestChangeStatusRoleGate(t *testing.T) {
	repo := newRepo(domain.StatusPending)
	_, err := newChange(repo).Execute(context.Background(), asStaff, 1, domain.StatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	ap, err := newChange(repo).Execute(context.Background(), asUser, 1, domain.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, int(domain.StatusCancelled), ap.Status)
}

func TestChangeStatusOwnerInterceptedTransitions(t *testing.T) {
	repo := newRepo(domain.StatusPending)
	_, err := newChange(repo).Execute(context.Background(), asOwner, 1, domain.StatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrAssignmentRequired)

	repo = newRepo(domain.StatusConfirmed)
	_, err = newChange(repo).Execute(context.Background(), asOwner, 1, domain.StatusCompleted)
	assert.ErrorIs(t, err, domain.ErrCompletionRequired)
	assert.Empty(t, repo.statusCalls)
}

func TestChangeStatusAdminDirect(t *testing.T) {
	repo := newRepo(domain.StatusConfirmed)
	ap, err := newChange(repo).Execute(context.Background(), asAdmin, 1, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int(domain.StatusCompleted), ap.Status)
	assert.Equal(t, []domain.Status{domain.StatusCompleted}, repo.statusCalls)
}

func TestChangeStatusPersistFailure(t *testing.T) {
	repo := newRepo(domain.StatusPending)
	repo.changeErr = errors.New("db down")

	_, err := newChange(repo).Execute(context.Background(), asOwner, 1, domain.StatusCancelled)
	require.Error(t, err)
	assert.True(t, httperr.IsPersist(err))
	assert.Len(t, repo.statusCalls, 1)

	// a business refusal from the collaborator is passed through untouched
	repo.changeErr = domain.ErrRejected
	_, err = newChange(repo).Execute(context.Background(), asOwner, 1, domain.StatusCancelled)
	assert.ErrorIs(t, err, domain.ErrRejected)
	assert.False(t, httperr.IsPersist(err))
}

func TestChangeStatusInFlight(t *testing.T) {
	repo := newRepo(domain.StatusPending)
	guard := inflight.NewLocalGuard()
	release, err := guard.Acquire(context.Background(), 1)
	require.NoError(t, err)
	defer release()

	uc := NewChangeStatus(repo, guard, nil, nil)
	_, err = uc.Execute(context.Background(), asAdmin, 1, domain.StatusCancelled)
	assert.ErrorIs(t, err, inflight.ErrInFlight)
	assert.Empty(t, repo.statusCalls)
}

// ===============================
// AdvanceStatus
// ===============================

func newAdvance(repo *fakeRepo, opener CompletionOpener) *AdvanceStatus {
	return NewAdvanceStatus(repo, newChange(repo), opener, nil)
}

func TestAdvanceOwnerPendingOpensAssignment(t *testing.T) {
	repo := newRepo(domain.StatusPending)

	out, err := newAdvance(repo, &fakeOpener{}).Execute(context.Background(), asOwner, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.RouteRedirectToAssignment, out.Route)
	assert.Len(t, out.Staff, 1)
	assert.Empty(t, repo.statusCalls)
	assert.Equal(t, int(domain.StatusPending), repo.ap.Status)

	// only a successful assignment confirms
	ap, err := NewAssignStaff(repo, inflight.NewLocalGuard(), nil, nil).Execute(context.Background(), asOwner, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, int(domain.StatusConfirmed), ap.Status)
}

func TestAdvanceOwnerConfirmedOpensCompletion(t *testing.T) {
	repo := newRepo(domain.StatusConfirmed)
	opener := &fakeOpener{}

	out, err := newAdvance(repo, opener).Execute(context.Background(), asOwner, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.RouteRedirectToCompletion, out.Route)
	require.NotNil(t, out.Completion)
	assert.Equal(t, completion.ModeCreate, out.Completion.Mode)
	assert.Empty(t, out.Completion.ProductsUsed)
	assert.Equal(t, 1, opener.calls)
	assert.Empty(t, repo.statusCalls)
}

func TestAdvanceAdminIsDirect(t *testing.T) {
	repo := newRepo(domain.StatusPending)

	out, err := newAdvance(repo, &fakeOpener{}).Execute(context.Background(), asAdmin, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.RouteDirect, out.Route)
	assert.Equal(t, int(domain.StatusConfirmed), out.Appointment.Status)
	assert.Equal(t, []domain.Status{domain.StatusConfirmed}, repo.statusCalls)
}

func TestAdvanceTerminalStatus(t *testing.T) {
	for _, s := range []domain.Status{domain.StatusCompleted, domain.StatusCancelled} {
		repo := newRepo(s)
		_, err := newAdvance(repo, &fakeOpener{}).Execute(context.Background(), asAdmin, 1)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Empty(t, repo.statusCalls)
	}
}

func TestAdvanceForbiddenForStaffAndUser(t *testing.T) {
	repo := newRepo(domain.StatusPending)
	for _, rc := range []domain.RoleContext{asStaff, asUser} {
		_, err := newAdvance(repo, &fakeOpener{}).Execute(context.Background(), rc, 1)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	}
}

// ===============================
// AssignStaff / Delete / List
// ===============================

func TestAssignStaffRequiresPending(t *testing.T) {
	repo := newRepo(domain.StatusConfirmed)
	_, err := NewAssignStaff(repo, inflight.NewLocalGuard(), nil, nil).Execute(context.Background(), asOwner, 1, 7)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, repo.assignCalls)
}

func TestAssignStaffFailureKeepsPending(t *testing.T) {
	repo := newRepo(domain.StatusPending)
	repo.changeErr = domain.ErrStaffNotFound

	_, err := NewAssignStaff(repo, inflight.NewLocalGuard(), nil, nil).Execute(context.Background(), asOwner, 1, 99)
	assert.ErrorIs(t, err, domain.ErrStaffNotFound)
	assert.Equal(t, int(domain.StatusPending), repo.ap.Status)
}

func TestDeleteAppointment(t *testing.T) {
	repo := newRepo(domain.StatusPending)
	uc := NewDeleteAppointment(repo, inflight.NewLocalGuard(), nil, nil)

	require.NoError(t, uc.Execute(context.Background(), asUser, 1))
	assert.Equal(t, 1, repo.deleteCalls)

	assert.ErrorIs(t, uc.Execute(context.Background(), asUser, 2), domain.ErrAppointmentNotFound)
	assert.ErrorIs(t, uc.Execute(context.Background(), domain.RoleContext{Role: "guest"}, 1), domain.ErrForbidden)
}

func TestDeleteFailureIsPersistError(t *testing.T) {
	repo := newRepo(domain.StatusPending)
	repo.changeErr = errors.New("fk violation")

	err := NewDeleteAppointment(repo, inflight.NewLocalGuard(), nil, nil).Execute(context.Background(), asOwner, 1)
	assert.True(t, httperr.IsPersist(err))
}

func TestListAppointmentsBuildsDTOs(t *testing.T) {
	repo := newRepo(domain.StatusConfirmed)

	items, err := NewListAppointments(repo).Execute(context.Background(), asOwner)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Confirmed", items[0].StatusName)
	assert.Equal(t, "info", items[0].StatusColor)
	assert.NotEmpty(t, items[0].Actions)
}
