package appointment

// Route says who carries out a requested status change.
type Route string

const (
	RouteDirect               Route = "direct"
	RouteRedirectToAssignment Route = "assign_staff"
	RouteRedirectToCompletion Route = "completion"
)

type interceptKey struct {
	role Role
	from Status
	to   Status
}

var interceptions = map[interceptKey]Route{
	{RoleOwner, StatusPending, StatusConfirmed}:   RouteRedirectToAssignment,
	{RoleOwner, StatusConfirmed, StatusCompleted}: RouteRedirectToCompletion,
}

// Intercept decides whether a (role, transition) pair fires directly or is
// handed to the staff-assignment or completion flow first.
func Intercept(role Role, from, to Status) Route {
	if r, ok := interceptions[interceptKey{role: role, from: from, to: to}]; ok {
		return r
	}
	return RouteDirect
}
