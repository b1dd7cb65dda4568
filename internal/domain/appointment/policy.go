package appointment

import "github.com/rishangit/s-ams-sub002/internal/models"

type ActionID string

const (
	ActionAdvanceStatus ActionID = "advance_status"
	ActionViewHistory   ActionID = "view_history"
	ActionEdit          ActionID = "edit"
	ActionDelete        ActionID = "delete"
)

type Action struct {
	ID        ActionID `json:"id"`
	Label     string   `json:"label"`
	Enabled   bool     `json:"enabled"`
	ColorHint string   `json:"color_hint"`
}

// advanceLabels is keyed by the target of the forward transition.
var advanceLabels = map[Status]string{
	StatusConfirmed: "Confirm Appointment",
	StatusCompleted: "Mark as Completed",
}

const noAdvanceLabel = "No Further Action"

var (
	advanceRoles = map[Role]bool{RoleAdmin: true, RoleOwner: true}
	historyRoles = map[Role]bool{RoleAdmin: true, RoleOwner: true, RoleStaff: true}
	manageRoles  = map[Role]bool{RoleAdmin: true, RoleOwner: true, RoleStaff: true, RoleUser: true}
)

// CanAdvance reports whether role gets the advance-status action at all.
func CanAdvance(role Role) bool {
	return advanceRoles[role]
}

// GetActions returns the ordered action list for role on ap. Ownership of the
// record is checked by the caller's authorization layer, not here.
func GetActions(role Role, ap *models.Appointment) []Action {
	current := Status(ap.Status)
	actions := make([]Action, 0, 4)

	if advanceRoles[role] {
		actions = append(actions, advanceAction(current))
	}

	if historyRoles[role] {
		actions = append(actions, Action{
			ID:        ActionViewHistory,
			Label:     "View Completion History",
			Enabled:   current == StatusCompleted,
			ColorHint: "secondary",
		})
	}

	if manageRoles[role] {
		actions = append(actions,
			Action{ID: ActionEdit, Label: "Edit Appointment", Enabled: true, ColorHint: "primary"},
			Action{ID: ActionDelete, Label: "Delete Appointment", Enabled: true, ColorHint: "error"},
		)
	}

	return actions
}

func advanceAction(current Status) Action {
	next, ok := NextStatus(current)
	if !ok {
		return Action{
			ID:        ActionAdvanceStatus,
			Label:     noAdvanceLabel,
			Enabled:   false,
			ColorHint: "default",
		}
	}
	return Action{
		ID:        ActionAdvanceStatus,
		Label:     advanceLabels[next],
		Enabled:   true,
		ColorHint: next.Color(),
	}
}

// FindAction looks up a single action from a computed list.
func FindAction(actions []Action, id ActionID) (Action, bool) {
	for _, a := range actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

// CanRequestStatus gates explicit status changes. Roles without the advance
// action may only cancel.
func CanRequestStatus(role Role, to Status) bool {
	if advanceRoles[role] {
		return true
	}
	return manageRoles[role] && to == StatusCancelled
}

func CanViewHistory(role Role) bool {
	return historyRoles[role]
}

func CanManage(role Role) bool {
	return manageRoles[role]
}
