package appointment

import "strings"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
	RoleStaff Role = "staff"
	RoleUser  Role = "user"
)

var roleRank = map[Role]int{
	RoleUser:  1,
	RoleStaff: 2,
	RoleOwner: 3,
	RoleAdmin: 4,
}

func ParseRole(v string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(v)))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// CanSwitchTo follows Admin > Owner > Staff > User.
func (r Role) CanSwitchTo(target Role) bool {
	if !r.Valid() || !target.Valid() {
		return false
	}
	return roleRank[r] >= roleRank[target]
}

// RoleContext is the acting identity handed in by the auth layer.
type RoleContext struct {
	Role      Role
	UserID    uint
	CompanyID uint
}
