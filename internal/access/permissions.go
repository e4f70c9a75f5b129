// Package access maps role names to the fixed create/read/update/delete capability matrix.
package access

import "strings"

// Role is one of the closed set of built-in role tags.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
	RoleStaff   Role = "Staff"
	RoleViewer  Role = "Viewer"
)

// Roles lists the built-in roles from most to least privileged.
var Roles = []Role{RoleAdmin, RoleManager, RoleStaff, RoleViewer}

// Action is a single CRUD capability.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Permissions is the capability tuple granted to a role.
type Permissions struct {
	Create bool `json:"create"`
	Read   bool `json:"read"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}

var matrix = map[Role]Permissions{
	RoleAdmin:   {Create: true, Read: true, Update: true, Delete: true},
	RoleManager: {Create: true, Read: true, Update: true, Delete: false},
	RoleStaff:   {Create: true, Read: true, Update: false, Delete: false},
	RoleViewer:  {Create: false, Read: true, Update: false, Delete: false},
}

// Normalize maps a raw role name to its tag, ignoring case and surrounding space.
// The second result is false for names outside the built-in set.
func Normalize(name string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "admin":
		return RoleAdmin, true
	case "manager":
		return RoleManager, true
	case "staff":
		return RoleStaff, true
	case "viewer":
		return RoleViewer, true
	}
	return "", false
}

// Resolve returns the capabilities for a role name. Unknown or empty names get the Viewer tuple.
func Resolve(name string) Permissions {
	role, ok := Normalize(name)
	if !ok {
		return matrix[RoleViewer]
	}
	return matrix[role]
}

// ResolveRole is Resolve for an already normalized tag.
func ResolveRole(role Role) Permissions {
	if p, ok := matrix[role]; ok {
		return p
	}
	return matrix[RoleViewer]
}

// Allows reports whether the tuple grants action.
func (p Permissions) Allows(action Action) bool {
	switch action {
	case ActionCreate:
		return p.Create
	case ActionRead:
		return p.Read
	case ActionUpdate:
		return p.Update
	case ActionDelete:
		return p.Delete
	}
	return false
}

// Actions lists the granted actions in create/read/update/delete order.
func (p Permissions) Actions() []Action {
	actions := make([]Action, 0, 4)
	for _, a := range []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete} {
		if p.Allows(a) {
			actions = append(actions, a)
		}
	}
	return actions
}

// IsBuiltin reports whether name is one of the four built-in roles.
func IsBuiltin(name string) bool {
	_, ok := Normalize(name)
	return ok
}
