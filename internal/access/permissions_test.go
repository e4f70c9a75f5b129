package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var viewer = Permissions{Create: false, Read: true, Update: false, Delete: false}

func TestResolve_Matrix(t *testing.T) {
	tests := []struct {
		role string
		want Permissions
	}{
		{"admin", Permissions{Create: true, Read: true, Update: true, Delete: true}},
		{"manager", Permissions{Create: true, Read: true, Update: true, Delete: false}},
		{"staff", Permissions{Create: true, Read: true, Update: false, Delete: false}},
		{"viewer", viewer},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.role))
		})
	}
}

func TestResolve_NormalizesInput(t *testing.T) {
	assert.Equal(t, Resolve("admin"), Resolve("  ADMIN "))
	assert.Equal(t, Resolve("manager"), Resolve("Manager"))
	assert.Equal(t, Resolve("staff"), Resolve("\tsTaFf\n"))
}

func TestResolve_UnknownDefaultsToViewer(t *testing.T) {
	for _, name := range []string{"", "   ", "root", "superadmin", "admins", "quản lý", "ad min", "null"} {
		assert.Equal(t, viewer, Resolve(name), "role %q", name)
	}
}

func TestNormalize(t *testing.T) {
	role, ok := Normalize(" Viewer")
	assert.True(t, ok)
	assert.Equal(t, RoleViewer, role)

	_, ok = Normalize("cashier")
	assert.False(t, ok)
}

func TestResolveRole_UnknownTag(t *testing.T) {
	assert.Equal(t, viewer, ResolveRole(Role("Cashier")))
	assert.True(t, ResolveRole(RoleAdmin).Delete)
}

func TestPermissions_Allows(t *testing.T) {
	staff := Resolve("staff")
	assert.True(t, staff.Allows(ActionCreate))
	assert.True(t, staff.Allows(ActionRead))
	assert.False(t, staff.Allows(ActionUpdate))
	assert.False(t, staff.Allows(ActionDelete))
	assert.False(t, staff.Allows(Action("approve")))
}

func TestPermissions_Actions(t *testing.T) {
	assert.Equal(t, []Action{ActionCreate, ActionRead, ActionUpdate}, Resolve("manager").Actions())
	assert.Equal(t, []Action{ActionRead}, Resolve("guest").Actions())
}

func TestIsBuiltin(t *testing.T) {
	for _, r := range Roles {
		assert.True(t, IsBuiltin(string(r)))
	}
	assert.False(t, IsBuiltin("Auditor"))
}
