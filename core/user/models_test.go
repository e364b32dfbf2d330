package user

import "testing"

func TestDefaultRoute(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want string
	}{
		{name: "admin", role: RoleAdmin, want: AdminRoute},
		{name: "coordinator", role: RoleCoordinator, want: CoordinatorRoute},
		{name: "faculty", role: RoleFaculty, want: FacultyRoute},
		{name: "unrecognized falls back to faculty", role: Role("hod"), want: FacultyRoute},
		{name: "empty falls back to faculty", role: Role(""), want: FacultyRoute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultRoute(tt.role); got != tt.want {
				t.Errorf("DefaultRoute() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range AllRoles {
		if !r.Valid() {
			t.Errorf("Role(%q).Valid() = false; want true", r)
		}
	}
	if Role("student").Valid() {
		t.Error(`Role("student").Valid() = true; want false`)
	}
}
