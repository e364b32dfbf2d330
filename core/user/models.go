package user

// Role determines which protected views a logged-in user may reach.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleCoordinator Role = "coordinator"
	RoleFaculty     Role = "faculty"
)

var AllRoles = []Role{RoleAdmin, RoleCoordinator, RoleFaculty}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCoordinator, RoleFaculty:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// User is the identity attached to a session, as issued by the backend.
type User struct {
	ID    string `json:"id"`
	Role  Role   `json:"role"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (u User) IsAdmin() bool       { return u.Role == RoleAdmin }
func (u User) IsCoordinator() bool { return u.Role == RoleCoordinator }
func (u User) IsFaculty() bool     { return u.Role == RoleFaculty }

// Dashboard routes; used both post-login and on bootstrap with a stored session.
const (
	AdminRoute       = "/admin/dashboard"
	CoordinatorRoute = "/coordinator/dashboard"
	FacultyRoute     = "/faculty/dashboard"
)

// DefaultRoute maps a role to its landing dashboard. Unrecognized roles
// land on the faculty dashboard.
func DefaultRoute(r Role) string {
	switch r {
	case RoleAdmin:
		return AdminRoute
	case RoleCoordinator:
		return CoordinatorRoute
	default:
		return FacultyRoute
	}
}
