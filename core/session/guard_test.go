package session

import (
	"context"
	"testing"

	"github.com/trezcool/upeo/core"
	"github.com/trezcool/upeo/core/user"
)

func TestGuardCanAccess(t *testing.T) {
	sessionWithRole := func(role user.Role) *Session {
		sess := freshSession()
		sess.User.Role = role
		return sess
	}

	tests := []struct {
		name    string
		sess    *Session
		allowed []user.Role
		want    error
	}{
		{name: "no session", sess: nil, allowed: []user.Role{user.RoleAdmin}, want: core.ErrUnauthenticated},
		{name: "wrong role", sess: sessionWithRole(user.RoleFaculty), allowed: []user.Role{user.RoleAdmin}, want: core.ErrForbidden},
		{name: "allowed role", sess: sessionWithRole(user.RoleAdmin), allowed: []user.Role{user.RoleAdmin}, want: nil},
		{name: "one of several", sess: sessionWithRole(user.RoleCoordinator), allowed: []user.Role{user.RoleAdmin, user.RoleCoordinator}, want: nil},
		{name: "empty allow-list admits any session", sess: sessionWithRole(user.RoleFaculty), want: nil},
		{name: "empty allow-list still requires auth", sess: nil, want: core.ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemStore()
			if tt.sess != nil {
				_ = store.Save(tt.sess)
			}
			guard := NewGuard(newTestManager(store, &AuthenticatorMock{}))

			if got := guard.CanAccess(context.Background(), tt.allowed...); got != tt.want {
				t.Errorf("CanAccess() = %v; want %v", got, tt.want)
			}
		})
	}
}

// An expired session that cannot be refreshed is not authenticated, not forbidden.
func TestGuardCanAccessExpired(t *testing.T) {
	store := NewMemStore(staleSession())
	auth := &AuthenticatorMock{
		RefreshFn: func(_ context.Context, _ string) (Credentials, error) {
			return Credentials{}, core.NewBackendError(403, "invalid refresh token")
		},
	}
	guard := NewGuard(newTestManager(store, auth))

	if got := guard.CanAccess(context.Background(), user.RoleFaculty); got != core.ErrUnauthenticated {
		t.Errorf("CanAccess() = %v; want %v", got, core.ErrUnauthenticated)
	}
	if stored, _ := store.Load(); stored != nil {
		t.Errorf("stored = %+v; want cleared after failed refresh", stored)
	}
}
