package session

import (
	"context"

	"github.com/trezcool/upeo/core"
	"github.com/trezcool/upeo/core/user"
)

// Guard gates entry into protected views.
type Guard struct {
	mgr *Manager
}

func NewGuard(mgr *Manager) *Guard {
	return &Guard{mgr: mgr}
}

// CanAccess evaluates the current session against a view's role allow-list.
// It returns nil to allow, core.ErrUnauthenticated when no valid session
// exists (the caller redirects to login), or core.ErrForbidden when the
// session's role is not allowed (the caller renders the denial in place —
// never a redirect, to avoid redirect loops).
func (g *Guard) CanAccess(ctx context.Context, allowed ...user.Role) error {
	sess, err := g.mgr.Current(ctx)
	if err != nil || sess == nil {
		return core.ErrUnauthenticated
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, role := range allowed {
		if sess.User.Role == role {
			return nil
		}
	}
	return core.ErrForbidden
}
