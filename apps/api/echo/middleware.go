package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/upeo/core/session"
	"github.com/trezcool/upeo/core/user"
)

// guardMiddleware gates a route group behind the session guard. The error
// handler turns core.ErrUnauthenticated into a login redirect and
// core.ErrForbidden into an in-place denial.
func guardMiddleware(guard *session.Guard, roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if err := guard.CanAccess(ctx.Request().Context(), roles...); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}
