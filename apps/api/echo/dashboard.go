package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/upeo/core"
	"github.com/trezcool/upeo/core/session"
	"github.com/trezcool/upeo/core/user"
	backendsvc "github.com/trezcool/upeo/services/backend"
)

type dashboardApi struct {
	mgr     *session.Manager
	backend *backendsvc.Client
}

// registerDashboardAPI mounts one landing route per role. Each one is
// gated on its own role only; a wrong-role session gets a 403 in place
// while a missing session gets bounced to login by the error handler.
func registerDashboardAPI(e *echo.Echo, guard *session.Guard, mgr *session.Manager, backend *backendsvc.Client) {
	api := dashboardApi{mgr: mgr, backend: backend}

	e.GET(user.AdminRoute, api.admin, guardMiddleware(guard, user.RoleAdmin))
	e.GET(user.CoordinatorRoute, api.coordinator, guardMiddleware(guard, user.RoleCoordinator))
	e.GET(user.FacultyRoute, api.faculty, guardMiddleware(guard, user.RoleFaculty))
}

func (api *dashboardApi) admin(ctx echo.Context) error {
	c := ctx.Request().Context()

	courses, err := api.backend.QueryCourses(c, "", 0)
	if err != nil {
		return err
	}
	faculty, err := api.backend.QueryFaculty(c)
	if err != nil {
		return err
	}
	students, err := api.backend.QueryStudents(c, "")
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"role":     user.RoleAdmin,
		"courses":  len(courses),
		"faculty":  len(faculty),
		"students": len(students),
	})
}

func (api *dashboardApi) coordinator(ctx echo.Context) error {
	courses, err := api.backend.QueryCourses(ctx.Request().Context(), ctx.QueryParam("dept"), 0)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"role":    user.RoleCoordinator,
		"courses": courses,
	})
}

func (api *dashboardApi) faculty(ctx echo.Context) error {
	c := ctx.Request().Context()

	sess, err := api.mgr.Current(c)
	if err != nil {
		return err
	}
	if sess == nil {
		return core.ErrUnauthenticated
	}

	allotments, err := api.backend.QueryAllotments(c, sess.User.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"role":       user.RoleFaculty,
		"allotments": allotments,
	})
}
