package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/upeo/core"
	"github.com/trezcool/upeo/core/session"
	"github.com/trezcool/upeo/core/user"
)

type authApi struct {
	mgr *session.Manager
}

func registerAuthAPI(e *echo.Echo, mgr *session.Manager) {
	api := authApi{mgr: mgr}

	e.GET("/", api.bootstrap)
	e.GET("/login", api.loginPrompt)
	e.POST("/login", api.login)
	e.POST("/logout", api.logout)
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		User     user.User `json:"user"`
		Redirect string    `json:"redirect"`
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Email = core.CleanString(lr.Email, true)
	return core.Validate.Struct(lr)
}

// bootstrap sends a stored session straight to its role's dashboard;
// everyone else goes to login.
func (api *authApi) bootstrap(ctx echo.Context) error {
	sess, err := api.mgr.Current(ctx.Request().Context())
	if err != nil {
		return err
	}
	if sess == nil {
		return ctx.Redirect(http.StatusFound, core.Conf.GetString("loginPath"))
	}
	return ctx.Redirect(http.StatusFound, user.DefaultRoute(sess.User.Role))
}

func (api *authApi) loginPrompt(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"message": "log in with email and password"})
}

func (api *authApi) login(ctx echo.Context) error {
	data := new(LoginRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sess, err := api.mgr.Login(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, LoginResponse{
		User:     sess.User,
		Redirect: user.DefaultRoute(sess.User.Role),
	})
}

func (api *authApi) logout(ctx echo.Context) error {
	if err := api.mgr.Logout(); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
