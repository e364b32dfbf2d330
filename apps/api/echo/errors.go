package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/upeo/core"
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	loginPath := core.Conf.GetString("loginPath")

	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *core.BackendError:
			// client-side failures pass through; anything else is a bad gateway
			if origErr.StatusCode >= 400 && origErr.StatusCode <= 499 {
				code = origErr.StatusCode
			} else {
				code = http.StatusBadGateway
			}
			message = origErr.Message
		default:
			switch errors.Cause(err) {
			case core.ErrUnauthenticated:
				// not logged in: route the user to the login view
				if !ctx.Response().Committed {
					if rErr := ctx.Redirect(http.StatusFound, loginPath); rErr != nil {
						ctx.Echo().Logger.Error(rErr)
					}
				}
				return
			case core.ErrForbidden:
				// wrong role: render the denial in place, never redirect
				code = http.StatusForbidden
				message = core.ErrForbidden.Error()
			case core.ErrInvalidCredentials:
				code = http.StatusBadRequest
				message = core.ErrInvalidCredentials.Error()
			case core.ErrLocked:
				code = http.StatusLocked
				message = core.ErrLocked.Error()
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				logger.Error(msg, errors.Wrap(err, msg))

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
