package echoapi

import (
	"fmt"
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/upeo/core"
	"github.com/trezcool/upeo/core/attainment"
	"github.com/trezcool/upeo/core/session"
	"github.com/trezcool/upeo/core/user"
	backendsvc "github.com/trezcool/upeo/services/backend"
)

type coordinatorApi struct {
	backend *backendsvc.Client
	mail    core.EmailService
}

// registerCoordinatorAPI mounts the attainment views. Reads are open to
// admins as well; target and report writes stay coordinator-only.
func registerCoordinatorAPI(g *echo.Group, guard *session.Guard, backend *backendsvc.Client, mailSvc core.EmailService) {
	api := coordinatorApi{backend: backend, mail: mailSvc}

	cg := g.Group("/coordinator")
	view := guardMiddleware(guard, user.RoleCoordinator, user.RoleAdmin)
	write := guardMiddleware(guard, user.RoleCoordinator)

	cg.GET("/attainment", api.attainmentQuery, view)
	cg.GET("/targets", api.targetQuery, view)
	cg.POST("/targets", api.targetSet, write)
	cg.GET("/reports/attainment", api.reportDownload, view)
	cg.POST("/reports/email", api.reportEmail, write)
}

type (
	AttainmentResponse struct {
		Records []attainment.Record `json:"records"`
		Summary *attainment.Summary `json:"summary,omitempty"`
	}

	ReportEmailRequest struct {
		Department   string   `json:"dept" validate:"required"`
		AcademicYear int      `json:"academic_yr"`
		To           []string `json:"to" validate:"required,min=1,dive,email"`
	}
)

func (rr *ReportEmailRequest) Validate() error {
	rr.Department = core.CleanString(rr.Department)
	for i, addr := range rr.To {
		rr.To[i] = core.CleanString(addr, true)
	}
	return core.Validate.Struct(rr)
}

func requireQueryParam(ctx echo.Context, name string) (string, error) {
	val := core.CleanString(ctx.QueryParam(name))
	if val == "" {
		return "", core.NewValidationError(nil, core.FieldError{Field: name, Error: "this field is required"})
	}
	return val, nil
}

func (api *coordinatorApi) attainmentQuery(ctx echo.Context) error {
	courseID, err := requireQueryParam(ctx, "course_id")
	if err != nil {
		return err
	}

	raw, err := api.backend.QueryAttainment(ctx.Request().Context(), courseID, ctx.QueryParam("dept"))
	if err != nil {
		return err
	}

	resp := AttainmentResponse{Records: attainment.NormalizeAll(raw)}
	if sum, ok := attainment.Summarize(resp.Records); ok {
		resp.Summary = &sum
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *coordinatorApi) targetQuery(ctx echo.Context) error {
	courseID, err := requireQueryParam(ctx, "course_id")
	if err != nil {
		return err
	}

	raw, err := api.backend.GetTargets(ctx.Request().Context(), courseID, ctx.QueryParam("dept"), 0)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, attainment.NormalizeTargets(raw))
}

func (api *coordinatorApi) targetSet(ctx echo.Context) error {
	data := new(backendsvc.TargetInput)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := api.backend.SetTargets(ctx.Request().Context(), *data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"saved": true})
}

func (api *coordinatorApi) reportDownload(ctx echo.Context) error {
	dept, err := requireQueryParam(ctx, "dept")
	if err != nil {
		return err
	}

	raw, err := api.backend.QueryAttainmentReport(ctx.Request().Context(), dept, 0)
	if err != nil {
		return err
	}
	csvData, err := attainment.ReportCSV(attainment.NormalizeAll(raw))
	if err != nil {
		return err
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="attainment_report.csv"`)
	return ctx.Blob(http.StatusOK, "text/csv", csvData)
}

func (api *coordinatorApi) reportEmail(ctx echo.Context) error {
	data := new(ReportEmailRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	raw, err := api.backend.QueryAttainmentReport(ctx.Request().Context(), data.Department, data.AcademicYear)
	if err != nil {
		return err
	}
	csvData, err := attainment.ReportCSV(attainment.NormalizeAll(raw))
	if err != nil {
		return err
	}

	msg := &core.EmailMessage{
		Subject:     fmt.Sprintf("Attainment report for %s", data.Department),
		TextContent: fmt.Sprintf("Attached is the course attainment report for the %s department.", data.Department),
	}
	for _, addr := range data.To {
		msg.To = append(msg.To, mail.Address{Address: addr})
	}
	if err = msg.AttachData(csvData, "attainment_report.csv", "text/csv"); err != nil {
		return err
	}
	api.mail.SendMessages(msg)

	return ctx.JSON(http.StatusAccepted, echo.Map{"recipients": len(data.To)})
}
