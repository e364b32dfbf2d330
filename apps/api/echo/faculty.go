package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/upeo/core"
	"github.com/trezcool/upeo/core/marks"
	"github.com/trezcool/upeo/core/session"
	"github.com/trezcool/upeo/core/user"
	backendsvc "github.com/trezcool/upeo/services/backend"
)

type facultyApi struct {
	mgr     *session.Manager
	backend *backendsvc.Client
}

func registerFacultyAPI(g *echo.Group, guard *session.Guard, mgr *session.Manager, backend *backendsvc.Client) {
	api := facultyApi{mgr: mgr, backend: backend}

	fg := g.Group("/faculty", guardMiddleware(guard, user.RoleFaculty))

	fg.GET("/allotments", api.allotmentQuery)
	fg.GET("/courses/:id/marks", api.marksQuery)
	fg.POST("/courses/:id/marks", api.marksUpload)
	fg.PUT("/courses/:id/marks", api.marksUpdate)
	fg.POST("/courses/:id/marks/sheet", api.marksUploadSheet)
}

// MarksRequest carries one exam's worth of rows for a course. Rows are
// validated as a unit; one bad cell rejects the whole sheet.
type MarksRequest struct {
	Exam string      `json:"exam" validate:"required"`
	Rows []marks.Row `json:"rows" validate:"required,min=1"`
}

func (mr *MarksRequest) Validate() error {
	mr.Exam = core.CleanString(mr.Exam, true)
	return core.Validate.Struct(mr)
}

func examParam(ctx echo.Context) (marks.ExamType, error) {
	exam, err := marks.ParseExamType(core.CleanString(ctx.QueryParam("exam"), true))
	if err != nil {
		return "", core.NewValidationError(err, core.FieldError{Field: "exam", Error: err.Error()})
	}
	return exam, nil
}

func (api *facultyApi) allotmentQuery(ctx echo.Context) error {
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
	return ctx.JSON(http.StatusOK, allotments)
}

func (api *facultyApi) marksQuery(ctx echo.Context) error {
	exam, err := examParam(ctx)
	if err != nil {
		return err
	}
	rows, err := api.backend.QueryMarks(ctx.Request().Context(), ctx.Param("id"), exam)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *facultyApi) marksUpload(ctx echo.Context) error {
	data := new(MarksRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	exam, err := marks.ParseExamType(data.Exam)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "exam", Error: err.Error()})
	}

	c := ctx.Request().Context()
	course, err := api.backend.GetCourse(c, ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.backend.UploadMarks(c, course, exam, data.Rows); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"rows": len(data.Rows)})
}

func (api *facultyApi) marksUpdate(ctx echo.Context) error {
	data := new(MarksRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	exam, err := marks.ParseExamType(data.Exam)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "exam", Error: err.Error()})
	}

	if err = api.backend.UpdateMarks(ctx.Request().Context(), ctx.Param("id"), exam, data.Rows); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"rows": len(data.Rows)})
}

// marksUploadSheet accepts a multipart CSV upload. Structural problems
// (ragged rows) and per-cell problems surface through the same
// validation error shape the JSON path uses.
func (api *facultyApi) marksUploadSheet(ctx echo.Context) error {
	exam, err := marks.ParseExamType(core.CleanString(ctx.FormValue("exam"), true))
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "exam", Error: err.Error()})
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "file", Error: "this field is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, violations, err := marks.ReadSheet(f)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		return marks.AsValidationError(violations)
	}

	c := ctx.Request().Context()
	course, err := api.backend.GetCourse(c, ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.backend.UploadMarks(c, course, exam, rows); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"rows": len(rows)})
}
