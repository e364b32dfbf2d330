package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/upeo/core"
	"github.com/trezcool/upeo/core/session"
	"github.com/trezcool/upeo/core/user"
	backendsvc "github.com/trezcool/upeo/services/backend"
)

type adminApi struct {
	backend *backendsvc.Client
}

func registerAdminAPI(g *echo.Group, guard *session.Guard, backend *backendsvc.Client) {
	api := adminApi{backend: backend}

	ag := g.Group("/admin", guardMiddleware(guard, user.RoleAdmin))

	ag.GET("/courses", api.courseQuery)
	ag.POST("/courses", api.courseCreate)
	ag.GET("/courses/:id", api.courseRetrieve)
	ag.PUT("/courses/:id", api.courseUpdate)
	ag.DELETE("/courses/:id", api.courseDelete)

	ag.GET("/faculty", api.facultyQuery)
	ag.POST("/faculty", api.facultyCreate)
	ag.DELETE("/faculty/:id", api.facultyDelete)

	ag.GET("/students", api.studentQuery)
	ag.POST("/students", api.studentCreate)
	ag.DELETE("/students/:id", api.studentDelete)

	ag.GET("/coordinators", api.coordinatorQuery)
	ag.POST("/coordinators", api.coordinatorCreate)
	ag.DELETE("/coordinators/:id", api.coordinatorDelete)

	ag.POST("/allotments", api.allotmentCreate)
	ag.DELETE("/allotments/:id", api.allotmentDelete)
}

type (
	CourseRequest struct {
		Code         string `json:"code" validate:"required"`
		Name         string `json:"name" validate:"required"`
		Department   string `json:"dept" validate:"required"`
		AcademicYear int    `json:"academic_yr" validate:"required"`
		Class        string `json:"class"`
		Locked       bool   `json:"locked"`
	}

	FacultyRequest struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"required,email"`
	}

	StudentRequest struct {
		RollNo string `json:"roll_no" validate:"required"`
		Name   string `json:"name" validate:"required"`
		Class  string `json:"class"`
		Email  string `json:"email" validate:"omitempty,email"`
	}

	// StudentBulkRequest creates a whole class roster in one call.
	StudentBulkRequest struct {
		Students []StudentRequest `json:"students" validate:"required,min=1,dive"`
	}

	CoordinatorRequest struct {
		FacultyID  string `json:"faculty_id" validate:"required"`
		CourseID   string `json:"course_id" validate:"required"`
		Department string `json:"dept" validate:"required"`
	}

	AllotmentRequest struct {
		FacultyID string `json:"faculty_id" validate:"required"`
		CourseID  string `json:"course_id" validate:"required"`
		Division  string `json:"division"`
	}
)

func (cr *CourseRequest) Validate() error {
	cr.Code = core.CleanString(cr.Code)
	cr.Name = core.CleanString(cr.Name)
	cr.Department = core.CleanString(cr.Department)
	return core.Validate.Struct(cr)
}

func (cr *CourseRequest) course(id string) backendsvc.Course {
	return backendsvc.Course{
		ID:           id,
		Code:         cr.Code,
		Name:         cr.Name,
		Department:   cr.Department,
		AcademicYear: cr.AcademicYear,
		Class:        null.NewString(cr.Class, cr.Class != ""),
		Locked:       cr.Locked,
	}
}

func (fr *FacultyRequest) Validate() error {
	fr.Name = core.CleanString(fr.Name)
	fr.Email = core.CleanString(fr.Email, true)
	return core.Validate.Struct(fr)
}

func (sr *StudentBulkRequest) Validate() error {
	for i := range sr.Students {
		s := &sr.Students[i]
		s.RollNo = core.CleanString(s.RollNo)
		s.Name = core.CleanString(s.Name)
		s.Email = core.CleanString(s.Email, true)
	}
	return core.Validate.Struct(sr)
}

func (cr *CoordinatorRequest) Validate() error {
	cr.Department = core.CleanString(cr.Department)
	return core.Validate.Struct(cr)
}

func (ar *AllotmentRequest) Validate() error { return core.Validate.Struct(ar) }

// Courses

func (api *adminApi) courseQuery(ctx echo.Context) error {
	year, _ := strconv.Atoi(ctx.QueryParam("academic_yr"))
	courses, err := api.backend.QueryCourses(ctx.Request().Context(), ctx.QueryParam("dept"), year)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *adminApi) courseCreate(ctx echo.Context) error {
	data := new(CourseRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	course, err := api.backend.CreateCourse(ctx.Request().Context(), data.course(""))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, course)
}

func (api *adminApi) courseRetrieve(ctx echo.Context) error {
	course, err := api.backend.GetCourse(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, course)
}

func (api *adminApi) courseUpdate(ctx echo.Context) error {
	data := new(CourseRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	course, err := api.backend.UpdateCourse(ctx.Request().Context(), data.course(ctx.Param("id")))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, course)
}

func (api *adminApi) courseDelete(ctx echo.Context) error {
	if err := api.backend.DeleteCourse(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Faculty

func (api *adminApi) facultyQuery(ctx echo.Context) error {
	faculty, err := api.backend.QueryFaculty(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, faculty)
}

func (api *adminApi) facultyCreate(ctx echo.Context) error {
	data := new(FacultyRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	f, err := api.backend.CreateFaculty(ctx.Request().Context(), backendsvc.Faculty{Name: data.Name, Email: data.Email})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, f)
}

func (api *adminApi) facultyDelete(ctx echo.Context) error {
	if err := api.backend.DeleteFaculty(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Students

func (api *adminApi) studentQuery(ctx echo.Context) error {
	students, err := api.backend.QueryStudents(ctx.Request().Context(), ctx.QueryParam("class"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *adminApi) studentCreate(ctx echo.Context) error {
	data := new(StudentBulkRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	students := make([]backendsvc.Student, len(data.Students))
	for i, s := range data.Students {
		students[i] = backendsvc.Student{
			RollNo: s.RollNo,
			Name:   s.Name,
			Class:  null.NewString(s.Class, s.Class != ""),
			Email:  null.NewString(s.Email, s.Email != ""),
		}
	}
	if err := api.backend.CreateStudents(ctx.Request().Context(), students); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"created": len(students)})
}

func (api *adminApi) studentDelete(ctx echo.Context) error {
	if err := api.backend.DeleteStudent(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Coordinators

func (api *adminApi) coordinatorQuery(ctx echo.Context) error {
	coordinators, err := api.backend.QueryCoordinators(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, coordinators)
}

func (api *adminApi) coordinatorCreate(ctx echo.Context) error {
	data := new(CoordinatorRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	co, err := api.backend.CreateCoordinator(ctx.Request().Context(), backendsvc.Coordinator{
		FacultyID:  data.FacultyID,
		CourseID:   data.CourseID,
		Department: data.Department,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, co)
}

func (api *adminApi) coordinatorDelete(ctx echo.Context) error {
	if err := api.backend.DeleteCoordinator(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Allotments

func (api *adminApi) allotmentCreate(ctx echo.Context) error {
	data := new(AllotmentRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	a, err := api.backend.CreateAllotment(ctx.Request().Context(), backendsvc.Allotment{
		FacultyID: data.FacultyID,
		CourseID:  data.CourseID,
		Division:  null.NewString(data.Division, data.Division != ""),
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *adminApi) allotmentDelete(ctx echo.Context) error {
	if err := api.backend.DeleteAllotment(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
