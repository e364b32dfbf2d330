package backendsvc

import (
	"context"
	"net/url"
	"strconv"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/upeo/core/marks"
)

type Course struct {
	ID           string      `json:"id,omitempty"`
	Code         string      `json:"code"`
	Name         string      `json:"name"`
	Department   string      `json:"dept"`
	AcademicYear int         `json:"academic_yr"`
	Class        null.String `json:"class,omitempty"`
	Locked       bool        `json:"locked"`
}

var _ marks.Lockable = Course{}

// IsLocked reports the per-course marks lock flag; once set, every
// client-side write path must refuse before touching the network.
func (c Course) IsLocked() bool { return c.Locked }

type Faculty struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Student struct {
	ID     string      `json:"id,omitempty"`
	RollNo string      `json:"roll_no"`
	Name   string      `json:"name"`
	Class  null.String `json:"class,omitempty"`
	Email  null.String `json:"email,omitempty"`
}

type Coordinator struct {
	ID         string `json:"id,omitempty"`
	FacultyID  string `json:"faculty_id"`
	CourseID   string `json:"course_id"`
	Department string `json:"dept"`
}

// Allotment assigns a faculty member to teach a course section.
type Allotment struct {
	ID        string      `json:"id,omitempty"`
	FacultyID string      `json:"faculty_id"`
	CourseID  string      `json:"course_id"`
	Division  null.String `json:"division,omitempty"`
}

// Courses

func (c *Client) QueryCourses(ctx context.Context, dept string, academicYear int) ([]Course, error) {
	params := make(url.Values)
	if dept != "" {
		params.Set("dept", dept)
	}
	if academicYear != 0 {
		params.Set("academic_yr", strconv.Itoa(academicYear))
	}
	var courses []Course
	err := c.get(ctx, "/courses", params, &courses)
	return courses, err
}

func (c *Client) GetCourse(ctx context.Context, id string) (Course, error) {
	var course Course
	err := c.get(ctx, "/courses/"+id, nil, &course)
	return course, err
}

func (c *Client) CreateCourse(ctx context.Context, course Course) (Course, error) {
	var created Course
	err := c.post(ctx, "/courses", course, &created)
	return created, err
}

func (c *Client) UpdateCourse(ctx context.Context, course Course) (Course, error) {
	var updated Course
	err := c.put(ctx, "/courses/"+course.ID, course, &updated)
	return updated, err
}

func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	return c.delete(ctx, "/courses/"+id)
}

// Faculty

func (c *Client) QueryFaculty(ctx context.Context) ([]Faculty, error) {
	var faculty []Faculty
	err := c.get(ctx, "/faculty", nil, &faculty)
	return faculty, err
}

func (c *Client) CreateFaculty(ctx context.Context, f Faculty) (Faculty, error) {
	var created Faculty
	err := c.post(ctx, "/faculty", f, &created)
	return created, err
}

func (c *Client) DeleteFaculty(ctx context.Context, id string) error {
	return c.delete(ctx, "/faculty/"+id)
}

// Students

func (c *Client) QueryStudents(ctx context.Context, class string) ([]Student, error) {
	params := make(url.Values)
	if class != "" {
		params.Set("class", class)
	}
	var students []Student
	err := c.get(ctx, "/students", params, &students)
	return students, err
}

func (c *Client) CreateStudents(ctx context.Context, students []Student) error {
	return c.post(ctx, "/students", students, nil)
}

func (c *Client) DeleteStudent(ctx context.Context, id string) error {
	return c.delete(ctx, "/students/"+id)
}

// Coordinators

func (c *Client) QueryCoordinators(ctx context.Context) ([]Coordinator, error) {
	var coordinators []Coordinator
	err := c.get(ctx, "/coordinators", nil, &coordinators)
	return coordinators, err
}

func (c *Client) CreateCoordinator(ctx context.Context, co Coordinator) (Coordinator, error) {
	var created Coordinator
	err := c.post(ctx, "/coordinators", co, &created)
	return created, err
}

func (c *Client) DeleteCoordinator(ctx context.Context, id string) error {
	return c.delete(ctx, "/coordinators/"+id)
}

// Allotments

func (c *Client) QueryAllotments(ctx context.Context, facultyID string) ([]Allotment, error) {
	params := make(url.Values)
	if facultyID != "" {
		params.Set("faculty_id", facultyID)
	}
	var allotments []Allotment
	err := c.get(ctx, "/allotments", params, &allotments)
	return allotments, err
}

func (c *Client) CreateAllotment(ctx context.Context, a Allotment) (Allotment, error) {
	var created Allotment
	err := c.post(ctx, "/allotments", a, &created)
	return created, err
}

func (c *Client) DeleteAllotment(ctx context.Context, id string) error {
	return c.delete(ctx, "/allotments/"+id)
}
