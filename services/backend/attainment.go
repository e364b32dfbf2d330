package backendsvc

import (
	"context"
	"net/url"
	"strconv"

	"github.com/trezcool/upeo/core"
	"github.com/trezcool/upeo/core/attainment"
)

// QueryAttainment fetches the yearly attainment rows of one course.
func (c *Client) QueryAttainment(ctx context.Context, courseID, dept string) ([]attainment.RawRecord, error) {
	params := make(url.Values)
	params.Set("course_id", courseID)
	if dept != "" {
		params.Set("dept", dept)
	}
	var records []attainment.RawRecord
	err := c.get(ctx, "/attainment", params, &records)
	return records, err
}

// QueryAttainmentReport fetches the department-wide report rows for one
// academic year.
func (c *Client) QueryAttainmentReport(ctx context.Context, dept string, academicYear int) ([]attainment.RawRecord, error) {
	params := make(url.Values)
	params.Set("dept", dept)
	if academicYear != 0 {
		params.Set("academic_yr", strconv.Itoa(academicYear))
	}
	var records []attainment.RawRecord
	err := c.get(ctx, "/reports/attainment", params, &records)
	return records, err
}

// GetTargets fetches the raw target object of a course; shape is
// backend-defined, hence the loose map (see attainment.NormalizeTargets).
func (c *Client) GetTargets(ctx context.Context, courseID, dept string, academicYear int) (map[string]interface{}, error) {
	params := make(url.Values)
	params.Set("course_id", courseID)
	if dept != "" {
		params.Set("dept", dept)
	}
	if academicYear != 0 {
		params.Set("academic_yr", strconv.Itoa(academicYear))
	}
	var raw map[string]interface{}
	err := c.get(ctx, "/targets", params, &raw)
	return raw, err
}

// TargetInput is a coordinator's target submission: three ordered rigor
// levels, each with a unit-test and an SPPU threshold.
type TargetInput struct {
	CourseID     string `json:"course_id" validate:"required"`
	Department   string `json:"dept" validate:"required"`
	AcademicYear int    `json:"academic_yr" validate:"required"`
	Target1      string `json:"target1" validate:"required,numeric"`
	Target2      string `json:"target2" validate:"required,numeric"`
	Target3      string `json:"target3" validate:"required,numeric"`
	SPPU1        string `json:"sppu1" validate:"required,numeric"`
	SPPU2        string `json:"sppu2" validate:"required,numeric"`
	SPPU3        string `json:"sppu3" validate:"required,numeric"`
}

func (ti *TargetInput) Validate() error {
	ti.CourseID = core.CleanString(ti.CourseID)
	ti.Department = core.CleanString(ti.Department)
	return core.Validate.Struct(ti)
}

// SetTargets stores a course target; validation failures never reach the
// network.
func (c *Client) SetTargets(ctx context.Context, ti TargetInput) error {
	if err := ti.Validate(); err != nil {
		return err
	}
	return c.post(ctx, "/targets", ti, nil)
}
