package backendsvc

import (
	"context"
	"net/url"

	"github.com/trezcool/upeo/core/marks"
)

type marksPayload struct {
	Exam marks.ExamType `json:"exam"`
	Rows []marks.Row    `json:"rows"`
}

// QueryMarks fetches the stored sheet of a course for one exam type.
func (c *Client) QueryMarks(ctx context.Context, courseID string, exam marks.ExamType) ([]marks.Row, error) {
	params := make(url.Values)
	params.Set("exam", string(exam))
	var rows []marks.Row
	err := c.get(ctx, "/courses/"+courseID+"/marks", params, &rows)
	return rows, err
}

// UploadMarks submits a full sheet for a course. The lock flag and every
// row are checked first; a locked course or any violation means nothing is
// sent — submission is all-or-nothing.
func (c *Client) UploadMarks(ctx context.Context, course Course, exam marks.ExamType, rows []marks.Row) error {
	if err := marks.EnsureUnlocked(course); err != nil {
		return err
	}
	schema, err := marks.SchemaFor(exam)
	if err != nil {
		return err
	}
	if violations := marks.ValidateRows(rows, schema); violations != nil {
		return marks.AsValidationError(violations)
	}
	return c.post(ctx, "/courses/"+course.ID+"/marks", marksPayload{Exam: exam, Rows: rows}, nil)
}

// UpdateMarks edits an existing sheet. The course is re-fetched so the lock
// decision is made on current state, not on whatever the caller last saw.
func (c *Client) UpdateMarks(ctx context.Context, courseID string, exam marks.ExamType, rows []marks.Row) error {
	course, err := c.GetCourse(ctx, courseID)
	if err != nil {
		return err
	}
	if err := marks.EnsureUnlocked(course); err != nil {
		return err
	}
	schema, err := marks.SchemaFor(exam)
	if err != nil {
		return err
	}
	if violations := marks.ValidateRows(rows, schema); violations != nil {
		return marks.AsValidationError(violations)
	}
	return c.put(ctx, "/courses/"+courseID+"/marks", marksPayload{Exam: exam, Rows: rows}, nil)
}
