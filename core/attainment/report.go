package attainment

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

var reportHeader = []string{
	"course_id", "dept", "academic_yr",
	"ut_attainment", "insem_attainment", "endsem_attainment", "final_attainment", "total",
}

// WriteReportCSV renders normalized records as the attainment report sheet,
// components at fixed 2-decimal precision.
func WriteReportCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return errors.Wrap(err, "writing report header")
	}
	for _, r := range records {
		row := []string{
			r.CourseID,
			r.Department,
			strconv.Itoa(r.AcademicYear),
			FormatScore(r.UnitTest),
			FormatScore(r.InSem),
			FormatScore(r.EndSem),
			FormatScore(r.Final),
			FormatScore(r.Total),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "writing report row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing report")
}

// ReportCSV is WriteReportCSV into a byte slice (email attachments).
func ReportCSV(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteReportCSV(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
