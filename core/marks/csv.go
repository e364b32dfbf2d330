package marks

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/upeo/core"
)

// ReadSheet parses a bulk-upload CSV: a header row naming columns, one data
// row per student. Structural problems (short/long records) are reported as
// violations against the offending row; only an unreadable stream is an
// error. The rows still need ValidateRows before submission.
func ReadSheet(r io.Reader) ([]Row, []Violation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row length checked against the header below
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, errors.New("empty sheet: missing header row")
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading header row")
	}
	for i, name := range header {
		header[i] = core.CleanString(name, true)
	}

	var (
		rows       []Row
		violations []Violation
	)
	for idx := 1; ; idx++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrapf(err, "reading row %d", idx)
		}
		if len(record) != len(header) {
			violations = append(violations, Violation{idx, "", "wrong number of columns"})
			continue
		}

		row := make(Row, len(header))
		for i, name := range header {
			row[name] = strings.TrimSpace(record[i])
		}
		rows = append(rows, row)
	}
	return rows, violations, nil
}
