package marks

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/upeo/core"
)

// Row is one student's sheet row: column name → raw value.
type Row map[string]string

// Violation pinpoints a rejected cell. RowIndex is 1-based over data rows.
type Violation struct {
	RowIndex int    `json:"row"`
	Column   string `json:"column"`
	Reason   string `json:"reason"`
}

func (v Violation) String() string {
	return fmt.Sprintf("row %d, %s: %s", v.RowIndex, v.Column, v.Reason)
}

// ValidateRows checks every row against the schema and returns the full
// violation list; nil means valid. Submission is all-or-nothing: the caller
// must refuse to submit anything while violations exist — partial
// submission of only the valid rows is not allowed.
func ValidateRows(rows []Row, schema Schema) []Violation {
	var violations []Violation
	for i, row := range rows {
		violations = append(violations, schema.validateRow(i+1, row)...)
	}
	return violations
}

func (s Schema) validateRow(idx int, row Row) []Violation {
	var violations []Violation

	if row[KeyColumn] == "" {
		violations = append(violations, Violation{idx, KeyColumn, "this column is required"})
	}

	for _, col := range s.Columns {
		val, ok := row[col.Name]
		if !ok {
			violations = append(violations, Violation{idx, col.Name, "this column is required"})
			continue
		}
		if reason := checkScore(val, col.Max); reason != "" {
			violations = append(violations, Violation{idx, col.Name, reason})
		}
	}

	// no extra columns beyond the key and the schema's
	extras := make([]string, 0)
	for name := range row {
		if name != KeyColumn && !s.hasColumn(name) {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras) // deterministic report order
	for _, name := range extras {
		violations = append(violations, Violation{idx, name, fmt.Sprintf("unexpected column for exam %s", s.Exam)})
	}
	return violations
}

func (s Schema) hasColumn(name string) bool {
	for _, col := range s.Columns {
		if col.Name == name {
			return true
		}
	}
	return false
}

// checkScore accepts the absent sentinel or a number in [0, max].
func checkScore(val string, max float64) string {
	if val == Absent {
		return ""
	}
	score, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fmt.Sprintf("must be a number or %q", Absent)
	}
	if score < 0 {
		return "must not be negative"
	}
	if score > max {
		return fmt.Sprintf("exceeds maximum %v", max)
	}
	return ""
}

// AsValidationError folds violations into the shared validation error
// shape, one field entry per rejected cell.
func AsValidationError(violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}
	fields := make([]core.FieldError, 0, len(violations))
	for _, v := range violations {
		field := fmt.Sprintf("row%d", v.RowIndex)
		if v.Column != "" {
			field += "." + v.Column
		}
		fields = append(fields, core.FieldError{Field: field, Error: v.Reason})
	}
	return core.NewValidationError(errors.New("marks validation failed"), fields...)
}

// Lockable is any course-scoped resource carrying a marks lock flag.
type Lockable interface {
	IsLocked() bool
}

// EnsureUnlocked rejects writes against a locked course before any network
// call is attempted. Checked when the edit flow opens and re-checked at
// submit (stale UI state is not trusted).
func EnsureUnlocked(c Lockable) error {
	if c.IsLocked() {
		return core.ErrLocked
	}
	return nil
}
