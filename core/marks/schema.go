// Package marks validates per-student marks rows against the fixed exam
// component schemas before anything is sent to the backend.
package marks

import (
	"strings"

	"github.com/pkg/errors"
)

// Absent is the sentinel accepted in place of any numeric score.
const Absent = "AB"

// KeyColumn identifies the student in every sheet; it is not a score.
const KeyColumn = "roll_no"

// Component maxima.
const (
	MaxCO     = 15  // per-CO unit test & in-semester sub-scores
	MaxEndsem = 70  // end-semester (SPPU) exam
	MaxFinal  = 100 // final aggregate
)

type ExamType string

const (
	ExamUT1    ExamType = "UT1"
	ExamUT2    ExamType = "UT2"
	ExamUT3    ExamType = "UT3"
	ExamInsem  ExamType = "Insem"
	ExamEndsem ExamType = "Endsem"
	ExamFinal  ExamType = "Final"
)

var ExamTypes = []ExamType{ExamUT1, ExamUT2, ExamUT3, ExamInsem, ExamEndsem, ExamFinal}

// Column is one required score column of an exam sheet.
type Column struct {
	Name string  `json:"name"`
	Max  float64 `json:"max"`
}

// Schema describes the exact columns an exam type requires.
type Schema struct {
	Exam    ExamType `json:"exam"`
	Columns []Column `json:"columns"`
}

var schemas = map[ExamType]Schema{
	ExamUT1: {Exam: ExamUT1, Columns: []Column{
		{Name: "u1_co1", Max: MaxCO},
		{Name: "u1_co2", Max: MaxCO},
	}},
	ExamUT2: {Exam: ExamUT2, Columns: []Column{
		{Name: "u2_co3", Max: MaxCO},
		{Name: "u2_co4", Max: MaxCO},
	}},
	ExamUT3: {Exam: ExamUT3, Columns: []Column{
		{Name: "u3_co5", Max: MaxCO},
		{Name: "u3_co6", Max: MaxCO},
	}},
	ExamInsem: {Exam: ExamInsem, Columns: []Column{
		{Name: "insem_1", Max: MaxCO},
		{Name: "insem_2", Max: MaxCO},
	}},
	ExamEndsem: {Exam: ExamEndsem, Columns: []Column{
		{Name: "endsem", Max: MaxEndsem},
	}},
	ExamFinal: {Exam: ExamFinal, Columns: []Column{
		{Name: "final", Max: MaxFinal},
	}},
}

var errUnknownExamType = errors.New("unknown exam type")

// SchemaFor returns the column schema of the given exam type.
func SchemaFor(exam ExamType) (Schema, error) {
	s, ok := schemas[exam]
	if !ok {
		return Schema{}, errors.Wrapf(errUnknownExamType, "%q", exam)
	}
	return s, nil
}

// ParseExamType matches a user-supplied exam type name, ignoring case, and
// returns the canonical constant.
func ParseExamType(s string) (ExamType, error) {
	for _, et := range ExamTypes {
		if strings.EqualFold(string(et), s) {
			return et, nil
		}
	}
	return "", errors.Wrapf(errUnknownExamType, "%q", s)
}
