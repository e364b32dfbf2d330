// Package attainment reshapes raw backend rows into the fixed tabular
// shape the dashboards render, with defensive numeric handling: parsing
// never fails, it defaults.
package attainment

import (
	"fmt"
	"strconv"

	"github.com/volatiletech/null/v8"
)

// RawRecord is a per (course, department, academic year) attainment row as
// returned by the backend. Numeric components arrive as strings and any of
// them may be missing or null.
type RawRecord struct {
	CourseID     string      `json:"course_id"`
	Department   string      `json:"dept"`
	AcademicYear int         `json:"academic_yr"`
	UnitTest     null.String `json:"ut_attainment"`
	InSem        null.String `json:"insem_attainment"`
	EndSem       null.String `json:"endsem_attainment"`
	Final        null.String `json:"final_attainment"`
	Total        null.String `json:"total"`
}

// Record is the normalized projection: every component is a concrete
// float64 (missing/unparseable values become 0 — never NaN, never null).
// Total is computed server-side; the client treats it as opaque.
type Record struct {
	CourseID     string  `json:"course_id"`
	Department   string  `json:"dept"`
	AcademicYear int     `json:"academic_yr"`
	UnitTest     float64 `json:"ut_attainment"`
	InSem        float64 `json:"insem_attainment"`
	EndSem       float64 `json:"endsem_attainment"`
	Final        float64 `json:"final_attainment"`
	Total        float64 `json:"total"`
}

// Normalize parses every component of a raw row, defaulting to 0.
func Normalize(raw RawRecord) Record {
	return Record{
		CourseID:     raw.CourseID,
		Department:   raw.Department,
		AcademicYear: raw.AcademicYear,
		UnitTest:     parseScore(raw.UnitTest),
		InSem:        parseScore(raw.InSem),
		EndSem:       parseScore(raw.EndSem),
		Final:        parseScore(raw.Final),
		Total:        parseScore(raw.Total),
	}
}

func NormalizeAll(raw []RawRecord) []Record {
	records := make([]Record, 0, len(raw))
	for _, r := range raw {
		records = append(records, Normalize(r))
	}
	return records
}

// Summary singles out the best and worst years of a course for the
// dashboard header.
type Summary struct {
	Max Record `json:"max"`
	Min Record `json:"min"`
}

// Summarize picks the records with maximum and minimum total. Ties are
// broken by input order (first encountered wins). ok is false for an empty
// input.
func Summarize(records []Record) (sum Summary, ok bool) {
	if len(records) == 0 {
		return Summary{}, false
	}
	sum.Max, sum.Min = records[0], records[0]
	for _, r := range records[1:] {
		if r.Total > sum.Max.Total {
			sum.Max = r
		}
		if r.Total < sum.Min.Total {
			sum.Min = r
		}
	}
	return sum, true
}

// FormatScore renders a component with the fixed 2-decimal display precision.
func FormatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func parseScore(s null.String) float64 {
	if !s.Valid {
		return 0
	}
	f, err := strconv.ParseFloat(s.String, 64)
	if err != nil {
		return 0
	}
	return f
}

// TargetLevel is one rigor level of a course target (1 = highest rigor,
// 3 = lowest). Targets are display-only: missing fields render as a
// placeholder, not 0.
type TargetLevel struct {
	Level  int    `json:"level"`
	Target string `json:"target"`
	SPPU   string `json:"sppu"`
}

const placeholder = "-"

// targetLevelOrder is the fixed descending display order.
var targetLevelOrder = []int{3, 2, 1}

// NormalizeTargets accepts an arbitrarily-keyed target object holding
// target{1,2,3} and sppu{1,2,3} fields and emits the levels in fixed
// descending order, regardless of input order.
func NormalizeTargets(raw map[string]interface{}) []TargetLevel {
	levels := make([]TargetLevel, 0, len(targetLevelOrder))
	for _, lvl := range targetLevelOrder {
		levels = append(levels, TargetLevel{
			Level:  lvl,
			Target: displayField(raw, fmt.Sprintf("target%d", lvl)),
			SPPU:   displayField(raw, fmt.Sprintf("sppu%d", lvl)),
		})
	}
	return levels
}

func displayField(raw map[string]interface{}, key string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		return placeholder
	}
	switch val := v.(type) {
	case string:
		if val == "" {
			return placeholder
		}
		return val
	case float64: // encoding/json numbers
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
