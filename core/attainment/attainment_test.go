package attainment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRecord
		want Record
	}{
		{
			name: "mixed valid, missing and garbage values",
			raw: RawRecord{
				AcademicYear: 2022,
				UnitTest:     null.StringFrom("3.5"),
				EndSem:       null.StringFrom("bad"),
				Final:        null.StringFrom("10"),
				Total:        null.StringFrom("13.5"),
			},
			want: Record{AcademicYear: 2022, UnitTest: 3.5, InSem: 0, EndSem: 0, Final: 10, Total: 13.5},
		},
		{
			name: "all absent",
			raw:  RawRecord{AcademicYear: 2020},
			want: Record{AcademicYear: 2020},
		},
		{
			name: "explicit null",
			raw:  RawRecord{UnitTest: null.NewString("", false), Total: null.StringFrom("0.00")},
			want: Record{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalizeFromJSON(t *testing.T) {
	payload := []byte(`{
		"course_id": "CS101",
		"dept": "Computer",
		"academic_yr": 2022,
		"ut_attainment": "3.5",
		"endsem_attainment": "bad",
		"final_attainment": "10",
		"total": "13.5"
	}`)
	var raw RawRecord
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("unmarshalling raw record: %v", err)
	}

	got := Normalize(raw)
	want := Record{
		CourseID:     "CS101",
		Department:   "Computer",
		AcademicYear: 2022,
		UnitTest:     3.5,
		Final:        10,
		Total:        13.5,
	}
	assert.Equal(t, want, got)
}

func TestSummarize(t *testing.T) {
	records := []Record{
		{AcademicYear: 2021, Total: 5},
		{AcademicYear: 2022, Total: 9},
		{AcademicYear: 2023, Total: 2},
	}

	sum, ok := Summarize(records)
	if !ok {
		t.Fatal("Summarize() ok = false; want true")
	}
	if sum.Max.AcademicYear != 2022 || sum.Max.Total != 9 {
		t.Errorf("max = %+v; want 2022/9", sum.Max)
	}
	if sum.Min.AcademicYear != 2023 || sum.Min.Total != 2 {
		t.Errorf("min = %+v; want 2023/2", sum.Min)
	}
}

func TestSummarizeTies(t *testing.T) {
	records := []Record{
		{AcademicYear: 2019, Total: 4},
		{AcademicYear: 2020, Total: 4},
		{AcademicYear: 2021, Total: 4},
	}

	sum, ok := Summarize(records)
	if !ok {
		t.Fatal("Summarize() ok = false; want true")
	}
	// first encountered wins on ties
	if sum.Max.AcademicYear != 2019 || sum.Min.AcademicYear != 2019 {
		t.Errorf("summary = %+v; want first record for both", sum)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if _, ok := Summarize(nil); ok {
		t.Error("Summarize(nil) ok = true; want false")
	}
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{13.5, "13.50"},
		{0, "0.00"},
		{2.666, "2.67"},
	}
	for _, tt := range tests {
		if got := FormatScore(tt.in); got != tt.want {
			t.Errorf("FormatScore(%v) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTargets(t *testing.T) {
	raw := map[string]interface{}{
		"course_id": "CS101",
		"target1":   "60",
		"sppu1":     float64(40),
		"target3":   "50",
		// target2, sppu2, sppu3 missing
	}

	got := NormalizeTargets(raw)
	want := []TargetLevel{
		{Level: 3, Target: "50", SPPU: "-"},
		{Level: 2, Target: "-", SPPU: "-"},
		{Level: 1, Target: "60", SPPU: "40"},
	}
	assert.Equal(t, want, got)
}

func TestNormalizeTargetsEmpty(t *testing.T) {
	got := NormalizeTargets(map[string]interface{}{})
	for i, lvl := range got {
		if lvl.Target != "-" || lvl.SPPU != "-" {
			t.Errorf("level[%d] = %+v; want placeholders", i, lvl)
		}
	}
	if len(got) != 3 || got[0].Level != 3 || got[2].Level != 1 {
		t.Errorf("levels = %+v; want fixed [3 2 1] order", got)
	}
}
