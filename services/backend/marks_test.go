package backendsvc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/upeo/core"
	"github.com/trezcool/upeo/core/marks"
)

func validUT1Rows() []marks.Row {
	return []marks.Row{
		{"roll_no": "101", "u1_co1": "12", "u1_co2": "15"},
		{"roll_no": "102", "u1_co1": "AB", "u1_co2": "10"},
	}
}

// A locked course must short-circuit before any network call is made.
func TestUploadMarksLocked(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	client := NewClientAt(srv.URL)
	client.UseTokens(staticToken("tok"))

	course := Course{ID: "c1", Locked: true}
	err := client.UploadMarks(context.Background(), course, marks.ExamUT1, validUT1Rows())
	if errors.Cause(err) != core.ErrLocked {
		t.Errorf("UploadMarks() error = %v; want %v", err, core.ErrLocked)
	}
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Errorf("backend hits = %d; want 0", n)
	}
}

// Any violation blocks the whole submission; no partial upload of the valid rows.
func TestUploadMarksAllOrNothing(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	client := NewClientAt(srv.URL)
	client.UseTokens(staticToken("tok"))

	rows := []marks.Row{
		{"roll_no": "101", "u1_co1": "16", "u1_co2": "AB"}, // exceeds max 15
		{"roll_no": "102", "u1_co1": "AB", "u1_co2": "10"}, // valid
	}
	err := client.UploadMarks(context.Background(), Course{ID: "c1"}, marks.ExamUT1, rows)

	verr, ok := errors.Cause(err).(*core.ValidationError)
	if !ok {
		t.Fatalf("error = %v; want *core.ValidationError", err)
	}
	assert.Equal(t, []core.FieldError{{Field: "row1.u1_co1", Error: "exceeds maximum 15"}}, verr.Fields)
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Errorf("backend hits = %d; want 0", n)
	}
}

func TestUploadMarksSubmits(t *testing.T) {
	var got marksPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/courses/c1/marks" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClientAt(srv.URL)
	client.UseTokens(staticToken("tok"))

	if err := client.UploadMarks(context.Background(), Course{ID: "c1"}, marks.ExamUT1, validUT1Rows()); err != nil {
		t.Fatalf("UploadMarks() error = %v", err)
	}
	assert.Equal(t, marks.ExamUT1, got.Exam)
	assert.Equal(t, validUT1Rows(), got.Rows)
}

// UpdateMarks must re-check the lock against current backend state: a
// course that looked unlocked in the UI but got locked since is refused,
// and no write request goes out.
func TestUpdateMarksStaleLock(t *testing.T) {
	var writes int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/courses/c1":
			_ = json.NewEncoder(w).Encode(Course{ID: "c1", Locked: true})
		default:
			atomic.AddInt32(&writes, 1)
		}
	}))
	defer srv.Close()

	client := NewClientAt(srv.URL)
	client.UseTokens(staticToken("tok"))

	err := client.UpdateMarks(context.Background(), "c1", marks.ExamUT1, validUT1Rows())
	if errors.Cause(err) != core.ErrLocked {
		t.Errorf("UpdateMarks() error = %v; want %v", err, core.ErrLocked)
	}
	if n := atomic.LoadInt32(&writes); n != 0 {
		t.Errorf("write requests = %d; want 0", n)
	}
}

func TestSetTargetsValidation(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	client := NewClientAt(srv.URL)
	client.UseTokens(staticToken("tok"))

	err := client.SetTargets(context.Background(), TargetInput{CourseID: "c1"})
	if err == nil {
		t.Fatal("SetTargets() error = nil; want validation error")
	}
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Errorf("backend hits = %d; want 0", n)
	}

	ti := TargetInput{
		CourseID: "c1", Department: "Computer", AcademicYear: 2023,
		Target1: "60", Target2: "55", Target3: "50",
		SPPU1: "40", SPPU2: "40", SPPU3: "40",
	}
	if err := client.SetTargets(context.Background(), ti); err != nil {
		t.Fatalf("SetTargets() error = %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("backend hits = %d; want 1", n)
	}
}
