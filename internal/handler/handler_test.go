package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hakwonlab/homework-backend/internal/config"
	"github.com/hakwonlab/homework-backend/internal/handler"
	"github.com/hakwonlab/homework-backend/internal/model"
	"github.com/hakwonlab/homework-backend/internal/router"
	"github.com/hakwonlab/homework-backend/internal/service"
	"github.com/hakwonlab/homework-backend/internal/store"
	"github.com/hakwonlab/homework-backend/internal/validator"
)

// envelope mirrors the response wrapper for assertions.
type envelope struct {
	Data  map[string]json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	validator.Setup()

	st, err := store.NewMemoryStore(context.Background(), store.NopSnapshotStore{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	t.Cleanup(st.Close)

	log := zerolog.Nop()
	handlers := &router.Handlers{
		Class:    handler.NewClassHandler(service.NewClassService(st)),
		Student:  handler.NewStudentHandler(service.NewStudentService(st)),
		Homework: handler.NewHomeworkHandler(service.NewHomeworkService(st, log)),
		Stats:    handler.NewStatsHandler(service.NewStatsService(st)),
	}
	return router.SetupRouter(handlers, &config.Config{GinMode: gin.TestMode})
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w, env
}

func createClass(t *testing.T, r *gin.Engine, name string) int {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/api/v1/classes", model.CreateClassRequest{Name: name})
	if w.Code != http.StatusCreated {
		t.Fatalf("create class: status %d, body %s", w.Code, w.Body.String())
	}
	var id int
	if err := json.Unmarshal(env.Data["id"], &id); err != nil {
		t.Fatal(err)
	}
	return id
}

func createStudent(t *testing.T, r *gin.Engine, classID int, name string) int {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/api/v1/students", model.CreateStudentRequest{
		ClassID: classID,
		Name:    name,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create student: status %d, body %s", w.Code, w.Body.String())
	}
	var id int
	if err := json.Unmarshal(env.Data["id"], &id); err != nil {
		t.Fatal(err)
	}
	return id
}

func TestCreateClassValidation(t *testing.T) {
	r := newTestRouter(t)

	w, env := do(t, r, http.MethodPost, "/api/v1/classes", map[string]string{"name": ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("got error %+v, want VALIDATION_ERROR", env.Error)
	}

	// Whitespace-only passes binding but is rejected by the service.
	w, env = do(t, r, http.MethodPost, "/api/v1/classes", map[string]string{"name": "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("whitespace name: status %d, want 400", w.Code)
	}
}

func TestUpdateMissingClassReturnsNotFound(t *testing.T) {
	r := newTestRouter(t)

	w, env := do(t, r, http.MethodPut, "/api/v1/classes/999999",
		model.CreateClassRequest{Name: "Renamed"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", w.Code)
	}
	if env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("got error %+v, want NOT_FOUND", env.Error)
	}
}

func TestHomeworkUpsertScenario(t *testing.T) {
	r := newTestRouter(t)

	classID := createClass(t, r, "Math A")
	kim := createStudent(t, r, classID, "Kim")

	path := fmt.Sprintf("/api/v1/students/%d/homework/2024-05-01", kim)

	w, env := do(t, r, http.MethodPut, path, model.SaveHomeworkRequest{Status: model.StatusDone})
	if w.Code != http.StatusOK {
		t.Fatalf("first save: status %d, body %s", w.Code, w.Body.String())
	}
	var firstID int
	if err := json.Unmarshal(env.Data["id"], &firstID); err != nil {
		t.Fatal(err)
	}

	w, env = do(t, r, http.MethodPut, path, model.SaveHomeworkRequest{Status: model.StatusPartial})
	if w.Code != http.StatusOK {
		t.Fatalf("second save: status %d", w.Code)
	}
	var secondID int
	if err := json.Unmarshal(env.Data["id"], &secondID); err != nil {
		t.Fatal(err)
	}
	if secondID != firstID {
		t.Errorf("upsert changed id: %d -> %d", firstID, secondID)
	}

	w, env = do(t, r, http.MethodGet, path, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get record: status %d", w.Code)
	}
	var rec model.HomeworkRecord
	if err := json.Unmarshal(env.Data["record"], &rec); err != nil {
		t.Fatal(err)
	}
	if rec.Status != model.StatusPartial {
		t.Errorf("status = %q, want partial (last write wins)", rec.Status)
	}

	w, _ = do(t, r, http.MethodPut, path, model.SaveHomeworkRequest{Status: "skipped"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown status: status %d, want 400", w.Code)
	}
}

func TestCascadeDeleteOverAPI(t *testing.T) {
	r := newTestRouter(t)

	classID := createClass(t, r, "Math A")
	kim := createStudent(t, r, classID, "Kim")
	lee := createStudent(t, r, classID, "Lee")
	for _, id := range []int{kim, lee} {
		path := fmt.Sprintf("/api/v1/students/%d/homework/2023-05-01", id)
		if w, _ := do(t, r, http.MethodPut, path, model.SaveHomeworkRequest{Status: model.StatusDone}); w.Code != http.StatusOK {
			t.Fatalf("save: status %d", w.Code)
		}
	}

	if w, _ := do(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/classes/%d", classID), nil); w.Code != http.StatusOK {
		t.Fatalf("delete class: status %d", w.Code)
	}

	w, env := do(t, r, http.MethodGet, fmt.Sprintf("/api/v1/classes/%d/students", classID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list students: status %d", w.Code)
	}
	var students []model.Student
	if err := json.Unmarshal(env.Data["students"], &students); err != nil {
		t.Fatal(err)
	}
	if len(students) != 0 {
		t.Errorf("students survived cascade: %+v", students)
	}
}

func TestStudentStatsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	classID := createClass(t, r, "Math A")
	kim := createStudent(t, r, classID, "Kim")
	lee := createStudent(t, r, classID, "Lee")

	// Use a past month so the sample seed's recent records stay out of range.
	save := func(studentID, day int, status model.HomeworkStatus) {
		path := fmt.Sprintf("/api/v1/students/%d/homework/2023-05-%02d", studentID, day)
		if w, _ := do(t, r, http.MethodPut, path, model.SaveHomeworkRequest{Status: status}); w.Code != http.StatusOK {
			t.Fatalf("save: status %d", w.Code)
		}
	}
	save(kim, 1, model.StatusDone)
	save(kim, 2, model.StatusDone)
	save(lee, 1, model.StatusNotDone)
	save(lee, 2, model.StatusPartial)

	w, env := do(t, r, http.MethodGet, "/api/v1/stats/students?year=2023&month=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats: status %d, body %s", w.Code, w.Body.String())
	}
	var stats []model.StudentMonthlyStat
	if err := json.Unmarshal(env.Data["stats"], &stats); err != nil {
		t.Fatal(err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d stats, want 2", len(stats))
	}
	if stats[0].StudentID != lee || stats[0].CompletionRate != 25 {
		t.Errorf("first = %+v, want Lee at 25", stats[0])
	}
	if stats[1].StudentID != kim || stats[1].CompletionRate != 100 {
		t.Errorf("second = %+v, want Kim at 100", stats[1])
	}

	w, _ = do(t, r, http.MethodGet, "/api/v1/stats/students?year=2023&month=13", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("month 13: status %d, want 400", w.Code)
	}
	w, _ = do(t, r, http.MethodGet, "/api/v1/stats/students", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing params: status %d, want 400", w.Code)
	}
}
