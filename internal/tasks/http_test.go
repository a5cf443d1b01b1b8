package tasks

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestServer(t *testing.T) (*chi.Mux, *Store) {
	t.Helper()
	st, _ := newTestStore(t)
	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		RegisterRoutes(api, st)
	})
	return r, st
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestPostTasks_Success(t *testing.T) {
	r, _ := newTestServer(t)

	rec := doJSON(r, http.MethodPost, "/api/tasks", `{"content":"Buy milk","day":"Today","priority":"1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d, body=%s", rec.Code, rec.Body.String())
	}

	var got Task
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if got.ID == "" {
		t.Errorf("expected non-empty ID")
	}
	if got.Content != "Buy milk" || got.Day != Today || got.Priority != Priority1 {
		t.Errorf("unexpected task: %+v", got)
	}
}

func TestPostTasks_DefaultsDayAndPriority(t *testing.T) {
	r, _ := newTestServer(t)

	rec := doJSON(r, http.MethodPost, "/api/tasks", `{"content":"just text"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d, body=%s", rec.Code, rec.Body.String())
	}
	var got Task
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Day != DefaultDay || got.Priority != DefaultPriority {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestPostTasks_BlankContentIsIgnored(t *testing.T) {
	r, st := newTestServer(t)

	rec := doJSON(r, http.MethodPost, "/api/tasks", `{"content":"   ","day":"Tomorrow","priority":"2"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d, body=%s", rec.Code, rec.Body.String())
	}
	if st.Len() != 0 {
		t.Fatalf("blank content created a task")
	}
}

func TestPostTasks_ValidationErrors(t *testing.T) {
	r, _ := newTestServer(t)

	long := strings.Repeat("x", maxContentLen+1)
	rec := doJSON(r, http.MethodPost, "/api/tasks", `{"content":"`+long+`","day":"Someday","priority":"9"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d, body=%s", rec.Code, rec.Body.String())
	}

	var resp errResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse error JSON: %v", err)
	}
	if resp.Error != "validation_error" {
		t.Errorf("expected validation_error, got %q", resp.Error)
	}
	fields := map[string]bool{}
	for _, d := range resp.Details {
		fields[d.Field] = true
	}
	for _, f := range []string{"content", "day", "priority"} {
		if !fields[f] {
			t.Errorf("expected a %s field error, got %+v", f, resp.Details)
		}
	}
}

func TestPostTasks_InvalidJSON(t *testing.T) {
	r, _ := newTestServer(t)

	rec := doJSON(r, http.MethodPost, "/api/tasks", `{"content":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d, body=%s", rec.Code, rec.Body.String())
	}

	var resp errResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse error JSON: %v", err)
	}
	if resp.Error != "invalid_json" {
		t.Errorf("expected error 'invalid_json', got %q", resp.Error)
	}
}

func TestGetTasks_FilterByDay(t *testing.T) {
	r, st := newTestServer(t)
	mustCreate(t, st, "today task", Today, Priority1)
	mustCreate(t, st, "tomorrow task", Tomorrow, Priority2)

	rec := doJSON(r, http.MethodGet, "/api/tasks?day=Tomorrow", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body=%s", rec.Code, rec.Body.String())
	}
	var list []Task
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if len(list) != 1 || list[0].Content != "tomorrow task" {
		t.Fatalf("unexpected filtered list: %+v", list)
	}

	rec = doJSON(r, http.MethodGet, "/api/tasks", "")
	_ = json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list) != 2 {
		t.Fatalf("expected 2 tasks unfiltered, got %d", len(list))
	}

	rec = doJSON(r, http.MethodGet, "/api/tasks?day=Monday", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown day, got %d", rec.Code)
	}
}

func TestGetTasks_EmptyIsArray(t *testing.T) {
	r, _ := newTestServer(t)

	rec := doJSON(r, http.MethodGet, "/api/tasks?day=Today", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty JSON array, got %q", rec.Body.String())
	}
}

func TestDeleteTask_Idempotent(t *testing.T) {
	r, st := newTestServer(t)
	task := mustCreate(t, st, "bye", Today, Priority1)

	for i := 0; i < 2; i++ {
		rec := doJSON(r, http.MethodDelete, "/api/tasks/"+task.ID, "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("delete #%d: expected 204, got %d", i+1, rec.Code)
		}
	}
	if st.Len() != 0 {
		t.Fatalf("task not deleted")
	}
}

func TestReassignTask(t *testing.T) {
	r, st := newTestServer(t)
	task := mustCreate(t, st, "move me", Today, Priority2)

	rec := doJSON(r, http.MethodPut, "/api/tasks/"+task.ID+"/day", `{"day":"Tomorrow"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", rec.Code, rec.Body.String())
	}
	var got Task
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Day != Tomorrow || got.Priority != Priority2 {
		t.Fatalf("unexpected task: %+v", got)
	}

	rec = doJSON(r, http.MethodPut, "/api/tasks/nope/day", `{"day":"Today"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unknown id: expected 204, got %d", rec.Code)
	}

	rec = doJSON(r, http.MethodPut, "/api/tasks/"+task.ID+"/day", `{"day":"Later"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad day: expected 422, got %d", rec.Code)
	}
}

func TestGetBoard(t *testing.T) {
	r, st := newTestServer(t)
	mustCreate(t, st, "urgent", Today, Priority1)

	rec := doJSON(r, http.MethodGet, "/api/board", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var cols []Column
	if err := json.Unmarshal(rec.Body.Bytes(), &cols); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if len(cols) != 2 || cols[0].Day != Today || cols[1].Day != Tomorrow {
		t.Fatalf("unexpected columns: %+v", cols)
	}
	if cols[0].Empty || cols[0].Cards[0].PriorityClass != "priority-1" {
		t.Fatalf("unexpected today column: %+v", cols[0])
	}
	if !cols[1].Empty {
		t.Fatalf("tomorrow column should be empty")
	}
}
