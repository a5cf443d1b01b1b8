package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
)

const maxContentLen = 200

type createTaskRequest struct {
	Content  string `json:"content"`
	Day      string `json:"day"`
	Priority string `json:"priority"`
}

type reassignRequest struct {
	Day string `json:"day"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errResponse struct {
	Error   string       `json:"error"`
	Details []fieldError `json:"details,omitempty"`
}

// RegisterRoutes mounts the JSON API. Callers usually mount it under /api.
func RegisterRoutes(r chi.Router, store *Store) {
	board := NewBoard(store)

	r.Get("/tasks", listTasks(store))
	r.Post("/tasks", createTask(store))
	r.Delete("/tasks/{id}", deleteTask(store))
	r.Put("/tasks/{id}/day", reassignTask(store))
	r.Get("/board", getBoard(board))
}

func createTask(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var req createTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errResponse{Error: "invalid_json"})
			return
		}

		day, priority, vErrs := validateCreateTask(req, maxContentLen)
		if len(vErrs) > 0 {
			writeJSON(w, http.StatusUnprocessableEntity, errResponse{
				Error:   "validation_error",
				Details: vErrs,
			})
			return
		}

		t, created, err := store.Create(r.Context(), req.Content, day, priority)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errResponse{Error: "unexpected_error"})
			return
		}
		if !created {
			// blank content is ignored, not rejected
			w.WriteHeader(http.StatusNoContent)
			return
		}

		writeJSON(w, http.StatusCreated, t)
	}
}

func listTasks(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		raw := r.URL.Query().Get("day")
		if raw == "" {
			writeJSON(w, http.StatusOK, store.List())
			return
		}
		day, err := ParseDay(raw)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errResponse{
				Error:   "validation_error",
				Details: []fieldError{dayFieldError()},
			})
			return
		}
		writeJSON(w, http.StatusOK, store.Filter(day))
	}
}

func deleteTask(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			w.Header().Set("Content-Type", "application/json")
			writeJSON(w, http.StatusInternalServerError, errResponse{Error: "unexpected_error"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func reassignTask(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var req reassignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errResponse{Error: "invalid_json"})
			return
		}
		day, err := ParseDay(req.Day)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errResponse{
				Error:   "validation_error",
				Details: []fieldError{dayFieldError()},
			})
			return
		}

		t, moved, err := store.Reassign(r.Context(), chi.URLParam(r, "id"), day)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errResponse{Error: "unexpected_error"})
			return
		}
		if !moved {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func getBoard(board *Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		writeJSON(w, http.StatusOK, board.Columns())
	}
}

// validateCreateTask fills in the default day and priority when omitted.
// Blank content is not an error here.
func validateCreateTask(req createTaskRequest, maxLen int) (Day, Priority, []fieldError) {
	var errs []fieldError

	if l := utf8.RuneCountInString(strings.TrimSpace(req.Content)); l > maxLen {
		errs = append(errs, fieldError{
			Field:   "content",
			Message: fmt.Sprintf("content must be at most %d characters", maxLen),
		})
	}

	day := DefaultDay
	if req.Day != "" {
		d, err := ParseDay(req.Day)
		if err != nil {
			errs = append(errs, dayFieldError())
		}
		day = d
	}

	priority := DefaultPriority
	if req.Priority != "" {
		p, err := ParsePriority(req.Priority)
		if errors.Is(err, ErrInvalidPriority) {
			errs = append(errs, fieldError{
				Field:   "priority",
				Message: "priority must be one of 1, 2, 3, 4",
			})
		}
		priority = p
	}

	return day, priority, errs
}

func dayFieldError() fieldError {
	return fieldError{Field: "day", Message: "day must be Today or Tomorrow"}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
