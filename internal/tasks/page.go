package tasks

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templateFS embed.FS

var boardTmpl = template.Must(template.ParseFS(templateFS, "templates/board.html"))

type boardPage struct {
	Draft      Draft
	Columns    []Column
	Days       []Day
	Priorities []Priority
	EmptyText  string
}

// RegisterBoardRoutes mounts the HTML board and the form endpoints its page
// posts to.
func RegisterBoardRoutes(r chi.Router, store *Store) {
	board := NewBoard(store)

	r.Get("/", showBoard(board))
	r.Post("/board/tasks", submitDraft(store))
	r.Post("/board/tasks/{id}/delete", deleteFromBoard(store))
	r.Post("/board/drop", dropOnColumn(board))
}

func showBoard(board *Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderBoard(w, r, boardPage{
			Draft:      EmptyDraft(),
			Columns:    board.Columns(),
			Days:       Days(),
			Priorities: Priorities(),
			EmptyText:  EmptyColumnText,
		})
	}
}

func renderBoard(w http.ResponseWriter, r *http.Request, page boardPage) {
	var buf bytes.Buffer
	if err := boardTmpl.Execute(&buf, page); err != nil {
		slog.ErrorContext(r.Context(), "board_render_failed", slog.String("error", err.Error()))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func submitDraft(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		ed := NewEditor(store)
		ed.SetText(r.PostForm.Get("content"))
		if v := r.PostForm.Get("day"); v != "" {
			d, err := ParseDay(v)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			ed.SetDay(d)
		}
		if v := r.PostForm.Get("priority"); v != "" {
			p, err := ParsePriority(v)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			ed.SetPriority(p)
		}

		if _, _, err := ed.Submit(r.Context()); err != nil {
			http.Error(w, "could not save task", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func deleteFromBoard(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			http.Error(w, "could not delete task", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// dropOnColumn receives what the page's drop handler read from the drag:
// the payload set on dragstart and the day of the column it landed on.
func dropOnColumn(board *Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		day, err := ParseDay(r.PostForm.Get("day"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		if _, _, err := board.Drop(r.Context(), r.PostForm.Get("payload"), day); err != nil {
			http.Error(w, "could not move task", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
