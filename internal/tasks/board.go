package tasks

import (
	"context"
	"strings"
)

const EmptyColumnText = "No tasks found"

// Card is one rendered task row.
type Card struct {
	ID            string   `json:"id"`
	Content       string   `json:"content"`
	Day           Day      `json:"day"`
	Priority      Priority `json:"priority"`
	PriorityClass string   `json:"priority_class"`
	DragPayload   string   `json:"drag_payload"`
}

// Column is one day bucket as shown on the board. Empty columns render the
// placeholder instead of cards.
type Column struct {
	Day   Day    `json:"day"`
	Title string `json:"title"`
	Cards []Card `json:"cards"`
	Empty bool   `json:"empty"`
}

// Board renders the store as day columns and turns drops into reassignments.
type Board struct {
	store *Store
}

func NewBoard(store *Store) *Board {
	return &Board{store: store}
}

func (b *Board) Column(day Day) Column {
	ts := b.store.Filter(day)
	cards := make([]Card, 0, len(ts))
	for _, t := range ts {
		cards = append(cards, NewCard(t))
	}
	return Column{
		Day:   day,
		Title: day.Title(),
		Cards: cards,
		Empty: len(cards) == 0,
	}
}

func (b *Board) Columns() []Column {
	days := Days()
	out := make([]Column, 0, len(days))
	for _, d := range days {
		out = append(out, b.Column(d))
	}
	return out
}

// Drop applies a drag payload released over the target day's column. A blank
// payload or an id no longer on the board is ignored.
func (b *Board) Drop(ctx context.Context, payload string, target Day) (Task, bool, error) {
	id := strings.TrimSpace(payload)
	if id == "" {
		return Task{}, false, nil
	}
	return b.store.Reassign(ctx, id, target)
}

func NewCard(t Task) Card {
	return Card{
		ID:            t.ID,
		Content:       t.Content,
		Day:           t.Day,
		Priority:      t.Priority,
		PriorityClass: PriorityClass(t.Priority),
		DragPayload:   DragPayload(t.ID),
	}
}

// DragPayload is the text/plain value a card puts on the drag on dragstart.
func DragPayload(id string) string {
	return id
}

// PriorityClass maps a priority to the CSS class that colours its badge.
func PriorityClass(p Priority) string {
	switch p {
	case Priority1:
		return "priority-1"
	case Priority2:
		return "priority-2"
	case Priority3:
		return "priority-3"
	case Priority4:
		return "priority-4"
	default:
		return "priority-unknown"
	}
}
