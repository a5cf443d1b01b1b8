package tasks

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDay      = errors.New("invalid day")
	ErrInvalidPriority = errors.New("invalid priority")
)

// Day is the bucket a task is planned for.
type Day string

const (
	Today    Day = "Today"
	Tomorrow Day = "Tomorrow"
)

const DefaultDay = Today

// Days returns the buckets in board order.
func Days() []Day {
	return []Day{Today, Tomorrow}
}

func ParseDay(s string) (Day, error) {
	d := Day(strings.TrimSpace(s))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return d, nil
}

func (d Day) Valid() bool {
	return d == Today || d == Tomorrow
}

// Title is the column heading shown on the board.
func (d Day) Title() string {
	return string(d) + "'s Tasks"
}

// Priority is an urgency level from "1" (most urgent) to "4".
type Priority string

const (
	Priority1 Priority = "1"
	Priority2 Priority = "2"
	Priority3 Priority = "3"
	Priority4 Priority = "4"
)

const DefaultPriority = Priority1

func Priorities() []Priority {
	return []Priority{Priority1, Priority2, Priority3, Priority4}
}

func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.TrimSpace(s))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}

func (p Priority) Valid() bool {
	switch p {
	case Priority1, Priority2, Priority3, Priority4:
		return true
	}
	return false
}

// Task is the stored shape; field names match the persisted JSON records.
type Task struct {
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	Day      Day      `json:"day"`
	Priority Priority `json:"priority"`
}
