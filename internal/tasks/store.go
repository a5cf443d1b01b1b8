package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/s1natex/dayboard/internal/slot"
)

// maxIDAttempts bounds re-draws when a generator hands out an id already on
// the board.
const maxIDAttempts = 8

var errIDExhausted = errors.New("id generator keeps returning ids already in use")

// Store owns the task collection and writes all of it to the slot after every
// change. Mutations are serialized; readers get copies.
type Store struct {
	mu     sync.Mutex
	slot   slot.Slot
	ids    IDGenerator
	logger *slog.Logger
	tracer trace.Tracer
	tasks  []Task
}

func NewStore(s slot.Slot, ids IDGenerator, logger *slog.Logger) *Store {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		slot:   s,
		ids:    ids,
		logger: logger,
		tracer: otel.Tracer("dayboard/tasks"),
		tasks:  []Task{},
	}
}

// Hydrate replaces the in-memory collection with whatever the slot holds. An
// empty slot means an empty board. A value that does not decode is logged and
// treated as empty so the board still starts; only a failing slot read is
// returned.
func (s *Store) Hydrate(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "store.hydrate")
	defer span.End()

	raw, err := s.slot.Load(ctx)
	if errors.Is(err, slot.ErrEmpty) {
		s.logger.Debug("store_hydrate_empty")
		s.replace(nil)
		return nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return fmt.Errorf("load tasks: %w", err)
	}

	loaded, err := s.decode(raw)
	if err != nil {
		storeHydrateFailures.Inc()
		s.logger.Warn("store_hydrate_malformed",
			slog.String("error", err.Error()),
			slog.Int("bytes", len(raw)),
		)
		loaded = nil
	}
	s.replace(loaded)
	span.SetAttributes(attribute.Int("tasks.count", len(loaded)))
	s.logger.Info("store_hydrated", slog.Int("tasks", len(loaded)))
	return nil
}

// decode accepts a JSON array of task records, dropping individual records
// that are unusable rather than rejecting the whole value.
func (s *Store) decode(raw []byte) ([]Task, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}

	out := make([]Task, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		var t Task
		if err := json.Unmarshal(rec, &t); err != nil {
			s.dropRecord(i, "undecodable", err.Error())
			continue
		}
		t.Content = strings.TrimSpace(t.Content)
		switch {
		case t.ID == "":
			s.dropRecord(i, "missing_id", "")
			continue
		case t.Content == "":
			s.dropRecord(i, "empty_content", t.ID)
			continue
		case !t.Day.Valid():
			s.dropRecord(i, "invalid_day", string(t.Day))
			continue
		case !t.Priority.Valid():
			s.dropRecord(i, "invalid_priority", string(t.Priority))
			continue
		}
		if _, dup := seen[t.ID]; dup {
			s.dropRecord(i, "duplicate_id", t.ID)
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) dropRecord(index int, reason, detail string) {
	s.logger.Warn("store_hydrate_record_dropped",
		slog.Int("index", index),
		slog.String("reason", reason),
		slog.String("detail", detail),
	)
}

func (s *Store) replace(ts []Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ts == nil {
		ts = []Task{}
	}
	s.tasks = ts
	s.refreshGauge()
}

// Create appends a task built from the given fields. Blank content is a no-op
// and reports created=false with a nil error.
func (s *Store) Create(ctx context.Context, content string, day Day, priority Priority) (Task, bool, error) {
	ctx, span := s.tracer.Start(ctx, "store.create")
	defer span.End()

	content = strings.TrimSpace(content)
	if content == "" {
		storeMutationsTotal.WithLabelValues("create", resultNoop).Inc()
		return Task{}, false, nil
	}
	if !day.Valid() {
		return Task{}, false, fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}
	if !priority.Valid() {
		return Task{}, false, fmt.Errorf("%w: %q", ErrInvalidPriority, priority)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.freshID()
	if err != nil {
		return Task{}, false, s.fail(span, "create", err)
	}
	t := Task{ID: id, Content: content, Day: day, Priority: priority}

	prev := s.tasks
	s.tasks = append(slices.Clip(prev), t)
	if err := s.persist(ctx); err != nil {
		s.tasks = prev
		return Task{}, false, s.fail(span, "create", err)
	}

	span.SetAttributes(attribute.String("task.id", t.ID))
	storeMutationsTotal.WithLabelValues("create", resultApplied).Inc()
	return t, true, nil
}

// Delete removes the task with the given id. Unknown ids are a no-op.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "store.delete", trace.WithAttributes(attribute.String("task.id", id)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		storeMutationsTotal.WithLabelValues("delete", resultNoop).Inc()
		return false, nil
	}

	prev := s.tasks
	s.tasks = slices.Delete(slices.Clone(prev), i, i+1)
	if err := s.persist(ctx); err != nil {
		s.tasks = prev
		return false, s.fail(span, "delete", err)
	}

	storeMutationsTotal.WithLabelValues("delete", resultApplied).Inc()
	return true, nil
}

// Reassign moves the task with the given id to day, keeping its position in
// the collection. Unknown ids are a no-op.
func (s *Store) Reassign(ctx context.Context, id string, day Day) (Task, bool, error) {
	ctx, span := s.tracer.Start(ctx, "store.reassign", trace.WithAttributes(
		attribute.String("task.id", id),
		attribute.String("task.day", string(day)),
	))
	defer span.End()

	if !day.Valid() {
		return Task{}, false, fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		storeMutationsTotal.WithLabelValues("reassign", resultNoop).Inc()
		return Task{}, false, nil
	}

	prev := s.tasks
	next := slices.Clone(prev)
	next[i].Day = day
	s.tasks = next
	if err := s.persist(ctx); err != nil {
		s.tasks = prev
		return Task{}, false, s.fail(span, "reassign", err)
	}

	storeMutationsTotal.WithLabelValues("reassign", resultApplied).Inc()
	return next[i], true, nil
}

// List returns a copy of the collection in its current order.
func (s *Store) List() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

// Filter returns the tasks planned for day, in collection order.
func (s *Store) Filter(day Day) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []Task{}
	for _, t := range s.tasks {
		if t.Day == day {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) Get(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// caller holds s.mu
func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

// caller holds s.mu
func (s *Store) freshID() (string, error) {
	for range maxIDAttempts {
		id := s.ids.NewID()
		if id != "" && s.indexOf(id) < 0 {
			return id, nil
		}
	}
	return "", errIDExhausted
}

// persist writes the whole collection; caller holds s.mu.
func (s *Store) persist(ctx context.Context) error {
	data, err := json.Marshal(s.tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.slot.Save(ctx, data); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	s.refreshGauge()
	return nil
}

// caller holds s.mu
func (s *Store) refreshGauge() {
	for _, d := range Days() {
		n := 0
		for _, t := range s.tasks {
			if t.Day == d {
				n++
			}
		}
		storeTasks.WithLabelValues(string(d)).Set(float64(n))
	}
}

func (s *Store) fail(span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, op+" failed")
	storeMutationsTotal.WithLabelValues(op, resultError).Inc()
	s.logger.Error("store_mutation_failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	return err
}
