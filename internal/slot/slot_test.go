package slot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTempSQLite(t *testing.T) *SQLiteSlot {
	t.Helper()
	dir := t.TempDir()
	dsn, err := SQLiteFileDSN(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("dsn error: %v", err)
	}
	s, err := NewSQLiteSlot(dsn, "")
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.ApplyMigrations(context.Background()); err != nil {
		t.Fatalf("migrate error: %v", err)
	}
	return s
}

func exerciseSlot(t *testing.T, s Slot) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Load(ctx); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty on fresh slot, got %v", err)
	}

	if err := s.Save(ctx, []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := s.Save(ctx, []byte(`[]`)); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != `[]` {
		t.Fatalf("expected last write to win, got %q", got)
	}
}

func TestSQLiteSlot_SaveOverwrites(t *testing.T) {
	exerciseSlot(t, newTempSQLite(t))
}

func TestFileSlot_SaveOverwrites(t *testing.T) {
	s, err := NewFileSlot(filepath.Join(t.TempDir(), "nested", "tasks.json"))
	if err != nil {
		t.Fatalf("new file slot: %v", err)
	}
	exerciseSlot(t, s)

	if _, err := os.Stat(s.path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file should be renamed away, stat err=%v", err)
	}
}

func TestMemorySlot_SaveOverwrites(t *testing.T) {
	exerciseSlot(t, NewMemorySlot())
}

func TestMemorySlot_LoadReturnsCopy(t *testing.T) {
	s := NewMemorySlot()
	ctx := context.Background()
	_ = s.Save(ctx, []byte("abc"))

	got, _ := s.Load(ctx)
	got[0] = 'x'

	again, _ := s.Load(ctx)
	if string(again) != "abc" {
		t.Fatalf("stored value was mutated through Load result: %q", again)
	}
}

func TestSQLiteSlot_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "board.db")

	first, err := Open(ctx, Options{Driver: DriverSQLite, Path: path, Key: "tasks"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Save(ctx, []byte(`["kept"]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = first.Close()

	second, err := Open(ctx, Options{Driver: DriverSQLite, Path: path, Key: "tasks"})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	got, err := second.Load(ctx)
	if err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	if string(got) != `["kept"]` {
		t.Fatalf("unexpected value after reopen: %q", got)
	}
}

func TestSQLiteSlot_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "board.db")

	a, err := Open(ctx, Options{Driver: DriverSQLite, Path: path, Key: "a"})
	if err != nil {
		t.Fatalf("open a: %v", err)
	}
	defer a.Close()
	if err := a.Save(ctx, []byte("A")); err != nil {
		t.Fatalf("save a: %v", err)
	}

	b, err := Open(ctx, Options{Driver: DriverSQLite, Path: path, Key: "b"})
	if err != nil {
		t.Fatalf("open b: %v", err)
	}
	defer b.Close()
	if _, err := b.Load(ctx); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected key b to be empty, got %v", err)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Options{Driver: "redis"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
