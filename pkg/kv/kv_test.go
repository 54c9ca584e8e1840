package kv_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tigre/pkg/kv"

	_ "modernc.org/sqlite"
)

// newMemorySQLite opens an in-memory SQLite kv store. The pool is pinned to one
// connection because every :memory: connection is a separate database.
func newMemorySQLite(t *testing.T) *kv.SQLite {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	s, err := kv.NewSQLite(context.Background(), db)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	return s
}

func backends(t *testing.T) map[string]kv.Backend {
	t.Helper()
	return map[string]kv.Backend{
		"memory": kv.NewMemory(),
		"files":  kv.NewFiles(filepath.Join(t.TempDir(), "state")),
		"sqlite": newMemorySQLite(t),
	}
}

func TestBackend_GetMissing(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			v, ok, err := b.Get(context.Background(), "events")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if ok || v != nil {
				t.Errorf("Get on empty backend = (%q, %v), want (nil, false)", v, ok)
			}
		})
	}
}

func TestBackend_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := b.Put(ctx, "events", []byte(`[1]`)); err != nil {
				t.Fatalf("first Put: %v", err)
			}
			if err := b.Put(ctx, "events", []byte(`[1,2]`)); err != nil {
				t.Fatalf("second Put: %v", err)
			}
			v, ok, err := b.Get(ctx, "events")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if !ok || string(v) != `[1,2]` {
				t.Errorf("Get = (%q, %v), want ([1,2], true)", v, ok)
			}
		})
	}
}

func TestBackend_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := b.Put(ctx, "events", []byte(`[]`)); err != nil {
				t.Fatalf("Put events: %v", err)
			}
			if err := b.Put(ctx, "unlocked_symbols", []byte(`["CONSISTENCY"]`)); err != nil {
				t.Fatalf("Put unlocked: %v", err)
			}
			v, _, err := b.Get(ctx, "events")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(v) != `[]` {
				t.Errorf("events = %q, want []", v)
			}
		})
	}
}

func TestOpenSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "state.db")

	s, err := kv.OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := s.Put(ctx, "unlocked_symbols", []byte(`["FORTALEZA"]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := kv.OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	v, ok, err := reopened.Get(ctx, "unlocked_symbols")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || string(v) != `["FORTALEZA"]` {
		t.Errorf("Get after reopen = (%q, %v)", v, ok)
	}
}

func TestFiles_LeavesNoTempFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	f := kv.NewFiles(dir)
	for i := 0; i < 3; i++ {
		if err := f.Put(context.Background(), "events", []byte(`[]`)); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file, got %d", len(entries))
	}
	if name := entries[0].Name(); name != "events.json" || strings.HasSuffix(name, ".tmp") {
		t.Errorf("unexpected file %q", name)
	}
}
