package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tigre/pkg/config"
	"tigre/pkg/protocol"
	"tigre/pkg/symbols"
)

func seedUnlocked(t *testing.T, cfg *config.Config, ids ...symbols.ID) {
	t.Helper()
	backend, err := openBackend(context.Background(), cfg)
	if err != nil {
		t.Fatalf("openBackend: %v", err)
	}
	defer backend.Close()
	if err := symbols.SaveUnlocked(context.Background(), backend, symbols.NewSet(ids...)); err != nil {
		t.Fatalf("SaveUnlocked: %v", err)
	}
}

func TestTailCmd(t *testing.T) {
	t.Run("empty tail", func(t *testing.T) {
		a, _ := newTestApp(t, config.StorageFile)
		out, err := run(t, a, "tail")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Your tail is empty") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("unlock order", func(t *testing.T) {
		a, cfg := newTestApp(t, config.StorageFile)
		seedUnlocked(t, cfg, symbols.Consistency, symbols.Fortaleza)

		out, err := run(t, a, "tail")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		first := strings.Index(out, "CONSISTENCY")
		second := strings.Index(out, "FORTALEZA")
		if first < 0 || second < 0 || first > second {
			t.Errorf("expected CONSISTENCY before FORTALEZA:\n%s", out)
		}
	})

	t.Run("corrupt state reads as empty", func(t *testing.T) {
		a, cfg := newTestApp(t, config.StorageFile)
		if err := os.MkdirAll(cfg.FilesDir(), 0o750); err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(cfg.FilesDir(), protocol.UnlockedSymbolsKey+".json")
		if err := os.WriteFile(path, []byte("{{{"), 0o600); err != nil {
			t.Fatal(err)
		}

		out, err := run(t, a, "tail")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Your tail is empty") {
			t.Errorf("unexpected output %q", out)
		}
	})
}

func TestSymbolCmd(t *testing.T) {
	a, cfg := newTestApp(t, config.StorageFile)
	seedUnlocked(t, cfg, symbols.Consistency)

	tests := []struct {
		name string
		arg  string
		want []string
	}{
		{name: "unlocked", arg: "consistency", want: []string{"📈", "status: unlocked"}},
		{name: "locked", arg: "FORTALEZA", want: []string{"🧱", "status: locked"}},
		{name: "dashes", arg: "seed-of-courage", want: []string{"🌱"}},
		{name: "unknown", arg: "dragon", want: []string{"symbol dragon not found"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, a, "symbol", tt.arg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}
