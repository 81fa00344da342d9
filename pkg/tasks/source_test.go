package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joshjau/hero-dbc/pkg/cache"
	"github.com/joshjau/hero-dbc/pkg/config"
)

func TestSourceLoadUsesCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SpellEffect.csv")
	if err := os.WriteFile(path, []byte("id_parent,amplitude\n10,3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.DataDir = dir
	store := cache.NewMemory(4, time.Minute)
	src := NewSource(cfg, store)
	src.Quiet = true

	ctx := context.Background()
	first, err := src.Load(ctx, "SpellEffect.csv", []string{"id_parent", "amplitude"}, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	second, err := src.Load(ctx, "SpellEffect.csv", []string{"id_parent", "amplitude"}, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if second != first {
		t.Error("second load did not hit the cache")
	}

	hits, _ := store.Stats()
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
}

func TestSourceLoadRereadsChangedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SpellEffect.csv")
	if err := os.WriteFile(path, []byte("id_parent,amplitude\n10,3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.DataDir = dir
	src := NewSource(cfg, cache.NewMemory(4, time.Minute))
	src.Quiet = true

	ctx := context.Background()
	if _, err := src.Load(ctx, "SpellEffect.csv", []string{"id_parent"}, nil); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Rewrite with a different mtime so the cache key changes.
	if err := os.WriteFile(path, []byte("id_parent,amplitude\n10,3\n20,5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	tbl, err := src.Load(ctx, "SpellEffect.csv", []string{"id_parent"}, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2 after reload", tbl.Len())
	}
}

func TestSourceLoadWithoutCache(t *testing.T) {
	src := newTestSource(t, map[string]string{
		"SpellEffect.csv": "id_parent,amplitude\n10,3\n",
	})

	tbl, err := src.Load(context.Background(), "SpellEffect.csv", []string{"id_parent"}, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tbl.Len())
	}
}
