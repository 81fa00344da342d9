package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherDetectsChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SpellEffect.csv")
	if err := os.WriteFile(path, []byte("id_parent,amplitude\n1,3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()
	w.debounce = 50 * time.Millisecond

	changed := make(chan string, 1)
	w.OnChange = func(p string) error {
		select {
		case changed <- p:
		default:
		}
		return nil
	}

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// Give the watch loop time to start before touching the file.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("id_parent,amplitude\n1,3\n2,5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-changed:
		want, _ := filepath.Abs(path)
		if p != want {
			t.Errorf("OnChange path = %q, want %q", p, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("change was not reported")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.csv")
	other := filepath.Join(dir, "other.csv")
	for _, p := range []string{watched, other} {
		if err := os.WriteFile(p, []byte("id\n1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	w, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()
	w.debounce = 50 * time.Millisecond

	changed := make(chan string, 1)
	w.OnChange = func(p string) error {
		select {
		case changed <- p:
		default:
		}
		return nil
	}

	if err := w.Watch(watched); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(other, []byte("id\n1\n2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-changed:
		t.Errorf("unwatched file %q triggered OnChange", p)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatchMissingFile(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	if err := w.Watch(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
