// Package tasks holds the Lua table generators. Each task reads one or
// more CSV extracts through a shared Source and produces a luagen.Table
// ready for serialization.
package tasks

import (
	"context"

	"github.com/schollz/progressbar/v3"

	"github.com/joshjau/hero-dbc/pkg/cache"
	"github.com/joshjau/hero-dbc/pkg/config"
	"github.com/joshjau/hero-dbc/pkg/dbc"
	"github.com/joshjau/hero-dbc/pkg/luagen"
	"github.com/joshjau/hero-dbc/pkg/tui"
)

// Task is one generator in the pipeline.
type Task interface {
	// Name is the CLI identifier, e.g. "ticktime".
	Name() string

	// Title is the generated Lua table name, e.g. "SpellTickTime".
	Title() string

	// Inputs lists the CSV extract file names the task reads.
	Inputs() []string

	// Output is the generated Lua file name.
	Output() string

	// Build runs the transform.
	Build(ctx context.Context, src *Source) (*Result, error)
}

// Result is the outcome of a task build.
type Result struct {
	Table *luagen.Table

	// Notes are informational lines printed after the task, such as
	// aggregate statistics.
	Notes []string
}

// Source loads CSV extracts for tasks, consulting the table cache when
// one is configured.
type Source struct {
	cfg   *config.Config
	store cache.Store

	// Quiet suppresses status lines and progress bars.
	Quiet bool
}

// NewSource creates a Source. store may be nil to disable caching.
func NewSource(cfg *config.Config, store cache.Store) *Source {
	return &Source{cfg: cfg, store: store}
}

// Load reads one extract, projected to the given columns.
func (s *Source) Load(ctx context.Context, file string, required, optional []string) (*dbc.Table, error) {
	path := s.cfg.DataPath(file)

	var key string
	if s.store != nil {
		if k, err := cache.Key(path, required, optional); err == nil {
			key = k
			if t, ok := s.store.Get(ctx, key); ok {
				return t, nil
			}
		}
	}

	if !s.Quiet {
		tui.Infof("Loading %s...", file)
	}
	t, err := dbc.LoadFile(ctx, path, required, optional)
	if err != nil {
		return nil, err
	}

	if s.store != nil && key != "" {
		s.store.Put(ctx, key, t)
	}
	return t, nil
}

// Progress starts a row progress bar, or a no-op handle when quiet.
func (s *Source) Progress(description string, total int) *Progress {
	if s.Quiet {
		return &Progress{}
	}
	return &Progress{bar: tui.RowProgress(int64(total), description)}
}

// Progress is a nil-safe progress bar handle.
type Progress struct {
	bar *progressbar.ProgressBar
}

// Tick advances the bar by one row.
func (p *Progress) Tick() {
	if p.bar != nil {
		p.bar.Add(1)
	}
}

// Done finishes and clears the bar.
func (p *Progress) Done() {
	if p.bar != nil {
		p.bar.Finish()
	}
}
