package main

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joshjau/hero-dbc/pkg/tasks"
	"github.com/joshjau/hero-dbc/pkg/tui"
	"github.com/joshjau/hero-dbc/pkg/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [task...]",
	Short: "Regenerate Lua tables whenever their extracts change",
	Long: `Generate the selected tasks once, then keep watching their CSV
extracts and regenerate the dependent tables on every change. Stops on
Ctrl-C.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	selected, err := selectTasks(cfg, args)
	if err != nil {
		return err
	}

	store := openCache(cfg)
	if store != nil {
		defer store.Close()
	}

	src := tasks.NewSource(cfg, store)
	src.Quiet = quiet

	ctx, cancel := signalContext()
	defer cancel()

	// Map each extract to the tasks that consume it.
	byInput := make(map[string][]tasks.Task)
	for _, task := range selected {
		for _, input := range task.Inputs() {
			path, err := filepath.Abs(cfg.DataPath(input))
			if err != nil {
				return err
			}
			byInput[path] = append(byInput[path], task)
		}
	}

	// Initial full generation so the outputs start in sync.
	for _, task := range selected {
		if report := runTask(ctx, src, cfg, task); report.Err != nil {
			return report.Err
		}
	}

	w, err := watch.New()
	if err != nil {
		return err
	}
	defer w.Close()

	for path := range byInput {
		if err := w.Watch(path); err != nil {
			return err
		}
	}

	w.OnChange = func(path string) error {
		tui.Infof("Change detected: %s", path)
		for _, task := range byInput[path] {
			if report := runTask(ctx, src, cfg, task); report.Err != nil {
				return report.Err
			}
		}
		return nil
	}
	w.OnError = func(path string, err error) {
		tui.Errorf("watch error: %s: %v", path, err)
	}

	if !quiet {
		tui.Infof("Watching %d extracts for %d tasks (Ctrl-C to stop)", len(byInput), len(selected))
	}

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
