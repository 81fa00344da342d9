package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshjau/hero-dbc/pkg/config"
	herr "github.com/joshjau/hero-dbc/pkg/errors"
	"github.com/joshjau/hero-dbc/pkg/luagen"
	"github.com/joshjau/hero-dbc/pkg/tasks"
	"github.com/joshjau/hero-dbc/pkg/tui"
)

var allTasks bool

var generateCmd = &cobra.Command{
	Use:   "generate [task...]",
	Short: "Generate Lua tables from the CSV extracts",
	Long: `Run one or more generator tasks. With no arguments (or --all) every
configured task runs and per-task failures are reported at the end.

Examples:
  herodbc generate ticktime
  herodbc generate gcd duration
  herodbc generate --all
  herodbc generate --all --root ../hero-dbc`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&allTasks, "all", false, "Run every configured task")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var selected []tasks.Task
	if allTasks {
		selected = tasks.All()
	} else {
		selected, err = selectTasks(cfg, args)
		if err != nil {
			return err
		}
	}

	store := openCache(cfg)
	if store != nil {
		defer store.Close()
	}

	src := tasks.NewSource(cfg, store)
	src.Quiet = quiet

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	var merr herr.MultiError
	var reports []tui.Report

	for _, task := range selected {
		report := runTask(ctx, src, cfg, task)
		reports = append(reports, report)
		if report.Err != nil {
			// A single explicit task fails fast; a batch keeps going so
			// one broken extract does not hide the rest.
			if len(selected) == 1 {
				return report.Err
			}
			merr.Add(fmt.Errorf("%s: %w", task.Name(), report.Err))
		}
	}

	if len(selected) > 1 && !quiet {
		tui.PrintRunReport(reports, time.Since(start))
	}

	return merr.Combined()
}

// selectTasks resolves the task set for a run. No arguments means the
// configured task list, or every registered task when none is set.
func selectTasks(cfg *config.Config, args []string) ([]tasks.Task, error) {
	names := args
	if len(names) == 0 {
		names = cfg.Tasks
	}
	if len(names) == 0 {
		return tasks.All(), nil
	}

	selected := make([]tasks.Task, 0, len(names))
	for _, name := range names {
		task, err := tasks.Get(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, task)
	}
	return selected, nil
}

// runTask builds one table and writes it out.
func runTask(ctx context.Context, src *tasks.Source, cfg *config.Config, task tasks.Task) tui.Report {
	start := time.Now()
	report := tui.Report{Task: task.Name()}

	res, err := task.Build(ctx, src)
	if err != nil {
		report.Err = err
		return report
	}

	out := cfg.OutputPath(task.Output())
	if err := luagen.WriteFile(out, res.Table); err != nil {
		report.Err = err
		return report
	}

	if !quiet {
		for _, note := range res.Notes {
			tui.Mutedf("%s", note)
		}
		tui.Successf("Wrote %d entries to %s", len(res.Table.Entries), out)
	}

	report.Entries = len(res.Table.Entries)
	report.Output = out
	report.Duration = time.Since(start)
	return report
}
