package main

import (
	"fmt"

	"github.com/spf13/cobra"

	herr "github.com/joshjau/hero-dbc/pkg/errors"
	"github.com/joshjau/hero-dbc/pkg/luacheck"
	"github.com/joshjau/hero-dbc/pkg/tasks"
	"github.com/joshjau/hero-dbc/pkg/tui"
)

var checkCmd = &cobra.Command{
	Use:   "check [lua-file...]",
	Short: "Validate generated Lua files in an embedded Lua VM",
	Long: `Load each generated file in a Lua interpreter with a stub HeroDBC
namespace and verify it returns a table. With no arguments, every
registered task's output file is checked.

Examples:
  herodbc check
  herodbc check HeroDBC/DBC/SpellTickTime.lua`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		for _, t := range tasks.All() {
			paths = append(paths, cfg.OutputPath(t.Output()))
		}
	}

	var merr herr.MultiError
	for _, path := range paths {
		count, err := luacheck.VerifyFile(path)
		if err != nil {
			merr.Add(fmt.Errorf("%s: %w", path, err))
			tui.Errorf("✗ %s: %v", path, err)
			continue
		}
		tui.Successf("✓ %s: table with %d entries", path, count)
	}

	return merr.Combined()
}
