// herodbc converts SimulationCraft DBC CSV extracts into the Lua data
// tables shipped with the HeroDBC addon.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joshjau/hero-dbc/pkg/cache"
	"github.com/joshjau/hero-dbc/pkg/config"
	"github.com/joshjau/hero-dbc/pkg/tasks"
	"github.com/joshjau/hero-dbc/pkg/tui"
)

var (
	version = "1.0.0"
	commit  = "dev"
)

// CLI flags
var (
	rootDir   string
	dataDir   string
	outputDir string
	noCache   bool
	quiet     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "herodbc",
	Short: "Generate HeroDBC Lua tables from DBC CSV extracts",
	Long: `herodbc turns the CSV extracts produced by the SimulationCraft DBC
extractor into the generated Lua lookup tables the HeroDBC addon ships.

Paths default to the hero-dbc project layout (scripts/DBC/generated for
extracts, HeroDBC/DBC for output) relative to the project root.`,
	Version:       fmt.Sprintf("%s (%s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List registered generator tasks",
	RunE:  runTasks,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "hero-dbc project root (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory containing the CSV extracts")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "Directory for generated Lua files")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Bypass the parsed-table cache")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress status output and progress bars")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
}

// loadConfig builds the effective configuration, with flags on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if rootDir != "" {
		cfg.Root = rootDir
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	return cfg, nil
}

// openCache creates the configured cache backend, or nil when disabled.
// A dead Redis degrades to the in-process cache rather than failing the
// run; the cache never affects output.
func openCache(cfg *config.Config) cache.Store {
	if noCache || !cfg.Cache.Enabled {
		return nil
	}

	if cfg.Cache.Backend == "redis" {
		rcfg := cache.DefaultRedisConfig(cfg.Cache.Redis.Address)
		rcfg.Password = cfg.Cache.Redis.Password
		rcfg.Database = cfg.Cache.Redis.Database
		if cfg.Cache.Redis.Prefix != "" {
			rcfg.Prefix = cfg.Cache.Redis.Prefix
		}
		rcfg.TTL = cfg.Cache.TTL

		store, err := cache.NewRedis(rcfg)
		if err != nil {
			if !quiet {
				tui.Warnf("Redis cache unavailable, using in-process cache: %v", err)
			}
			return cache.NewMemory(cfg.Cache.MaxTables, cfg.Cache.TTL)
		}
		return store
	}

	return cache.NewMemory(cfg.Cache.MaxTables, cfg.Cache.TTL)
}

// signalContext returns a context canceled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted, cleaning up...")
		cancel()
	}()

	return ctx, cancel
}

func runTasks(cmd *cobra.Command, args []string) error {
	var rows []tui.TaskRow
	for _, t := range tasks.All() {
		rows = append(rows, tui.TaskRow{
			Name:   t.Name(),
			Title:  t.Title(),
			Inputs: t.Inputs(),
			Output: t.Output(),
		})
	}
	tui.PrintTaskTable(rows)
	return nil
}
