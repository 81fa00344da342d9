// Package config provides layered configuration for the herodbc pipeline.
// Priority: defaults < user file < project file < env < flags.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all herodbc configuration.
type Config struct {
	// Root is the hero-dbc project root; data and output dirs are
	// resolved relative to it unless absolute.
	Root string `yaml:"root"`

	// DataDir holds the CSV extracts produced by the DBC extractor.
	DataDir string `yaml:"data_dir"`

	// OutputDir receives the generated Lua files.
	OutputDir string `yaml:"output_dir"`

	// Tasks lists the generators a bare `generate --all` runs.
	// Empty means every registered task.
	Tasks []string `yaml:"tasks"`

	Cache CacheConfig `yaml:"cache"`
}

// CacheConfig controls the parsed-table cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Backend   string        `yaml:"backend"` // memory | redis
	TTL       time.Duration `yaml:"ttl"`
	MaxTables int           `yaml:"max_tables"`
	Redis     RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis backend settings.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	Database int    `yaml:"database"`
	Prefix   string `yaml:"prefix"`
}

// Default returns the default configuration, matching the hero-dbc
// project layout.
func Default() *Config {
	return &Config{
		Root:      ".",
		DataDir:   filepath.Join("scripts", "DBC", "generated"),
		OutputDir: filepath.Join("HeroDBC", "DBC"),
		Cache: CacheConfig{
			Enabled:   true,
			Backend:   "memory",
			TTL:       5 * time.Minute,
			MaxTables: 16,
			Redis: RedisConfig{
				Address: "localhost:6379",
				Prefix:  "herodbc:tables:",
			},
		},
	}
}

// DataPath resolves a CSV extract name to its full path.
func (c *Config) DataPath(name string) string {
	return c.resolve(c.DataDir, name)
}

// OutputPath resolves a generated Lua file name to its full path.
func (c *Config) OutputPath(name string) string {
	return c.resolve(c.OutputDir, name)
}

func (c *Config) resolve(dir, name string) string {
	if filepath.IsAbs(dir) {
		return filepath.Join(dir, name)
	}
	return filepath.Join(c.Root, dir, name)
}

// Load builds the effective configuration from all sources.
func Load() (*Config, error) {
	cfg := Default()

	for _, path := range configPaths() {
		if err := loadFile(cfg, path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
	}

	loadEnv(cfg)
	return cfg, nil
}

// configPaths returns config file paths in priority order.
func configPaths() []string {
	var paths []string

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".herodbc", "config.yaml"))
	}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".herodbc.yaml"))
	}

	return paths
}

// loadFile merges one config file into cfg.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var partial Config
	if err := yaml.Unmarshal(data, &partial); err != nil {
		return err
	}

	merge(cfg, &partial)
	return nil
}

// merge overlays non-zero values from src.
func merge(dst, src *Config) {
	if src.Root != "" {
		dst.Root = src.Root
	}
	if src.DataDir != "" {
		dst.DataDir = src.DataDir
	}
	if src.OutputDir != "" {
		dst.OutputDir = src.OutputDir
	}
	if len(src.Tasks) > 0 {
		dst.Tasks = src.Tasks
	}

	if src.Cache.Backend != "" {
		dst.Cache.Backend = src.Cache.Backend
	}
	if src.Cache.TTL != 0 {
		dst.Cache.TTL = src.Cache.TTL
	}
	if src.Cache.MaxTables != 0 {
		dst.Cache.MaxTables = src.Cache.MaxTables
	}
	if src.Cache.Redis.Address != "" {
		dst.Cache.Redis.Address = src.Cache.Redis.Address
	}
	if src.Cache.Redis.Password != "" {
		dst.Cache.Redis.Password = src.Cache.Redis.Password
	}
	if src.Cache.Redis.Database != 0 {
		dst.Cache.Redis.Database = src.Cache.Redis.Database
	}
	if src.Cache.Redis.Prefix != "" {
		dst.Cache.Redis.Prefix = src.Cache.Redis.Prefix
	}
}

// loadEnv overlays HERODBC_* environment variables.
func loadEnv(cfg *Config) {
	if v := os.Getenv("HERODBC_ROOT"); v != "" {
		cfg.Root = v
	}
	if v := os.Getenv("HERODBC_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("HERODBC_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("HERODBC_CACHE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Cache.Enabled = b
		}
	}
	if v := os.Getenv("HERODBC_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("HERODBC_REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Address = v
	}
}
