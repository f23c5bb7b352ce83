// Package config holds all plugin configuration.
//
// Settings load from a YAML file with environment overrides on top,
// mirroring how the host framework hands user settings to its plugins.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"dragonplug/internal/logging"
)

// KernelName is the cross-section kernel this plugin serves. The solve
// hook only registers when the host selects it.
const KernelName = "DRAGON"

// Config is the root configuration object.
type Config struct {
	// XsKernel selects the lattice physics kernel. The plugin is inert
	// unless this equals KernelName.
	XsKernel string `yaml:"xs_kernel"`

	Dragon    DragonConfig    `yaml:"dragon"`
	Execution ExecutionConfig `yaml:"execution"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   logging.Config  `yaml:"logging"`
}

// DragonConfig configures deck generation and the external code itself.
type DragonConfig struct {
	// ExePath locates the DRAGON executable (bare name = resolve on PATH).
	ExePath string `yaml:"exe_path"`

	// DataPath is the DRAGLIB nuclear data file.
	DataPath string `yaml:"data_path"`

	// GroupStructure names a built-in energy group structure. Ignored when
	// GroupBounds is set explicitly.
	GroupStructure string `yaml:"group_structure"`

	// GroupBounds are explicit group boundaries in eV, used verbatim.
	GroupBounds []float64 `yaml:"group_bounds"`

	// CriticalBuckling selects the buckling-search flux solution.
	CriticalBuckling bool `yaml:"critical_buckling"`
}

// ExecutionConfig configures how solve subprocesses run.
type ExecutionConfig struct {
	// WorkRoot is the directory under which each invocation gets its own
	// private working directory. Empty = os.TempDir().
	WorkRoot string `yaml:"work_root"`

	// Timeout per subprocess, e.g. "30m". Empty = no timeout.
	Timeout string `yaml:"timeout"`

	// MaxParallel bounds concurrent solve requests. <= 0 = unbounded.
	MaxParallel int `yaml:"max_parallel"`

	// KeepWorkDir preserves per-invocation directories for debugging.
	KeepWorkDir bool `yaml:"keep_work_dir"`
}

// CacheConfig configures the output cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // sqlite file; empty = work_root/dragon-cache.db
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		XsKernel: KernelName,
		Dragon: DragonConfig{
			ExePath:        "dragon",
			DataPath:       "draglibendfb7r1SHEM361",
			GroupStructure: "ANL33",
		},
		Execution: ExecutionConfig{
			Timeout:     "1h",
			MaxParallel: 4,
		},
	}
}

// Load reads a config file and applies environment overrides. A missing
// file yields defaults plus overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides lets the environment win over the file, which is how
// batch schedulers usually inject machine-local paths.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DRAGONPLUG_EXE_PATH"); v != "" {
		c.Dragon.ExePath = v
	}
	if v := os.Getenv("DRAGONPLUG_DATA_PATH"); v != "" {
		c.Dragon.DataPath = v
	}
	if v := os.Getenv("DRAGONPLUG_WORK_ROOT"); v != "" {
		c.Execution.WorkRoot = v
	}
	if v := os.Getenv("DRAGONPLUG_MAX_PARALLEL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Execution.MaxParallel = n
		}
	}
}

// SubprocessTimeout parses the execution timeout. Empty or unparsable
// means no timeout.
func (c *Config) SubprocessTimeout() time.Duration {
	if c.Execution.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Execution.Timeout)
	if err != nil {
		return 0
	}
	return d
}
