// Package logging provides categorized logging for the plugin.
// Each subsystem logs under its own category so a run log can be filtered
// per concern; categories can be silenced individually from configuration.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a logging subsystem.
type Category string

const (
	CategoryRender  Category = "render"  // deck generation
	CategoryExecute Category = "execute" // subprocess invocation
	CategoryCache   Category = "cache"   // output cache hits/misses
	CategoryPlugin  Category = "plugin"  // registration and solve hooks
	CategoryConfig  Category = "config"  // settings loading and validation
)

// Config controls the logger build. Zero value = quiet production logging
// to stderr with every category enabled.
type Config struct {
	Debug      bool            `yaml:"debug"`
	File       string          `yaml:"file"`       // optional log file; empty = stderr
	Categories map[string]bool `yaml:"categories"` // nil = all enabled; false silences
}

var (
	mu   sync.RWMutex
	root = zap.NewNop()
	cfg  Config
)

// Init builds the process-wide logger. Safe to call more than once; the
// last call wins.
func Init(c Config) error {
	zc := zap.NewProductionConfig()
	if c.Debug {
		zc = zap.NewDevelopmentConfig()
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if c.File != "" {
		zc.OutputPaths = []string{c.File}
		zc.ErrorOutputPaths = []string{c.File}
	}
	logger, err := zc.Build()
	if err != nil {
		return err
	}

	mu.Lock()
	root = logger
	cfg = c
	mu.Unlock()
	return nil
}

// For returns the sugared logger for a category. Disabled categories get a
// no-op logger, so call sites never need to check configuration.
func For(cat Category) *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	if cfg.Categories != nil {
		if enabled, ok := cfg.Categories[string(cat)]; ok && !enabled {
			return zap.NewNop().Sugar()
		}
	}
	return root.Named(string(cat)).Sugar()
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}
