package plugin

import (
	"context"
	"fmt"
	"sync"

	"dragonplug/internal/cache"
	"dragonplug/internal/deck"
	"dragonplug/internal/executor"
)

// WriterFunc renders a deck from mixtures and run options.
type WriterFunc func(mixtures []deck.Mixture, opts deck.Options) ([]byte, error)

// Executer runs a rendered deck through the external code.
type Executer interface {
	Run(ctx context.Context, deckPath string) (*executor.Result, error)
}

// ExecuterFunc constructs an Executer for one solve invocation.
type ExecuterFunc func(opts executor.Options, c *cache.Cache) Executer

// Factory holds the writer/executer registrations, keyed by kernel name.
// Design-specific applications register their own specializations under
// their own key and point the factory at it; the stock DRAGON components
// stay available under the default key. Thread-safe.
type Factory struct {
	mu        sync.RWMutex
	writers   map[string]WriterFunc
	executers map[string]ExecuterFunc
	key       string
}

// NewFactory returns an empty factory with no active key.
func NewFactory() *Factory {
	return &Factory{
		writers:   make(map[string]WriterFunc),
		executers: make(map[string]ExecuterFunc),
	}
}

// SetKey selects which registrations subsequent Make calls use.
func (f *Factory) SetKey(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.key = key
}

// RegisterWriter adds a deck writer under a key. Duplicate registration
// is an error: silently replacing a physics component is how wrong cross
// sections happen.
func (f *Factory) RegisterWriter(key string, w WriterFunc) error {
	if w == nil {
		return fmt.Errorf("nil writer for key %q", key)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.writers[key]; exists {
		return fmt.Errorf("writer already registered for key %q", key)
	}
	f.writers[key] = w
	return nil
}

// RegisterExecuter adds an executer constructor under a key.
func (f *Factory) RegisterExecuter(key string, e ExecuterFunc) error {
	if e == nil {
		return fmt.Errorf("nil executer for key %q", key)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.executers[key]; exists {
		return fmt.Errorf("executer already registered for key %q", key)
	}
	f.executers[key] = e
	return nil
}

// Clone copies the active key's registrations to a new key, the starting
// point for an application that only overrides one component.
func (f *Factory) Clone(newKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, okW := f.writers[f.key]
	e, okE := f.executers[f.key]
	if !okW || !okE {
		return fmt.Errorf("active key %q has incomplete registrations", f.key)
	}
	if _, exists := f.writers[newKey]; exists {
		return fmt.Errorf("key %q already registered", newKey)
	}
	f.writers[newKey] = w
	f.executers[newKey] = e
	return nil
}

// MakeWriter returns the active writer.
func (f *Factory) MakeWriter() (WriterFunc, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	w, ok := f.writers[f.key]
	if !ok {
		return nil, fmt.Errorf("no writer registered for key %q", f.key)
	}
	return w, nil
}

// MakeExecuter builds an executer for one invocation.
func (f *Factory) MakeExecuter(opts executor.Options, c *cache.Cache) (Executer, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	e, ok := f.executers[f.key]
	if !ok {
		return nil, fmt.Errorf("no executer registered for key %q", f.key)
	}
	return e(opts, c), nil
}
