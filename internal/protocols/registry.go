// Package protocols holds the built-in protocol schemas.
package protocols

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"firestige.xyz/nomgen/internal/schema"
)

var (
	ErrUnknownProtocol   = errors.New("nomgen: unknown protocol")
	ErrDuplicateProtocol = errors.New("nomgen: protocol already registered")
)

// Builder returns the root nodes of a protocol. Each call builds fresh nodes.
type Builder func() ([]schema.Node, error)

// Protocol is a named schema that compiles into one Rust module.
type Protocol struct {
	Name        string
	Description string
	Build       Builder
}

// Registry maps protocol names to their schemas. It is safe for concurrent
// use.
type Registry struct {
	mu        sync.RWMutex
	protocols map[string]Protocol
}

func NewRegistry() *Registry {
	return &Registry{protocols: make(map[string]Protocol)}
}

func (r *Registry) Register(p Protocol) error {
	name := strings.ToLower(p.Name)
	if name == "" || p.Build == nil {
		return fmt.Errorf("protocol '%s' needs a name and a builder", p.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.protocols[name]; exists {
		return fmt.Errorf("%w: '%s'", ErrDuplicateProtocol, name)
	}
	p.Name = name
	r.protocols[name] = p
	return nil
}

func (r *Registry) Get(name string) (Protocol, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.protocols[strings.ToLower(name)]
	if !exists {
		return Protocol{}, fmt.Errorf("%w: '%s'", ErrUnknownProtocol, name)
	}
	return p, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.protocols))
	for name := range r.protocols {
		names = append(names, name)
	}
	sort.Strings(names) // Ensure deterministic order
	return names
}

// List returns the registered protocols sorted by name.
func (r *Registry) List() []Protocol {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Protocol, 0, len(names))
	for _, name := range names {
		out = append(out, r.protocols[name])
	}
	return out
}

var builtins = NewRegistry()

// Default returns the registry holding the built-in protocols.
func Default() *Registry { return builtins }

func Get(name string) (Protocol, error) { return builtins.Get(name) }
func Names() []string                   { return builtins.Names() }

func mustRegister(p Protocol) {
	if err := builtins.Register(p); err != nil {
		panic(err)
	}
}
