package template

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownTemplate is returned by Lookup-style calls for names that were
// never registered.
var ErrUnknownTemplate = errors.New("unknown template")

// Registry holds registered templates keyed by check command.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]Template
	fallback  Template
}

// NewRegistry creates an empty Registry whose fallback is Default.
func NewRegistry() *Registry {
	return &Registry{
		templates: make(map[string]Template),
		fallback:  Default,
	}
}

// Register adds a template under the given command name.
// Returns an error if the name is empty or already registered.
func (r *Registry) Register(command string, t Template) error {
	if command == "" {
		return fmt.Errorf("template command name must not be empty")
	}
	if t == nil {
		return fmt.Errorf("template for %q must not be nil", command)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.templates[command]; exists {
		return fmt.Errorf("template for command %q is already registered", command)
	}
	r.templates[command] = t
	return nil
}

// Alias registers the template already registered under target for
// another command name as well.
func (r *Registry) Alias(command string, target string) error {
	t, err := r.Lookup(target)
	if err != nil {
		return fmt.Errorf("alias %q: %w", command, err)
	}
	return r.Register(command, t)
}

// Lookup returns the template registered for command.
func (r *Registry) Lookup(command string) (Template, error) {
	r.mu.RLock()
	t, exists := r.templates[command]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w %q", ErrUnknownTemplate, command)
	}
	return t, nil
}

// Resolve returns the template for a full check command line. Arguments
// after the first '!' are ignored. Commands without a registered template
// resolve to the fallback.
func (r *Registry) Resolve(command string) Template {
	name, _, _ := strings.Cut(command, "!")
	name = strings.TrimSpace(name)

	t, err := r.Lookup(name)
	if err != nil {
		return r.fallback
	}
	return t
}

// Names returns the registered command names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
