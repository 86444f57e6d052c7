package tools

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Rorical/typedconfirm/internal/config"
	"github.com/Rorical/typedconfirm/internal/models"
)

var ErrUnknownCheck = errors.New("unknown check")

// Check turns a check spec into an async keyword predicate
type Check interface {
	Name() string
	Description() string
	Build(spec config.CheckSpec) (models.Predicate, error)
}

// Registry manages available checks
type Registry struct {
	checks map[string]Check
	mu     sync.RWMutex
}

// NewRegistry creates a new check registry
func NewRegistry() *Registry {
	return &Registry{
		checks: make(map[string]Check),
	}
}

// Register adds a check to the registry, replacing one with the same name
func (r *Registry) Register(check Check) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks[check.Name()] = check
}

// GetCheck retrieves a check by name
func (r *Registry) GetCheck(name string) (Check, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	check, exists := r.checks[name]
	return check, exists
}

// ListChecks returns all registered checks sorted by name
func (r *Registry) ListChecks() []Check {
	r.mu.RLock()
	defer r.mu.RUnlock()

	checks := make([]Check, 0, len(r.checks))
	for _, check := range r.checks {
		checks = append(checks, check)
	}
	sort.Slice(checks, func(i, j int) bool {
		return checks[i].Name() < checks[j].Name()
	})
	return checks
}

// Predicate builds the predicate for spec with the check named by spec.Type.
func (r *Registry) Predicate(spec config.CheckSpec) (models.Predicate, error) {
	check, ok := r.GetCheck(spec.Type)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownCheck, spec.Type)
	}
	p, err := check.Build(spec)
	if err != nil {
		return nil, fmt.Errorf("%s check: %w", spec.Type, err)
	}
	return p, nil
}
