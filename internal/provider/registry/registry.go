package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nexuslabs/relay/internal/domain"
)

// Registry implements the ProviderRegistry interface.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]domain.Provider
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{
		mu:        sync.RWMutex{},
		providers: make(map[string]domain.Provider),
	}
}

// Register adds a provider to the registry.
func (r *Registry) Register(_ context.Context, provider domain.Provider) error {
	if provider == nil {
		return errors.New("provider cannot be nil")
	}

	id := provider.ID()
	if id == "" {
		return errors.New("provider id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[id]; exists {
		return fmt.Errorf("provider %s already registered", id)
	}

	r.providers[id] = provider
	return nil
}

// Get retrieves a provider by id.
func (r *Registry) Get(_ context.Context, providerID string) (domain.Provider, error) {
	if providerID == "" {
		return nil, errors.New("provider id cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[providerID]
	if !exists {
		return nil, fmt.Errorf("provider %s not found", providerID)
	}

	return provider, nil
}

// Has reports whether a provider with the given id is registered.
func (r *Registry) Has(_ context.Context, providerID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.providers[providerID]
	return exists
}

// List returns the ids of all registered providers.
func (r *Registry) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}

	return ids, nil
}
