// Package oracle provides the text-completion capability the pipeline
// delegates classification and clustering to. Providers are opaque and
// fallible; callers own the prompt contract and the defensive parsing of
// whatever comes back.
package oracle

import (
	"context"
	"errors"
)

// ErrNoProvider is returned when no configured provider is available.
var ErrNoProvider = errors.New("no oracle provider available")

// Provider is the interface for AI providers
type Provider interface {
	// Name returns the provider name (e.g., "claude", "ollama")
	Name() string

	// Available returns true if the provider is configured and ready
	Available() bool

	// Generate sends a prompt and returns the response
	Generate(ctx context.Context, req Request) (Response, error)
}

// Request is a prompt request to an AI provider
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
}

// Response is the AI provider's response
type Response struct {
	Content string
	Model   string
}

// Manager manages multiple AI providers with fallback
type Manager struct {
	providers []Provider
	preferred string
}

// NewManager creates a new provider manager
func NewManager() *Manager {
	return &Manager{providers: make([]Provider, 0)}
}

// AddProvider adds a provider to the manager
func (m *Manager) AddProvider(p Provider) {
	m.providers = append(m.providers, p)
}

// SetPreferred sets the preferred provider by name
func (m *Manager) SetPreferred(name string) {
	m.preferred = name
}

// Pick returns the first available provider, preferring the preferred one.
// Returns nil when nothing is configured; callers degrade, they don't abort.
func (m *Manager) Pick() Provider {
	if m == nil {
		return nil
	}
	if m.preferred != "" {
		for _, p := range m.providers {
			if p.Name() == m.preferred && p.Available() {
				return p
			}
		}
	}
	for _, p := range m.providers {
		if p.Available() {
			return p
		}
	}
	return nil
}

// Generate runs a request against the first available provider.
func (m *Manager) Generate(ctx context.Context, req Request) (Response, error) {
	p := m.Pick()
	if p == nil {
		return Response{}, ErrNoProvider
	}
	return p.Generate(ctx, req)
}

// ListAvailable returns names of all available providers
func (m *Manager) ListAvailable() []string {
	var names []string
	for _, p := range m.providers {
		if p.Available() {
			names = append(names, p.Name())
		}
	}
	return names
}
