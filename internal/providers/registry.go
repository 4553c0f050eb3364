package providers

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Registry holds named chat clients. It supports config-driven
// instantiation, hot reload, and thread-safe access.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]Client
	logger  *slog.Logger
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]Client),
		logger:  slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register registers a client by name.
func (r *Registry) Register(name string, client Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
	if r.logger != nil {
		r.logger.Info("registered provider", "name", name)
	}
}

// Unregister removes a client by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, name)
	if r.logger != nil {
		r.logger.Info("unregistered provider", "name", name)
	}
}

// Get returns a client by name.
func (r *Registry) Get(name string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("provider not found: %s", name)
	}
	return client, nil
}

// Has checks whether a client is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.clients[name]
	return ok
}

// List returns all registered client names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered clients.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// ClientConfig describes one provider entry from configuration, with the
// API key already resolved.
type ClientConfig struct {
	Type      string // "gemini", "openrouter", "mock"
	Model     string
	BaseURL   string
	APIKey    string
	RateLimit int // Requests per minute
	Enabled   bool
}

// RegistryConfig defines the providers to instantiate from config.
type RegistryConfig struct {
	Providers map[string]ClientConfig
}

// NewRegistryFromConfig creates a registry from configuration. Only enabled
// providers with credentials are registered; the mock type needs none.
func NewRegistryFromConfig(cfg RegistryConfig) *Registry {
	r := NewRegistry()
	for name, provCfg := range cfg.Providers {
		if !usable(provCfg) {
			continue
		}
		if client := createClient(provCfg); client != nil {
			r.clients[name] = client
		}
	}
	return r
}

// Reload updates the registry from new configuration. Providers no longer
// configured are unregistered; providers with changed settings are
// recreated.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]bool)

	for name, provCfg := range cfg.Providers {
		if !usable(provCfg) {
			continue
		}
		want[name] = true

		existing, hasExisting := r.clients[name]
		if hasExisting && !needsUpdate(existing, provCfg) {
			continue
		}
		client := createClient(provCfg)
		if client == nil {
			continue
		}
		r.clients[name] = client
		if r.logger != nil {
			if hasExisting {
				r.logger.Info("updated provider", "name", name, "type", provCfg.Type)
			} else {
				r.logger.Info("registered provider", "name", name, "type", provCfg.Type)
			}
		}
	}

	for name := range r.clients {
		if !want[name] {
			delete(r.clients, name)
			if r.logger != nil {
				r.logger.Info("unregistered provider", "name", name)
			}
		}
	}
}

func usable(cfg ClientConfig) bool {
	if !cfg.Enabled {
		return false
	}
	if cfg.Type == "mock" {
		return true
	}
	return cfg.APIKey != ""
}

// createClient creates a client based on provider type.
func createClient(cfg ClientConfig) Client {
	switch cfg.Type {
	case "gemini":
		return NewGeminiClient(GeminiConfig{
			APIKey:       cfg.APIKey,
			DefaultModel: cfg.Model,
			BaseURL:      cfg.BaseURL,
			RateLimit:    cfg.RateLimit,
		})
	case "openrouter":
		return NewOpenRouterClient(OpenRouterConfig{
			APIKey:       cfg.APIKey,
			DefaultModel: cfg.Model,
			BaseURL:      cfg.BaseURL,
			RateLimit:    cfg.RateLimit,
		})
	case "mock":
		return newSampleMockClient()
	default:
		return nil
	}
}

// needsUpdate checks whether a client must be recreated for new settings.
func needsUpdate(client Client, cfg ClientConfig) bool {
	switch c := client.(type) {
	case *GeminiClient:
		return cfg.Type != "gemini" ||
			c.apiKey != cfg.APIKey ||
			c.defaultModel != cfg.Model ||
			c.rateLimit != cfg.RateLimit
	case *OpenRouterClient:
		return cfg.Type != "openrouter" ||
			c.apiKey != cfg.APIKey ||
			c.defaultModel != cfg.Model ||
			c.rateLimit != cfg.RateLimit
	case *MockClient:
		return cfg.Type != "mock"
	default:
		return true
	}
}
