package config

// Config holds maestro configuration.
// Loaded from ./config.yaml or ~/.maestro/config.yaml.
type Config struct {
	Providers map[string]ProviderCfg `mapstructure:"providers" yaml:"providers"`
	Defaults  DefaultsCfg            `mapstructure:"defaults" yaml:"defaults"`
	Portal    PortalCfg              `mapstructure:"portal" yaml:"portal"`

	// Prompts maps prompt keys to override text. Keys contain dots
	// ("extract.release.system"), which viper explodes into nested maps,
	// so Manager.load rebuilds this field instead of mapstructure.
	Prompts map[string]string `mapstructure:"-" yaml:"prompts"`
}

// ProviderCfg configures an extraction provider.
type ProviderCfg struct {
	Type      string `mapstructure:"type" yaml:"type"`             // "gemini", "openrouter", "mock"
	Model     string `mapstructure:"model" yaml:"model"`           // Model name
	BaseURL   string `mapstructure:"base_url" yaml:"base_url"`     // Endpoint override (tests, proxies)
	APIKey    string `mapstructure:"api_key" yaml:"api_key"`       // API key (supports ${ENV_VAR} syntax)
	RateLimit int    `mapstructure:"rate_limit" yaml:"rate_limit"` // Requests per minute
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default provider selection and store sizes.
type DefaultsCfg struct {
	Provider    string `mapstructure:"provider" yaml:"provider"`         // Default extraction provider
	MaxSessions int    `mapstructure:"max_sessions" yaml:"max_sessions"` // Max live review sessions
	CallLog     int    `mapstructure:"call_log" yaml:"call_log"`         // Provider call log capacity
	MetricsLog  int    `mapstructure:"metrics_log" yaml:"metrics_log"`   // Metrics store capacity
}

// PortalCfg points at the label portal form page.
type PortalCfg struct {
	URL string `mapstructure:"url" yaml:"url"` // Form page the fill script targets
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Providers: map[string]ProviderCfg{
			"gemini": {
				Type:      "gemini",
				Model:     "gemini-1.5-flash-latest",
				APIKey:    "${GOOGLE_API_KEY}",
				RateLimit: 15,
				Enabled:   true,
			},
			"openrouter": {
				Type:    "openrouter",
				Model:   "google/gemini-flash-1.5",
				APIKey:  "${OPENROUTER_API_KEY}",
				Enabled: false,
			},
		},
		Defaults: DefaultsCfg{
			Provider:    "gemini",
			MaxSessions: 100,
			CallLog:     200,
			MetricsLog:  1000,
		},
		Portal: PortalCfg{
			URL: "https://labelportal.amazonmusic.com/s/project-flow-frontline",
		},
		Prompts: map[string]string{},
	}
}

// GetProvider returns a provider config by name.
func (c *Config) GetProvider(name string) (ProviderCfg, bool) {
	cfg, ok := c.Providers[name]
	return cfg, ok
}

// EnabledProviders returns all enabled providers.
func (c *Config) EnabledProviders() map[string]ProviderCfg {
	result := make(map[string]ProviderCfg)
	for name, cfg := range c.Providers {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}
