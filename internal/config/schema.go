package config

// Config holds introscript configuration.
// Stored at: ~/.introscript/config.yaml
type Config struct {
	Providers map[string]ProviderCfg `mapstructure:"providers" yaml:"providers"`
	Defaults  DefaultsCfg            `mapstructure:"defaults" yaml:"defaults"`
}

// ProviderCfg configures a generation provider.
type ProviderCfg struct {
	Type    string `mapstructure:"type" yaml:"type"`       // "openai", "gemini"
	Model   string `mapstructure:"model" yaml:"model"`     // Model name
	APIKey  string `mapstructure:"api_key" yaml:"api_key"` // API key (supports ${ENV_VAR} syntax)
	Timeout int    `mapstructure:"timeout" yaml:"timeout"` // Request timeout in seconds
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default generation parameters.
type DefaultsCfg struct {
	Provider    string  `mapstructure:"provider" yaml:"provider"`       // Default provider name
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"` // Sampling temperature
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`   // Completion token cap
	Language    string  `mapstructure:"language" yaml:"language"`       // Output language
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Providers: map[string]ProviderCfg{
			"openai": {
				Type:    "openai",
				Model:   "gpt-4o-mini",
				APIKey:  "${OPENAI_API_KEY}",
				Timeout: 120,
				Enabled: true,
			},
			"gemini": {
				Type:    "gemini",
				Model:   "gemini-2.0-flash",
				APIKey:  "${GEMINI_API_KEY}",
				Timeout: 120,
				Enabled: true,
			},
		},
		Defaults: DefaultsCfg{
			Provider:    "openai",
			Temperature: 0.7,
			MaxTokens:   2048,
			Language:    "zh-TW",
		},
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
