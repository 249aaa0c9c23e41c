package config

import "time"

// Route names used by the services.
const (
	RouteContent     = "content"
	RouteStudy       = "study"
	RouteSuggestions = "suggestions"
	RouteSchedule    = "schedule"
	RouteMenu        = "menu"
)

var RequiredRoutes = []string{RouteContent, RouteStudy, RouteSuggestions, RouteSchedule, RouteMenu}

type Duration struct {
	time.Duration
}

type EngineConfig struct {
	Name string `yaml:"name"`
	// Type is one of "oai_http", "gemini" or "mock".
	Type string `yaml:"type"`

	BaseURL string `yaml:"base_url,omitempty"`
	// APIKey wins over APIKeyEnv. Prefer APIKeyEnv in checked-in files.
	APIKey    string `yaml:"api_key,omitempty"`
	APIKeyEnv string `yaml:"api_key_env,omitempty"`

	ChatCompletionsPath string `yaml:"chat_completions_path,omitempty"`

	Timeout       Duration `yaml:"timeout,omitempty"`
	StreamTimeout Duration `yaml:"stream_timeout,omitempty"`

	// MaxRetries is the number of extra attempts for non-streaming calls on
	// retryable upstream failures.
	MaxRetries int `yaml:"max_retries,omitempty"`
}

type RouteConfig struct {
	Engine      string   `yaml:"engine"`
	Model       string   `yaml:"model"`
	Temperature *float64 `yaml:"temperature,omitempty"`
	MaxTokens   int      `yaml:"max_tokens,omitempty"`
	// MaxRetries overrides the engine's retry count for this route only.
	MaxRetries *int `yaml:"max_retries,omitempty"`
}

type Config struct {
	Engines []EngineConfig         `yaml:"engines"`
	Routes  map[string]RouteConfig `yaml:"routes"`
}

func (c *Config) Engine(name string) (EngineConfig, bool) {
	for _, e := range c.Engines {
		if e.Name == name {
			return e, true
		}
	}
	return EngineConfig{}, false
}
