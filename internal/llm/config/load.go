package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/models.yaml"

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	s := strings.TrimSpace(value.Value)
	if s == "" || s == "null" || s == "~" {
		d.Duration = 0
		return nil
	}
	if dd, err := time.ParseDuration(s); err == nil {
		d.Duration = dd
		return nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("duration must look like \"30s\" or a number of seconds: %q", s)
	}
	d.Duration = time.Duration(secs * float64(time.Second))
	return nil
}

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }

// Default picks an engine from whichever provider key is present and routes
// everything through it. With no keys configured it falls back to the mock
// engine so the server still boots locally.
func Default() *Config {
	eng := EngineConfig{Name: "default", Type: "mock"}
	model := strings.TrimSpace(os.Getenv("LLM_MODEL"))
	switch {
	case strings.TrimSpace(os.Getenv("OPENAI_API_KEY")) != "":
		eng = EngineConfig{
			Name:      "default",
			Type:      "oai_http",
			BaseURL:   envOr("OPENAI_BASE_URL", "https://api.openai.com"),
			APIKeyEnv: "OPENAI_API_KEY",
			Timeout:   Duration{Duration: 60 * time.Second},
		}
		if model == "" {
			model = "gpt-4o-mini"
		}
	case strings.TrimSpace(os.Getenv("GEMINI_API_KEY")) != "":
		eng = EngineConfig{Name: "default", Type: "gemini", APIKeyEnv: "GEMINI_API_KEY"}
		if model == "" {
			model = "gemini-2.0-flash"
		}
	default:
		if model == "" {
			model = "mock-1"
		}
	}

	return &Config{
		Engines: []EngineConfig{eng},
		Routes: map[string]RouteConfig{
			RouteContent:     {Engine: "default", Model: model, Temperature: ptrFloat(0.7)},
			RouteStudy:       {Engine: "default", Model: model, Temperature: ptrFloat(0.7)},
			RouteSuggestions: {Engine: "default", Model: model, Temperature: ptrFloat(0.5), MaxRetries: ptrInt(2)},
			RouteSchedule:    {Engine: "default", Model: model, Temperature: ptrFloat(0.3)},
			RouteMenu:        {Engine: "default", Model: model, Temperature: ptrFloat(0.2)},
		},
	}
}

// Load reads the model table from path, EDUBOX_CONFIG_PATH, or the default
// location, in that order. A missing default file is not an error.
func Load(path string) (*Config, error) {
	explicit := true
	path = strings.TrimSpace(path)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("EDUBOX_CONFIG_PATH"))
	}
	if path == "" {
		path = DefaultPath
		explicit = false
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			return cfg, cfg.normalize()
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(b)
}

func Parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse model config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	if len(c.Engines) == 0 {
		return errors.New("config must define at least one engine")
	}
	seen := map[string]bool{}
	for i := range c.Engines {
		e := &c.Engines[i]
		e.Name = strings.TrimSpace(e.Name)
		e.Type = strings.ToLower(strings.TrimSpace(e.Type))
		e.BaseURL = strings.TrimRight(strings.TrimSpace(e.BaseURL), "/")
		if e.Name == "" {
			return fmt.Errorf("engine #%d missing name", i)
		}
		if seen[e.Name] {
			return fmt.Errorf("duplicate engine name %q", e.Name)
		}
		seen[e.Name] = true

		if e.APIKey == "" && e.APIKeyEnv != "" {
			e.APIKey = strings.TrimSpace(os.Getenv(e.APIKeyEnv))
		}
		if e.MaxRetries < 0 {
			return fmt.Errorf("engine %q invalid max_retries", e.Name)
		}

		switch e.Type {
		case "oai_http", "openai_http", "openai":
			e.Type = "oai_http"
			if e.BaseURL == "" {
				e.BaseURL = "https://api.openai.com"
			}
			if e.ChatCompletionsPath == "" {
				e.ChatCompletionsPath = "/v1/chat/completions"
			}
			if e.Timeout.Duration <= 0 {
				e.Timeout = Duration{Duration: 60 * time.Second}
			}
		case "gemini", "mock":
		default:
			return fmt.Errorf("engine %q unsupported type %q", e.Name, e.Type)
		}
	}

	if c.Routes == nil {
		c.Routes = map[string]RouteConfig{}
	}
	for _, name := range RequiredRoutes {
		r, ok := c.Routes[name]
		if !ok {
			r = RouteConfig{Engine: c.Engines[0].Name}
		}
		if strings.TrimSpace(r.Engine) == "" {
			r.Engine = c.Engines[0].Name
		}
		if _, ok := c.Engine(r.Engine); !ok {
			return fmt.Errorf("route %q references unknown engine %q", name, r.Engine)
		}
		if strings.TrimSpace(r.Model) == "" {
			return fmt.Errorf("route %q missing model", name)
		}
		if r.Temperature == nil {
			r.Temperature = ptrFloat(0.7)
		}
		c.Routes[name] = r
	}
	return nil
}

func envOr(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}
