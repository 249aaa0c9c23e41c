package router

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yungbote/edubox-backend/internal/llm/config"
	"github.com/yungbote/edubox-backend/internal/llm/engine"
	"github.com/yungbote/edubox-backend/internal/llm/engine/gemini"
	"github.com/yungbote/edubox-backend/internal/llm/engine/mock"
	"github.com/yungbote/edubox-backend/internal/llm/engine/oaihttp"
)

// Observer receives one call per upstream request.
type Observer interface {
	ObserveLLMRequest(route, engineName, model, status string, dur time.Duration)
}

type Route struct {
	Name        string
	EngineName  string
	Model       string
	Temperature float64
	MaxTokens   int
	Engine      engine.Engine
}

func (r Route) Options() engine.GenerateOptions {
	return engine.GenerateOptions{Temperature: r.Temperature, MaxTokens: r.MaxTokens}
}

type Router struct {
	routes map[string]Route
}

var ErrUnknownRoute = errors.New("unknown llm route")

func New(ctx context.Context, cfg *config.Config, obs Observer) (*Router, error) {
	if cfg == nil {
		return nil, errors.New("llm config required")
	}
	r := &Router{routes: map[string]Route{}}
	built := map[string]engine.Engine{}

	for name, rc := range cfg.Routes {
		ec, ok := cfg.Engine(rc.Engine)
		if !ok {
			return nil, fmt.Errorf("route %q references unknown engine %q", name, rc.Engine)
		}
		if rc.MaxRetries != nil {
			ec.MaxRetries = *rc.MaxRetries
		}

		key := fmt.Sprintf("%s/%d", ec.Name, ec.MaxRetries)
		eng, ok := built[key]
		if !ok {
			var err error
			eng, err = build(ctx, ec)
			if err != nil {
				return nil, fmt.Errorf("engine %q: %w", ec.Name, err)
			}
			built[key] = eng
		}

		temp := 0.7
		if rc.Temperature != nil {
			temp = *rc.Temperature
		}
		route := Route{
			Name:        name,
			EngineName:  ec.Name,
			Model:       strings.TrimSpace(rc.Model),
			Temperature: temp,
			MaxTokens:   rc.MaxTokens,
			Engine:      eng,
		}
		if obs != nil {
			route.Engine = &instrumented{Engine: eng, obs: obs, route: name, engineName: ec.Name}
		}
		r.routes[name] = route
	}
	return r, nil
}

// NewStatic wires pre-built routes, mostly for tests.
func NewStatic(routes ...Route) *Router {
	r := &Router{routes: make(map[string]Route, len(routes))}
	for _, route := range routes {
		r.routes[route.Name] = route
	}
	return r
}

func build(ctx context.Context, ec config.EngineConfig) (engine.Engine, error) {
	switch ec.Type {
	case "mock":
		return mock.New(), nil
	case "oai_http":
		return oaihttp.New(ec)
	case "gemini":
		return gemini.New(ctx, ec)
	default:
		return nil, fmt.Errorf("unsupported engine type %q", ec.Type)
	}
}

func (r *Router) Route(name string) (Route, error) {
	route, ok := r.routes[name]
	if !ok || route.Engine == nil {
		return Route{}, fmt.Errorf("%w: %s", ErrUnknownRoute, name)
	}
	return route, nil
}

func (r *Router) Names() []string {
	out := make([]string, 0, len(r.routes))
	for name := range r.routes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type instrumented struct {
	engine.Engine
	obs        Observer
	route      string
	engineName string
}

func (i *instrumented) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	start := time.Now()
	out, err := i.Engine.GenerateText(ctx, model, messages, opts)
	i.obs.ObserveLLMRequest(i.route, i.engineName, model, statusOf(err), time.Since(start))
	return out, err
}

func (i *instrumented) StreamText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions, onDelta func(string) error) (string, error) {
	start := time.Now()
	out, err := i.Engine.StreamText(ctx, model, messages, opts, onDelta)
	i.obs.ObserveLLMRequest(i.route, i.engineName, model, statusOf(err), time.Since(start))
	return out, err
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
