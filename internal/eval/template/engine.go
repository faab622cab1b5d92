package template

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aymerick/raymond"
)

var registerOnce sync.Once

// Engine renders Handlebars prompt templates with per-template caching.
type Engine struct {
	cache map[string]*raymond.Template
	mu    sync.RWMutex
}

// NewEngine creates a template engine and registers the prompt helpers.
func NewEngine() *Engine {
	registerOnce.Do(registerHelpers)
	return &Engine{
		cache: make(map[string]*raymond.Template),
	}
}

// Render renders a template with the given data.
func (e *Engine) Render(templateStr string, data interface{}) (string, error) {
	tmpl, err := e.getTemplate(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to compile template: %w", err)
	}

	result, err := tmpl.Exec(data)
	if err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return result, nil
}

// Validate parses a template without rendering it.
func (e *Engine) Validate(templateStr string) error {
	_, err := raymond.Parse(templateStr)
	return err
}

func (e *Engine) getTemplate(templateStr string) (*raymond.Template, error) {
	e.mu.RLock()
	tmpl, cached := e.cache[templateStr]
	e.mu.RUnlock()
	if cached {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, cached := e.cache[templateStr]; cached {
		return tmpl, nil
	}

	tmpl, err := raymond.Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	e.cache[templateStr] = tmpl
	return tmpl, nil
}

// registerHelpers registers the helpers available to prompt templates.
// raymond keeps a process-global helper registry, hence the sync.Once.
func registerHelpers() {
	raymond.RegisterHelper("uppercase", strings.ToUpper)
	raymond.RegisterHelper("lowercase", strings.ToLower)
	raymond.RegisterHelper("trim", strings.TrimSpace)

	raymond.RegisterHelper("default", func(value interface{}, defaultValue interface{}) interface{} {
		if value == nil || value == "" {
			return defaultValue
		}
		return value
	})

	raymond.RegisterHelper("join", func(arr []interface{}, sep string) string {
		strs := make([]string, len(arr))
		for i, v := range arr {
			strs[i] = fmt.Sprint(v)
		}
		return strings.Join(strs, sep)
	})

	raymond.RegisterHelper("len", func(value interface{}) int {
		switch v := value.(type) {
		case string:
			return len(v)
		case []interface{}:
			return len(v)
		case map[string]interface{}:
			return len(v)
		default:
			return 0
		}
	})
}
