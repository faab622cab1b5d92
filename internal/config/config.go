package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Default system prompts. Both are Handlebars templates rendered per call
// with tool_names and tool_count.
const (
	defaultLocalSystem = "You are a helpful assistant that can use tools. " +
		"Call the most appropriate tool for the user's request."
	defaultCloudSystem = "You are a helpful assistant. When the user asks you to do " +
		"multiple things, call ALL the required tools in parallel. Do not wait for one " +
		"tool result before calling the next. Call every tool needed to fulfill the " +
		"complete request."
)

// Config holds all configuration for the router services.
type Config struct {
	// Worker configuration
	WorkerID string `env:"WORKER_ID" envDefault:"atomic-router-1"`

	// Redis configuration
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASS" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Stream configuration
	StreamKey     string        `env:"STREAM_KEY" envDefault:"route.requests"`
	ConsumerGroup string        `env:"CONSUMER_GROUP" envDefault:"route-workers"`
	ResultStream  string        `env:"RESULT_STREAM" envDefault:"route.results"`
	BlockTime     time.Duration `env:"BLOCK_TIME" envDefault:"1s"`

	// On-device runtime configuration
	RuntimeURL       string        `env:"RUNTIME_URL" envDefault:"http://localhost:8600"`
	RuntimeWeights   string        `env:"RUNTIME_WEIGHTS" envDefault:"weights/functiongemma-270m-it"`
	LocalTimeout     time.Duration `env:"LOCAL_TIMEOUT" envDefault:"30s"`
	LocalMaxTokens   int           `env:"LOCAL_MAX_TOKENS" envDefault:"256"`
	LocalTemperature float64       `env:"LOCAL_TEMPERATURE" envDefault:"0"`
	LocalStops       []string      `env:"LOCAL_STOP_SEQUENCES" envSeparator:"," envDefault:"<|im_end|>,<end_of_turn>"`

	// Cloud fallback configuration
	GeminiAPIKey    string        `env:"GEMINI_API_KEY"`
	GeminiModel     string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	CloudTimeout    time.Duration `env:"CLOUD_TIMEOUT" envDefault:"30s"`
	CloudRetryDelay time.Duration `env:"CLOUD_RETRY_DELAY" envDefault:"500ms"`
	CloudRPS        float64       `env:"CLOUD_RPS" envDefault:"1"`
	CloudBurst      int           `env:"CLOUD_BURST" envDefault:"2"`

	// Acceptance policy. The confidence threshold is deliberately tunable;
	// ACCEPT_RULE may replace it with a CEL expression over "result".
	AcceptConfidence float64 `env:"ACCEPT_CONFIDENCE" envDefault:"0.3"`
	AcceptRule       string  `env:"ACCEPT_RULE"`

	// Prompt templates
	LocalSystemTemplate string `env:"LOCAL_SYSTEM_TEMPLATE"`
	CloudSystemTemplate string `env:"CLOUD_SYSTEM_TEMPLATE"`

	// Front-end configuration
	HTTPPort   int `env:"HTTP_PORT" envDefault:"8080"`
	HealthPort int `env:"HEALTH_PORT" envDefault:"8082"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.LocalSystemTemplate == "" {
		cfg.LocalSystemTemplate = defaultLocalSystem
	}
	if cfg.CloudSystemTemplate == "" {
		cfg.CloudSystemTemplate = defaultCloudSystem
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.WorkerID == "" {
		return fmt.Errorf("WORKER_ID is required")
	}
	if c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}
	if c.StreamKey == "" {
		return fmt.Errorf("STREAM_KEY is required")
	}
	if c.ConsumerGroup == "" {
		return fmt.Errorf("CONSUMER_GROUP is required")
	}
	if c.ResultStream == "" {
		return fmt.Errorf("RESULT_STREAM is required")
	}
	if c.BlockTime <= 0 {
		return fmt.Errorf("BLOCK_TIME must be positive")
	}
	if c.RuntimeURL == "" {
		return fmt.Errorf("RUNTIME_URL is required")
	}
	if c.RuntimeWeights == "" {
		return fmt.Errorf("RUNTIME_WEIGHTS is required")
	}
	if c.LocalTimeout <= 0 {
		return fmt.Errorf("LOCAL_TIMEOUT must be positive")
	}
	if c.LocalMaxTokens <= 0 {
		return fmt.Errorf("LOCAL_MAX_TOKENS must be positive")
	}
	if c.GeminiModel == "" {
		return fmt.Errorf("GEMINI_MODEL is required")
	}
	if c.CloudTimeout <= 0 {
		return fmt.Errorf("CLOUD_TIMEOUT must be positive")
	}
	if c.CloudRetryDelay < 0 {
		return fmt.Errorf("CLOUD_RETRY_DELAY must be non-negative")
	}
	if c.AcceptConfidence < 0 || c.AcceptConfidence > 1 {
		return fmt.Errorf("ACCEPT_CONFIDENCE must be between 0 and 1")
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("HEALTH_PORT must be between 1 and 65535")
	}
	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}
	return nil
}

// isValidLogLevel checks if the log level is valid.
func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// String returns a string representation of the config without sensitive
// data.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{WorkerID=%s, RedisAddr=%s, RedisDB=%d, StreamKey=%s, ConsumerGroup=%s, "+
			"RuntimeURL=%s, GeminiModel=%s, AcceptConfidence=%.2f, HTTPPort=%d, HealthPort=%d, LogLevel=%s}",
		c.WorkerID,
		c.RedisAddr,
		c.RedisDB,
		c.StreamKey,
		c.ConsumerGroup,
		c.RuntimeURL,
		c.GeminiModel,
		c.AcceptConfidence,
		c.HTTPPort,
		c.HealthPort,
		c.LogLevel,
	)
}
