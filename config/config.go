// Package config loads project configuration from a YAML file with
// environment variable expansion. Secrets stay in the environment (optionally
// via a .env file); the YAML references them as ${VAR}.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Guardrail GuardrailConfig `yaml:"guardrail"`
	Server    ServerConfig    `yaml:"server"`
	Redis     RedisConfig     `yaml:"redis"`
	Postgres  PostgresConfig  `yaml:"postgres"`
}

// LoggingConfig controls the structured logger
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// GuardrailConfig selects and configures the guardrail backend
type GuardrailConfig struct {
	// Backend is one of: wordlist, local, rules, bedrock
	Backend string `yaml:"backend"`
	// FailOpen allows messages through when the backend is unavailable
	FailOpen bool `yaml:"fail_open"`
	// Roles restricts checks to the listed roles; empty means all roles
	Roles []string `yaml:"roles"`

	Wordlist WordlistConfig `yaml:"wordlist"`
	Local    LocalConfig    `yaml:"local"`
	Rules    RulesConfig    `yaml:"rules"`
	Bedrock  BedrockConfig  `yaml:"bedrock"`
}

// WordlistConfig configures the substring backend
type WordlistConfig struct {
	Deny     []string `yaml:"deny"`
	Allow    []string `yaml:"allow"`
	MaxChars int      `yaml:"max_chars"`
}

// LocalConfig configures the local classifier backend
type LocalConfig struct {
	ModelPath string `yaml:"model_path"`
}

// RulesConfig configures the rule-engine-server backend
type RulesConfig struct {
	BaseURL        string `yaml:"base_url"`
	ConfigID       string `yaml:"config_id"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// BedrockConfig configures the AWS Bedrock backend
type BedrockConfig struct {
	Region           string `yaml:"region"`
	GuardrailID      string `yaml:"guardrail_id"`
	GuardrailVersion string `yaml:"guardrail_version"`
}

// ServerConfig configures the HTTP chat server
type ServerConfig struct {
	Port int `yaml:"port"`
}

// RedisConfig configures the Redis conversation store; empty Addr disables it
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// PostgresConfig configures the audit store; empty DSN disables it
type PostgresConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

// Load reads configuration from the file at GUARDRAILS_CONFIG_PATH (default
// configs/guardrails.yaml). A .env file in the working directory is loaded
// first if present; ${VAR} references in the YAML are expanded from the
// environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv("GUARDRAILS_CONFIG_PATH")
	if path == "" {
		path = "configs/guardrails.yaml"
	}
	return LoadFile(path)
}

// LoadFile reads configuration from an explicit path
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Guardrail.Backend == "" {
		cfg.Guardrail.Backend = "wordlist"
	}
	if cfg.Guardrail.Rules.TimeoutSeconds == 0 {
		cfg.Guardrail.Rules.TimeoutSeconds = 10
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Postgres.Table == "" {
		cfg.Postgres.Table = "guardrail_decisions"
	}
}

// Validate checks cross-field requirements for the selected backend
func (c *Config) Validate() error {
	switch c.Guardrail.Backend {
	case "wordlist":
	case "local":
		if c.Guardrail.Local.ModelPath == "" {
			return fmt.Errorf("guardrail backend %q requires local.model_path", c.Guardrail.Backend)
		}
	case "rules":
		if c.Guardrail.Rules.BaseURL == "" {
			return fmt.Errorf("guardrail backend %q requires rules.base_url", c.Guardrail.Backend)
		}
		if c.Guardrail.Rules.ConfigID == "" {
			return fmt.Errorf("guardrail backend %q requires rules.config_id", c.Guardrail.Backend)
		}
	case "bedrock":
		if c.Guardrail.Bedrock.GuardrailID == "" {
			return fmt.Errorf("guardrail backend %q requires bedrock.guardrail_id", c.Guardrail.Backend)
		}
	default:
		return fmt.Errorf("unknown guardrail backend %q", c.Guardrail.Backend)
	}
	return nil
}
