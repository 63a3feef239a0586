package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the generator configuration
type Config struct {
	Project    ProjectConfig    `yaml:"project"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ProjectConfig controls the shape of the emitted test project
type ProjectConfig struct {
	OutputDir   string `yaml:"output_dir"`
	APIPrefix   string `yaml:"api_prefix"`
	FakerLocale string `yaml:"faker_locale"`
	// AuthTokenEnv names the environment variable the generated conftest
	// reads the bearer token from
	AuthTokenEnv string `yaml:"auth_token_env"`
}

// EnrichmentConfig controls the optional payload-value enrichment sources
type EnrichmentConfig struct {
	LLM LLMConfig `yaml:"llm"`
	DB  DBConfig  `yaml:"db"`
}

// LLMConfig configures LLM-backed example-value suggestions
type LLMConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// DBConfig configures database sampling for payload seed values
type DBConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// LoggingConfig controls run logging
type LoggingConfig struct {
	Dir   string `yaml:"dir"`
	Debug bool   `yaml:"debug"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Project: ProjectConfig{
			OutputDir:    "projects-gen",
			APIPrefix:    "/api/v1",
			FakerLocale:  "en_US",
			AuthTokenEnv: "API_AUTH_TOKEN",
		},
		Enrichment: EnrichmentConfig{
			LLM: LLMConfig{
				Provider:    "openai",
				Model:       "gpt-4",
				Temperature: 0.2,
				MaxTokens:   1024,
			},
		},
		Logging: LoggingConfig{Dir: "logs"},
	}
}

// Load reads configuration from a YAML file, applying defaults and
// environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %v", err)
		}
	}

	// DB password comes from the environment when set
	if pw := os.Getenv("SCAFFOLD_DB_PASSWORD"); pw != "" {
		cfg.Enrichment.DB.Password = pw
	}

	if cfg.Project.OutputDir == "" {
		cfg.Project.OutputDir = "projects-gen"
	}
	if cfg.Project.APIPrefix == "" {
		cfg.Project.APIPrefix = "/api/v1"
	}
	if cfg.Project.FakerLocale == "" {
		cfg.Project.FakerLocale = "en_US"
	}
	if cfg.Project.AuthTokenEnv == "" {
		cfg.Project.AuthTokenEnv = "API_AUTH_TOKEN"
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
	return cfg, nil
}
