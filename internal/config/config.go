package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Assistant struct {
		Provider   string   `yaml:"provider"` // "upstream" or "gemini"
		Model      string   `yaml:"model"`
		APIKey     string   `yaml:"api_key"`
		BaseURL    string   `yaml:"base_url"`
		Token      string   `yaml:"token"`
		IndexNames []string `yaml:"index_names"`
	} `yaml:"assistant"`
	Storage struct {
		Path string `yaml:"path"` // empty disables transcript persistence
	} `yaml:"storage"`
}

// Default returns a config usable without a YAML file.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Addr = ":8080"
	cfg.Assistant.Provider = "upstream"
	applyEnv(cfg)
	return cfg
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	applyEnv(&cfg)

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Assistant.Provider == "" {
		cfg.Assistant.Provider = "upstream"
	}

	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if addr := os.Getenv("DRAFTSMITH_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if provider := os.Getenv("DRAFTSMITH_PROVIDER"); provider != "" {
		cfg.Assistant.Provider = provider
	}
	if apiKey := os.Getenv("DRAFTSMITH_API_KEY"); apiKey != "" {
		cfg.Assistant.APIKey = apiKey
	}
	if baseURL := os.Getenv("DRAFTSMITH_BASE_URL"); baseURL != "" {
		cfg.Assistant.BaseURL = baseURL
	}
	if token := os.Getenv("DRAFTSMITH_TOKEN"); token != "" {
		cfg.Assistant.Token = token
	}
	if path := os.Getenv("DRAFTSMITH_DB_PATH"); path != "" {
		cfg.Storage.Path = path
	}
}
