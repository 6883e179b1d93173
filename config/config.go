// Package config loads service configuration from config.yaml, .env files
// and PHOENIX_ environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Server     Server     `mapstructure:"server"`
	Database   Database   `mapstructure:"database"`
	Engine     Engine     `mapstructure:"engine"`
	Extraction Extraction `mapstructure:"extraction"`
	Logging    Logging    `mapstructure:"logging"`
}

// Server holds the HTTP service settings.
type Server struct {
	Addr       string `mapstructure:"addr"`
	AdminEmail string `mapstructure:"admin_email"`
}

// Database holds the Postgres connection string. Empty means the service
// runs on the in-memory store.
type Database struct {
	URL string `mapstructure:"url"`
}

// Engine holds evaluation settings.
type Engine struct {
	// Parallelism caps concurrent scenario evaluations; 0 means GOMAXPROCS.
	Parallelism int `mapstructure:"parallelism"`
}

// Extraction configures the LLM extraction client. API keys are read from
// the environment by the extract package, never from files.
type Extraction struct {
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	ChunkSize   int     `mapstructure:"chunk_size"`
}

// Logging holds slog settings for the serve path.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads .env when present, then config.yaml from ., ./config or
// $HOME/.phoenix, then applies PHOENIX_ environment overrides such as
// PHOENIX_SERVER_ADDR. Defaults make the zero config runnable.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".phoenix"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No config file, defaults plus environment cover everything
	}
	return unmarshal(v)
}

// LoadFromFile reads one specific config file, still honouring .env and
// environment overrides.
func LoadFromFile(path string) (*Config, error) {
	_ = godotenv.Load()

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("PHOENIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.admin_email", "")

	v.SetDefault("database.url", "")

	v.SetDefault("engine.parallelism", 0)

	v.SetDefault("extraction.provider", "deepseek")
	v.SetDefault("extraction.model", "")
	v.SetDefault("extraction.base_url", "")
	v.SetDefault("extraction.temperature", 0.0)
	v.SetDefault("extraction.max_tokens", 4000)
	v.SetDefault("extraction.chunk_size", 4000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
