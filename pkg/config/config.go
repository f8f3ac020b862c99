// Package config defines the application's runtime configuration shape
// and loads it from flags, environment variables, and an optional .env
// file via viper, mirroring the teacher's viper-based config layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Listen    string `mapstructure:"listen"`
	StaticDir string `mapstructure:"static_dir"`
}

// IndexConfig configures an indexing run.
type IndexConfig struct {
	Root       string `mapstructure:"root"`
	MinPages   int    `mapstructure:"min_pages"`
	DryRun     bool   `mapstructure:"dryrun"`
	RemoveURLs bool   `mapstructure:"remove_urls"`
	NumWorkers int    `mapstructure:"num_workers"`
}

// GeminiConfig configures the optional AI synthesis adapter. Synthesis
// is disabled whenever APIKey is empty.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// CacheConfig sizes the server-wide response cache.
type CacheConfig struct {
	Capacity int           `mapstructure:"capacity"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// StorageConfig configures the Postgres connection.
type StorageConfig struct {
	ConnString  string `mapstructure:"pgconn"`
	Partitioned bool   `mapstructure:"partitioned"`
}

// AppConfig is the full application configuration tree.
type AppConfig struct {
	Server  ServerConfig  `mapstructure:"server"`
	Index   IndexConfig   `mapstructure:"index"`
	Gemini  GeminiConfig  `mapstructure:"gemini"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Storage StorageConfig `mapstructure:"storage"`
}

// defaults applied before flags/env override them.
func defaults() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Listen:    ":8080",
			StaticDir: "",
		},
		Index: IndexConfig{
			MinPages:   4,
			NumWorkers: 4,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
		},
		Cache: CacheConfig{
			Capacity: 1000,
			TTL:      15 * time.Minute,
		},
		Storage: StorageConfig{
			Partitioned: false,
		},
	}
}

// Load builds an AppConfig from defaults, an optional .env file in the
// executable's directory (silently ignored if absent), and environment
// variables, each
// layer overriding the previous one. Env vars use SERVER_LISTEN-style
// names (dots replaced with underscores) to match the nested struct.
func Load() (*AppConfig, error) {
	if exe, err := os.Executable(); err == nil {
		_ = godotenv.Load(filepath.Join(filepath.Dir(exe), ".env"))
	}

	v := viper.NewWithOptions(viper.ExperimentalBindStruct())

	cfg := defaults()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnv(v, "server.listen", "LISTEN")
	bindEnv(v, "storage.pgconn", "PGCONN")
	bindEnv(v, "gemini.api_key", "GEMINI_API_KEY")
	bindEnv(v, "gemini.model", "GEMINI_MODEL")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func bindEnv(v *viper.Viper, key, envVar string) {
	_ = v.BindEnv(key, envVar)
}
