package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	DatabasePath  string        `yaml:"database_path"`
	TokenDuration time.Duration `yaml:"token_duration"`
	SaveDebounce  time.Duration `yaml:"save_debounce"`
	BaseURL       string        `yaml:"base_url"`
}

func LoadConfig(path string) (*Config, error) {
	apiTimeout := 15 * time.Second
	tokenDuration := 24 * time.Hour

	cfg := &Config{
		Addr:          getEnv("NEIGHBORLY_ADDR", ":8080"),
		JWTSecret:     getEnv("NEIGHBORLY_JWT_SECRET", "supersecretkey"),
		APITimeout:    apiTimeout,
		DatabasePath:  getEnv("NEIGHBORLY_DATABASE_PATH", "neighborly.db"),
		TokenDuration: tokenDuration,
		SaveDebounce:  1200 * time.Millisecond,
		BaseURL:       getEnv("NEIGHBORLY_BASE_URL", "http://localhost:8080"),
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
