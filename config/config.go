package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Vision provider names accepted in VISION_PROVIDER.
const (
	ProviderAzure  = "azure"
	ProviderGemini = "gemini"
)

// Azure holds the credentials for one Azure OpenAI deployment.
type Azure struct {
	Endpoint   string `env:"ENDPOINT"`
	APIKey     string `env:"SECRET_KEY"`
	Deployment string `env:"DEPLOYMENT" env-default:"gpt-4o"`
	APIVersion string `env:"VERSION" env-default:"2024-02-15-preview"`
}

// Config is read once at startup and stays immutable for the process
// lifetime.
type Config struct {
	Azure        Azure
	Provider     string        `env:"VISION_PROVIDER" env-default:"azure"`
	GeminiAPIKey string        `env:"GEMINI_API_KEY"`
	ListenAddr   string        `env:"LISTEN_ADDR" env-default:":8080"`
	SessionTTL   time.Duration `env:"SESSION_TTL" env-default:"30m"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; errors from a missing file are
// ignored.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	if cfg.Provider != ProviderAzure && cfg.Provider != ProviderGemini {
		return Config{}, fmt.Errorf("unknown VISION_PROVIDER %q", cfg.Provider)
	}
	return cfg, nil
}

// CredentialsPresent reports whether the selected provider has the
// credentials it needs to make a call. A false result does not prevent the
// server from starting; comparisons fail with a configuration error until
// the credentials are supplied.
func (c Config) CredentialsPresent() bool {
	if c.Provider == ProviderGemini {
		return c.GeminiAPIKey != ""
	}
	return c.Azure.Endpoint != "" && c.Azure.APIKey != ""
}
