package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"production"`
	DatabasePath    string        `envconfig:"DATABASE_PATH" default:"larder.db"`
	SessionDuration time.Duration `envconfig:"SESSION_DURATION" default:"720h"`
	AllowedOrigins  string        `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"INFO"`

	// Spoonacular recipe API
	SpoonacularAPIKey  string `envconfig:"SPOONACULAR_API_KEY" default:""`
	SpoonacularBaseURL string `envconfig:"SPOONACULAR_BASE_URL" default:"https://api.spoonacular.com"`
	RecipeCount        int    `envconfig:"RECIPE_COUNT" default:"3"`

	// Mailgun (welcome emails disabled when unset)
	MailgunDomain      string `envconfig:"MAILGUN_DOMAIN" default:""`
	MailgunAPIKey      string `envconfig:"MAILGUN_API_KEY" default:""`
	MailgunSenderEmail string `envconfig:"MAILGUN_SENDER_EMAIL" default:"hello@larder.app"`
	MailgunSenderName  string `envconfig:"MAILGUN_SENDER_NAME" default:"Larder"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
