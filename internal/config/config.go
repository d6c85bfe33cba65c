package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	RedisURL    string `env:"REDIS_URL,required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	SessionSecret string `env:"SESSION_SECRET"`

	// Bootstrap fallback identity used by Authenticate while the admins
	// table is still empty.
	DefaultAdminEmail    string `env:"DEFAULT_ADMIN_EMAIL" envDefault:"admin@gmail.com"`
	DefaultAdminPassword string `env:"DEFAULT_ADMIN_PASSWORD,required"`

	// Third-party schedule sources
	PrayerAPIBaseURL   string `env:"PRAYER_API_BASE_URL" envDefault:"https://api.myquran.com/v2"`
	HijriAPIBaseURL    string `env:"HIJRI_API_BASE_URL" envDefault:"https://api.aladhan.com/v1"`
	PrayerLocationCode string `env:"PRAYER_LOCATION_CODE" envDefault:"1225"`

	// S3-compatible object storage for kajian artwork
	S3Region        string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3Bucket        string `env:"S3_BUCKET"`
	S3AccessKey     string `env:"S3_ACCESS_KEY"`
	S3SecretKey     string `env:"S3_SECRET_KEY"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`

	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"migrations"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// UploadEnabled reports whether the artwork upload endpoint can be served.
func (c *Config) UploadEnabled() bool {
	return c.S3Bucket != ""
}

func (c *Config) Validate(isProduction bool) error {
	if err := validateSecret("SESSION_SECRET", c.SessionSecret, isProduction); err != nil {
		return err
	}

	if !strings.Contains(c.DefaultAdminEmail, "@") {
		return fmt.Errorf("DEFAULT_ADMIN_EMAIL must be an email address")
	}

	if isProduction {
		for _, weak := range knownWeakSecrets {
			if c.DefaultAdminPassword == weak {
				return fmt.Errorf("DEFAULT_ADMIN_PASSWORD is a known weak default; set a strong password in production")
			}
		}
		if !c.UploadEnabled() {
			log.Warn().Msg("S3_BUCKET is empty in production: kajian artwork upload disabled")
		}
	}

	return nil
}

func validateSecret(name, value string, isProduction bool) error {
	if !isProduction {
		return nil
	}
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
