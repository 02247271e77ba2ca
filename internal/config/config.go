package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the whole application configuration.
// Every field is populated from environment variables.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Stripe    StripeConfig
	Email     EmailConfig
	MinIO     MinIOConfig
	Site      SiteConfig
	Admin     AdminConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, preview, production
	Port        string
	Version     string
	DemoMode    bool
}

// IsProduction reports whether the service runs with production guarantees.
func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// IsSimulation reports whether outgoing demo-request emails are simulated.
func (a AppConfig) IsSimulation() bool {
	return a.Environment == "development" || a.Environment == "preview"
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

// DSN is the lib/pq style URL used by the migration runner.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode)
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Issuer            string
	AccessTokenExpiry time.Duration
}

// =====================================================
// STRIPE CONFIGURATION
// =====================================================

type StripeConfig struct {
	SecretKey      string
	WebhookSecret  string
	PublishableKey string

	// Price ids per plan; empty keeps the catalog defaults
	InfluencerPriceID      string
	InfluencerMediaPriceID string
}

// =====================================================
// EMAIL CONFIGURATION
// =====================================================

type EmailConfig struct {
	ResendAPIKey string
	From         string
	DemoFrom     string
	NewsFrom     string
	ContactInbox string
	Delivery     string // direct, queue
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // base URL objects are served from
}

type SiteConfig struct {
	BaseURL        string // public marketing site
	AppURL         string // app.plik.ca, checkout success target
	AllowedOrigins []string
}

type AdminConfig struct {
	Email        string
	PasswordHash string // bcrypt
}

type RateLimitConfig struct {
	FormsPerMinute int
	FormsBurst     int
}

type JobsConfig struct {
	WebhookRetentionDays int
	Concurrency          int
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Plik API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			DemoMode:    getEnvBool("DEMO_MODE", false),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "plik"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			Issuer:            getEnv("JWT_ISSUER", "plik.ca"),
			AccessTokenExpiry: getEnvDuration("JWT_ACCESS_EXPIRY", 12*time.Hour),
		},
		Stripe: StripeConfig{
			SecretKey:              getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret:          getEnv("STRIPE_WEBHOOK_SECRET", ""),
			PublishableKey:         getEnv("NEXT_PUBLIC_STRIPE_PUBLISHABLE_KEY", ""),
			InfluencerPriceID:      getEnv("STRIPE_INFLUENCER_PRICE_ID", ""),
			InfluencerMediaPriceID: getEnv("STRIPE_INFLUENCER_MEDIA_PRICE_ID", ""),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("EMAIL_FROM", "noreply@plik.ca"),
			DemoFrom:     getEnv("EMAIL_DEMO_FROM", "Demo Requests <onboarding@resend.dev>"),
			NewsFrom:     getEnv("EMAIL_NEWSLETTER_FROM", "Newsletter <noreply@plik.ca>"),
			ContactInbox: getEnv("CONTACT_INBOX", "gaven@datablitz.com"),
			Delivery:     strings.ToLower(getEnv("EMAIL_DELIVERY", "direct")),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "blog-images"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			PublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		},
		Site: SiteConfig{
			BaseURL:        strings.TrimRight(getEnv("SITE_URL", "https://plik.ca"), "/"),
			AppURL:         strings.TrimRight(getEnv("APP_URL", "https://app.plik.ca"), "/"),
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "https://plik.ca"}),
		},
		Admin: AdminConfig{
			Email:        strings.ToLower(getEnv("ADMIN_EMAIL", "")),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		RateLimit: RateLimitConfig{
			FormsPerMinute: getEnvInt("RATE_LIMIT_FORMS_PER_MINUTE", 5),
			FormsBurst:     getEnvInt("RATE_LIMIT_FORMS_BURST", 5),
		},
		Jobs: JobsConfig{
			WebhookRetentionDays: getEnvInt("WEBHOOK_RETENTION_DAYS", 30),
			Concurrency:          getEnvInt("WORKER_CONCURRENCY", 10),
		},
	}

	if cfg.MinIO.PublicURL == "" {
		scheme := "http"
		if cfg.MinIO.UseSSL {
			scheme = "https"
		}
		cfg.MinIO.PublicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinIO.Endpoint, cfg.MinIO.Bucket)
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the config is usable for the current environment.
func (c *Config) Validate() error {
	if c.Email.Delivery != "direct" && c.Email.Delivery != "queue" {
		return fmt.Errorf("EMAIL_DELIVERY must be direct or queue, got %q", c.Email.Delivery)
	}
	if c.RateLimit.FormsPerMinute <= 0 || c.RateLimit.FormsBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_FORMS_PER_MINUTE and RATE_LIMIT_FORMS_BURST must be positive")
	}

	if c.App.IsProduction() {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Stripe.SecretKey == "" {
			return fmt.Errorf("STRIPE_SECRET_KEY must be set in production")
		}
		if c.Stripe.WebhookSecret == "" {
			return fmt.Errorf("STRIPE_WEBHOOK_SECRET must be set in production")
		}
		if c.Admin.PasswordHash == "" {
			return fmt.Errorf("ADMIN_PASSWORD_HASH must be set in production")
		}

		if c.Email.ResendAPIKey == "" {
			fmt.Println("WARNING: RESEND_API_KEY not set - contact forms will fail")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
