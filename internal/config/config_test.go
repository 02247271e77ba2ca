package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://app.plik.ca", cfg.Site.AppURL)
	assert.Equal(t, "gaven@datablitz.com", cfg.Email.ContactInbox)
	assert.Equal(t, "direct", cfg.Email.Delivery)
	assert.Equal(t, 30, cfg.Jobs.WebhookRetentionDays)
	assert.Equal(t, 12*time.Hour, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, "http://localhost:9000/blog-images", cfg.MinIO.PublicURL)
	assert.True(t, cfg.App.IsSimulation())
	assert.False(t, cfg.App.DemoMode)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_URL", "https://app.example.com/")
	t.Setenv("EMAIL_DELIVERY", "QUEUE")
	t.Setenv("DEMO_MODE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, https://b.test,")
	t.Setenv("JWT_ACCESS_EXPIRY", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://app.example.com", cfg.Site.AppURL)
	assert.Equal(t, "queue", cfg.Email.Delivery)
	assert.True(t, cfg.App.DemoMode)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Site.AllowedOrigins)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenExpiry)
}

func TestValidate_RejectsUnknownDelivery(t *testing.T) {
	t.Setenv("EMAIL_DELIVERY", "carrier-pigeon")

	_, err := Load()
	assert.ErrorContains(t, err, "EMAIL_DELIVERY")
}

func TestValidate_Production(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:       AppConfig{Environment: "production"},
			Database:  DatabaseConfig{Password: "pw"},
			JWT:       JWTConfig{Secret: "real-secret"},
			Stripe:    StripeConfig{SecretKey: "sk_live_x", WebhookSecret: "whsec_x"},
			Email:     EmailConfig{Delivery: "direct", ResendAPIKey: "re_x"},
			Admin:     AdminConfig{PasswordHash: "$2a$10$x"},
			RateLimit: RateLimitConfig{FormsPerMinute: 5, FormsBurst: 5},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"default jwt secret", func(c *Config) { c.JWT.Secret = defaultJWTSecret }, "JWT_SECRET"},
		{"no db password", func(c *Config) { c.Database.Password = "" }, "DB_PASSWORD"},
		{"no stripe key", func(c *Config) { c.Stripe.SecretKey = "" }, "STRIPE_SECRET_KEY"},
		{"no webhook secret", func(c *Config) { c.Stripe.WebhookSecret = "" }, "STRIPE_WEBHOOK_SECRET"},
		{"no admin hash", func(c *Config) { c.Admin.PasswordHash = "" }, "ADMIN_PASSWORD_HASH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.ErrorContains(t, c.Validate(), tt.want)
		})
	}
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_RETRY_DELAY", "250ms")

	cfg, err := LoadDatabaseConfig()
	require.NoError(t, err)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, int32(25), cfg.MaxConns)

	t.Setenv("DB_CONNECT_TIMEOUT", "soon")
	_, err = LoadDatabaseConfig()
	assert.ErrorContains(t, err, "DB_CONNECT_TIMEOUT")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{User: "u", Password: "p", Host: "h", Port: 5432, Database: "plik", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/plik?sslmode=disable", d.DSN())
}
