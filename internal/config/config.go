package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"production"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Document store
	MongoURI     string `envconfig:"MONGODB_URI" required:"true"`
	DatabaseName string `envconfig:"DATABASE_NAME" default:"algoforge"`
	DBTimeoutSec int    `envconfig:"DB_TIMEOUT_SEC" default:"10"`

	// Auth
	JWTSecret     string `envconfig:"JWT_SECRET" required:"true"`
	TokenTTLHours int    `envconfig:"TOKEN_TTL_HOURS" default:"24"`
	CookieSecure  bool   `envconfig:"COOKIE_SECURE" default:"true"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`

	// Markdown blog posts
	BlogDir string `envconfig:"BLOG_DIR" default:"./content/blog"`

	// Lead form rate limiting; disabled when REDIS_ADDR is empty
	RedisAddr         string `envconfig:"REDIS_ADDR"`
	RedisPassword     string `envconfig:"REDIS_PASSWORD"`
	LeadRateLimit     int    `envconfig:"LEAD_RATE_LIMIT" default:"5"`
	LeadRateWindowSec int    `envconfig:"LEAD_RATE_WINDOW_SEC" default:"600"`
	// Proxies allowed to set X-Forwarded-For / X-Real-IP
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`

	// Lead notification email
	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SMTPFrom     string `envconfig:"SMTP_FROM"`
	LeadNotifyTo string `envconfig:"LEAD_NOTIFY_TO"`

	// S3-compatible storage for course and blog images
	S3URL       string `envconfig:"S3_URL"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`

	// Google Cloud
	GCPProjectID       string `envconfig:"GCP_PROJECT_ID"`
	GCPCredentialsFile string `envconfig:"GCP_CREDENTIALS_FILE"`
	LeadTopic          string `envconfig:"LEAD_TOPIC" default:"lead-captured"`

	// Chat assistant (OpenAI-compatible streaming endpoint)
	ChatAPIURL       string `envconfig:"CHAT_API_URL"`
	ChatAPIKey       string `envconfig:"CHAT_API_KEY"`
	ChatAPIKeySecret string `envconfig:"CHAT_API_KEY_SECRET"`
	ChatModel        string `envconfig:"CHAT_MODEL" default:"gpt-4o-mini"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

func (c *Config) DBTimeout() time.Duration {
	return time.Duration(c.DBTimeoutSec) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func (c *Config) LeadRateWindow() time.Duration {
	return time.Duration(c.LeadRateWindowSec) * time.Second
}

// SMTPEnabled reports whether lead notification email can be sent.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.LeadNotifyTo != ""
}

func (c *Config) StorageEnabled() bool {
	return c.S3Bucket != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) ChatEnabled() bool {
	return c.ChatAPIURL != "" && (c.ChatAPIKey != "" || c.ChatAPIKeySecret != "")
}
