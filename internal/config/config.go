package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	DebugErrors     bool          `json:"debug_errors"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`
	BodyLimit       int           `json:"body_limit"`
	StaticDir       string        `json:"static_dir"`

	// Site
	SiteTag      string `json:"site_tag"`
	SiteTimezone string `json:"site_timezone"`
	PhoneRegion  string `json:"phone_region"`
	// Other site tags the content endpoints may serve besides SiteTag
	AllowedSites []string `json:"allowed_sites"`

	// SMTP configuration
	SMTPHost        string        `json:"smtp_host"`
	SMTPPort        int           `json:"smtp_port"`
	SMTPUser        string        `json:"smtp_user"`
	SMTPPass        string        `json:"-"`
	SMTPFrom        string        `json:"smtp_from"`
	SMTPImplicitTLS bool          `json:"smtp_implicit_tls"`
	SMTPTimeout     time.Duration `json:"smtp_timeout"`

	// Third-party form relay (Formspree compatible)
	FormRelayURL string `json:"form_relay_url"`

	// Sanity content store
	SanityProjectID  string        `json:"sanity_project_id"`
	SanityDataset    string        `json:"sanity_dataset"`
	SanityAPIVersion string        `json:"sanity_api_version"`
	SanityToken      string        `json:"-"`
	SanityUseCDN     bool          `json:"sanity_use_cdn"`
	CMSTimeout       time.Duration `json:"cms_timeout"`

	// Cache configuration
	RedisURL         string        `json:"redis_url"`
	RedisPrefix      string        `json:"redis_prefix"`
	RevalidateWindow time.Duration `json:"revalidate_window"`

	// Rate limiting for the form endpoints
	RateLimitRequests int           `json:"rate_limit_requests"`
	RateLimitInterval time.Duration `json:"rate_limit_interval"`

	// Logging
	LogLevel  string `json:"log_level"`
	LogFile   string `json:"log_file"`
	LogPretty bool   `json:"log_pretty"`

	// Security
	AdminAPIKey string `json:"-"`
}

// Load loads configuration from environment variables and validates it
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := FromEnv()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// FromEnv builds a Config from the current environment without validating it.
func FromEnv() *Config {
	env := getEnv("APP_ENV", "development")
	development := env == "development"

	return &Config{
		// Server configuration
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		DebugErrors:     getEnvAsBool("DEBUG_ERRORS", development),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),
		BodyLimit:       getEnvAsInt("BODY_LIMIT", 1<<20), // 1MB
		StaticDir:       getEnv("STATIC_DIR", "./web/static"),

		// Site
		SiteTag:      getEnv("SITE_TAG", "lane"),
		SiteTimezone: getEnv("SITE_TIMEZONE", "Australia/Melbourne"),
		PhoneRegion:  getEnv("PHONE_REGION", "AU"),
		AllowedSites: getEnvAsSlice("SITE_ALLOWLIST", nil),

		// SMTP configuration
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:        getEnv("SMTP_USER", ""),
		SMTPPass:        getEnv("SMTP_PASS", ""),
		SMTPFrom:        getEnv("SMTP_FROM", "noreply@involv.com.au"),
		SMTPImplicitTLS: getEnvAsBool("SMTP_IMPLICIT_TLS", false),
		SMTPTimeout:     getEnvAsDuration("SMTP_TIMEOUT", 30*time.Second),

		FormRelayURL: getEnv("FORM_RELAY_URL", ""),

		// Sanity content store
		SanityProjectID:  getEnv("SANITY_PROJECT_ID", ""),
		SanityDataset:    getEnv("SANITY_DATASET", "production"),
		SanityAPIVersion: getEnv("SANITY_API_VERSION", "2023-05-03"),
		SanityToken:      getEnv("SANITY_TOKEN", ""),
		SanityUseCDN:     getEnvAsBool("SANITY_USE_CDN", true),
		CMSTimeout:       getEnvAsDuration("CMS_TIMEOUT", 15*time.Second),

		// Cache configuration
		RedisURL:         getEnv("REDIS_URL", ""),
		RedisPrefix:      getEnv("REDIS_PREFIX", "lanesite:"),
		RevalidateWindow: getEnvAsDuration("REVALIDATE_WINDOW", 5*time.Minute),

		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 10),
		RateLimitInterval: getEnvAsDuration("RATE_LIMIT_INTERVAL", time.Minute),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFile:   getEnv("LOG_FILE", ""),
		LogPretty: getEnvAsBool("LOG_PRETTY", development),

		// Security
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	if c.BodyLimit <= 0 {
		return fmt.Errorf("BODY_LIMIT must be positive, got %d", c.BodyLimit)
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("invalid SMTP_PORT %d", c.SMTPPort)
	}
	if strings.TrimSpace(c.SiteTag) == "" {
		return fmt.Errorf("SITE_TAG must not be empty")
	}
	if _, err := time.LoadLocation(c.SiteTimezone); err != nil {
		return fmt.Errorf("invalid SITE_TIMEZONE %q: %w", c.SiteTimezone, err)
	}
	if c.RevalidateWindow < 0 {
		return fmt.Errorf("REVALIDATE_WINDOW must not be negative")
	}
	if c.IsProduction() && c.DebugErrors {
		return fmt.Errorf("DEBUG_ERRORS must be off when APP_ENV=production")
	}
	return nil
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SiteAllowed reports whether the content endpoints may serve site.
func (c *Config) SiteAllowed(site string) bool {
	if site == c.SiteTag {
		return true
	}
	for _, allowed := range c.AllowedSites {
		if site == allowed {
			return true
		}
	}
	return false
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %t", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsSlice(name string, defaultVal []string) []string {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
