package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// MediaInputPolicy decides which media inputs a create request must carry.
type MediaInputPolicy string

const (
	URLsRequired   MediaInputPolicy = "urls"
	FilesRequired  MediaInputPolicy = "files"
	EitherAccepted MediaInputPolicy = "either"
)

var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

var defaultAllowedFormats = []string{"jpg", "jpeg", "png", "webp", "gif", "mp4", "mov", "webm", "mkv"}

type Config struct {
	// Database
	DatabaseURL  string
	DatabaseName string

	// Admin session
	SessionSecret        string
	AdminPassword        string
	AdminPasswordHash    string
	SessionSweepInterval time.Duration

	// CORS
	AllowedOrigins []string

	// Media
	MediaProvider       string
	MediaInputPolicy    MediaInputPolicy
	MediaAllowedFormats []string
	MaxUploadMB         int64

	// Cloudinary
	CloudinaryURL       string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// Supabase
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string

	// Site
	SiteContentFile string

	// Server
	Port        string
	Environment string
	BaseURL     string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:  getEnv("DATABASE_URL", getEnv("MONGO_URI", "")),
		DatabaseName: getEnv("DATABASE_NAME", "portfolio"),

		SessionSecret:        getEnv("SESSION_SECRET", ""),
		AdminPassword:        strings.TrimSpace(getEnv("ADMIN_PASSWORD", "")),
		AdminPasswordHash:    strings.TrimSpace(getEnv("ADMIN_PASSWORD_HASH", "")),
		SessionSweepInterval: getDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute),

		AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins),

		MediaProvider:       strings.ToLower(getEnv("MEDIA_PROVIDER", "cloudinary")),
		MediaInputPolicy:    MediaInputPolicy(strings.ToLower(getEnv("MEDIA_INPUT_POLICY", string(EitherAccepted)))),
		MediaAllowedFormats: getList("MEDIA_ALLOWED_FORMATS", defaultAllowedFormats),
		MaxUploadMB:         getInt("MAX_UPLOAD_MB", 200),

		CloudinaryURL:       getEnv("CLOUDINARY_URL", ""),
		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),

		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "portfolio-media"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogFile:   getEnv("LOG_FILE", ""),

		SiteContentFile: getEnv("SITE_CONTENT_FILE", ""),

		Port:        getEnv("PORT", "5001"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:5001"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS is required")
	}
	for _, o := range c.AllowedOrigins {
		if !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("CORS_ALLOWED_ORIGINS entry %q must start with http:// or https://", o)
		}
	}

	switch c.MediaInputPolicy {
	case URLsRequired, FilesRequired, EitherAccepted:
	default:
		return fmt.Errorf("MEDIA_INPUT_POLICY must be one of urls, files, either")
	}

	switch c.MediaProvider {
	case "cloudinary":
		if c.CloudinaryURL == "" {
			if c.CloudinaryCloudName == "" {
				return fmt.Errorf("CLOUDINARY_CLOUD_NAME is required")
			}
			if c.CloudinaryAPIKey == "" {
				return fmt.Errorf("CLOUDINARY_API_KEY is required")
			}
			if c.CloudinaryAPISecret == "" {
				return fmt.Errorf("CLOUDINARY_API_SECRET is required")
			}
		}
	case "supabase":
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required")
		}
		if c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
		}
	default:
		return fmt.Errorf("MEDIA_PROVIDER must be cloudinary or supabase")
	}

	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int64) int64 {
	v, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

// getList splits a comma separated variable, dropping blanks.
func getList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return append([]string(nil), defaultValue...)
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
