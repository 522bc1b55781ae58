// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Upload providers understood by the credential issuer.
const (
	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
)

// Database backends, derived from the scheme of DATABASE_URL.
const (
	BackendMongo    = "mongodb"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// ErrInvalid is wrapped by every error returned from Validate.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all runtime configuration for the service.
type Config struct {
	Port           string
	AppEnv         string
	AllowedOrigins []string

	DatabaseURL  string
	DatabaseName string

	UploadProvider string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryAPIBase   string

	// S3-compatible storage used when UploadProvider is "s3"
	StorageEndpoint   string
	StorageAccessKey  string
	StorageSecretKey  string
	StorageRegion     string
	StorageBucket     string
	StorageUseSSL     bool
	StoragePublicBase string // browser-accessible base URL, e.g. "http://localhost:9000/uploads"
	StoragePolicyTTL  time.Duration
	StorageMaxUpload  int64

	RedisURL string
	CacheTTL time.Duration

	LogLevel string
	LogPath  string
}

// Load reads configuration from a .env file (if present) and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading from environment")
	}

	return &Config{
		Port:           getEnv("PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),

		DatabaseURL:  getEnv("DATABASE_URL", getEnv("MONGODB_URI", "mongodb://localhost:27017")),
		DatabaseName: getEnv("DATABASE_NAME", "cloudinary_uploads"),

		UploadProvider: strings.ToLower(getEnv("UPLOAD_PROVIDER", ProviderCloudinary)),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryAPIBase:   getEnv("CLOUDINARY_API_BASE", "https://api.cloudinary.com/v1_1"),

		StorageEndpoint:   getEnv("STORAGE_ENDPOINT", "localhost:9000"),
		StorageAccessKey:  getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
		StorageSecretKey:  getEnv("STORAGE_SECRET_KEY", "minioadmin"),
		StorageRegion:     getEnv("STORAGE_REGION", "us-east-1"),
		StorageBucket:     getEnv("STORAGE_BUCKET", "uploads"),
		StorageUseSSL:     getEnv("STORAGE_USE_SSL", "false") == "true",
		StoragePublicBase: getEnv("STORAGE_PUBLIC_BASE", "http://localhost:9000/uploads"),
		StoragePolicyTTL:  getDuration("STORAGE_POLICY_TTL", 10*time.Minute),
		StorageMaxUpload:  getInt64("STORAGE_MAX_UPLOAD_BYTES", 10<<20),

		RedisURL: getEnv("REDIS_URL", ""),
		CacheTTL: getDuration("CACHE_TTL", 30*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogPath:  getEnv("LOG_PATH", ""),
	}
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DatabaseBackend reports which record store DatabaseURL points at.
func (c *Config) DatabaseBackend() string {
	u, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "mongodb", "mongodb+srv":
		return BackendMongo
	case "postgres", "postgresql":
		return BackendPostgres
	case "memory":
		return BackendMemory
	}
	return ""
}

// Validate checks that everything the selected backend and provider need is present.
// All problems are reported together.
func (c *Config) Validate() error {
	var problems []string

	if c.Port == "" {
		problems = append(problems, "PORT is empty")
	}

	backend := c.DatabaseBackend()
	if _, err := url.Parse(c.DatabaseURL); err != nil {
		// the URL error quotes the input, which may hold a password
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		problems = append(problems, fmt.Sprintf("DATABASE_URL is not a valid URL: %v", err))
		backend = "invalid"
	}

	switch backend {
	case "invalid":
	case BackendMongo:
		if c.DatabaseName == "" {
			problems = append(problems, "DATABASE_NAME is empty")
		}
	case BackendPostgres:
	case BackendMemory:
		if c.IsProduction() {
			problems = append(problems, "in-memory store is not allowed in production")
		}
	default:
		problems = append(problems, fmt.Sprintf("DATABASE_URL has unsupported scheme: %q", c.DatabaseURL))
	}

	switch c.UploadProvider {
	case ProviderCloudinary:
		for name, v := range map[string]string{
			"CLOUDINARY_CLOUD_NAME": c.CloudinaryCloudName,
			"CLOUDINARY_API_KEY":    c.CloudinaryAPIKey,
			"CLOUDINARY_API_SECRET": c.CloudinaryAPISecret,
		} {
			if v == "" {
				problems = append(problems, name+" is required")
			}
		}
	case ProviderS3:
		if c.StorageBucket == "" || c.StorageEndpoint == "" {
			problems = append(problems, "STORAGE_ENDPOINT and STORAGE_BUCKET are required")
		}
		if c.StoragePolicyTTL <= 0 {
			problems = append(problems, "STORAGE_POLICY_TTL must be positive")
		}
	default:
		problems = append(problems, fmt.Sprintf("UPLOAD_PROVIDER must be %q or %q", ProviderCloudinary, ProviderS3))
	}

	if len(problems) == 0 {
		return nil
	}
	// map iteration above is unordered
	slices.Sort(problems)
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return d
}

func getInt64(key string, fallback int64) int64 {
	n, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
