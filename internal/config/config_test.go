package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCloudinary() *Config {
	return &Config{
		Port:                "3000",
		DatabaseURL:         "mongodb://localhost:27017",
		DatabaseName:        "cloudinary_uploads",
		UploadProvider:      ProviderCloudinary,
		CloudinaryCloudName: "demo",
		CloudinaryAPIKey:    "123456",
		CloudinaryAPISecret: "secret",
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_URL", "MONGODB_URI", "DATABASE_NAME", "UPLOAD_PROVIDER", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}
	t.Setenv("STORAGE_POLICY_TTL", "not-a-duration")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.DatabaseURL)
	assert.Equal(t, "cloudinary_uploads", cfg.DatabaseName)
	assert.Equal(t, ProviderCloudinary, cfg.UploadProvider)
	assert.Equal(t, 10*time.Minute, cfg.StoragePolicyTTL)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoad_MongoURIFallback(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MONGODB_URI", "mongodb://db.internal:27017")

	assert.Equal(t, "mongodb://db.internal:27017", Load().DatabaseURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/gallery")
	t.Setenv("UPLOAD_PROVIDER", "S3")
	t.Setenv("CACHE_TTL", "1m")
	t.Setenv("STORAGE_MAX_UPLOAD_BYTES", "2048")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg := Load()

	assert.Equal(t, BackendPostgres, cfg.DatabaseBackend())
	assert.Equal(t, ProviderS3, cfg.UploadProvider)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, int64(2048), cfg.StorageMaxUpload)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestConfig_DatabaseBackend(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"mongodb://localhost:27017", BackendMongo},
		{"mongodb+srv://user:pw@cluster0.example.net", BackendMongo},
		{"postgresql://localhost/gallery", BackendPostgres},
		{"memory://", BackendMemory},
		{"mysql://localhost", ""},
		{"::", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			cfg := &Config{DatabaseURL: tt.url}
			assert.Equal(t, tt.want, cfg.DatabaseBackend())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "complete cloudinary config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing secret fails fast",
			mutate:  func(c *Config) { c.CloudinaryAPISecret = "" },
			wantErr: "CLOUDINARY_API_SECRET is required",
		},
		{
			name: "all cloudinary values missing",
			mutate: func(c *Config) {
				c.CloudinaryCloudName, c.CloudinaryAPIKey, c.CloudinaryAPISecret = "", "", ""
			},
			wantErr: "CLOUDINARY_API_KEY is required; CLOUDINARY_API_SECRET is required; CLOUDINARY_CLOUD_NAME is required",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.UploadProvider = "imgur" },
			wantErr: "UPLOAD_PROVIDER must be",
		},
		{
			name:    "unsupported database",
			mutate:  func(c *Config) { c.DatabaseURL = "mysql://localhost/x" },
			wantErr: "unsupported scheme",
		},
		{
			name:    "unparsable database url names the parse error",
			mutate:  func(c *Config) { c.DatabaseURL = "mongodb://app:p@ss@localhost:27017" },
			wantErr: "DATABASE_URL is not a valid URL: net/url: invalid userinfo",
		},
		{
			name: "memory store refused in production",
			mutate: func(c *Config) {
				c.DatabaseURL = "memory://"
				c.AppEnv = "production"
			},
			wantErr: "in-memory store is not allowed in production",
		},
		{
			name: "s3 provider needs a positive policy ttl",
			mutate: func(c *Config) {
				c.UploadProvider = ProviderS3
				c.StorageEndpoint = "localhost:9000"
				c.StorageBucket = "uploads"
			},
			wantErr: "STORAGE_POLICY_TTL must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validCloudinary()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.NotContains(t, err.Error(), "p@ss")
		})
	}
}
