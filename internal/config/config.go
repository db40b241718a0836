package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds relational database connection settings.
// Driver selects the dialect: "postgres" (default) or "mysql".
type DatabaseConfig struct {
	Driver             string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	AutoMigrate        bool
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// StorageConfig selects and configures the image store backend.
// Backend is "local" (files under UploadDir) or "minio".
type StorageConfig struct {
	Backend   string
	UploadDir string
	MinIO     MinIOConfig
}

// AuthConfig configures the optional bearer token check on write routes.
// An empty JWTSecret disables the check.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

// LogConfig controls the zerolog global level and output format ("json" or "console").
type LogConfig struct {
	Level  string
	Format string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost        string
	Port           string
	PublicBaseURL  string
	UploadsMount   string
	CORSOrigin     string
	BodyLimitBytes int
	Database       DatabaseConfig
	Storage        StorageConfig
	Auth           AuthConfig
	Log            LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:        getEnv("APP_HOST", "localhost:5000"),
		Port:           getEnv("PORT", "5000"),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", ""),
		UploadsMount:   getEnv("UPLOADS_MOUNT", "/uploads"),
		CORSOrigin:     getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:3000"),
		BodyLimitBytes: getEnvInt("BODY_LIMIT_BYTES", 16*1024*1024),
		Database: DatabaseConfig{
			Driver:             getEnv("DB_DRIVER", "postgres"),
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", ""),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			AutoMigrate:        getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Storage: StorageConfig{
			Backend:   getEnv("STORAGE_BACKEND", "local"),
			UploadDir: getEnv("UPLOAD_DIR", "uploads"),
			MinIO: MinIOConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", ""),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
			Issuer:    getEnv("AUTH_JWT_ISSUER", "schoolapi"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// ClientConfig configures the API client used by schoolctl.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	Token   string
}

// LoadClient reads client settings. Defaults assume the API runs on localhost:5000.
func LoadClient() *ClientConfig {
	return &ClientConfig{
		BaseURL: getEnv("SCHOOL_API_BASE_URL", "http://localhost:5000/api"),
		Timeout: getEnvDuration("SCHOOL_API_TIMEOUT", 30*time.Second),
		Token:   getEnv("SCHOOL_API_TOKEN", ""),
	}
}

// DefaultPort returns the conventional port of the configured database driver.
func (c DatabaseConfig) DefaultPort() string {
	if c.Driver == "mysql" {
		return "3306"
	}
	return "5432"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvDuration accepts Go duration strings ("30s") or a bare number of milliseconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}
