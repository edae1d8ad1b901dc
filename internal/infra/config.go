package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string

	CORSAllowedOrigins []string
	GeoIPDBPath        string
	DefaultLocale      string

	// Payment provider (Daraja-style push payments).
	DarajaBaseURL        string
	DarajaConsumerKey    string
	DarajaConsumerSecret string
	DarajaPasskey        string
	DarajaShortcode      string
	CallbackBaseURL      string

	// Image host for event pictures.
	ImageHostCloudName string
	ImageHostAPIKey    string
	ImageHostAPISecret string
	ImageUploadFolder  string

	// Video platform for livestream provisioning.
	YouTubeBaseURL string
	YouTubeAPIKey  string

	// Local fallback storage for uploaded assets.
	StorageDir     string
	StorageBaseURL string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	GatewayTimeout   time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        port,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		CORSAllowedOrigins: splitEnvList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "en"),

		DarajaBaseURL:        getEnv("MPESA_BASE_URL", "https://sandbox.safaricom.co.ke"),
		DarajaConsumerKey:    os.Getenv("MPESA_CONSUMER_KEY"),
		DarajaConsumerSecret: os.Getenv("MPESA_CONSUMER_SECRET"),
		DarajaPasskey:        os.Getenv("MPESA_PASSKEY"),
		DarajaShortcode:      os.Getenv("MPESA_SHORTCODE"),
		CallbackBaseURL:      getEnv("BASE_URL", "http://localhost:"+port),

		ImageHostCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		ImageHostAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		ImageHostAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		ImageUploadFolder:  getEnv("IMAGE_UPLOAD_FOLDER", "event-images"),

		YouTubeBaseURL: getEnv("YOUTUBE_BASE_URL", "https://www.googleapis.com/youtube/v3"),
		YouTubeAPIKey:  os.Getenv("YOUTUBE_API_KEY"),

		StorageDir:     getEnv("STORAGE_DIR", "./data/static"),
		StorageBaseURL: getEnv("STORAGE_BASE_URL", "http://localhost:"+port+"/static"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		GatewayTimeout:   time.Second * time.Duration(getEnvInt("GATEWAY_TIMEOUT_SECONDS", 30)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// HasPaymentCredentials reports whether the push-payment provider is configured.
func (c *Config) HasPaymentCredentials() bool {
	return c.DarajaConsumerKey != "" && c.DarajaConsumerSecret != "" &&
		c.DarajaPasskey != "" && c.DarajaShortcode != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitEnvList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
