package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Port int    `json:"port"`
	Host string `json:"host"`

	// Database configuration (sqlite by default, postgres supported)
	DBDriver   string `json:"db_driver"`
	DBPath     string `json:"db_path"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBName     string `json:"db_name"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBSSLMode  string `json:"db_ssl_mode"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret string `json:"jwt_secret"`

	// PublicBaseURL is the base URL of the published customer view site.
	// Share links and QR codes are built against it.
	PublicBaseURL string `json:"public_base_url"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, DBDriver: %s, DBPath: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], LogLevel: %s, JWTSecret: [REDACTED], PublicBaseURL: %s}",
		c.Port, c.Host, c.DBDriver, c.DBPath, c.DBHost, c.DBName, c.DBUser, c.LogLevel, c.PublicBaseURL)
}

// LoadConfig reads the application configuration from environment variables
// and returns a Config struct. It validates the public base URL format.
// Returns an error if any environment variable holds an invalid value.
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port := GetEnvAsType("APP_PORT", 8080)
	if raw := os.Getenv("APP_PORT"); raw != "" {
		if _, err := strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("invalid APP_PORT value %q: %w", raw, err)
		}
	}

	baseURL := GetEnvWithDefault("PUBLIC_BASE_URL", "http://localhost:8080/")
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid PUBLIC_BASE_URL format %q: %w", baseURL, err)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	config := &Config{
		Port:          port,
		Host:          GetEnvWithDefault("APP_HOST", "localhost"),
		DBDriver:      GetEnvWithDefault("DB_DRIVER", "sqlite"),
		DBPath:        GetEnvWithDefault("DB_PATH", "allergen-matrix.sqlite"),
		DBHost:        GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:        GetEnvWithDefault("DB_PORT", "5432"),
		DBName:        GetEnvWithDefault("DB_NAME", "allergen_matrix"),
		DBUser:        GetEnvWithDefault("DB_USER", "user"),
		DBPassword:    GetEnvWithDefault("DB_PASSWORD", "password"),
		DBSSLMode:     GetEnvWithDefault("DB_SSL_MODE", "disable"),
		LogLevel:      GetEnvWithDefault("LOG_LEVEL", "info"),
		JWTSecret:     GetEnvWithDefault("JWT_SECRET", "secret"),
		PublicBaseURL: baseURL,
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Warnf("Environment variable %s not set, using default value: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
