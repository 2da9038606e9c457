package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string

	// HTTP Server
	ServerPort      string
	CertFile        string
	KeyFile         string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigin   string

	// Database
	DBDriver     string
	DBUser       string
	DBPassword   string
	DBHost       string
	DBPort       string
	DBName       string
	SQLiteDBPath string

	// Report cache
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTL        time.Duration
	CacheMaxEntries int

	// AMQP
	AMQPURL      string
	AMQPExchange string

	// Reminders
	SMTPHost         string
	SMTPPort         int
	SMTPEmail        string
	SMTPPassword     string
	ReminderSchedule string
}

func Load() *Config {
	return &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ServerPort:      getEnv("SERVER_PORT", ":8080"),
		CertFile:        getEnv("CERT_FILE", ""),
		KeyFile:         getEnv("KEY_FILE", ""),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 5*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		AllowedOrigin:   getEnv("CORS_ALLOWED_ORIGIN", "*"),

		DBDriver:     getEnv("DB_DRIVER", "mysql"),
		DBUser:       getEnv("DB_USER", ""),
		DBPassword:   getEnv("DB_PASSWORD", ""),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "3306"),
		DBName:       getEnv("DB_NAME", "cuentas_claras"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/cuentas_claras.db"),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		CacheTTL:        getEnvDuration("CACHE_TTL", time.Minute),
		CacheMaxEntries: getEnvInt("CACHE_MAX_ENTRIES", 512),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "cuentas_claras"),

		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		SMTPEmail:        getEnv("SMTP_EMAIL", ""),
		SMTPPassword:     getEnv("SMTP_PASS", ""),
		ReminderSchedule: getEnv("REMINDER_SCHEDULE", "0 9 * * *"),
	}
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errors []string

	if !strings.HasPrefix(c.ServerPort, ":") {
		errors = append(errors, fmt.Sprintf("invalid server port '%s': must look like ':8080'", c.ServerPort))
	} else if port, err := strconv.Atoi(strings.TrimPrefix(c.ServerPort, ":")); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid server port '%s': must be between 1 and 65535", c.ServerPort))
	}

	if (c.CertFile == "") != (c.KeyFile == "") {
		errors = append(errors, "CERT_FILE and KEY_FILE must be set together")
	}

	if c.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid request timeout %v: must be positive", c.RequestTimeout))
	}

	switch c.DBDriver {
	case "mysql":
		if c.DBUser == "" {
			errors = append(errors, "DB_USER is required when using the mysql driver")
		}
		if c.DBName == "" {
			errors = append(errors, "DB_NAME is required when using the mysql driver")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using the sqlite driver")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid database driver '%s': must be one of [mysql sqlite]", c.DBDriver))
	}

	if c.CacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be positive", c.CacheTTL))
	}
	if c.CacheMaxEntries < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheMaxEntries))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SMTPHost != "" {
		if c.SMTPEmail == "" {
			errors = append(errors, "SMTP_EMAIL is required when SMTP_HOST is set")
		}
		if c.SMTPPort < 1 || c.SMTPPort > 65535 {
			errors = append(errors, fmt.Sprintf("invalid SMTP port %d", c.SMTPPort))
		}
		if c.ReminderSchedule == "" {
			errors = append(errors, "REMINDER_SCHEDULE cannot be empty when SMTP_HOST is set")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// RemindersEnabled reports whether debtor reminder e-mails can be sent.
func (c *Config) RemindersEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
