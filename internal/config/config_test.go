package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validSQLiteConfig(t *testing.T) Config {
	return Config{
		ServerPort:       ":8080",
		RequestTimeout:   5 * time.Second,
		DBDriver:         "sqlite",
		SQLiteDBPath:     filepath.Join(t.TempDir(), "ledger.db"),
		CacheTTL:         time.Minute,
		CacheMaxEntries:  10,
		ReminderSchedule: "0 9 * * *",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid sqlite config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "valid mysql config",
			mutate: func(c *Config) {
				c.DBDriver = "mysql"
				c.DBUser = "ledger"
				c.DBName = "cuentas_claras"
			},
			wantErr: false,
		},
		{
			name:        "port without colon",
			mutate:      func(c *Config) { c.ServerPort = "8080" },
			wantErr:     true,
			errorString: "invalid server port '8080': must look like ':8080'",
		},
		{
			name:        "port out of range",
			mutate:      func(c *Config) { c.ServerPort = ":70000" },
			wantErr:     true,
			errorString: "invalid server port ':70000': must be between 1 and 65535",
		},
		{
			name:        "unknown driver",
			mutate:      func(c *Config) { c.DBDriver = "postgres" },
			wantErr:     true,
			errorString: "invalid database driver 'postgres': must be one of [mysql sqlite]",
		},
		{
			name:        "mysql without user",
			mutate:      func(c *Config) { c.DBDriver = "mysql"; c.DBName = "x" },
			wantErr:     true,
			errorString: "DB_USER is required when using the mysql driver",
		},
		{
			name:        "cert without key",
			mutate:      func(c *Config) { c.CertFile = "cert.pem" },
			wantErr:     true,
			errorString: "CERT_FILE and KEY_FILE must be set together",
		},
		{
			name:        "bad amqp scheme",
			mutate:      func(c *Config) { c.AMQPURL = "http://localhost"; c.AMQPExchange = "x" },
			wantErr:     true,
			errorString: "invalid AMQP URL scheme 'http': must be 'amqp' or 'amqps'",
		},
		{
			name:        "smtp without sender",
			mutate:      func(c *Config) { c.SMTPHost = "smtp.example.com"; c.SMTPPort = 587 },
			wantErr:     true,
			errorString: "SMTP_EMAIL is required when SMTP_HOST is set",
		},
		{
			name:        "zero cache size",
			mutate:      func(c *Config) { c.CacheMaxEntries = 0 },
			wantErr:     true,
			errorString: "invalid cache size 0: must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validSQLiteConfig(t)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.errorString)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CACHE_MAX_ENTRIES", "not-a-number")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("SMTP_HOST", "")

	cfg := Load()

	if cfg.DBDriver != "sqlite" {
		t.Errorf("DBDriver = %q, want sqlite", cfg.DBDriver)
	}
	if cfg.RequestTimeout != 2*time.Second {
		t.Errorf("RequestTimeout = %v, want 2s", cfg.RequestTimeout)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %d, want 3", cfg.RedisDB)
	}
	if cfg.CacheMaxEntries != 512 {
		t.Errorf("CacheMaxEntries = %d, want default 512", cfg.CacheMaxEntries)
	}
	if cfg.ServerPort != ":8080" {
		t.Errorf("ServerPort = %q, want default :8080", cfg.ServerPort)
	}
	if cfg.RemindersEnabled() {
		t.Error("reminders should be disabled without SMTP_HOST")
	}
}
