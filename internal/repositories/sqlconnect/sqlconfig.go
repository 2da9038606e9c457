package sqlconnect

import (
	"context"
	"cuentas_claras/internal/config"
	"cuentas_claras/pkg/utils"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// DSN builds the connection string for the configured driver. Migrations
// need multi-statement support on MySQL, regular traffic does not.
func DSN(cfg *config.Config, multiStatements bool) (string, error) {
	switch cfg.DBDriver {
	case DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = cfg.DBUser
		mc.Passwd = cfg.DBPassword
		mc.Net = "tcp"
		mc.Addr = cfg.DBHost + ":" + cfg.DBPort
		mc.DBName = cfg.DBName
		mc.ParseTime = true
		mc.Loc = time.UTC
		mc.MultiStatements = multiStatements
		mc.ClientFoundRows = true
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return mc.FormatDSN(), nil
	case DriverSQLite:
		return SQLiteDSN(cfg.SQLiteDBPath), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// SQLiteDSN enables foreign keys and a busy timeout on every connection.
func SQLiteDSN(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// ConnectDb opens the configured database, verifies it and applies pending
// migrations.
func ConnectDb(cfg *config.Config) (*sql.DB, error) {
	if cfg.DBDriver == DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLiteDBPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn, err := DSN(cfg, false)
	if err != nil {
		return nil, err
	}

	utils.Logger.WithField("driver", cfg.DBDriver).Info("Connecting to database...")

	db, err := sql.Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB connection: %w", err)
	}

	if cfg.DBDriver == DriverSQLite {
		// SQLite allows a single writer; one connection keeps transactions
		// from tripping over each other.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	migrationDSN, err := DSN(cfg, true)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := RunMigrations(cfg.DBDriver, migrationDSN); err != nil {
		db.Close()
		return nil, err
	}

	utils.Logger.WithField("driver", cfg.DBDriver).Info("Connected to database")
	return db, nil
}
