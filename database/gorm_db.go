package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/camden-git/fyyur/models"
)

// driverName is go-sqlite3 with the extra SQL functions the read queries use.
const driverName = "sqlite3_fyyur"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// SQLite's LOWER only folds ASCII
			return conn.RegisterFunc("ulower", strings.ToLower, true)
		},
	})
}

// gormWriter forwards GORM's logger output to zerolog
type gormWriter struct {
	log zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn().Msgf(format, args...)
}

// withConnParams appends the go-sqlite3 DSN flags every connection needs:
// foreign key enforcement (off by default in SQLite), a busy timeout, and
// BEGIN IMMEDIATE so a transaction takes the write lock up front. A deferred
// transaction that reads first cannot wait out the busy timeout when it later
// upgrades to a writer, it fails with SQLITE_BUSY straight away.
func withConnParams(dataSourceName string) string {
	params := []string{}
	if !strings.Contains(dataSourceName, "_foreign_keys") && !strings.Contains(dataSourceName, "_fk=") {
		params = append(params, "_foreign_keys=on")
	}
	if !strings.Contains(dataSourceName, "_busy_timeout") && !strings.Contains(dataSourceName, "_timeout=") {
		params = append(params, "_busy_timeout=5000")
	}
	if !strings.Contains(dataSourceName, "_txlock") {
		params = append(params, "_txlock=immediate")
	}
	if len(params) == 0 {
		return dataSourceName
	}
	sep := "?"
	if strings.Contains(dataSourceName, "?") {
		sep = "&"
	}
	return dataSourceName + sep + strings.Join(params, "&")
}

// InitGormDB initializes and returns a GORM database instance
func InitGormDB(dataSourceName string, log zerolog.Logger, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	gormLogger := logger.New(
		gormWriter{log: log.With().Str("component", "gorm").Logger()},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.New(sqlite.Config{
		DriverName: driverName,
		DSN:        withConnParams(dataSourceName),
	}), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// enable write-ahead logging for better concurrency
	if err := db.Exec("PRAGMA journal_mode=WAL;").Error; err != nil {
		log.Warn().Err(err).Msg("failed to set WAL mode")
	}

	log.Info().Str("dsn", dataSourceName).Msg("GORM database initialized")
	return db, nil
}

// AutoMigrateModels creates or updates the venues, artists and shows tables.
func AutoMigrateModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Venue{},
		&models.Artist{},
		&models.Show{},
	)
	if err != nil {
		return fmt.Errorf("GORM AutoMigrate failed: %w", err)
	}
	return nil
}
