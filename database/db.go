package database

import (
	"fmt"
	"time"

	"jotfox-notes/jotfox/config"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

// gormWriter sends gorm's log lines through zerolog.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	log.Debug().Str("component", "gorm").Msgf(format, args...)
}

func newLogger() logger.Interface {
	return logger.New(gormWriter{}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Dialector picks the gorm driver named by DB_DRIVER.
func Dialector(cfg config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "", "sqlite":
		return sqlite.Open(cfg.DBPath), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
		)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

func Setup(cfg config.Config) (*Database, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{
		Logger:                 newLogger(),
		PrepareStmt:            true,
		AllowGlobalUpdate:      false,
		SkipDefaultTransaction: true,
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	if cfg.DBDriver == "" || cfg.DBDriver == "sqlite" {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info().Str("driver", dialector.Name()).Msg("database ready")

	return &Database{DB: db}, nil
}

func (d *Database) Close() {
	if d.DB == nil {
		log.Warn().Msg("database connection is nil, nothing to close")
		return
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		log.Error().Err(err).Msg("failed to get database connection")
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close database connection")
	}
}

func (d *Database) Query(query string, args ...interface{}) (*gorm.DB, error) {
	result := d.DB.Raw(query, args...)
	return result, result.Error
}

func (d *Database) Execute(query string, args ...interface{}) error {
	result := d.DB.Exec(query, args...)
	return result.Error
}
