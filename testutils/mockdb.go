package testutils

import (
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"jotfox-notes/jotfox/database"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupMockDB sets up a mock database connection
func SetupMockDB() (*database.Database, sqlmock.Sqlmock, func()) {
	var db *sql.DB
	var mock sqlmock.Sqlmock
	var err error

	db, mock, err = sqlmock.New()
	if err != nil {
		panic(err)
	}

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		panic(err)
	}

	close := func() {
		db.Close()
	}

	return &database.Database{DB: gormDB}, mock, close
}

var sqliteSeq atomic.Int64

// SetupSQLiteDB opens a private in-memory sqlite database with every table
// migrated. It is closed when the test ends.
func SetupSQLiteDB(t testing.TB) *database.Database {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, sqliteSeq.Add(1))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.RunMigrations(gormDB); err != nil {
		t.Fatalf("migrating sqlite: %v", err)
	}

	db := &database.Database{DB: gormDB}
	t.Cleanup(db.Close)
	return db
}
