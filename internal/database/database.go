// Package database owns the GORM connection and schema migration.
//
// Repository packages (courses, lessons, enrollments, favorites,
// categories, tags) each wrap the shared *gorm.DB with the operations
// for one aggregate.
package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andresilva/courseapi/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the configured backend and migrates the schema.
// driver is "sqlite" or "postgres"; dsn is a file path for sqlite and a
// connection string for postgres. TranslateError is enabled so unique
// constraint violations surface as gorm.ErrDuplicatedKey regardless of
// the backend — the repositories rely on that to report conflicts.
func NewDatabase(driver, dsn string) (*Database, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case "postgres":
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	case "sqlite", "":
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Category{},
		&entities.Tag{},
		&entities.Course{},
		&entities.CourseTag{},
		&entities.Lesson{},
		&entities.Enrollment{},
		&entities.LessonProgress{},
		&entities.Favorite{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized (%s)", driverName(driver))

	return &Database{DB: db}, nil
}

func driverName(driver string) string {
	if driver == "" {
		return "sqlite"
	}
	return driver
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
