package database

import (
	"fmt"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ProfilesDB opens short-lived connections to the connection profile
// database. Each caller gets its own handle and must release it.
type ProfilesDB struct {
	path string
}

// NewProfilesDB returns an opener for the sqlite file at path
func NewProfilesDB(path string) *ProfilesDB {
	return &ProfilesDB{path: path}
}

// Path returns the sqlite file location
func (p *ProfilesDB) Path() string {
	return p.path
}

// Open connects to the profile database. The file must already exist: an
// absent file is a configuration error, not an empty store.
func (p *ProfilesDB) Open() (*gorm.DB, func(), error) {
	if _, err := os.Stat(p.path); err != nil {
		return nil, nil, fmt.Errorf("profile database not found at %s: %w", p.path, err)
	}

	db, err := gorm.Open(sqlite.Open(p.path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open profile database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to access profile database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	release := func() { _ = sqlDB.Close() }
	return db, release, nil
}
