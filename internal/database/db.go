package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
	"github.com/publication-manager/internal/config"
	"github.com/rs/zerolog"
)

// DB is the publication database of the default connection profile. It
// holds a single connection: the session issues one statement at a time.
type DB struct {
	*sql.DB
	conn *config.ConnectionConfig
	log  zerolog.Logger
}

// New connects to the publication database described by conn and waits at
// most cfg.ConnectTimeout for the first round trip.
func New(conn *config.ConnectionConfig, cfg *config.DatabaseConfig, log zerolog.Logger) (*DB, error) {
	handle, err := openSingle(conn)
	if err != nil {
		return nil, err
	}
	handle.SetConnMaxLifetime(cfg.MaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	if err := handle.PingContext(ctx); err != nil {
		handle.Close()
		return nil, fmt.Errorf("failed to reach %s:%s/%s: %w", conn.Host, conn.Port, conn.Name, err)
	}

	db := &DB{
		DB:   handle,
		conn: conn,
		log: log.With().
			Str("component", "database").
			Str("host", conn.Host).
			Str("database", conn.Name).
			Logger(),
	}

	db.log.Info().Str("user", conn.User).Msg("Publication database connected")
	return db, nil
}

// openSingle builds a one-connection handle. The connector parses the DSN
// up front so that malformed settings fail before any network access.
func openSingle(conn *config.ConnectionConfig) (*sql.DB, error) {
	connector, err := pq.NewConnector(conn.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("invalid connection settings for %s: %w", conn.Host, err)
	}
	handle := sql.OpenDB(connector)
	handle.SetMaxOpenConns(1)
	handle.SetMaxIdleConns(1)
	return handle, nil
}

// RunMigrations brings the publication schema up to date and returns the
// resulting schema version.
func (db *DB) RunMigrations(migrationsPath string) (uint, error) {
	db.log.Info().Str("path", migrationsPath).Msg("Migrating publication schema")

	// The migration driver pins a connection of the handle it gets, so it
	// runs on its own handle and the session connection stays free.
	handle, err := openSingle(db.conn)
	if err != nil {
		return 0, err
	}
	defer handle.Close()

	driver, err := postgres.WithInstance(handle, &postgres.Config{})
	if err != nil {
		return 0, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return 0, fmt.Errorf("failed to load migrations from %s: %w", migrationsPath, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("failed to migrate publication schema: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("publication schema is dirty at version %d", version)
	}

	db.log.Info().Uint("version", version).Msg("Publication schema up to date")
	return version, nil
}

// HealthCheck verifies the connection is still usable
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}
