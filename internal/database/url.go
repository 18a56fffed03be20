package database

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/publication-manager/internal/config"
	"github.com/publication-manager/internal/models"
)

const defaultPostgresPort = "5432"

// ParseConnectionURL parses a JDBC-style profile URL such as
// "jdbc:postgresql://localhost:5432/publications" into host, port and
// database name. The "jdbc:" prefix and the port are optional.
func ParseConnectionURL(raw string) (host, port, name string, err error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "jdbc:")

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", "", "", fmt.Errorf("invalid connection url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", "", "", fmt.Errorf("invalid connection url %q: expected scheme://host[:port]/database", raw)
	}

	host = u.Hostname()
	port = u.Port()
	if port == "" {
		port = defaultPostgresPort
	}
	name = strings.Trim(u.Path, "/")
	if host == "" || name == "" || strings.Contains(name, "/") {
		return "", "", "", fmt.Errorf("invalid connection url %q: expected scheme://host[:port]/database", raw)
	}

	return host, port, name, nil
}

// ConnectionFromProfile resolves a connection profile into a publication
// database connection.
func ConnectionFromProfile(p *models.ConnectionProfile, sslMode string) (*config.ConnectionConfig, error) {
	host, port, name, err := ParseConnectionURL(p.URL)
	if err != nil {
		return nil, err
	}
	return &config.ConnectionConfig{
		Host:     host,
		Port:     port,
		User:     p.Username,
		Password: p.Password,
		Name:     name,
		SSLMode:  sslMode,
	}, nil
}
