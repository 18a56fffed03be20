package database

import (
	"testing"

	"github.com/publication-manager/internal/models"
)

func TestParseConnectionURL(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantHost string
		wantPort string
		wantName string
		wantErr  bool
	}{
		{name: "jdbc postgres", raw: "jdbc:postgresql://localhost:5432/publications", wantHost: "localhost", wantPort: "5432", wantName: "publications"},
		{name: "no jdbc prefix", raw: "postgres://db.example.com:6543/blog", wantHost: "db.example.com", wantPort: "6543", wantName: "blog"},
		{name: "default port", raw: "jdbc:postgresql://10.0.0.5/blog", wantHost: "10.0.0.5", wantPort: "5432", wantName: "blog"},
		{name: "surrounding spaces", raw: "  jdbc:postgresql://h:1/d  ", wantHost: "h", wantPort: "1", wantName: "d"},
		{name: "missing scheme", raw: "localhost:5432/publications", wantErr: true},
		{name: "missing database", raw: "jdbc:postgresql://localhost:5432/", wantErr: true},
		{name: "nested path", raw: "jdbc:postgresql://localhost:5432/a/b", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port, name, err := ParseConnectionURL(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseConnectionURL(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if host != tt.wantHost || port != tt.wantPort || name != tt.wantName {
				t.Errorf("got (%s, %s, %s), want (%s, %s, %s)", host, port, name, tt.wantHost, tt.wantPort, tt.wantName)
			}
		})
	}
}

func TestConnectionFromProfile(t *testing.T) {
	p := &models.ConnectionProfile{
		Type:     "remote",
		URL:      "jdbc:postgresql://db.internal:5432/publications",
		Username: "editor",
		Password: "secret",
	}

	conn, err := ConnectionFromProfile(p, "require")
	if err != nil {
		t.Fatalf("ConnectionFromProfile() error = %v", err)
	}

	want := "host=db.internal port=5432 user=editor password=secret dbname=publications sslmode=require"
	if got := conn.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}
