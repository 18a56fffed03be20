package service

import (
	"context"

	"github.com/publication-manager/internal/config"
	"github.com/publication-manager/internal/models"
	"github.com/publication-manager/internal/repository"
	"github.com/rs/zerolog"
)

// SettingsService defines the interface for the connection settings screen.
// A successful ApplyCredentials or MakeDefault only takes effect after the
// application restarts; telling the user and exiting is up to the caller.
type SettingsService interface {
	ListTypes(ctx context.Context) ([]string, error)
	Load(ctx context.Context, profileType string) (*models.ConnectionProfile, error)
	ApplyCredentials(ctx context.Context, profileType, url, username, password string) error
	MakeDefault(ctx context.Context, profileType string) error
	ResolveDefault(ctx context.Context) (*models.ConnectionProfile, *config.ConnectionConfig, error)
}

// Services holds all service interfaces
type Services struct {
	Settings SettingsService
}

// NewServices creates all services. The publication session is opened
// separately once a default connection resolves.
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Settings: newSettingsService(repos.Profile, cfg, log),
	}
}
