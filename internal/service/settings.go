package service

import (
	"context"
	"strings"

	"github.com/publication-manager/internal/config"
	"github.com/publication-manager/internal/database"
	"github.com/publication-manager/internal/models"
	"github.com/publication-manager/internal/repository"
	"github.com/publication-manager/internal/validation"
	"github.com/rs/zerolog"
)

// settingsService is the concrete implementation of SettingsService
type settingsService struct {
	store   repository.ProfileStore
	sslMode string
	log     zerolog.Logger
}

func newSettingsService(store repository.ProfileStore, cfg *config.Config, log zerolog.Logger) *settingsService {
	return &settingsService{
		store:   store,
		sslMode: cfg.Database.SSLMode,
		log:     log.With().Str("service", "settings").Logger(),
	}
}

// ListTypes returns the connection types offered on the settings screen
func (s *settingsService) ListTypes(ctx context.Context) ([]string, error) {
	return s.store.ListTypes(ctx)
}

// Load returns the profile stored under profileType
func (s *settingsService) Load(ctx context.Context, profileType string) (*models.ConnectionProfile, error) {
	if profileType == "" {
		return nil, &models.SelectionRequiredError{Action: "loading a connection", Item: "a connection type"}
	}
	return s.store.GetByType(ctx, profileType)
}

// ApplyCredentials validates and stores new credentials for profileType.
// After it succeeds the application must restart to use them.
func (s *settingsService) ApplyCredentials(ctx context.Context, profileType, url, username, password string) error {
	if profileType == "" {
		return &models.SelectionRequiredError{Action: "applying connection settings", Item: "a connection type"}
	}

	errs := validation.ValidateCredentials(url, username, password)
	if strings.TrimSpace(url) != "" {
		if _, _, _, err := database.ParseConnectionURL(url); err != nil {
			errs = append(errs, models.ValidationError{Field: validation.FieldURL, Message: err.Error(), Value: url})
		}
	}
	if len(errs) > 0 {
		return models.ValidationErrors(errs)
	}

	if err := s.store.UpdateCredentials(ctx, profileType, url, username, password); err != nil {
		s.log.Error().Err(err).Str("type", profileType).Msg("Failed to update connection credentials")
		return err
	}

	s.log.Info().Str("type", profileType).Str("url", url).Str("username", username).Msg("Connection credentials updated")
	return nil
}

// MakeDefault makes profileType the connection used at startup.
// After it succeeds the application must restart to use it.
func (s *settingsService) MakeDefault(ctx context.Context, profileType string) error {
	if profileType == "" {
		return &models.SelectionRequiredError{Action: "changing the default connection", Item: "a connection type"}
	}

	if err := s.store.SetDefault(ctx, profileType); err != nil {
		s.log.Error().Err(err).Str("type", profileType).Msg("Failed to set default connection")
		return err
	}

	s.log.Info().Str("type", profileType).Msg("Default connection changed")
	return nil
}

// ResolveDefault finds the default profile and turns it into a publication
// database connection.
func (s *settingsService) ResolveDefault(ctx context.Context) (*models.ConnectionProfile, *config.ConnectionConfig, error) {
	profile, err := s.store.GetDefault(ctx)
	if err != nil {
		return nil, nil, err
	}

	conn, err := database.ConnectionFromProfile(profile, s.sslMode)
	if err != nil {
		return profile, nil, err
	}
	return profile, conn, nil
}
