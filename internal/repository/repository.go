package repository

import (
	"context"

	"github.com/publication-manager/internal/database"
	"github.com/publication-manager/internal/models"
)

// PublicationRepository defines the interface for publication data operations
type PublicationRepository interface {
	Create(ctx context.Context, publication *models.Publication) (int64, error)
	Update(ctx context.Context, publication *models.Publication) error
	GetByID(ctx context.Context, id int64) (*models.Publication, error)
	ListTitles(ctx context.Context) ([]models.TitleEntry, error)
	ListTypes(ctx context.Context) ([]models.PublicationType, error)
}

// ProfileStore defines the interface for connection profile operations
type ProfileStore interface {
	ListTypes(ctx context.Context) ([]string, error)
	GetDefault(ctx context.Context) (*models.ConnectionProfile, error)
	GetByType(ctx context.Context, profileType string) (*models.ConnectionProfile, error)
	SetDefault(ctx context.Context, profileType string) error
	UpdateCredentials(ctx context.Context, profileType, url, username, password string) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Publication PublicationRepository
	Profile     ProfileStore
}

// New creates all repositories. db may be nil when no default connection
// could be resolved; the profile store never depends on it.
func New(db *database.DB, profiles *database.ProfilesDB) *Repositories {
	repos := &Repositories{
		Profile: NewProfileStore(profiles),
	}
	if db != nil {
		repos.Publication = NewPublicationRepo(db)
	}
	return repos
}
