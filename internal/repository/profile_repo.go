package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/publication-manager/internal/database"
	"github.com/publication-manager/internal/models"
	"gorm.io/gorm"
)

// profileStore is the concrete implementation of ProfileStore. Every call
// opens and releases its own connection.
type profileStore struct {
	db *database.ProfilesDB
}

// NewProfileStore creates a new connection profile store
func NewProfileStore(db *database.ProfilesDB) ProfileStore {
	return &profileStore{db: db}
}

// ListTypes returns the distinct profile types in storage order
func (s *profileStore) ListTypes(ctx context.Context) ([]string, error) {
	db, release, err := s.db.Open()
	if err != nil {
		return nil, err
	}
	defer release()

	types := []string{}
	err = db.WithContext(ctx).
		Model(&models.ConnectionProfile{}).
		Order("rowid").
		Pluck("type", &types).Error
	if err != nil {
		return nil, fmt.Errorf("list profile types: %w", err)
	}
	return types, nil
}

// GetDefault returns the profile flagged as default
func (s *profileStore) GetDefault(ctx context.Context) (*models.ConnectionProfile, error) {
	db, release, err := s.db.Open()
	if err != nil {
		return nil, err
	}
	defer release()

	var profile models.ConnectionProfile
	err = db.WithContext(ctx).Where("isdefault = ?", true).Take(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &models.NotFoundError{Resource: "default connection profile"}
	}
	if err != nil {
		return nil, fmt.Errorf("get default profile: %w", err)
	}
	return &profile, nil
}

// GetByType returns the profile stored under profileType
func (s *profileStore) GetByType(ctx context.Context, profileType string) (*models.ConnectionProfile, error) {
	db, release, err := s.db.Open()
	if err != nil {
		return nil, err
	}
	defer release()

	var profile models.ConnectionProfile
	err = db.WithContext(ctx).Where("type = ?", profileType).Take(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &models.NotFoundError{Resource: "connection profile", Key: profileType}
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", profileType, err)
	}
	return &profile, nil
}

// SetDefault flags profileType as default and clears the flag on every other
// profile in one transaction.
func (s *profileStore) SetDefault(ctx context.Context, profileType string) error {
	db, release, err := s.db.Open()
	if err != nil {
		return err
	}
	defer release()

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ConnectionProfile{}).
			Where("type = ?", profileType).
			Update("isdefault", true)
		if res.Error != nil {
			return fmt.Errorf("set default profile %s: %w", profileType, res.Error)
		}
		if res.RowsAffected == 0 {
			return &models.NotFoundError{Resource: "connection profile", Key: profileType}
		}

		if err := tx.Model(&models.ConnectionProfile{}).
			Where("type <> ?", profileType).
			Update("isdefault", false).Error; err != nil {
			return fmt.Errorf("clear other default profiles: %w", err)
		}
		return nil
	})
}

// UpdateCredentials overwrites url, username and password of an existing profile
func (s *profileStore) UpdateCredentials(ctx context.Context, profileType, url, username, password string) error {
	db, release, err := s.db.Open()
	if err != nil {
		return err
	}
	defer release()

	res := db.WithContext(ctx).
		Model(&models.ConnectionProfile{}).
		Where("type = ?", profileType).
		Updates(map[string]interface{}{
			"url":      url,
			"username": username,
			"password": password,
		})
	if res.Error != nil {
		return fmt.Errorf("update profile %s: %w", profileType, res.Error)
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Resource: "connection profile", Key: profileType}
	}
	return nil
}
