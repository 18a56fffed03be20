package mocks

import (
	"context"

	"github.com/publication-manager/internal/config"
	"github.com/publication-manager/internal/models"
	"github.com/publication-manager/internal/service"
)

// MockSettingsService is a mock implementation of SettingsService
type MockSettingsService struct {
	Types        []string
	Profiles     map[string]*models.ConnectionProfile
	ApplyError   error
	DefaultError error
	Applied      []models.ConnectionProfile
	Defaulted    []string
}

// Verify interface compliance
var _ service.SettingsService = (*MockSettingsService)(nil)

func NewMockSettingsService(profiles ...models.ConnectionProfile) *MockSettingsService {
	m := &MockSettingsService{Profiles: make(map[string]*models.ConnectionProfile)}
	for i := range profiles {
		p := profiles[i]
		m.Types = append(m.Types, p.Type)
		m.Profiles[p.Type] = &p
	}
	return m
}

func (m *MockSettingsService) ListTypes(ctx context.Context) ([]string, error) {
	return m.Types, nil
}

func (m *MockSettingsService) Load(ctx context.Context, profileType string) (*models.ConnectionProfile, error) {
	p, ok := m.Profiles[profileType]
	if !ok {
		return nil, &models.NotFoundError{Resource: "connection profile", Key: profileType}
	}
	out := *p
	return &out, nil
}

func (m *MockSettingsService) ApplyCredentials(ctx context.Context, profileType, url, username, password string) error {
	if m.ApplyError != nil {
		return m.ApplyError
	}
	m.Applied = append(m.Applied, models.ConnectionProfile{Type: profileType, URL: url, Username: username, Password: password})
	return nil
}

func (m *MockSettingsService) MakeDefault(ctx context.Context, profileType string) error {
	if m.DefaultError != nil {
		return m.DefaultError
	}
	m.Defaulted = append(m.Defaulted, profileType)
	return nil
}

func (m *MockSettingsService) ResolveDefault(ctx context.Context) (*models.ConnectionProfile, *config.ConnectionConfig, error) {
	for _, t := range m.Types {
		if p := m.Profiles[t]; p.IsDefault {
			out := *p
			return &out, &config.ConnectionConfig{Host: "localhost", Port: "5432", User: p.Username, Password: p.Password, Name: "publications"}, nil
		}
	}
	return nil, nil, &models.NotFoundError{Resource: "default connection profile"}
}
