package mocks

import (
	"context"
	"sort"
	"strconv"

	"github.com/publication-manager/internal/models"
	"github.com/publication-manager/internal/repository"
)

// Verify interface compliance
var (
	_ repository.PublicationRepository = (*MockPublicationRepository)(nil)
	_ repository.ProfileStore          = (*MockProfileStore)(nil)
)

// MockPublicationRepository is an in-memory PublicationRepository
type MockPublicationRepository struct {
	Publications map[int64]*models.Publication
	PubTypes     []models.PublicationType
	NextID       int64

	CreateError    error
	UpdateError    error
	GetError       error
	ListError      error
	ListTypesError error

	CreateCalls int
	UpdateCalls int
}

func NewMockPublicationRepository() *MockPublicationRepository {
	return &MockPublicationRepository{
		Publications: make(map[int64]*models.Publication),
		PubTypes: []models.PublicationType{
			{ID: 1, Name: "Article"},
			{ID: 2, Name: "Tutorial"},
			{ID: 3, Name: "News"},
		},
		NextID: 1,
	}
}

// Seed stores p as-is and returns its id
func (m *MockPublicationRepository) Seed(p models.Publication) int64 {
	p.ID = m.NextID
	m.NextID++
	m.Publications[p.ID] = &p
	return p.ID
}

func (m *MockPublicationRepository) Create(ctx context.Context, p *models.Publication) (int64, error) {
	m.CreateCalls++
	if m.CreateError != nil {
		return 0, m.CreateError
	}
	stored := *p
	stored.ID = m.NextID
	m.NextID++
	m.Publications[stored.ID] = &stored
	return stored.ID, nil
}

func (m *MockPublicationRepository) Update(ctx context.Context, p *models.Publication) error {
	m.UpdateCalls++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	existing, ok := m.Publications[p.ID]
	if !ok {
		return &models.NotFoundError{Resource: "publication", Key: strconv.FormatInt(p.ID, 10)}
	}
	stored := *p
	stored.PublishedAt = existing.PublishedAt
	stored.URL = existing.URL
	m.Publications[p.ID] = &stored
	return nil
}

func (m *MockPublicationRepository) GetByID(ctx context.Context, id int64) (*models.Publication, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	p, ok := m.Publications[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "publication", Key: strconv.FormatInt(id, 10)}
	}
	out := *p
	return &out, nil
}

func (m *MockPublicationRepository) ListTitles(ctx context.Context) ([]models.TitleEntry, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	titles := make([]models.TitleEntry, 0, len(m.Publications))
	for _, p := range m.Publications {
		titles = append(titles, models.TitleEntry{ID: p.ID, Title: p.Title})
	}
	sort.Slice(titles, func(i, j int) bool { return titles[i].Title < titles[j].Title })
	return titles, nil
}

func (m *MockPublicationRepository) ListTypes(ctx context.Context) ([]models.PublicationType, error) {
	if m.ListTypesError != nil {
		return nil, m.ListTypesError
	}
	out := make([]models.PublicationType, len(m.PubTypes))
	copy(out, m.PubTypes)
	return out, nil
}

// MockProfileStore is an in-memory ProfileStore keeping insertion order
type MockProfileStore struct {
	Order    []string
	Profiles map[string]*models.ConnectionProfile

	UpdateError error

	SetDefaultCalls  int
	UpdateCredsCalls int
}

func NewMockProfileStore(profiles ...models.ConnectionProfile) *MockProfileStore {
	m := &MockProfileStore{Profiles: make(map[string]*models.ConnectionProfile)}
	for i := range profiles {
		p := profiles[i]
		m.Order = append(m.Order, p.Type)
		m.Profiles[p.Type] = &p
	}
	return m
}

func (m *MockProfileStore) ListTypes(ctx context.Context) ([]string, error) {
	out := make([]string, len(m.Order))
	copy(out, m.Order)
	return out, nil
}

func (m *MockProfileStore) GetDefault(ctx context.Context) (*models.ConnectionProfile, error) {
	for _, t := range m.Order {
		if p := m.Profiles[t]; p.IsDefault {
			out := *p
			return &out, nil
		}
	}
	return nil, &models.NotFoundError{Resource: "default connection profile"}
}

func (m *MockProfileStore) GetByType(ctx context.Context, profileType string) (*models.ConnectionProfile, error) {
	p, ok := m.Profiles[profileType]
	if !ok {
		return nil, &models.NotFoundError{Resource: "connection profile", Key: profileType}
	}
	out := *p
	return &out, nil
}

func (m *MockProfileStore) SetDefault(ctx context.Context, profileType string) error {
	m.SetDefaultCalls++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.Profiles[profileType]; !ok {
		return &models.NotFoundError{Resource: "connection profile", Key: profileType}
	}
	for t, p := range m.Profiles {
		p.IsDefault = t == profileType
	}
	return nil
}

func (m *MockProfileStore) UpdateCredentials(ctx context.Context, profileType, url, username, password string) error {
	m.UpdateCredsCalls++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	p, ok := m.Profiles[profileType]
	if !ok {
		return &models.NotFoundError{Resource: "connection profile", Key: profileType}
	}
	p.URL, p.Username, p.Password = url, username, password
	return nil
}
