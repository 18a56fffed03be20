package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/publication-manager/internal/config"
	"github.com/publication-manager/internal/mocks"
	"github.com/publication-manager/internal/models"
	"github.com/publication-manager/internal/repository"
	"github.com/publication-manager/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettings(store *mocks.MockProfileStore) service.SettingsService {
	cfg := config.Default()
	repos := &repository.Repositories{Profile: store}
	return service.NewServices(repos, cfg, zerolog.Nop()).Settings
}

func twoProfiles() *mocks.MockProfileStore {
	return mocks.NewMockProfileStore(
		models.ConnectionProfile{
			Type: "local", URL: "jdbc:postgresql://localhost:5432/publications",
			Username: "postgres", Password: "postgres", IsDefault: true,
		},
		models.ConnectionProfile{
			Type: "remote", URL: "jdbc:postgresql://db.example.com:5432/publications",
			Username: "editor", Password: "secret",
		},
	)
}

func TestSettings_ListAndLoad(t *testing.T) {
	settings := newSettings(twoProfiles())
	ctx := context.Background()

	types, err := settings.ListTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"local", "remote"}, types)

	p, err := settings.Load(ctx, "remote")
	require.NoError(t, err)
	assert.Equal(t, "editor", p.Username)

	_, err = settings.Load(ctx, "")
	var sel *models.SelectionRequiredError
	assert.ErrorAs(t, err, &sel)

	_, err = settings.Load(ctx, "staging")
	var notFound *models.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestSettings_ApplyCredentials(t *testing.T) {
	store := twoProfiles()
	settings := newSettings(store)

	err := settings.ApplyCredentials(context.Background(), "remote",
		"jdbc:postgresql://10.1.1.1:5433/blog", "writer", "n3w")
	require.NoError(t, err)

	p := store.Profiles["remote"]
	assert.Equal(t, "jdbc:postgresql://10.1.1.1:5433/blog", p.URL)
	assert.Equal(t, "writer", p.Username)
	assert.Equal(t, "n3w", p.Password)
	assert.False(t, p.IsDefault)
}

func TestSettings_ApplyCredentialsValidation(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		username   string
		password   string
		wantFields []string
	}{
		{name: "all blank", wantFields: []string{"url", "username", "password"}},
		{name: "blank password", url: "jdbc:postgresql://h/d", username: "u", wantFields: []string{"password"}},
		{name: "malformed url", url: "h:5432", username: "u", password: "p", wantFields: []string{"url"}},
		{name: "malformed url and blank user", url: "nope", password: "p", wantFields: []string{"username", "url"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := twoProfiles()
			settings := newSettings(store)

			err := settings.ApplyCredentials(context.Background(), "local", tt.url, tt.username, tt.password)

			var verrs models.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.wantFields, verrs.Fields())
			assert.Zero(t, store.UpdateCredsCalls)
		})
	}
}

func TestSettings_ApplyCredentialsRequiresType(t *testing.T) {
	store := twoProfiles()
	settings := newSettings(store)

	err := settings.ApplyCredentials(context.Background(), "", "jdbc:postgresql://h/d", "u", "p")
	var sel *models.SelectionRequiredError
	require.ErrorAs(t, err, &sel)
	assert.Contains(t, err.Error(), "connection type")
	assert.Zero(t, store.UpdateCredsCalls)
}

func TestSettings_ApplyCredentialsStoreFailure(t *testing.T) {
	store := twoProfiles()
	store.UpdateError = errors.New("database is locked")
	settings := newSettings(store)

	err := settings.ApplyCredentials(context.Background(), "local", "jdbc:postgresql://h/d", "u", "p")
	assert.EqualError(t, err, "database is locked")
}

func TestSettings_MakeDefault(t *testing.T) {
	store := twoProfiles()
	settings := newSettings(store)
	ctx := context.Background()

	require.NoError(t, settings.MakeDefault(ctx, "remote"))
	assert.True(t, store.Profiles["remote"].IsDefault)
	assert.False(t, store.Profiles["local"].IsDefault)

	profile, conn, err := settings.ResolveDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, "remote", profile.Type)
	assert.Equal(t, "db.example.com", conn.Host)

	var sel *models.SelectionRequiredError
	assert.ErrorAs(t, settings.MakeDefault(ctx, ""), &sel)

	var notFound *models.NotFoundError
	assert.ErrorAs(t, settings.MakeDefault(ctx, "staging"), &notFound)
	assert.True(t, store.Profiles["remote"].IsDefault)
}

func TestSettings_ResolveDefault(t *testing.T) {
	settings := newSettings(twoProfiles())

	profile, conn, err := settings.ResolveDefault(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "local", profile.Type)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=publications sslmode=disable", conn.GetDSN())
}

func TestSettings_ResolveDefaultMissing(t *testing.T) {
	store := mocks.NewMockProfileStore(models.ConnectionProfile{Type: "local", URL: "jdbc:postgresql://h/d"})
	settings := newSettings(store)

	_, _, err := settings.ResolveDefault(context.Background())
	var notFound *models.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestSettings_ResolveDefaultBadURL(t *testing.T) {
	store := mocks.NewMockProfileStore(models.ConnectionProfile{Type: "local", URL: "garbage", IsDefault: true})
	settings := newSettings(store)

	profile, conn, err := settings.ResolveDefault(context.Background())
	require.Error(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "local", profile.Type)
	assert.Nil(t, conn)
}

func TestSettings_PasswordWithSpacesStillConnects(t *testing.T) {
	store := twoProfiles()
	settings := newSettings(store)
	ctx := context.Background()

	require.NoError(t, settings.ApplyCredentials(ctx, "local",
		"jdbc:postgresql://localhost:5432/publications", "postgres", "my secret"))

	_, conn, err := settings.ResolveDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, "my secret", conn.Password)

	_, err = pq.NewConnector(conn.GetDSN())
	assert.NoError(t, err)
}
