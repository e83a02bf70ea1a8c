package presence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
	"github.com/gdugdh24/sitter-presence-backend/internal/repository"
	"github.com/gdugdh24/sitter-presence-backend/internal/repository/cache"
	"github.com/gdugdh24/sitter-presence-backend/internal/repository/memory"
	"github.com/gdugdh24/sitter-presence-backend/internal/usecase/geosearch"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users map[string]*domain.User
	err   error
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) ListIDsByRole(ctx context.Context, role string) ([]string, error) {
	return nil, nil
}

type fakeRestorer struct {
	calls []string
	err   error
}

func (r *fakeRestorer) Restore(ctx context.Context, sitterID string) error {
	r.calls = append(r.calls, sitterID)
	return r.err
}

type testEnv struct {
	uc           *PresenceUseCase
	search       *geosearch.GeoSearchUseCase
	presence     repository.PresenceRepository
	availability repository.AvailabilityRepository
	users        *fakeUserRepo
	restorer     *fakeRestorer
	now          time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		users:    &fakeUserRepo{users: map[string]*domain.User{}},
		restorer: &fakeRestorer{},
		now:      time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	store := memory.NewEphemeralStore(memory.WithClock(func() time.Time { return env.now }))
	t.Cleanup(func() { _ = store.Close() })

	env.presence = cache.NewPresenceCache(store, 5*time.Minute)
	env.availability = cache.NewAvailabilityCache(store, 30*24*time.Hour)
	env.uc = NewPresenceUseCase(env.presence, env.availability, env.users, env.restorer, zerolog.Nop())
	env.uc.now = func() time.Time { return env.now }
	env.search = geosearch.NewGeoSearchUseCase(env.presence, env.users, geosearch.DefaultConfig(), zerolog.Nop())
	return env
}

func f(v float64) *float64 { return &v }
func b(v bool) *bool       { return &v }

func (env *testEnv) nearbyIDs(t *testing.T, lat, lon, radius float64) []string {
	t.Helper()
	resp, err := env.search.FindNearby(context.Background(), &geosearch.NearbyRequest{
		Latitude: f(lat), Longitude: f(lon), RadiusKm: f(radius),
	})
	require.NoError(t, err)
	out := make([]string, 0, len(resp.Sitters))
	for _, s := range resp.Sitters {
		out = append(out, s.ID)
	}
	return out
}

func TestUpdateLocation_DefaultsAndSnapshot(t *testing.T) {
	env := newTestEnv(t)
	env.users.users["s1"] = &domain.User{ID: "s1", Name: "Ana", Specialties: []string{"walking"}}

	rec, err := env.uc.UpdateLocation(context.Background(), "s1", &UpdateLocationRequest{
		Latitude: f(14.5995), Longitude: f(120.9842),
	})
	require.NoError(t, err)

	assert.Equal(t, "14.599500, 120.984200", rec.Address)
	assert.True(t, rec.IsOnline)
	assert.Equal(t, "Ana", rec.Snapshot.Name)
	assert.Equal(t, env.now, rec.LastSeen)

	stored, err := env.presence.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", stored.Snapshot.Name)
	assert.Equal(t, []string{"s1"}, env.nearbyIDs(t, 14.6091, 120.9790, 2))
}

func TestUpdateLocation_KeepsAddressAndCachedSnapshotOnDirectoryFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.users.users["s1"] = &domain.User{ID: "s1", Name: "Ana"}

	_, err := env.uc.UpdateLocation(ctx, "s1", &UpdateLocationRequest{Latitude: f(14.5995), Longitude: f(120.9842)})
	require.NoError(t, err)

	env.users.err = errors.New("directory down")
	rec, err := env.uc.UpdateLocation(ctx, "s1", &UpdateLocationRequest{
		Latitude: f(14.6), Longitude: f(120.99), Address: stringPtr("  Rizal Park "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Rizal Park", rec.Address)
	assert.Equal(t, "Ana", rec.Snapshot.Name)
}

func stringPtr(s string) *string { return &s }

func TestUpdateLocation_RejectsInvalidCoordinates(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.UpdateLocation(context.Background(), "s1", &UpdateLocationRequest{
		Latitude: f(91), Longitude: f(181),
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "latitude")
	assert.Contains(t, verr.Fields, "longitude")

	rec, err := env.presence.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestUpdateLocation_OfflineDisappearsFromSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.uc.UpdateLocation(ctx, "s1", &UpdateLocationRequest{Latitude: f(14.5995), Longitude: f(120.9842)})
	require.NoError(t, err)
	require.Equal(t, []string{"s1"}, env.nearbyIDs(t, 14.5995, 120.9842, 50))

	_, err = env.uc.UpdateLocation(ctx, "s1", &UpdateLocationRequest{
		Latitude: f(14.5995), Longitude: f(120.9842), IsOnline: b(false),
	})
	require.NoError(t, err)

	assert.Empty(t, env.nearbyIDs(t, 14.5995, 120.9842, 50))

	rec, err := env.presence.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, rec, "record survives while offline")
	assert.False(t, rec.IsOnline)
}

func TestSetOnlineStatus_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.SetOnlineStatus(context.Background(), "ghost", true)
	assert.ErrorIs(t, err, domain.ErrPresenceNotFound)

	rec, err := env.presence.Get(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Empty(t, env.restorer.calls)
}

func TestSetOnlineStatus_OfflineClearsAvailability(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.uc.UpdateLocation(ctx, "s1", &UpdateLocationRequest{Latitude: f(14.5995), Longitude: f(120.9842)})
	require.NoError(t, err)
	require.NoError(t, env.availability.Save(ctx, "s1", domain.AvailabilityMap{
		"2026-03-11": {{StartTime: "9:00 AM", EndTime: "5:00 PM"}},
	}))

	env.now = env.now.Add(time.Minute)
	rec, err := env.uc.SetOnlineStatus(ctx, "s1", false)
	require.NoError(t, err)
	assert.False(t, rec.IsOnline)
	assert.Equal(t, env.now, rec.UpdatedAt)

	slots, err := env.availability.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.Empty(t, env.nearbyIDs(t, 14.5995, 120.9842, 50))
}

func TestSetOnlineStatus_OnlineRestores(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.uc.UpdateLocation(ctx, "s1", &UpdateLocationRequest{
		Latitude: f(14.5995), Longitude: f(120.9842), IsOnline: b(false),
	})
	require.NoError(t, err)

	rec, err := env.uc.SetOnlineStatus(ctx, "s1", true)
	require.NoError(t, err)
	assert.True(t, rec.IsOnline)
	assert.Equal(t, []string{"s1"}, env.restorer.calls)
	assert.Equal(t, []string{"s1"}, env.nearbyIDs(t, 14.5995, 120.9842, 1))
}

func TestSetOnlineStatus_RestoreFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.restorer.err = errors.New("database unavailable")

	_, err := env.uc.UpdateLocation(ctx, "s1", &UpdateLocationRequest{
		Latitude: f(14.5995), Longitude: f(120.9842), IsOnline: b(false),
	})
	require.NoError(t, err)

	rec, err := env.uc.SetOnlineStatus(ctx, "s1", true)
	require.NoError(t, err)
	assert.True(t, rec.IsOnline)

	stored, err := env.presence.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, stored.IsOnline)
}
