package services

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/taskplaces/internal/common"
	"github.com/dmitrijs2005/taskplaces/internal/logging"
	"github.com/dmitrijs2005/taskplaces/internal/server/cache"
	"github.com/dmitrijs2005/taskplaces/internal/server/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestPlaceService_PublicReads(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, HardDelete{})
	ann := e.register(t, "Ann", "ann@x.com")
	bob := e.register(t, "Bob", "bob@x.com")

	p, err := e.places.Create(ctx, ann.ID, NewPlace{Name: "Cafe", Address: "Main st 1", Latitude: ptr(56.9), Longitude: ptr(24.1)})
	require.NoError(t, err)
	_, err = e.places.Create(ctx, bob.ID, NewPlace{Name: "Park"})
	require.NoError(t, err)

	all, err := e.places.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := e.places.FindOne(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cafe", got.Name)
	assert.Equal(t, ann.ID, got.UserID)

	_, err = e.places.FindOne(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, "Place not found", err.Error())
}

func TestPlaceService_OwnerOnlyMutations(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, HardDelete{})
	ann := e.register(t, "Ann", "ann@x.com")
	bob := e.register(t, "Bob", "bob@x.com")

	p, err := e.places.Create(ctx, ann.ID, NewPlace{Name: "Cafe"})
	require.NoError(t, err)

	_, err = e.places.Update(ctx, p.ID, bob.ID, models.PlacePatch{Name: ptr("Bar")})
	assert.ErrorIs(t, err, common.ErrorForbidden)
	assert.Equal(t, "You cannot update a place that is not yours", err.Error())

	err = e.places.Remove(ctx, p.ID, bob.ID)
	assert.ErrorIs(t, err, common.ErrorForbidden)

	_, err = e.places.Update(ctx, "missing", bob.ID, models.PlacePatch{Name: ptr("Bar")})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	updated, err := e.places.Update(ctx, p.ID, ann.ID, models.PlacePatch{Name: ptr("Bar"), Latitude: ptr(10.0)})
	require.NoError(t, err)
	assert.Equal(t, "Bar", updated.Name)
	require.NotNil(t, updated.Latitude)
	assert.Equal(t, 10.0, *updated.Latitude)

	require.NoError(t, e.places.Remove(ctx, p.ID, ann.ID))
	_, err = e.places.FindOne(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPlaceService_Validation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, HardDelete{})
	ann := e.register(t, "Ann", "ann@x.com")

	tests := []struct {
		name string
		in   NewPlace
	}{
		{"empty name", NewPlace{Name: "  "}},
		{"latitude out of range", NewPlace{Name: "x", Latitude: ptr(91.0)}},
		{"longitude out of range", NewPlace{Name: "x", Longitude: ptr(-180.5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.places.Create(ctx, ann.ID, tt.in)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestPlaceService_CreateRequiresExistingCaller(t *testing.T) {
	e := newEnv(t, HardDelete{})
	_, err := e.places.Create(context.Background(), "gone", NewPlace{Name: "Cafe"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPlaceService_RedisListCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	e := newEnv(t, HardDelete{})
	ann := e.register(t, "Ann", "ann@x.com")
	svc := NewPlaceService(e.repos, cache.NewListCache[models.Place](rdb, "places", 0), logging.Nop())

	_, err := svc.Create(ctx, ann.ID, NewPlace{Name: "Cafe"})
	require.NoError(t, err)

	list, err := svc.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, mr.Exists("places:all"))

	svc.ForgetOwner(ctx, ann.ID)
	assert.False(t, mr.Exists("places:all"))
}
