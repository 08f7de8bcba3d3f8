package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskplaces/internal/logging"
	"github.com/dmitrijs2005/taskplaces/internal/server/auth"
	"github.com/dmitrijs2005/taskplaces/internal/server/config"
	"github.com/dmitrijs2005/taskplaces/internal/server/models"
	"github.com/dmitrijs2005/taskplaces/internal/server/repositories/memory"
	"github.com/dmitrijs2005/taskplaces/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

type env struct {
	repos  repomanager.RepositoryManager
	users  *UserService
	tasks  *TaskService
	places *PlaceService
	tokens *auth.TokenService
}

func newEnv(t *testing.T, removal RemovalStrategy) *env {
	t.Helper()
	repos := repomanager.NewMemoryRepositoryManager(memory.NewStore())
	log := logging.Nop()
	tokens := auth.NewTokenService(&config.Config{SecretKey: "test-secret", TokenValidityDuration: time.Hour})

	tasks := NewTaskService(repos, nil, log)
	places := NewPlaceService(repos, nil, log)
	users := NewUserService(repos, auth.NewCredentialStore(), tokens, removal, log, tasks, places)
	return &env{repos: repos, users: users, tasks: tasks, places: places, tokens: tokens}
}

func (e *env) register(t *testing.T, name, email string) *models.User {
	t.Helper()
	u, err := e.users.Create(context.Background(), NewUser{Name: name, Email: email, Password: "secret1"})
	require.NoError(t, err)
	return u
}

// mapCache is an in-process ListCache that counts hits and can be made to fail.
type mapCache[T any] struct {
	mu      sync.Mutex
	data    map[string][]T
	hits    int
	sets    int
	failing bool
}

func newMapCache[T any]() *mapCache[T] {
	return &mapCache[T]{data: map[string][]T{}}
}

var errCacheDown = errors.New("cache down")

func (c *mapCache[T]) Get(_ context.Context, key string) ([]T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return nil, false, errCacheDown
	}
	v, ok := c.data[key]
	if ok {
		c.hits++
	}
	return v, ok, nil
}

func (c *mapCache[T]) Set(_ context.Context, key string, list []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errCacheDown
	}
	c.sets++
	c.data[key] = list
	return nil
}

func (c *mapCache[T]) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errCacheDown
	}
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *mapCache[T]) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}
