// Package services contains server-side business logic. Tasks and places
// share one generic Resource parameterised by access Rules; users have
// their own service.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/taskplaces/internal/common"
	"github.com/dmitrijs2005/taskplaces/internal/logging"
	"github.com/dmitrijs2005/taskplaces/internal/server/ownership"
	"github.com/dmitrijs2005/taskplaces/internal/server/repositories/repomanager"
	"golang.org/x/sync/singleflight"
)

// Entity is a record owned by a user.
type Entity interface {
	OwnerID() string
}

// Store is the persistence contract a Resource needs for T.
type Store[T any] interface {
	Create(ctx context.Context, v *T) (*T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	List(ctx context.Context, ownerID string) ([]T, error)
	Update(ctx context.Context, v *T) (*T, error)
	Delete(ctx context.Context, id string) error
}

// ListCache caches list results. A nil ListCache disables caching.
type ListCache[T any] interface {
	Get(ctx context.Context, key string) ([]T, bool, error)
	Set(ctx context.Context, key string, list []T) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Rules select how a Resource gates access.
type Rules struct {
	// OwnerScopedRead limits list and get to the caller's own records.
	// Without it reads are public.
	OwnerScopedRead bool
	// VerifyCaller checks on every operation that the caller's account
	// still exists. Create always checks it.
	VerifyCaller bool
}

// ErrUserNotFound is reported when a verified token names an account that
// no longer exists.
var ErrUserNotFound = common.NotFound("User not found")

const allKey = "all"

// Resource implements create/list/get/update/remove for one kind of owned
// record, enforcing existence-before-ownership on every restricted access.
type Resource[T Entity] struct {
	entity string
	rules  Rules
	repos  repomanager.RepositoryManager
	store  func(repomanager.RepositoryManager) Store[T]
	cache  ListCache[T]
	sf     singleflight.Group
	logger logging.Logger

	// genMu guards gens and orders invalidations against cache fills.
	genMu sync.Mutex
	gens  map[string]uint64
}

// NewResource builds a Resource. entity is the record name used in error
// messages ("Task"). cache may be nil.
func NewResource[T Entity](
	entity string,
	rules Rules,
	repos repomanager.RepositoryManager,
	store func(repomanager.RepositoryManager) Store[T],
	cache ListCache[T],
	logger logging.Logger,
) *Resource[T] {
	return &Resource[T]{
		entity: entity,
		rules:  rules,
		repos:  repos,
		store:  store,
		cache:  cache,
		logger: logger.With("module", "resource", "entity", entity),
		gens:   map[string]uint64{},
	}
}

// Create persists v. The caller must already have set v's owner to callerID.
func (r *Resource[T]) Create(ctx context.Context, callerID string, v *T) (*T, error) {
	if err := r.requireCaller(ctx, callerID); err != nil {
		return nil, err
	}
	if (*v).OwnerID() != callerID {
		return nil, fmt.Errorf("%w: owner must be the caller", common.ErrorInternal)
	}

	out, err := r.store(r.repos).Create(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("error creating %s: %w", r.entity, err)
	}
	r.invalidate(ctx, callerID)
	return out, nil
}

// FindAll lists the caller's records, or every record when reads are public.
func (r *Resource[T]) FindAll(ctx context.Context, callerID string) ([]T, error) {
	if r.rules.VerifyCaller {
		if err := r.requireCaller(ctx, callerID); err != nil {
			return nil, err
		}
	}

	owner, key := "", allKey
	if r.rules.OwnerScopedRead {
		owner, key = callerID, ownerKey(callerID)
	}

	if r.cache == nil {
		return r.list(ctx, owner)
	}

	v, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// shared by every caller merged into this call
		ctx := context.WithoutCancel(ctx)

		list, ok, err := r.cache.Get(ctx, key)
		if err != nil {
			r.logger.Warn(ctx, "cache read failed", "key", key, "error", err)
		} else if ok {
			return list, nil
		}

		gen := r.generation(key)
		list, err = r.list(ctx, owner)
		if err != nil {
			return nil, err
		}
		r.fill(ctx, key, gen, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]T), nil
}

// FindOne returns the record with id. With owner-scoped reads a record of
// another user is Forbidden; with public reads it is returned as is.
func (r *Resource[T]) FindOne(ctx context.Context, id, callerID string) (*T, error) {
	if r.rules.VerifyCaller {
		if err := r.requireCaller(ctx, callerID); err != nil {
			return nil, err
		}
	}
	if r.rules.OwnerScopedRead {
		return r.loadOwned(ctx, id, callerID, "view")
	}

	v, found, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ownership.NotFound.Err(r.entity, "view")
	}
	return v, nil
}

// Update loads the record, checks ownership and applies mutate before saving.
func (r *Resource[T]) Update(ctx context.Context, id, callerID string, mutate func(*T)) (*T, error) {
	if r.rules.VerifyCaller {
		if err := r.requireCaller(ctx, callerID); err != nil {
			return nil, err
		}
	}
	v, err := r.loadOwned(ctx, id, callerID, "update")
	if err != nil {
		return nil, err
	}

	mutate(v)
	out, err := r.store(r.repos).Update(ctx, v)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ownership.NotFound.Err(r.entity, "update")
		}
		return nil, fmt.Errorf("error updating %s: %w", r.entity, err)
	}
	r.invalidate(ctx, callerID)
	return out, nil
}

// Remove deletes the record after the same checks as Update.
func (r *Resource[T]) Remove(ctx context.Context, id, callerID string) error {
	if r.rules.VerifyCaller {
		if err := r.requireCaller(ctx, callerID); err != nil {
			return err
		}
	}
	if _, err := r.loadOwned(ctx, id, callerID, "delete"); err != nil {
		return err
	}

	if err := r.store(r.repos).Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ownership.NotFound.Err(r.entity, "delete")
		}
		return fmt.Errorf("error deleting %s: %w", r.entity, err)
	}
	r.invalidate(ctx, callerID)
	return nil
}

// ForgetOwner drops cached lists that may contain records of ownerID.
func (r *Resource[T]) ForgetOwner(ctx context.Context, ownerID string) {
	r.invalidate(ctx, ownerID)
}

func (r *Resource[T]) list(ctx context.Context, ownerID string) ([]T, error) {
	list, err := r.store(r.repos).List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing %s: %w", r.entity, err)
	}
	return list, nil
}

func (r *Resource[T]) load(ctx context.Context, id string) (*T, bool, error) {
	v, err := r.store(r.repos).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("error loading %s: %w", r.entity, err)
	}
	return v, true, nil
}

func (r *Resource[T]) loadOwned(ctx context.Context, id, callerID, action string) (*T, error) {
	v, found, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	owner := ""
	if found {
		owner = (*v).OwnerID()
	}
	if err := ownership.Decide(found, owner, callerID).Err(r.entity, action); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *Resource[T]) requireCaller(ctx context.Context, callerID string) error {
	return requireUser(ctx, r.repos, callerID)
}

// fill stores list under key unless key was invalidated after gen was read.
func (r *Resource[T]) fill(ctx context.Context, key string, gen uint64, list []T) {
	r.genMu.Lock()
	defer r.genMu.Unlock()

	if r.gens[key] != gen {
		r.logger.Debug(ctx, "skipping stale cache fill", "key", key)
		return
	}
	if err := r.cache.Set(ctx, key, list); err != nil {
		r.logger.Warn(ctx, "cache write failed", "key", key, "error", err)
	}
}

func (r *Resource[T]) generation(key string) uint64 {
	r.genMu.Lock()
	defer r.genMu.Unlock()
	return r.gens[key]
}

func (r *Resource[T]) invalidate(ctx context.Context, ownerID string) {
	if r.cache == nil {
		return
	}
	keys := []string{ownerKey(ownerID), allKey}

	r.genMu.Lock()
	for _, k := range keys {
		r.gens[k]++
	}
	r.genMu.Unlock()

	if err := r.cache.Invalidate(ctx, keys...); err != nil {
		r.logger.Warn(ctx, "cache invalidation failed", "owner", ownerID, "error", err)
	}
}

func ownerKey(ownerID string) string {
	return "owner:" + ownerID
}

// requireUser fails with ErrUserNotFound unless userID names an active account.
func requireUser(ctx context.Context, repos repomanager.RepositoryManager, userID string) error {
	if userID == "" {
		return common.Unauthenticated("Unauthorized")
	}
	if _, err := repos.Users().GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("error loading user: %w", err)
	}
	return nil
}
