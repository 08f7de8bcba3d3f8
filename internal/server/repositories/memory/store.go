// Package memory keeps users, tasks and places in process memory. It mirrors
// the PostgreSQL repositories: absent rows are common.ErrorNotFound, a taken
// email is a conflict and deleting a user removes what they own.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskplaces/internal/common"
	"github.com/dmitrijs2005/taskplaces/internal/server/models"
	"github.com/dmitrijs2005/taskplaces/internal/server/repositories/users"
	"github.com/google/uuid"
)

// Store is the shared state behind the three repositories.
type Store struct {
	mu     sync.RWMutex
	users  map[string]models.User
	tasks  map[string]models.Task
	places map[string]models.Place
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:  map[string]models.User{},
		tasks:  map[string]models.Task{},
		places: map[string]models.Place{},
		now:    time.Now,
	}
}

func (s *Store) Users() *UserRepository   { return &UserRepository{s: s} }
func (s *Store) Tasks() *TaskRepository   { return &TaskRepository{s: s} }
func (s *Store) Places() *PlaceRepository { return &PlaceRepository{s: s} }

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return nil, users.ErrEmailTaken
		}
	}
	now := r.s.now()
	u := *user
	u.ID = uuid.NewString()
	u.Active = true
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = u
	return &u, nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok || !u.Active {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *UserRepository) Update(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.users[user.ID]
	if !ok || !cur.Active {
		return nil, common.ErrorNotFound
	}
	for id, u := range r.s.users {
		if id != user.ID && u.Email == user.Email {
			return nil, users.ErrEmailTaken
		}
	}
	cur.Name = user.Name
	cur.Email = user.Email
	cur.UpdatedAt = r.s.now()
	r.s.users[cur.ID] = cur
	return &cur, nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.users, id)
	for tid, t := range r.s.tasks {
		if t.UserID == id {
			delete(r.s.tasks, tid)
		}
	}
	for pid, p := range r.s.places {
		if p.UserID == id {
			delete(r.s.places, pid)
		}
	}
	return nil
}

func (r *UserRepository) Deactivate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || !u.Active {
		return common.ErrorNotFound
	}
	u.Active = false
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	return nil
}

type TaskRepository struct{ s *Store }

func (r *TaskRepository) Create(_ context.Context, task *models.Task) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[task.UserID]; !ok {
		return nil, common.NotFound("User not found")
	}
	t := *task
	t.ID = uuid.NewString()
	r.s.tasks[t.ID] = t
	return &t, nil
}

func (r *TaskRepository) GetByID(_ context.Context, id string) (*models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (r *TaskRepository) List(_ context.Context, ownerID string) ([]models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []models.Task{}
	for _, t := range r.s.tasks {
		if ownerID == "" || t.UserID == ownerID {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return less(result[i].CreatedAt, result[j].CreatedAt, result[i].ID, result[j].ID)
	})
	return result, nil
}

func (r *TaskRepository) Update(_ context.Context, task *models.Task) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.tasks[task.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cur.Title = task.Title
	cur.Description = task.Description
	cur.Status = task.Status
	r.s.tasks[cur.ID] = cur
	return &cur, nil
}

func (r *TaskRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

type PlaceRepository struct{ s *Store }

func (r *PlaceRepository) Create(_ context.Context, place *models.Place) (*models.Place, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[place.UserID]; !ok {
		return nil, common.NotFound("User not found")
	}
	now := r.s.now()
	p := *place
	p.ID = uuid.NewString()
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.places[p.ID] = p
	return &p, nil
}

func (r *PlaceRepository) GetByID(_ context.Context, id string) (*models.Place, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.places[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (r *PlaceRepository) List(_ context.Context, ownerID string) ([]models.Place, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []models.Place{}
	for _, p := range r.s.places {
		if ownerID == "" || p.UserID == ownerID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return less(result[i].CreatedAt, result[j].CreatedAt, result[i].ID, result[j].ID)
	})
	return result, nil
}

func (r *PlaceRepository) Update(_ context.Context, place *models.Place) (*models.Place, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.places[place.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cur.Name = place.Name
	cur.Description = place.Description
	cur.Address = place.Address
	cur.Latitude = place.Latitude
	cur.Longitude = place.Longitude
	cur.UpdatedAt = r.s.now()
	r.s.places[cur.ID] = cur
	return &cur, nil
}

func (r *PlaceRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.places[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.places, id)
	return nil
}

func less(a, b time.Time, idA, idB string) bool {
	if !a.Equal(b) {
		return a.Before(b)
	}
	return strings.Compare(idA, idB) < 0
}
