package services

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskplaces/internal/common"
	"github.com/dmitrijs2005/taskplaces/internal/logging"
	"github.com/dmitrijs2005/taskplaces/internal/server/models"
	"github.com/dmitrijs2005/taskplaces/internal/server/repositories/repomanager"
)

// NewTask is the input for TaskService.Create. An empty Status means PENDING.
type NewTask struct {
	Title       string
	Description string
	Status      models.TaskStatus
}

// TaskService manages tasks. Every operation first checks that the caller's
// account still exists, and reads are limited to the caller's own tasks.
type TaskService struct {
	res *Resource[models.Task]
	now func() time.Time
}

func NewTaskService(repos repomanager.RepositoryManager, cache ListCache[models.Task], logger logging.Logger) *TaskService {
	res := NewResource(
		"Task",
		Rules{OwnerScopedRead: true, VerifyCaller: true},
		repos,
		func(m repomanager.RepositoryManager) Store[models.Task] { return m.Tasks() },
		cache,
		logger,
	)
	return &TaskService{res: res, now: time.Now}
}

func (s *TaskService) Create(ctx context.Context, callerID string, in NewTask) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, common.Validation("title should not be empty")
	}
	status := in.Status
	if status == "" {
		status = models.TaskStatusPending
	}
	if !status.Valid() {
		return nil, common.Validation("status must be one of PENDING, IN_PROGRESS, DONE")
	}

	return s.res.Create(ctx, callerID, &models.Task{
		Title:       title,
		Description: in.Description,
		Status:      status,
		CreatedAt:   s.now().UTC(),
		UserID:      callerID,
	})
}

func (s *TaskService) FindAll(ctx context.Context, callerID string) ([]models.Task, error) {
	return s.res.FindAll(ctx, callerID)
}

func (s *TaskService) FindOne(ctx context.Context, id, callerID string) (*models.Task, error) {
	return s.res.FindOne(ctx, id, callerID)
}

func (s *TaskService) Update(ctx context.Context, id, callerID string, patch models.TaskPatch) (*models.Task, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, common.Validation("title should not be empty")
		}
		patch.Title = &title
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, common.Validation("status must be one of PENDING, IN_PROGRESS, DONE")
	}
	return s.res.Update(ctx, id, callerID, func(t *models.Task) { patch.Apply(t) })
}

func (s *TaskService) Remove(ctx context.Context, id, callerID string) error {
	return s.res.Remove(ctx, id, callerID)
}

// ForgetOwner drops cached task lists of ownerID.
func (s *TaskService) ForgetOwner(ctx context.Context, ownerID string) {
	s.res.ForgetOwner(ctx, ownerID)
}
