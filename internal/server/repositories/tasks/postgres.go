package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskplaces/internal/common"
	"github.com/dmitrijs2005/taskplaces/internal/dbx"
	"github.com/dmitrijs2005/taskplaces/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository returns a tasks.Repository bound to db.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query :=
		`INSERT INTO tasks (title, description, status, created_at, user_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, string(task.Status), task.CreatedAt, task.UserID).Scan(&task.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	if !dbx.IsUUID(id) {
		return nil, common.ErrorNotFound
	}

	query :=
		`SELECT id, title, description, status, created_at, user_id FROM tasks
		 WHERE id = $1
		 `

	t := &models.Task{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return t, nil
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]models.Task, error) {
	query := `SELECT id, title, description, status, created_at, user_id FROM tasks`
	var args []any
	if ownerID != "" {
		if !dbx.IsUUID(ownerID) {
			return []models.Task{}, nil
		}
		query += ` WHERE user_id = $1`
		args = append(args, ownerID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UserID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Update writes the mutable fields. Owner and creation time stay as stored.
func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	if !dbx.IsUUID(task.ID) {
		return nil, common.ErrorNotFound
	}
	err := dbx.ExecOne(ctx, r.db,
		`UPDATE tasks SET title = $2, description = $3, status = $4 WHERE id = $1`,
		task.ID, task.Title, task.Description, string(task.Status))
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if !dbx.IsUUID(id) {
		return common.ErrorNotFound
	}
	return dbx.ExecOne(ctx, r.db, `DELETE FROM tasks WHERE id = $1`, id)
}
