package places

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

// NewPostgresRepository returns a places.Repository bound to db.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const placeColumns = `id, name, description, address, latitude, longitude, user_id, created_at, updated_at`

func scanPlace(row interface{ Scan(dest ...any) error }) (*models.Place, error) {
	p := &models.Place{}
	var lat, lng sql.NullFloat64
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Address, &lat, &lng, &p.UserID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if lat.Valid {
		p.Latitude = &lat.Float64
	}
	if lng.Valid {
		p.Longitude = &lng.Float64
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, place *models.Place) (*models.Place, error) {
	query :=
		`INSERT INTO places (name, description, address, latitude, longitude, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		place.Name, place.Description, place.Address, nullFloat(place.Latitude), nullFloat(place.Longitude), place.UserID).
		Scan(&place.ID, &place.CreatedAt, &place.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return place, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Place, error) {
	if !dbx.IsUUID(id) {
		return nil, common.ErrorNotFound
	}

	query :=
		`SELECT ` + placeColumns + ` FROM places
		 WHERE id = $1
		 `

	p, err := scanPlace(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]models.Place, error) {
	query := `SELECT ` + placeColumns + ` FROM places`
	var args []any
	if ownerID != "" {
		if !dbx.IsUUID(ownerID) {
			return []models.Place{}, nil
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

	result := []models.Place{}
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, place *models.Place) (*models.Place, error) {
	if !dbx.IsUUID(place.ID) {
		return nil, common.ErrorNotFound
	}

	query :=
		`UPDATE places
		 SET name = $2, description = $3, address = $4, latitude = $5, longitude = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		place.ID, place.Name, place.Description, place.Address, nullFloat(place.Latitude), nullFloat(place.Longitude)).
		Scan(&place.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return place, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if !dbx.IsUUID(id) {
		return common.ErrorNotFound
	}
	return dbx.ExecOne(ctx, r.db, `DELETE FROM places WHERE id = $1`, id)
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
