package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskplaces/internal/common"
	"github.com/dmitrijs2005/taskplaces/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uid = "3f1e7a4e-2c1b-4b8e-9f3a-0c6f1d2e3a4b"

var userCols = []string{"id", "name", "email", "password_hash", "active", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(name,\s*email,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*active,\s*created_at,\s*updated_at\s*$`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("Ann", "ann@x.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "active", "created_at", "updated_at"}).AddRow(uid, true, now, now))

	got, err := repo.Create(context.Background(), &models.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != uid || !got.Active || got.Name != "Ann" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "h"})
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want ErrorConflict, got %v", err)
	}
	if err.Error() != "User with this email already exists" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*email,\s*password_hash,\s*active,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s+AND\s+active\s*$`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs(uid).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(uid, "Ann", "ann@x.com", "h", true, now, now))

	got, err := repo.GetByID(context.Background(), uid)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Email != "ann@x.com" || got.PasswordHash != "h" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+users`).WithArgs(uid).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), uid)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_MalformedIDSkipsQuery(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	_, err := repo.GetByID(context.Background(), "123")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no query expected: %v", err)
	}
}

func TestGetByEmail_IncludesInactive(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("ann@x.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(uid, "Ann", "ann@x.com", "h", false, now, now))

	got, err := repo.GetByEmail(context.Background(), "ann@x.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.Active {
		t.Fatalf("expected inactive user, got %+v", got)
	}
}

func TestGetByEmail_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+users`).WillReturnError(errors.New("db err"))

	_, err := repo.GetByEmail(context.Background(), "ann@x.com")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	q := `(?s)^UPDATE\s+users\s+SET\s+name\s*=\s*\$2,\s*email\s*=\s*\$3,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+AND\s+active\s+RETURNING\s+updated_at\s*$`

	tests := []struct {
		name    string
		setup   func(m sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "ok",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(q).WithArgs(uid, "Ann", "new@x.com").
					WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
			},
		},
		{
			name: "missing",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(q).WillReturnError(sql.ErrNoRows)
			},
			wantErr: common.ErrorNotFound,
		},
		{
			name: "email taken",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(q).WillReturnError(&pgconn.PgError{Code: "23505"})
			},
			wantErr: common.ErrorConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()
			tt.setup(mock)

			got, err := repo.Update(context.Background(), &models.User{ID: uid, Name: "Ann", Email: "new@x.com"})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Update error: %v", err)
			}
			if got.UpdatedAt.IsZero() {
				t.Fatalf("updated_at not scanned: %+v", got)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).WithArgs(uid).WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Delete(context.Background(), uid); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	mock.ExpectExec(q).WithArgs(uid).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(context.Background(), uid); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}

	mock.ExpectExec(q).WithArgs(uid).WillReturnError(errors.New("boom"))
	if err := repo.Delete(context.Background(), uid); err == nil || !regexp.MustCompile(`db error: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestDeactivate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+users\s+SET\s+active\s*=\s*FALSE,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+AND\s+active\s*$`

	mock.ExpectExec(q).WithArgs(uid).WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Deactivate(context.Background(), uid); err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}

	mock.ExpectExec(q).WithArgs(uid).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Deactivate(context.Background(), uid); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}

	if err := repo.Deactivate(context.Background(), "nope"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound for malformed id, got %v", err)
	}
}
