package people

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/payrun/internal/common"
	"github.com/dmitrijs2005/payrun/internal/server/models"
)

var (
	p1    = "4b7f0a52-3c1e-4d8f-9a61-2f0e8c1d5a01"
	p2    = "4b7f0a52-3c1e-4d8f-9a61-2f0e8c1d5a02"
	w1    = "9e2d6c14-7a3b-4f50-8c19-6d4e2a0b7c01"
	w2    = "9e2d6c14-7a3b-4f50-8c19-6d4e2a0b7c02"
	ghost = "00000000-0000-4000-8000-000000000000"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSQLRepository(db), mock, db
}

func TestCreate_AssignsIDAndTime(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+people\s*\(id,\s*name,\s*role,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)$`
	mock.ExpectExec(q).
		WithArgs(sqlmock.AnyArg(), "Ana", "Dev", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	p, err := repo.Create(context.Background(), &models.Person{Name: "Ana", Role: "Dev"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if p.ID == "" || p.CreatedAt.IsZero() {
		t.Fatalf("id and created_at must be assigned: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+people`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Person{Name: "Ana"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGet_FoundAndNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*role,\s*created_at\s+FROM\s+people\s+WHERE\s+id\s*=\s*\$1$`
	now := time.Now().UTC()
	mock.ExpectQuery(q).WithArgs(p1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "role", "created_at"}).AddRow(p1, "Ana", "Dev", now))
	mock.ExpectQuery(q).WithArgs(ghost).WillReturnError(sql.ErrNoRows)

	p, err := repo.Get(context.Background(), p1)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if p.Name != "Ana" || p.Role != "Dev" || !p.CreatedAt.Equal(now) {
		t.Fatalf("unexpected person: %+v", p)
	}

	_, err = repo.Get(context.Background(), ghost)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*name,\s*role,\s*created_at\s+FROM\s+people\s+ORDER\s+BY\s+name`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "role", "created_at"}).
			AddRow(p1, "Ana", "Dev", now).
			AddRow(p2, "Bo", "Ops", now))

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[1].Name != "Bo" {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestList_ScanError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+people`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "role", "created_at"}).AddRow(p1, "Ana", "Dev", "not a time"))

	_, err := repo.List(context.Background())
	if err == nil || !regexp.MustCompile(`^db error: `).MatchString(err.Error()) {
		t.Fatalf("expected db error, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+people\s+WHERE\s+id\s*=\s*\$1$`
	mock.ExpectExec(q).WithArgs(p1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(ghost).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q).WithArgs(p2).WillReturnError(errors.New("fk violation"))

	if err := repo.Delete(context.Background(), p1); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := repo.Delete(context.Background(), ghost); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
	if err := repo.Delete(context.Background(), p2); err == nil || errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected db error, got %v", err)
	}
}

func TestMalformedID_NotFoundWithoutQuery(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
	if err := repo.Delete(context.Background(), "p-1"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("malformed ids must not reach the database: %v", err)
	}
}
