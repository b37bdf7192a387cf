package history

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/payrun/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSQLRepository(db), mock, db
}

func TestAppend(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)
	q := `(?s)^INSERT\s+INTO\s+history\s*\(id,\s*person_id,\s*work_item_id,\s*person_name,\s*description,\s*amount,\s*created_at\)\s*VALUES\s*\(\$1,.*\$7\)$`
	mock.ExpectExec(q).
		WithArgs(sqlmock.AnyArg(), "p-1", "w-1", "Ana", "logo", models.MustMoney("100"), at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WillReturnError(errors.New("fk violation"))

	e, err := repo.Append(context.Background(), &models.HistoryEntry{
		PersonID: "p-1", WorkItemID: "w-1", PersonName: "Ana", Description: "logo",
		Amount: models.MustMoney("100"), CreatedAt: at,
	})
	if err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if e.ID == "" {
		t.Fatalf("id not assigned")
	}

	_, err = repo.Append(context.Background(), &models.HistoryEntry{WorkItemID: "gone"})
	if err == nil || !regexp.MustCompile(`db error: .*fk violation`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)FROM\s+history\s+ORDER\s+BY\s+created_at\s+DESC,\s*id$`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "person_id", "work_item_id", "person_name", "description", "amount", "created_at"}).
			AddRow("h-2", "p-1", "w-2", "Ana", "b", "5", now).
			AddRow("h-1", "p-1", "w-1", "Ana", "a", "10", now.Add(-time.Hour)))

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "h-2" {
		t.Fatalf("unexpected history: %+v", got)
	}
}

func TestAmountsByWorkItem_SumsDecimals(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+work_item_id,\s*amount\s+FROM\s+history$`).
		WillReturnRows(sqlmock.NewRows([]string{"work_item_id", "amount"}).
			AddRow("w-1", "0.10").
			AddRow("w-1", "0.20").
			AddRow("w-2", "7"))

	sums, err := repo.AmountsByWorkItem(context.Background())
	if err != nil {
		t.Fatalf("AmountsByWorkItem error: %v", err)
	}
	if !sums["w-1"].Equal(models.MustMoney("0.30")) || !sums["w-2"].Equal(models.MustMoney("7")) {
		t.Fatalf("unexpected sums: %v", sums)
	}
}

func TestAmountsByWorkItem_RowError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+history`).
		WillReturnRows(sqlmock.NewRows([]string{"work_item_id", "amount"}).
			AddRow("w-1", "1").
			RowError(0, errors.New("broken pipe")))

	if _, err := repo.AmountsByWorkItem(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
