package profiles

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/truproof/internal/common"
	"github.com/dmitrijs2005/truproof/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var (
	getQ    = `(?s)^SELECT\s+owner_id,.*updated_at\s+FROM\s+profiles\s+WHERE\s+owner_id\s*=\s*\$1\s*$`
	upsertQ = `(?s)^INSERT\s+INTO\s+profiles\s*\(owner_id,.*VALUES\s*\(\$1,.*\$13\)\s*ON\s+CONFLICT\s*\(owner_id\)\s*DO\s+UPDATE\s+SET\s+.*fingerprint\s*=\s*EXCLUDED\.fingerprint.*$`
)

func TestPostgresGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"owner_id", "given_name", "family_name", "birth_date", "email",
		"phone", "profession", "zip_code", "city", "country", "fingerprint", "code_image", "updated_at"}).
		AddRow("current-user", "Jean", "Dupont", "1990-01-01", "jean@example.com", "", "", "", "", "",
			"tru-abc", []byte("png"), at)
	mock.ExpectQuery(getQ).WithArgs("current-user").WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "current-user")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.GivenName != "Jean" || got.Fingerprint != "tru-abc" || !got.UpdatedAt.Equal(at) {
		t.Fatalf("unexpected profile: %+v", got)
	}
}

func TestPostgresGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQ).WithArgs("current-user").WillReturnError(sql.ErrNoRows)

	if _, err := repo.Get(context.Background(), "current-user"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestPostgresGet_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQ).WithArgs("current-user").WillReturnError(errors.New("db err"))

	_, err := repo.Get(context.Background(), "current-user")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgresUpsert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	p := &models.Profile{OwnerID: "current-user", GivenName: "Jean", Fingerprint: "tru-abc", UpdatedAt: at}

	mock.ExpectExec(upsertQ).
		WithArgs("current-user", "Jean", "", "", "", "", "", "", "", "", "tru-abc", []byte(nil), at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsertQ).WillReturnError(errors.New("down"))

	if err := repo.Upsert(context.Background(), p); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	if err := repo.Upsert(context.Background(), p); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
