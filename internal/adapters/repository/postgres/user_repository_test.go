package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/user"
	pgdb "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/db/postgres"
)

type stubRow struct {
	scanFn func(dest ...interface{}) error
}

func (s stubRow) Scan(dest ...interface{}) error {
	return s.scanFn(dest...)
}

func TestScanUser_Success(t *testing.T) {
	t.Parallel()

	createdAt := time.Now().UTC()
	updatedAt := createdAt.Add(time.Minute)

	row := stubRow{scanFn: func(dest ...interface{}) error {
		if len(dest) != 6 {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*string)) = "user-1"
		*(dest[1].(*string)) = "user@example.com"
		*(dest[2].(*string)) = "User"
		*(dest[3].(*string)) = string(user.StatusActive)
		*(dest[4].(*time.Time)) = createdAt
		*(dest[5].(*time.Time)) = updatedAt
		return nil
	}}

	u, err := scanUser(row)
	if err != nil {
		t.Fatalf("scanUser returned error: %v", err)
	}

	if u.ID != "user-1" || u.Email != "user@example.com" || u.Status != user.StatusActive {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestScanUser_NoRows(t *testing.T) {
	t.Parallel()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		return pgx.ErrNoRows
	}}

	_, err := scanUser(row)
	if !errors.Is(err, user.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestTranslateUserPgError(t *testing.T) {
	t.Parallel()

	if !errors.Is(translateUserPgError(&pgconn.PgError{Code: uniqueViolationCode}), user.ErrEmailAlreadyExists) {
		t.Fatalf("expected email exists error mapping")
	}
	if !errors.Is(translateUserPgError(&pgconn.PgError{Code: invalidTextRepresentation}), user.ErrUserNotFound) {
		t.Fatalf("expected malformed id to map to not found")
	}

	otherErr := errors.New("random")
	if translateUserPgError(otherErr) != otherErr {
		t.Fatalf("unexpected translation for generic error")
	}
}

func TestUserRepository_Create(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (email, name, status, created_at, updated_at)")).
		WithArgs("user@example.com", "User", "active", now, now).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "name", "status", "created_at", "updated_at"}).
			AddRow("user-1", "user@example.com", "User", "active", now, now))

	created, err := repo.Create(context.Background(), &user.User{
		Email:     "user@example.com",
		Name:      "User",
		Status:    user.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != "user-1" {
		t.Fatalf("unexpected id %s", created.ID)
	}

	assertExpectations(t, mock)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("user@example.com", "User", "active", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	_, err := repo.Create(context.Background(), &user.User{Email: "user@example.com", Name: "User", Status: user.StatusActive})
	if !errors.Is(err, user.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}

	assertExpectations(t, mock)
}

func TestUserRepository_Delete_UsesTransaction(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	tm := pgdb.NewTransactionManager(mock)

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs("user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	err := tm.WithinReadWrite(context.Background(), func(ctx context.Context) error {
		return repo.Delete(ctx, "user-1")
	})
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	assertExpectations(t, mock)
}

func TestUserRepository_Delete_NotFound(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs("user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), "user-1"); !errors.Is(err, user.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	assertExpectations(t, mock)
}
