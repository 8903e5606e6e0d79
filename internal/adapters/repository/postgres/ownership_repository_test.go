package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestOwnershipRepository_CompanyOwned(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewOwnershipRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM companies")).
		WithArgs("company-1", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("FROM companies")).
		WithArgs("bogus", "user-1").
		WillReturnError(&pgconn.PgError{Code: invalidTextRepresentation})

	owned, err := repo.CompanyOwned(context.Background(), "company-1", "user-1")
	if err != nil || !owned {
		t.Fatalf("expected owned company, got %v, %v", owned, err)
	}

	owned, err = repo.CompanyOwned(context.Background(), "bogus", "user-1")
	if err != nil || owned {
		t.Fatalf("expected malformed id to be treated as not owned, got %v, %v", owned, err)
	}

	assertExpectations(t, mock)
}

func TestOwnershipRepository_StepInCompany(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewOwnershipRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM selection_steps")).
		WithArgs("step-1", "company-2", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := repo.StepInCompany(context.Background(), "step-1", "company-2", "user-1")
	if err != nil || ok {
		t.Fatalf("expected step outside the company, got %v, %v", ok, err)
	}

	assertExpectations(t, mock)
}

func TestOwnershipRepository_PropagatesStorageErrors(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewOwnershipRepository(mock)
	storageErr := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta("FROM companies")).
		WithArgs("company-1", "user-1").
		WillReturnError(storageErr)

	if _, err := repo.CompanyOwned(context.Background(), "company-1", "user-1"); !errors.Is(err, storageErr) {
		t.Fatalf("expected storage error, got %v", err)
	}

	assertExpectations(t, mock)
}
