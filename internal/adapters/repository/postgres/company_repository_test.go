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

	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/company"
)

var companyRowColumns = []string{
	"id", "user_id", "name", "industry", "website_url", "mypage_url", "priority", "memo",
	"status", "next_step", "next_deadline", "created_at", "updated_at",
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func assertExpectations(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCompanyRepository_Create(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewCompanyRepository(mock)

	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	industry := "IT"

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO companies")).
		WithArgs("user-1", "Sample", "IT", nil, nil, "high", nil, company.DefaultStatus, nil, nil, now, now).
		WillReturnRows(pgxmock.NewRows(companyRowColumns).
			AddRow("company-1", "user-1", "Sample", "IT", nil, nil, "high", nil, company.DefaultStatus, nil, nil, now, now))

	created, err := repo.Create(context.Background(), &company.Company{
		UserID:    "user-1",
		Name:      "Sample",
		Industry:  &industry,
		Priority:  company.PriorityHigh,
		Status:    company.DefaultStatus,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != "company-1" || created.Industry == nil || *created.Industry != "IT" {
		t.Fatalf("unexpected company: %+v", created)
	}
	if created.WebsiteURL != nil || created.NextDeadline != nil {
		t.Fatalf("expected null columns to stay nil: %+v", created)
	}

	assertExpectations(t, mock)
}

func TestCompanyRepository_FindByID_ScopedToUser(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewCompanyRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM companies")).
		WithArgs("company-1", "user-2").
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.FindByID(context.Background(), "company-1", "user-2"); !errors.Is(err, company.ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}

	assertExpectations(t, mock)
}

func TestCompanyRepository_FindByID_DeadlineAsDate(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewCompanyRepository(mock)

	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	deadline := time.Date(2025, 5, 10, 0, 0, 0, 0, time.Local)

	mock.ExpectQuery(regexp.QuoteMeta("FROM companies")).
		WithArgs("company-1", "user-1").
		WillReturnRows(pgxmock.NewRows(companyRowColumns).
			AddRow("company-1", "user-1", "Sample", nil, nil, nil, "medium", nil, "一次面接", "一次面接", deadline, now, now))

	found, err := repo.FindByID(context.Background(), "company-1", "user-1")
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if found.NextStep == nil || *found.NextStep != "一次面接" {
		t.Fatalf("unexpected next step: %+v", found.NextStep)
	}
	want := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	if found.NextDeadline == nil || !found.NextDeadline.Equal(want) {
		t.Fatalf("expected deadline %v, got %v", want, found.NextDeadline)
	}

	assertExpectations(t, mock)
}

func TestCompanyRepository_Delete_NotFound(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewCompanyRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM companies WHERE id = $1 AND user_id = $2")).
		WithArgs("company-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), "company-1", "user-1"); !errors.Is(err, company.ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}

	assertExpectations(t, mock)
}

func TestCompanyRepository_List_WithNextToken(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewCompanyRepository(mock)

	now := time.Now().UTC()
	rows := pgxmock.NewRows(companyRowColumns).
		AddRow("company-3", "user-1", "C3", nil, nil, nil, "high", nil, "未エントリー", nil, nil, now, now).
		AddRow("company-2", "user-1", "C2", nil, nil, nil, "high", nil, "未エントリー", nil, nil, now, now).
		AddRow("company-1", "user-1", "C1", nil, nil, nil, "high", nil, "未エントリー", nil, nil, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND status = $2 AND priority = $3")).
		WithArgs("user-1", "未エントリー", "high", 3, 2).
		WillReturnRows(rows)

	status := "未エントリー"
	priority := company.PriorityHigh
	companies, nextToken, err := repo.List(context.Background(), company.ListCompaniesFilter{
		UserID:   "user-1",
		Limit:    2,
		Offset:   2,
		Status:   &status,
		Priority: &priority,
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(companies) != 2 {
		t.Fatalf("expected 2 companies, got %d", len(companies))
	}
	if nextToken != "4" {
		t.Fatalf("expected next token '4', got %s", nextToken)
	}

	assertExpectations(t, mock)
}

func TestCompanyRepository_List_LastPage(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewCompanyRepository(mock)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY updated_at DESC, id DESC")).
		WithArgs("user-1", 11, 0).
		WillReturnRows(pgxmock.NewRows(companyRowColumns).
			AddRow("company-1", "user-1", "C1", nil, nil, nil, "low", nil, "未エントリー", nil, nil, now, now))

	companies, nextToken, err := repo.List(context.Background(), company.ListCompaniesFilter{UserID: "user-1", Limit: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(companies) != 1 || nextToken != "" {
		t.Fatalf("unexpected page: %d companies, token %q", len(companies), nextToken)
	}

	assertExpectations(t, mock)
}

func TestTranslateCompanyPgError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want error
	}{
		{name: "malformed id", err: &pgconn.PgError{Code: invalidTextRepresentation}, want: company.ErrCompanyNotFound},
		{name: "unknown user", err: &pgconn.PgError{Code: foreignKeyViolationCode}, want: company.ErrInvalidUserID},
		{name: "priority check", err: &pgconn.PgError{Code: checkViolationCode}, want: company.ErrInvalidPriority},
	}

	for _, tc := range cases {
		if got := translateCompanyPgError(tc.err); !errors.Is(got, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}

	otherErr := errors.New("random")
	if translateCompanyPgError(otherErr) != otherErr {
		t.Fatalf("unexpected translation for generic error")
	}
}
