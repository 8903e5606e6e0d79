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

	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/selection"
	pgdb "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/db/postgres"
)

var stepRowColumns = []string{
	"id", "company_id", "user_id", "step_order", "name", "status", "planned_date", "actual_date",
	"memo", "is_offer", "created_at", "updated_at",
}

func TestSelectionStepRepository_Create(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewSelectionStepRepository(mock)

	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	planned := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO selection_steps")).
		WithArgs("step-1", "company-1", "user-1", 1, "ES提出", "scheduled", planned, nil, nil, false, now, now).
		WillReturnRows(pgxmock.NewRows(stepRowColumns).
			AddRow("step-1", "company-1", "user-1", 1, "ES提出", "scheduled", planned, nil, nil, false, now, now))

	created, err := repo.Create(context.Background(), &selection.Step{
		ID:          "step-1",
		CompanyID:   "company-1",
		UserID:      "user-1",
		Order:       1,
		Name:        "ES提出",
		Status:      selection.StepStatusScheduled,
		PlannedDate: &planned,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.PlannedDate == nil || !created.PlannedDate.Equal(planned) {
		t.Fatalf("unexpected planned date: %v", created.PlannedDate)
	}
	if created.ActualDate != nil || created.Memo != nil {
		t.Fatalf("expected null columns to stay nil: %+v", created)
	}

	assertExpectations(t, mock)
}

func TestSelectionStepRepository_DetachNotes(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewSelectionStepRepository(mock)

	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE interview_notes")).
		WithArgs("step-1", "user-1", now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	if err := repo.DetachNotes(context.Background(), "step-1", "user-1", now); err != nil {
		t.Fatalf("DetachNotes returned error: %v", err)
	}

	assertExpectations(t, mock)
}

func TestSelectionStepRepository_ListByCompany(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewSelectionStepRepository(mock)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY step_order ASC, id ASC")).
		WithArgs("company-1", "user-1").
		WillReturnRows(pgxmock.NewRows(stepRowColumns).
			AddRow("step-1", "company-1", "user-1", 1, "ES提出", "passed", nil, now, nil, false, now, now).
			AddRow("step-2", "company-1", "user-1", 2, "内定", "passed", nil, nil, "おめでとう", true, now, now))

	steps, err := repo.ListByCompany(context.Background(), "company-1", "user-1")
	if err != nil {
		t.Fatalf("ListByCompany returned error: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if !steps[1].Offer || steps[1].Memo == nil {
		t.Fatalf("unexpected second step: %+v", steps[1])
	}
	if got := selection.DeriveProgress(steps); got.Status != "内定" {
		t.Fatalf("expected derived status 内定, got %s", got.Status)
	}

	assertExpectations(t, mock)
}

func TestSelectionStepRepository_ListByCompany_Empty(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewSelectionStepRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM selection_steps")).
		WithArgs("company-1", "user-1").
		WillReturnRows(pgxmock.NewRows(stepRowColumns))

	steps, err := repo.ListByCompany(context.Background(), "company-1", "user-1")
	if err != nil {
		t.Fatalf("ListByCompany returned error: %v", err)
	}
	if steps == nil || len(steps) != 0 {
		t.Fatalf("expected empty non-nil slice, got %+v", steps)
	}

	assertExpectations(t, mock)
}

func TestSelectionStepRepository_FindByID_MalformedID(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewSelectionStepRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM selection_steps")).
		WithArgs("not-a-uuid", "user-1").
		WillReturnError(&pgconn.PgError{Code: invalidTextRepresentation})

	if _, err := repo.FindByID(context.Background(), "not-a-uuid", "user-1"); !errors.Is(err, selection.ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound, got %v", err)
	}

	assertExpectations(t, mock)
}

func TestSelectionStepRepository_Delete_NotFound(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewSelectionStepRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM selection_steps")).
		WithArgs("step-1", "user-2").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), "step-1", "user-2"); !errors.Is(err, selection.ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound, got %v", err)
	}

	assertExpectations(t, mock)
}

func TestSelectionCompanyStore_LockAndApplyInTransaction(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	store := NewSelectionCompanyStore(mock)
	tm := pgdb.NewTransactionManager(mock)

	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	deadline := time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)
	next := "一次面接"

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("company-1", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("company-1"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE companies")).
		WithArgs("一次面接", "一次面接", deadline, now, "company-1", "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := tm.WithinReadWrite(context.Background(), func(ctx context.Context) error {
		if err := store.LockOwned(ctx, "company-1", "user-1"); err != nil {
			return err
		}
		return store.ApplyProgress(ctx, "company-1", "user-1", selection.Progress{
			Status:       "一次面接",
			NextStep:     &next,
			NextDeadline: &deadline,
		}, now)
	})
	if err != nil {
		t.Fatalf("transaction returned error: %v", err)
	}

	assertExpectations(t, mock)
}

func TestSelectionCompanyStore_LockOwned_NotOwned(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	store := NewSelectionCompanyStore(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("company-1", "user-2").
		WillReturnError(pgx.ErrNoRows)

	if err := store.LockOwned(context.Background(), "company-1", "user-2"); !errors.Is(err, selection.ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}

	assertExpectations(t, mock)
}

func TestSelectionCompanyStore_ApplyProgress_Cleared(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	store := NewSelectionCompanyStore(mock)
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE companies")).
		WithArgs("未エントリー", nil, nil, now, "company-1", "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := store.ApplyProgress(context.Background(), "company-1", "user-1", selection.Progress{Status: "未エントリー"}, now)
	if !errors.Is(err, selection.ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound for a vanished company, got %v", err)
	}

	assertExpectations(t, mock)
}

func TestSelectionCompanyStore_EnsureOwned(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	store := NewSelectionCompanyStore(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("company-1", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("company-1", "user-2").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	if err := store.EnsureOwned(context.Background(), "company-1", "user-1"); err != nil {
		t.Fatalf("EnsureOwned returned error: %v", err)
	}
	if err := store.EnsureOwned(context.Background(), "company-1", "user-2"); !errors.Is(err, selection.ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}

	assertExpectations(t, mock)
}
