//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	repo "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/adapters/repository/postgres"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/company"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/selection"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/user"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/config"
	pg "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/db/postgres"
)

const migrationsDir = "../assets/migrations"

type stubClock struct {
	now time.Time
}

func (c stubClock) Now() time.Time {
	return c.now
}

func setup(t *testing.T) *pgxpool.Pool {
	t.Helper()

	cfg, err := config.Load(configPathFromEnv())
	require.NoError(t, err)
	require.NoError(t, resetMigrations(cfg.Database.DSN(), migrationsDir))

	pool, err := pg.NewPool(context.Background(), cfg.Database, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestSelectionProgressIntegration(t *testing.T) {
	pool := setup(t)
	ctx := context.Background()
	clock := stubClock{now: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)}
	tx := pg.NewTransactionManager(pool)

	users := user.NewService(repo.NewUserRepository(pool), clock)
	companies := company.NewService(repo.NewCompanyRepository(pool), clock, tx)
	steps := selection.NewService(repo.NewSelectionStepRepository(pool), repo.NewSelectionCompanyStore(pool),
		selection.WithClock(clock),
		selection.WithTransactionManager(tx),
	)

	owner, err := users.CreateUser(ctx, user.CreateUserInput{Email: "owner@example.com", Name: "Owner"})
	require.NoError(t, err)
	other, err := users.CreateUser(ctx, user.CreateUserInput{Email: "other@example.com", Name: "Other"})
	require.NoError(t, err)

	c, err := companies.CreateCompany(ctx, company.CreateCompanyInput{UserID: owner.ID, Name: "Example"})
	require.NoError(t, err)
	assert.Equal(t, selection.ProgressNotEntered, c.Status)

	applied, err := steps.ApplyTemplate(ctx, selection.ApplyTemplateInput{CompanyID: c.ID, UserID: owner.ID})
	require.NoError(t, err)
	require.Len(t, applied, len(selection.DefaultTemplate))

	found, err := companies.GetCompany(ctx, company.GetCompanyInput{ID: c.ID, UserID: owner.ID})
	require.NoError(t, err)
	assert.Equal(t, "ES提出", found.Status)
	require.NotNil(t, found.NextStep)
	assert.Equal(t, "ES提出", *found.NextStep)

	passed := selection.StepStatusPassed
	_, err = steps.UpdateStep(ctx, selection.UpdateStepInput{ID: applied[0].ID, UserID: owner.ID, Status: &passed})
	require.NoError(t, err)

	planned := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	_, err = steps.UpdateStep(ctx, selection.UpdateStepInput{
		ID:             applied[1].ID,
		UserID:         owner.ID,
		PlannedDate:    &planned,
		PlannedDateSet: true,
	})
	require.NoError(t, err)

	found, err = companies.GetCompany(ctx, company.GetCompanyInput{ID: c.ID, UserID: owner.ID})
	require.NoError(t, err)
	assert.Equal(t, "Webテスト", found.Status)
	require.NotNil(t, found.NextDeadline)
	assert.True(t, found.NextDeadline.Equal(planned))

	failed := selection.StepStatusFailed
	_, err = steps.UpdateStep(ctx, selection.UpdateStepInput{ID: applied[1].ID, UserID: owner.ID, Status: &failed})
	require.NoError(t, err)

	found, err = companies.GetCompany(ctx, company.GetCompanyInput{ID: c.ID, UserID: owner.ID})
	require.NoError(t, err)
	assert.Equal(t, selection.ProgressRejected, found.Status)
	assert.Nil(t, found.NextStep)
	assert.Nil(t, found.NextDeadline)

	// 他の利用者からは企業もステップも見えない。
	_, err = steps.CreateStep(ctx, selection.CreateStepInput{UserID: other.ID, CompanyID: c.ID, Name: "割り込み"})
	assert.True(t, errors.Is(err, selection.ErrCompanyNotFound), "got %v", err)
	err = steps.DeleteStep(ctx, selection.DeleteStepInput{ID: applied[0].ID, UserID: other.ID})
	assert.True(t, errors.Is(err, selection.ErrStepNotFound), "got %v", err)

	require.NoError(t, companies.DeleteCompany(ctx, company.DeleteCompanyInput{ID: c.ID, UserID: owner.ID}))
	_, err = steps.GetStep(ctx, selection.GetStepInput{ID: applied[0].ID, UserID: owner.ID})
	assert.True(t, errors.Is(err, selection.ErrStepNotFound), "got %v", err)
}

func resetMigrations(dsn, dir string) error {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func configPathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "../assets/local.yaml"
}
