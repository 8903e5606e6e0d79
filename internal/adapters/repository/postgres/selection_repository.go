package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/selection"
	pgdb "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/db/postgres"
)

const stepColumns = `id, company_id, user_id, step_order, name, status, planned_date, actual_date,
               memo, is_offer, created_at, updated_at`

// SelectionStepRepository は PostgreSQL を利用した選考ステップ永続化の実装です。
type SelectionStepRepository struct {
	pool pgdb.Queryer
}

// NewSelectionStepRepository は SelectionStepRepository を生成します。
func NewSelectionStepRepository(pool pgdb.Queryer) *SelectionStepRepository {
	return &SelectionStepRepository{pool: pool}
}

// Create はステップを新規作成します。ID は呼び出し側で発行済みです。
func (r *SelectionStepRepository) Create(ctx context.Context, s *selection.Step) (*selection.Step, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO selection_steps (id, company_id, user_id, step_order, name, status, planned_date,
                                     actual_date, memo, is_offer, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING `+stepColumns,
		s.ID, s.CompanyID, s.UserID, s.Order, s.Name, string(s.Status), nullableTime(s.PlannedDate),
		nullableTime(s.ActualDate), nullableString(s.Memo), s.Offer, s.CreatedAt, s.UpdatedAt)

	created, err := scanStep(row)
	if err != nil {
		return nil, translateStepPgError(err)
	}
	return created, nil
}

// Update はステップを更新します。企業の付け替えも含みます。
func (r *SelectionStepRepository) Update(ctx context.Context, s *selection.Step) (*selection.Step, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE selection_steps
           SET company_id = $1,
               step_order = $2,
               name = $3,
               status = $4,
               planned_date = $5,
               actual_date = $6,
               memo = $7,
               is_offer = $8,
               updated_at = $9
         WHERE id = $10
           AND user_id = $11
        RETURNING `+stepColumns,
		s.CompanyID, s.Order, s.Name, string(s.Status), nullableTime(s.PlannedDate), nullableTime(s.ActualDate),
		nullableString(s.Memo), s.Offer, s.UpdatedAt, s.ID, s.UserID)

	updated, err := scanStep(row)
	if err != nil {
		return nil, translateStepPgError(err)
	}
	return updated, nil
}

// Delete はステップを削除します。
func (r *SelectionStepRepository) Delete(ctx context.Context, id, userID string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM selection_steps WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translateStepPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return selection.ErrStepNotFound
	}
	return nil
}

// FindByID は ID でステップを取得します。
func (r *SelectionStepRepository) FindByID(ctx context.Context, id, userID string) (*selection.Step, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+stepColumns+`
          FROM selection_steps
         WHERE id = $1
           AND user_id = $2
         LIMIT 1
    `, id, userID)

	found, err := scanStep(row)
	if err != nil {
		return nil, translateStepPgError(err)
	}
	return found, nil
}

// DetachNotes はステップを参照する面接メモの step_id を NULL に戻します。
func (r *SelectionStepRepository) DetachNotes(ctx context.Context, stepID, userID string, updatedAt time.Time) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `
        UPDATE interview_notes
           SET step_id = NULL,
               updated_at = $3
         WHERE step_id = $1
           AND user_id = $2
    `, stepID, userID, updatedAt); err != nil {
		return translateStepPgError(err)
	}
	return nil
}

// ListByCompany は企業のステップを (step_order, id) の昇順で返します。
func (r *SelectionStepRepository) ListByCompany(ctx context.Context, companyID, userID string) ([]*selection.Step, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+stepColumns+`
          FROM selection_steps
         WHERE company_id = $1
           AND user_id = $2
         ORDER BY step_order ASC, id ASC
    `, companyID, userID)
	if err != nil {
		return nil, translateStepPgError(err)
	}
	defer rows.Close()

	steps := make([]*selection.Step, 0)
	for rows.Next() {
		step, err := scanStep(rows)
		if err != nil {
			return nil, translateStepPgError(err)
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, translateStepPgError(err)
	}
	return steps, nil
}

func scanStep(row pgx.Row) (*selection.Step, error) {
	var (
		s           selection.Step
		status      string
		plannedDate sql.NullTime
		actualDate  sql.NullTime
		memo        sql.NullString
	)

	if err := row.Scan(&s.ID, &s.CompanyID, &s.UserID, &s.Order, &s.Name, &status, &plannedDate, &actualDate,
		&memo, &s.Offer, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, selection.ErrStepNotFound
		}
		return nil, err
	}

	s.Status = selection.StepStatus(status)
	s.PlannedDate = dateInUTC(timePtr(plannedDate))
	s.ActualDate = dateInUTC(timePtr(actualDate))
	s.Memo = stringPtr(memo)
	return &s, nil
}

func translateStepPgError(err error) error {
	switch pgErrorCode(err) {
	case invalidTextRepresentation:
		return selection.ErrStepNotFound
	case foreignKeyViolationCode:
		return selection.ErrCompanyNotFound
	case checkViolationCode:
		return selection.ErrInvalidStatus
	}
	return err
}

// SelectionCompanyStore は選考ステップから導出した進捗を companies テーブルへ書き込みます。
type SelectionCompanyStore struct {
	pool pgdb.Queryer
}

// NewSelectionCompanyStore は SelectionCompanyStore を生成します。
func NewSelectionCompanyStore(pool pgdb.Queryer) *SelectionCompanyStore {
	return &SelectionCompanyStore{pool: pool}
}

// EnsureOwned は企業が利用者のものであることを確認します。
func (s *SelectionCompanyStore) EnsureOwned(ctx context.Context, companyID, userID string) error {
	owned, err := companyOwned(ctx, pgdb.QueryerFromContext(ctx, s.pool), companyID, userID)
	if err != nil {
		return err
	}
	if !owned {
		return selection.ErrCompanyNotFound
	}
	return nil
}

// LockOwned は企業行を FOR UPDATE でロックします。トランザクション外では行ロックは即座に解放されます。
func (s *SelectionCompanyStore) LockOwned(ctx context.Context, companyID, userID string) error {
	exec := pgdb.QueryerFromContext(ctx, s.pool)
	var id string
	err := exec.QueryRow(ctx, `
        SELECT id
          FROM companies
         WHERE id = $1
           AND user_id = $2
           FOR UPDATE
    `, companyID, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isMalformedID(err) {
			return selection.ErrCompanyNotFound
		}
		return err
	}
	return nil
}

// ApplyProgress は導出した進捗を企業へ書き込みます。
func (s *SelectionCompanyStore) ApplyProgress(ctx context.Context, companyID, userID string, progress selection.Progress, updatedAt time.Time) error {
	exec := pgdb.QueryerFromContext(ctx, s.pool)
	tag, err := exec.Exec(ctx, `
        UPDATE companies
           SET status = $1,
               next_step = $2,
               next_deadline = $3,
               updated_at = $4
         WHERE id = $5
           AND user_id = $6
    `, progress.Status, nullableString(progress.NextStep), nullableTime(progress.NextDeadline), updatedAt, companyID, userID)
	if err != nil {
		if isMalformedID(err) {
			return selection.ErrCompanyNotFound
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return selection.ErrCompanyNotFound
	}
	return nil
}
