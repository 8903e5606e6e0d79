package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/task"
	pgdb "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/db/postgres"
)

const taskColumns = `id, user_id, company_id, title, category, status, due_date, memo, created_at, updated_at`

// TaskRepository は PostgreSQL を利用したタスク永続化の実装です。
type TaskRepository struct {
	pool pgdb.Queryer
}

// NewTaskRepository は TaskRepository を生成します。
func NewTaskRepository(pool pgdb.Queryer) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// Create はタスクを新規作成します。
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) (*task.Task, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO tasks (user_id, company_id, title, category, status, due_date, memo, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING `+taskColumns,
		t.UserID, nullableString(t.CompanyID), t.Title, string(t.Category), string(t.Status),
		nullableTime(t.DueDate), nullableString(t.Memo), t.CreatedAt, t.UpdatedAt)

	created, err := scanTask(row)
	if err != nil {
		return nil, translateTaskPgError(err)
	}
	return created, nil
}

// Update はタスクを更新します。
func (r *TaskRepository) Update(ctx context.Context, t *task.Task) (*task.Task, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE tasks
           SET company_id = $1,
               title = $2,
               category = $3,
               status = $4,
               due_date = $5,
               memo = $6,
               updated_at = $7
         WHERE id = $8
           AND user_id = $9
        RETURNING `+taskColumns,
		nullableString(t.CompanyID), t.Title, string(t.Category), string(t.Status), nullableTime(t.DueDate),
		nullableString(t.Memo), t.UpdatedAt, t.ID, t.UserID)

	updated, err := scanTask(row)
	if err != nil {
		return nil, translateTaskPgError(err)
	}
	return updated, nil
}

// Delete はタスクを削除します。
func (r *TaskRepository) Delete(ctx context.Context, id, userID string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translateTaskPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

// FindByID は ID でタスクを取得します。
func (r *TaskRepository) FindByID(ctx context.Context, id, userID string) (*task.Task, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+taskColumns+`
          FROM tasks
         WHERE id = $1
           AND user_id = $2
         LIMIT 1
    `, id, userID)

	found, err := scanTask(row)
	if err != nil {
		return nil, translateTaskPgError(err)
	}
	return found, nil
}

// List はタスクを期限の近い順(期限なしは末尾)に取得します。
func (r *TaskRepository) List(ctx context.Context, filter task.ListTasksFilter) ([]*task.Task, string, error) {
	if filter.Limit <= 0 || filter.Offset < 0 {
		return nil, "", errors.New("postgres: invalid page bounds")
	}

	args := []any{filter.UserID}
	conditions := []string{"user_id = $1"}

	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		conditions = append(conditions, "company_id = "+placeholder(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, "status = "+placeholder(args))
	}
	if filter.DueBefore != nil {
		args = append(args, *filter.DueBefore)
		conditions = append(conditions, "due_date < "+placeholder(args))
	}

	args = append(args, filter.Limit+1)
	limitPlaceholder := placeholder(args)
	args = append(args, filter.Offset)
	offsetPlaceholder := placeholder(args)

	query := `
        SELECT ` + taskColumns + `
          FROM tasks
         WHERE ` + strings.Join(conditions, " AND ") + `
         ORDER BY due_date ASC NULLS LAST, created_at ASC, id ASC
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder + `
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateTaskPgError(err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		found, err := scanTask(rows)
		if err != nil {
			return nil, "", translateTaskPgError(err)
		}
		tasks = append(tasks, found)
	}
	if err := rows.Err(); err != nil {
		return nil, "", translateTaskPgError(err)
	}

	var nextToken string
	if len(tasks) > filter.Limit {
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
		tasks = tasks[:filter.Limit]
	}
	return tasks, nextToken, nil
}

func scanTask(row pgx.Row) (*task.Task, error) {
	var (
		t         task.Task
		companyID sql.NullString
		category  string
		status    string
		dueDate   sql.NullTime
		memo      sql.NullString
	)

	if err := row.Scan(&t.ID, &t.UserID, &companyID, &t.Title, &category, &status, &dueDate, &memo,
		&t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, task.ErrTaskNotFound
		}
		return nil, err
	}

	t.CompanyID = stringPtr(companyID)
	t.Category = task.Category(category)
	t.Status = task.Status(status)
	t.DueDate = dateInUTC(timePtr(dueDate))
	t.Memo = stringPtr(memo)
	return &t, nil
}

func translateTaskPgError(err error) error {
	switch pgErrorCode(err) {
	case invalidTextRepresentation:
		return task.ErrTaskNotFound
	case foreignKeyViolationCode:
		return task.ErrCompanyNotFound
	}
	return err
}
