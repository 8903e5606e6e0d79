package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/interview"
	pgdb "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/db/postgres"
)

const noteColumns = `id, user_id, company_id, step_id, title, interviewed_on, format, interviewers,
               questions, reflection, created_at, updated_at`

// InterviewNoteRepository は PostgreSQL を利用した面接メモ永続化の実装です。
type InterviewNoteRepository struct {
	pool pgdb.Queryer
}

// NewInterviewNoteRepository は InterviewNoteRepository を生成します。
func NewInterviewNoteRepository(pool pgdb.Queryer) *InterviewNoteRepository {
	return &InterviewNoteRepository{pool: pool}
}

// Create は面接メモを新規作成します。
func (r *InterviewNoteRepository) Create(ctx context.Context, n *interview.Note) (*interview.Note, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO interview_notes (user_id, company_id, step_id, title, interviewed_on, format,
                                     interviewers, questions, reflection, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING `+noteColumns,
		n.UserID, n.CompanyID, nullableString(n.StepID), n.Title, nullableTime(n.InterviewedOn), string(n.Format),
		nullableString(n.Interviewers), nullableString(n.Questions), nullableString(n.Reflection), n.CreatedAt, n.UpdatedAt)

	created, err := scanNote(row)
	if err != nil {
		return nil, translateNotePgError(err)
	}
	return created, nil
}

// Update は面接メモを更新します。企業の付け替えは行いません。
func (r *InterviewNoteRepository) Update(ctx context.Context, n *interview.Note) (*interview.Note, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE interview_notes
           SET step_id = $1,
               title = $2,
               interviewed_on = $3,
               format = $4,
               interviewers = $5,
               questions = $6,
               reflection = $7,
               updated_at = $8
         WHERE id = $9
           AND user_id = $10
        RETURNING `+noteColumns,
		nullableString(n.StepID), n.Title, nullableTime(n.InterviewedOn), string(n.Format), nullableString(n.Interviewers),
		nullableString(n.Questions), nullableString(n.Reflection), n.UpdatedAt, n.ID, n.UserID)

	updated, err := scanNote(row)
	if err != nil {
		return nil, translateNotePgError(err)
	}
	return updated, nil
}

// Delete は面接メモを削除します。
func (r *InterviewNoteRepository) Delete(ctx context.Context, id, userID string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM interview_notes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translateNotePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return interview.ErrNoteNotFound
	}
	return nil
}

// FindByID は ID で面接メモを取得します。
func (r *InterviewNoteRepository) FindByID(ctx context.Context, id, userID string) (*interview.Note, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+noteColumns+`
          FROM interview_notes
         WHERE id = $1
           AND user_id = $2
         LIMIT 1
    `, id, userID)

	found, err := scanNote(row)
	if err != nil {
		return nil, translateNotePgError(err)
	}
	return found, nil
}

// ListByCompany は企業の面接メモを面接日の新しい順に返します。
func (r *InterviewNoteRepository) ListByCompany(ctx context.Context, companyID, userID string) ([]*interview.Note, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+noteColumns+`
          FROM interview_notes
         WHERE company_id = $1
           AND user_id = $2
         ORDER BY interviewed_on DESC NULLS LAST, created_at DESC, id DESC
    `, companyID, userID)
	if err != nil {
		return nil, translateNotePgError(err)
	}
	defer rows.Close()

	notes := make([]*interview.Note, 0)
	for rows.Next() {
		found, err := scanNote(rows)
		if err != nil {
			return nil, translateNotePgError(err)
		}
		notes = append(notes, found)
	}
	if err := rows.Err(); err != nil {
		return nil, translateNotePgError(err)
	}
	return notes, nil
}

func scanNote(row pgx.Row) (*interview.Note, error) {
	var (
		n             interview.Note
		stepID        sql.NullString
		interviewedOn sql.NullTime
		format        string
		interviewers  sql.NullString
		questions     sql.NullString
		reflection    sql.NullString
	)

	if err := row.Scan(&n.ID, &n.UserID, &n.CompanyID, &stepID, &n.Title, &interviewedOn, &format,
		&interviewers, &questions, &reflection, &n.CreatedAt, &n.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, interview.ErrNoteNotFound
		}
		return nil, err
	}

	n.StepID = stringPtr(stepID)
	n.InterviewedOn = dateInUTC(timePtr(interviewedOn))
	n.Format = interview.Format(format)
	n.Interviewers = stringPtr(interviewers)
	n.Questions = stringPtr(questions)
	n.Reflection = stringPtr(reflection)
	return &n, nil
}

func translateNotePgError(err error) error {
	switch pgErrorCode(err) {
	case invalidTextRepresentation:
		return interview.ErrNoteNotFound
	case foreignKeyViolationCode:
		return interview.ErrCompanyNotFound
	case checkViolationCode:
		return interview.ErrInvalidFormat
	}
	return err
}
