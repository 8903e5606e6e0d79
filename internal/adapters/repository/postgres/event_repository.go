package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/event"
	pgdb "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/db/postgres"
)

const eventColumns = `id, user_id, company_id, title, kind, starts_at, ends_at, location,
               remind_before_minutes, memo, created_at, updated_at`

// EventRepository は PostgreSQL を利用した予定永続化の実装です。
type EventRepository struct {
	pool pgdb.Queryer
}

// NewEventRepository は EventRepository を生成します。
func NewEventRepository(pool pgdb.Queryer) *EventRepository {
	return &EventRepository{pool: pool}
}

// Create は予定を新規作成します。
func (r *EventRepository) Create(ctx context.Context, e *event.Event) (*event.Event, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO events (user_id, company_id, title, kind, starts_at, ends_at, location,
                            remind_before_minutes, memo, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING `+eventColumns,
		e.UserID, nullableString(e.CompanyID), e.Title, string(e.Kind), e.StartsAt, nullableTime(e.EndsAt),
		nullableString(e.Location), nullableInt(e.RemindBeforeMinutes), nullableString(e.Memo), e.CreatedAt, e.UpdatedAt)

	created, err := scanEvent(row)
	if err != nil {
		return nil, translateEventPgError(err)
	}
	return created, nil
}

// Update は予定を更新します。
func (r *EventRepository) Update(ctx context.Context, e *event.Event) (*event.Event, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE events
           SET company_id = $1,
               title = $2,
               kind = $3,
               starts_at = $4,
               ends_at = $5,
               location = $6,
               remind_before_minutes = $7,
               memo = $8,
               updated_at = $9
         WHERE id = $10
           AND user_id = $11
        RETURNING `+eventColumns,
		nullableString(e.CompanyID), e.Title, string(e.Kind), e.StartsAt, nullableTime(e.EndsAt),
		nullableString(e.Location), nullableInt(e.RemindBeforeMinutes), nullableString(e.Memo), e.UpdatedAt, e.ID, e.UserID)

	updated, err := scanEvent(row)
	if err != nil {
		return nil, translateEventPgError(err)
	}
	return updated, nil
}

// Delete は予定を削除します。
func (r *EventRepository) Delete(ctx context.Context, id, userID string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM events WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translateEventPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// FindByID は ID で予定を取得します。
func (r *EventRepository) FindByID(ctx context.Context, id, userID string) (*event.Event, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+eventColumns+`
          FROM events
         WHERE id = $1
           AND user_id = $2
         LIMIT 1
    `, id, userID)

	found, err := scanEvent(row)
	if err != nil {
		return nil, translateEventPgError(err)
	}
	return found, nil
}

// ListInRange は開始時刻が [From, To) に含まれる予定を返します。
func (r *EventRepository) ListInRange(ctx context.Context, filter event.RangeFilter) ([]*event.Event, error) {
	args := []any{filter.UserID, filter.From, filter.To}
	query := `
        SELECT ` + eventColumns + `
          FROM events
         WHERE user_id = $1
           AND starts_at >= $2
           AND starts_at < $3`
	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		query += `
           AND company_id = ` + placeholder(args)
	}
	query += `
         ORDER BY starts_at ASC, id ASC
    `

	return r.list(ctx, query, args...)
}

// ListDueReminders は starts_at - remind_before_minutes <= now < starts_at を満たす予定を返します。
func (r *EventRepository) ListDueReminders(ctx context.Context, userID string, now time.Time) ([]*event.Event, error) {
	return r.list(ctx, `
        SELECT `+eventColumns+`
          FROM events
         WHERE user_id = $1
           AND remind_before_minutes IS NOT NULL
           AND starts_at - make_interval(mins => remind_before_minutes) <= $2
           AND starts_at > $2
         ORDER BY starts_at ASC, id ASC
    `, userID, now)
}

func (r *EventRepository) list(ctx context.Context, query string, args ...any) ([]*event.Event, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateEventPgError(err)
	}
	defer rows.Close()

	events := make([]*event.Event, 0)
	for rows.Next() {
		found, err := scanEvent(rows)
		if err != nil {
			return nil, translateEventPgError(err)
		}
		events = append(events, found)
	}
	if err := rows.Err(); err != nil {
		return nil, translateEventPgError(err)
	}
	return events, nil
}

func scanEvent(row pgx.Row) (*event.Event, error) {
	var (
		e         event.Event
		companyID sql.NullString
		kind      string
		endsAt    sql.NullTime
		location  sql.NullString
		remind    sql.NullInt64
		memo      sql.NullString
	)

	if err := row.Scan(&e.ID, &e.UserID, &companyID, &e.Title, &kind, &e.StartsAt, &endsAt, &location,
		&remind, &memo, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, event.ErrEventNotFound
		}
		return nil, err
	}

	e.CompanyID = stringPtr(companyID)
	e.Kind = event.Kind(kind)
	e.StartsAt = e.StartsAt.UTC()
	if t := timePtr(endsAt); t != nil {
		u := t.UTC()
		e.EndsAt = &u
	}
	e.Location = stringPtr(location)
	e.RemindBeforeMinutes = intPtr(remind)
	e.Memo = stringPtr(memo)
	return &e, nil
}

func translateEventPgError(err error) error {
	switch pgErrorCode(err) {
	case invalidTextRepresentation:
		return event.ErrEventNotFound
	case foreignKeyViolationCode:
		return event.ErrCompanyNotFound
	case checkViolationCode:
		return event.ErrInvalidTimeRange
	}
	return err
}
