package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/company"
	pgdb "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/db/postgres"
)

const companyColumns = `id, user_id, name, industry, website_url, mypage_url, priority, memo,
               status, next_step, next_deadline, created_at, updated_at`

// CompanyRepository は PostgreSQL を利用した企業永続化の実装です。
type CompanyRepository struct {
	pool pgdb.Queryer
}

// NewCompanyRepository は CompanyRepository を生成します。
func NewCompanyRepository(pool pgdb.Queryer) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// Create は企業を新規作成します。
func (r *CompanyRepository) Create(ctx context.Context, c *company.Company) (*company.Company, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO companies (user_id, name, industry, website_url, mypage_url, priority, memo,
                               status, next_step, next_deadline, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING `+companyColumns,
		c.UserID, c.Name, nullableString(c.Industry), nullableString(c.WebsiteURL), nullableString(c.MyPageURL),
		string(c.Priority), nullableString(c.Memo), c.Status, nullableString(c.NextStep), nullableTime(c.NextDeadline),
		c.CreatedAt, c.UpdatedAt)

	created, err := scanCompany(row)
	if err != nil {
		return nil, translateCompanyPgError(err)
	}
	return created, nil
}

// Update は企業情報を更新します。
func (r *CompanyRepository) Update(ctx context.Context, c *company.Company) (*company.Company, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE companies
           SET name = $1,
               industry = $2,
               website_url = $3,
               mypage_url = $4,
               priority = $5,
               memo = $6,
               status = $7,
               next_step = $8,
               next_deadline = $9,
               updated_at = $10
         WHERE id = $11
           AND user_id = $12
        RETURNING `+companyColumns,
		c.Name, nullableString(c.Industry), nullableString(c.WebsiteURL), nullableString(c.MyPageURL),
		string(c.Priority), nullableString(c.Memo), c.Status, nullableString(c.NextStep), nullableTime(c.NextDeadline),
		c.UpdatedAt, c.ID, c.UserID)

	updated, err := scanCompany(row)
	if err != nil {
		return nil, translateCompanyPgError(err)
	}
	return updated, nil
}

// Delete は企業を削除します。選考ステップと研究シートは外部キーで連鎖削除されます。
func (r *CompanyRepository) Delete(ctx context.Context, id, userID string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM companies WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translateCompanyPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}

// FindByID は ID で企業を取得します。
func (r *CompanyRepository) FindByID(ctx context.Context, id, userID string) (*company.Company, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+companyColumns+`
          FROM companies
         WHERE id = $1
           AND user_id = $2
         LIMIT 1
    `, id, userID)

	found, err := scanCompany(row)
	if err != nil {
		return nil, translateCompanyPgError(err)
	}
	return found, nil
}

// List は利用者の企業を更新日時の新しい順に取得します。
func (r *CompanyRepository) List(ctx context.Context, filter company.ListCompaniesFilter) ([]*company.Company, string, error) {
	if filter.Limit <= 0 || filter.Offset < 0 {
		return nil, "", errors.New("postgres: invalid page bounds")
	}

	args := []any{filter.UserID}
	conditions := []string{"user_id = $1"}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, "status = "+placeholder(args))
	}
	if filter.Priority != nil {
		args = append(args, string(*filter.Priority))
		conditions = append(conditions, "priority = "+placeholder(args))
	}

	args = append(args, filter.Limit+1)
	limitPlaceholder := placeholder(args)
	args = append(args, filter.Offset)
	offsetPlaceholder := placeholder(args)

	query := `
        SELECT ` + companyColumns + `
          FROM companies
         WHERE ` + strings.Join(conditions, " AND ") + `
         ORDER BY updated_at DESC, id DESC
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder + `
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateCompanyPgError(err)
	}
	defer rows.Close()

	var companies []*company.Company
	for rows.Next() {
		found, err := scanCompany(rows)
		if err != nil {
			return nil, "", translateCompanyPgError(err)
		}
		companies = append(companies, found)
	}

	if err := rows.Err(); err != nil {
		return nil, "", translateCompanyPgError(err)
	}

	var nextToken string
	if len(companies) > filter.Limit {
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
		companies = companies[:filter.Limit]
	}

	return companies, nextToken, nil
}

func scanCompany(row pgx.Row) (*company.Company, error) {
	var (
		c            company.Company
		priority     string
		industry     sql.NullString
		websiteURL   sql.NullString
		myPageURL    sql.NullString
		memo         sql.NullString
		nextStep     sql.NullString
		nextDeadline sql.NullTime
	)

	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &industry, &websiteURL, &myPageURL, &priority, &memo,
		&c.Status, &nextStep, &nextDeadline, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, company.ErrCompanyNotFound
		}
		return nil, err
	}

	c.Industry = stringPtr(industry)
	c.WebsiteURL = stringPtr(websiteURL)
	c.MyPageURL = stringPtr(myPageURL)
	c.Priority = company.Priority(priority)
	c.Memo = stringPtr(memo)
	c.NextStep = stringPtr(nextStep)
	c.NextDeadline = dateInUTC(timePtr(nextDeadline))
	return &c, nil
}

// dateInUTC は DATE 列を UTC の 0 時として扱います。
func dateInUTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

func translateCompanyPgError(err error) error {
	switch {
	case isMalformedID(err):
		return company.ErrCompanyNotFound
	case pgErrorCode(err) == foreignKeyViolationCode:
		return company.ErrInvalidUserID
	case pgErrorCode(err) == checkViolationCode:
		return company.ErrInvalidPriority
	}
	return err
}
