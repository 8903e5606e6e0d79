package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/profile"
	pgdb "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/db/postgres"
)

const profileColumns = `user_id, university, faculty, graduation_year, desired_industries, desired_job_types,
               strengths, self_pr, gakuchika, updated_at`

// ProfileRepository は PostgreSQL を利用したプロフィール永続化の実装です。
type ProfileRepository struct {
	pool pgdb.Queryer
}

// NewProfileRepository は ProfileRepository を生成します。
func NewProfileRepository(pool pgdb.Queryer) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Find は利用者のプロフィールを取得します。
func (r *ProfileRepository) Find(ctx context.Context, userID string) (*profile.Profile, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+profileColumns+`
          FROM profiles
         WHERE user_id = $1
         LIMIT 1
    `, userID)

	found, err := scanProfile(row)
	if err != nil {
		return nil, translateProfilePgError(err)
	}
	return found, nil
}

// Upsert はプロフィールを作成または置き換えます。
func (r *ProfileRepository) Upsert(ctx context.Context, p *profile.Profile) (*profile.Profile, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO profiles (user_id, university, faculty, graduation_year, desired_industries,
                              desired_job_types, strengths, self_pr, gakuchika, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (user_id) DO UPDATE
           SET university = EXCLUDED.university,
               faculty = EXCLUDED.faculty,
               graduation_year = EXCLUDED.graduation_year,
               desired_industries = EXCLUDED.desired_industries,
               desired_job_types = EXCLUDED.desired_job_types,
               strengths = EXCLUDED.strengths,
               self_pr = EXCLUDED.self_pr,
               gakuchika = EXCLUDED.gakuchika,
               updated_at = EXCLUDED.updated_at
        RETURNING `+profileColumns,
		p.UserID, nullableString(p.University), nullableString(p.Faculty), nullableInt(p.GraduationYear),
		nonNilStrings(p.DesiredIndustries), nonNilStrings(p.DesiredJobTypes),
		nullableString(p.Strengths), nullableString(p.SelfPR), nullableString(p.Gakuchika), p.UpdatedAt)

	saved, err := scanProfile(row)
	if err != nil {
		return nil, translateProfilePgError(err)
	}
	return saved, nil
}

func scanProfile(row pgx.Row) (*profile.Profile, error) {
	var (
		p              profile.Profile
		university     sql.NullString
		faculty        sql.NullString
		graduationYear sql.NullInt64
		industries     []string
		jobTypes       []string
		strengths      sql.NullString
		selfPR         sql.NullString
		gakuchika      sql.NullString
	)

	if err := row.Scan(&p.UserID, &university, &faculty, &graduationYear, &industries, &jobTypes,
		&strengths, &selfPR, &gakuchika, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, err
	}

	p.University = stringPtr(university)
	p.Faculty = stringPtr(faculty)
	p.GraduationYear = intPtr(graduationYear)
	p.DesiredIndustries = nonNilStrings(industries)
	p.DesiredJobTypes = nonNilStrings(jobTypes)
	p.Strengths = stringPtr(strengths)
	p.SelfPR = stringPtr(selfPR)
	p.Gakuchika = stringPtr(gakuchika)
	return &p, nil
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func translateProfilePgError(err error) error {
	switch pgErrorCode(err) {
	case invalidTextRepresentation, foreignKeyViolationCode:
		return profile.ErrInvalidUserID
	case checkViolationCode:
		return profile.ErrInvalidGraduationYear
	}
	return err
}
