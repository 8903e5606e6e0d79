package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/research"
	pgdb "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/db/postgres"
)

// ResearchRepository は研究シートを company_research テーブルの JSONB 列へ保存します。
type ResearchRepository struct {
	pool pgdb.Queryer
}

// NewResearchRepository は ResearchRepository を生成します。
func NewResearchRepository(pool pgdb.Queryer) *ResearchRepository {
	return &ResearchRepository{pool: pool}
}

// Find は企業の研究シートを取得します。
func (r *ResearchRepository) Find(ctx context.Context, companyID, userID string) (*research.Research, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT company_id, user_id, sections, updated_at
          FROM company_research
         WHERE company_id = $1
           AND user_id = $2
         LIMIT 1
    `, companyID, userID)

	found, err := scanResearch(row)
	if err != nil {
		return nil, translateResearchPgError(err)
	}
	return found, nil
}

// Upsert は研究シートを丸ごと置き換えます。
func (r *ResearchRepository) Upsert(ctx context.Context, rs *research.Research) (*research.Research, error) {
	payload, err := encodeSections(rs.Sections)
	if err != nil {
		return nil, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO company_research (company_id, user_id, sections, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (company_id) DO UPDATE
           SET sections = EXCLUDED.sections,
               updated_at = EXCLUDED.updated_at
         WHERE company_research.user_id = EXCLUDED.user_id
        RETURNING company_id, user_id, sections, updated_at
    `, rs.CompanyID, rs.UserID, payload, rs.UpdatedAt)

	saved, err := scanResearch(row)
	if err != nil {
		if errors.Is(err, research.ErrResearchNotFound) {
			return nil, research.ErrCompanyNotFound
		}
		return nil, translateResearchPgError(err)
	}
	return saved, nil
}

// Delete は研究シートを削除します。
func (r *ResearchRepository) Delete(ctx context.Context, companyID, userID string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM company_research WHERE company_id = $1 AND user_id = $2`, companyID, userID)
	if err != nil {
		return translateResearchPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return research.ErrResearchNotFound
	}
	return nil
}

func encodeSections(sections map[research.Section]string) ([]byte, error) {
	out := make(map[string]string, len(sections))
	for section, text := range sections {
		out[string(section)] = text
	}
	payload, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode research sections: %w", err)
	}
	return payload, nil
}

func scanResearch(row pgx.Row) (*research.Research, error) {
	var (
		rs        research.Research
		payload   []byte
		updatedAt time.Time
	)

	if err := row.Scan(&rs.CompanyID, &rs.UserID, &payload, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, research.ErrResearchNotFound
		}
		return nil, err
	}

	raw := map[string]string{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &raw); err != nil {
			return nil, fmt.Errorf("decode research sections: %w", err)
		}
	}

	rs.Sections = make(map[research.Section]string, len(raw))
	for key, text := range raw {
		section := research.Section(key)
		if !section.Valid() || text == "" {
			continue
		}
		rs.Sections[section] = text
	}
	rs.UpdatedAt = updatedAt
	return &rs, nil
}

func translateResearchPgError(err error) error {
	switch pgErrorCode(err) {
	case invalidTextRepresentation:
		return research.ErrResearchNotFound
	case foreignKeyViolationCode:
		return research.ErrCompanyNotFound
	}
	return err
}
